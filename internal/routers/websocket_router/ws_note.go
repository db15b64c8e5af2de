package websocket_router

import (
	"github.com/haierkeys/note-review-service/internal/app"
	"github.com/haierkeys/note-review-service/internal/dto"
	pkgapp "github.com/haierkeys/note-review-service/pkg/app"
	"github.com/haierkeys/note-review-service/pkg/code"
	"github.com/haierkeys/note-review-service/pkg/convert"
	"github.com/haierkeys/note-review-service/pkg/logger"
	"github.com/haierkeys/note-review-service/pkg/timex"

	"go.uber.org/zap"
)

// NoteWSHandler WebSocket 笔记动作处理器
// 使用 App Container 注入依赖
type NoteWSHandler struct {
	*WSHandler
}

// NewNoteWSHandler 创建 NoteWSHandler 实例
func NewNoteWSHandler(a *app.App) *NoteWSHandler {
	return &NoteWSHandler{
		WSHandler: NewWSHandler(a),
	}
}

// NoteModify 处理客户端推送的笔记修改或创建
// 服务端内容与客户端一致时跳过写入，写入成功后广播给该用户的其他客户端
func (h *NoteWSHandler) NoteModify(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.NoteModifyOrCreateRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.note.NoteModify.BindAndValid")
		return
	}
	if params.PathHash == "" {
		c.ToResponse(code.ErrorInvalidParams.WithDetails("pathHash is required"))
		return
	}
	if params.ContentHash == "" {
		c.ToResponse(code.ErrorInvalidParams.WithDetails("contentHash is required"))
		return
	}
	if params.Mtime == 0 {
		c.ToResponse(code.ErrorInvalidParams.WithDetails("mtime is required"))
		return
	}
	if params.Ctime == 0 {
		c.ToResponse(code.ErrorInvalidParams.WithDetails("ctime is required"))
		return
	}

	pkgapp.NoteModifyLog(c.TraceID, c.User.UID, "NoteModify", params.Path, params.Vault)

	ctx := c.Context()

	noteSvc := h.App.GetNoteService(c.ClientName, c.ClientVersion)

	// 检查并创建仓库，内部使用 SF 合并并发请求，避免重复创建
	// Check and create vault, concurrent requests are merged through singleflight
	h.App.VaultService.GetOrCreate(ctx, c.User.UID, params.Vault)

	checkParams := convert.StructAssign(params, &dto.NoteUpdateCheckRequest{}).(*dto.NoteUpdateCheckRequest)
	updateMode, nodeCheck, err := noteSvc.UpdateCheck(ctx, c.User.UID, checkParams)
	if err != nil {
		h.respondError(c, code.ErrorNoteModifyOrCreateFailed, err, "websocket_router.note.NoteModify.UpdateCheck")
		return
	}

	switch updateMode {
	case "UpdateContent", "Create":
		// 服务端内容与客户端一致时，跳过更新，给客户端返回成功（无更新）
		// Skip the write and answer no-update when server content equals client content
		if nodeCheck != nil && nodeCheck.ContentHash == params.ContentHash {
			h.logDebug(c, "websocket_router.note.NoteModify",
				zap.String(logger.FieldPath, params.Path),
				zap.String("contentHash", params.ContentHash))
			c.ToResponse(code.SuccessNoUpdate)
			return
		}

		_, note, err := noteSvc.ModifyOrCreate(ctx, c.User.UID, params, true)
		if err != nil {
			h.respondError(c, code.ErrorNoteModifyOrCreateFailed, err, "websocket_router.note.NoteModify.ModifyOrCreate")
			return
		}
		if note == nil {
			// mtime 与内容均一致，服务层判定无需写入
			c.ToResponse(code.SuccessNoUpdate)
			return
		}

		c.ToResponse(code.Success)
		c.BroadcastResponse(code.Success.WithData(
			dto.NoteSyncModifyMessage{
				Path:             note.Path,
				PathHash:         note.PathHash,
				Content:          note.Content,
				ContentHash:      note.ContentHash,
				Ctime:            note.Ctime,
				Mtime:            note.Mtime,
				UpdatedTimestamp: note.UpdatedTimestamp,
			},
		).WithVault(params.Vault), true, dto.NoteSyncModify)
		return

	case "UpdateMtime":
		// 通知客户端更新笔记修改时间
		// Tell the client to refresh its mtime without transferring content
		c.ToResponse(code.Success.WithData(
			dto.NoteSyncMtimeMessage{
				Path:  nodeCheck.Path,
				Ctime: nodeCheck.Ctime,
				Mtime: nodeCheck.Mtime,
			},
		).WithVault(params.Vault), dto.NoteSyncMtime)
		return
	default:
		c.ToResponse(code.SuccessNoUpdate)
		return
	}
}

// NoteModifyCheck 检查客户端笔记状态与服务端的差异
// 只做检查不写库，决定客户端是否需要上传笔记或仅同步 mtime
func (h *NoteWSHandler) NoteModifyCheck(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.NoteUpdateCheckRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.note.NoteModifyCheck.BindAndValid")
		return
	}

	ctx := c.Context()

	noteSvc := h.App.GetNoteService(c.ClientName, c.ClientVersion)

	pkgapp.NoteModifyLog(c.TraceID, c.User.UID, "NoteModifyCheck", params.Path, params.Vault)

	// 检查并创建仓库，内部使用 SF 合并并发请求，避免重复创建
	h.App.VaultService.GetOrCreate(ctx, c.User.UID, params.Vault)

	updateMode, nodeCheck, err := noteSvc.UpdateCheck(ctx, c.User.UID, params)
	if err != nil {
		h.respondError(c, code.ErrorNoteUpdateCheckFailed, err, "websocket_router.note.NoteModifyCheck.UpdateCheck")
		return
	}

	switch updateMode {
	case "UpdateContent", "Create":
		// 通知客户端上传笔记
		// Create 模式下服务端没有该笔记，回填请求中的路径信息
		c.ToResponse(code.Success.WithData(
			dto.NoteSyncNeedPushMessage{
				Path:     params.Path,
				PathHash: params.PathHash,
			},
		).WithVault(params.Vault), dto.NoteSyncNeedPush)
		return
	case "UpdateMtime":
		// 强制客户端更新 mtime，不传输笔记内容
		c.ToResponse(code.Success.WithData(
			dto.NoteSyncMtimeMessage{
				Path:  nodeCheck.Path,
				Ctime: nodeCheck.Ctime,
				Mtime: nodeCheck.Mtime,
			},
		).WithVault(params.Vault), dto.NoteSyncMtime)
		return
	default:
		c.ToResponse(code.SuccessNoUpdate)
		return
	}
}

// NoteDelete 处理客户端的笔记删除请求
// 删除成功后通知该用户的其他客户端同步删除
func (h *NoteWSHandler) NoteDelete(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.NoteDeleteRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.note.NoteDelete.BindAndValid")
		return
	}

	pkgapp.NoteModifyLog(c.TraceID, c.User.UID, "NoteDelete", params.Path, params.Vault)

	ctx := c.Context()

	noteSvc := h.App.GetNoteService(c.ClientName, c.ClientVersion)

	// 检查并创建仓库，内部使用 SF 合并并发请求，避免重复创建
	h.App.VaultService.GetOrCreate(ctx, c.User.UID, params.Vault)

	note, err := noteSvc.Delete(ctx, c.User.UID, params)
	if err != nil {
		h.respondError(c, code.ErrorNoteDeleteFailed, err, "websocket_router.note.NoteDelete.Delete")
		return
	}

	c.ToResponse(code.Success)
	c.BroadcastResponse(code.Success.WithData(
		dto.NoteSyncDeleteMessage{
			Path:     note.Path,
			PathHash: note.PathHash,
			Ctime:    note.Ctime,
			Mtime:    note.Mtime,
			Size:     note.Size,
		},
	).WithVault(params.Vault), true, dto.NoteSyncDelete)
}

// NoteRePush 响应客户端的重推请求，将服务端笔记全文下发
// 客户端在收到 NeedPush 后发现本地文件缺失时使用
func (h *NoteWSHandler) NoteRePush(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.NoteGetRequest{}
	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.note.NoteRePush.BindAndValid")
		return
	}

	pkgapp.NoteModifyLog(c.TraceID, c.User.UID, "NoteRePush", params.Path, params.Vault)

	uid := c.User.UID
	note, err := h.App.GetNoteService(c.ClientName, c.ClientVersion).Get(c.Context(), uid, params)
	if err != nil {
		h.respondError(c, code.ErrorNoteNotFound, err, "websocket_router.note.NoteRePush.Get")
		return
	}

	if note != nil && note.Action != "delete" {
		c.ToResponse(code.Success.WithData(
			dto.NoteSyncModifyMessage{
				Path:             note.Path,
				PathHash:         note.PathHash,
				Content:          note.Content,
				ContentHash:      note.ContentHash,
				Ctime:            note.Ctime,
				Mtime:            note.Mtime,
				UpdatedTimestamp: note.UpdatedTimestamp,
			},
		).WithVault(params.Vault), dto.NoteSyncModify)
	} else {
		c.ToResponse(code.ErrorNoteNotFound)
	}
}

// NoteSync 处理全量或增量笔记同步
// 将客户端提供的本地笔记摘要与服务端最近更新列表比对，
// 决定哪些笔记需要上传、下发、同步 mtime 或删除，最后发送同步结束消息。
// 同步决策在内容不一致时以 mtime 新者为准：
// 服务端较新下发 NoteSyncModify，客户端较新回复 NoteSyncNeedPush。
func (h *NoteWSHandler) NoteSync(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.NoteSyncRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.note.NoteSync.BindAndValid")
		return
	}

	ctx := c.Context()

	noteSvc := h.App.GetNoteService(c.ClientName, c.ClientVersion)

	pkgapp.NoteModifyLog(c.TraceID, c.User.UID, "NoteSync", "", params.Vault)

	// 检查并创建仓库，内部使用 SF 合并并发请求，避免重复创建
	h.App.VaultService.GetOrCreate(ctx, c.User.UID, params.Vault)

	list, err := noteSvc.ListByLastTime(ctx, c.User.UID, params)
	if err != nil {
		h.respondError(c, code.ErrorNoteListFailed, err, "websocket_router.note.NoteSync.ListByLastTime")
		return
	}

	cNotes := make(map[string]dto.NoteSyncCheckRequest)
	cNotesKeys := make(map[string]struct{})

	if len(params.Notes) > 0 {
		for _, note := range params.Notes {
			cNotes[note.PathHash] = note
			cNotesKeys[note.PathHash] = struct{}{}
		}
	}

	// 消息队列：比对产生的下发消息统一在 End 帧之后发送
	// Decisions are queued and flushed after the end frame
	var messageQueue []dto.WSQueuedMessage

	var lastTime int64
	var needUploadCount int64
	var needModifyCount int64
	var needSyncMtimeCount int64
	var needDeleteCount int64

	cDelNotesKeys := make(map[string]struct{})

	// 处理客户端删除的笔记
	if len(params.DelNotes) > 0 {
		for _, delNote := range params.DelNotes {
			// 删除前检查笔记是否存在
			getCheckParams := &dto.NoteGetRequest{
				Vault:    params.Vault,
				PathHash: delNote.PathHash,
			}
			checkNote, err := noteSvc.Get(ctx, c.User.UID, getCheckParams)

			if err == nil && checkNote != nil && checkNote.Action != "delete" {
				delParams := &dto.NoteDeleteRequest{
					Vault:    params.Vault,
					Path:     delNote.Path,
					PathHash: delNote.PathHash,
				}
				note, err := noteSvc.Delete(ctx, c.User.UID, delParams)
				if err != nil {
					h.App.Logger().Error("websocket_router.note.NoteSync.Delete",
						zap.String(logger.FieldTraceID, c.TraceID),
						zap.Int64(logger.FieldUID, c.User.UID),
						zap.String(logger.FieldPath, delNote.Path),
						zap.Error(err))
					continue
				}

				// 记录客户端已主动删除的 PathHash，避免重复下发
				cDelNotesKeys[delNote.PathHash] = struct{}{}

				// 将删除消息广播给其他客户端
				c.BroadcastResponse(code.Success.WithData(
					dto.NoteSyncDeleteMessage{
						Path:     note.Path,
						PathHash: note.PathHash,
						Ctime:    note.Ctime,
						Mtime:    note.Mtime,
						Size:     note.Size,
					},
				).WithVault(params.Vault), true, dto.NoteSyncDelete)

			} else {
				// 笔记不存在或已删除，仍记录排除并广播删除消息，保证多端一致
				h.logDebug(c, "websocket_router.note.NoteSync.Get check failed, broadcasting delete anyway",
					zap.String("pathHash", delNote.PathHash))

				cDelNotesKeys[delNote.PathHash] = struct{}{}

				c.BroadcastResponse(code.Success.WithData(
					dto.NoteSyncDeleteMessage{
						Path:     delNote.Path,
						PathHash: delNote.PathHash,
						Ctime:    0,
						Mtime:    0,
						Size:     0,
					},
				).WithVault(params.Vault), true, dto.NoteSyncDelete)
			}
		}
	}

	// 处理客户端缺失的笔记（仅限增量同步）
	if params.LastTime > 0 && len(params.MissingNotes) > 0 {
		for _, missingNote := range params.MissingNotes {
			getParams := &dto.NoteGetRequest{
				Vault:    params.Vault,
				Path:     missingNote.Path,
				PathHash: missingNote.PathHash,
			}
			note, err := noteSvc.Get(ctx, c.User.UID, getParams)
			if err != nil {
				h.logWarn(c, "websocket_router.note.NoteSync.Get",
					zap.String(logger.FieldPath, missingNote.Path),
					zap.String("pathHash", missingNote.PathHash),
					zap.Error(err))
				continue
			}
			if note != nil && note.Action != "delete" {
				messageQueue = append(messageQueue, dto.WSQueuedMessage{
					Action: dto.NoteSyncModify,
					Data: dto.NoteSyncModifyMessage{
						Path:             note.Path,
						PathHash:         note.PathHash,
						Content:          note.Content,
						ContentHash:      note.ContentHash,
						Ctime:            note.Ctime,
						Mtime:            note.Mtime,
						UpdatedTimestamp: note.UpdatedTimestamp,
					},
				})
				needModifyCount++
				// 加入排除索引
				cDelNotesKeys[note.PathHash] = struct{}{}
			}
		}
	}

	for _, note := range list {
		// 客户端刚才通过参数告知删除的笔记，跳过下发
		if _, ok := cDelNotesKeys[note.PathHash]; ok {
			continue
		}

		if note.UpdatedTimestamp >= lastTime {
			lastTime = note.UpdatedTimestamp
		}
		if note.Action == "delete" {
			// 客户端有，服务端已删除，通知客户端删除
			if _, ok := cNotes[note.PathHash]; ok {
				delete(cNotesKeys, note.PathHash)
				messageQueue = append(messageQueue, dto.WSQueuedMessage{
					Action: dto.NoteSyncDelete,
					Data: dto.NoteSyncDeleteMessage{
						Path:     note.Path,
						PathHash: note.PathHash,
						Ctime:    note.Ctime,
						Mtime:    note.Mtime,
						Size:     note.Size,
					},
				})
				needDeleteCount++
			}
		} else {
			if cNote, ok := cNotes[note.PathHash]; ok {
				delete(cNotesKeys, note.PathHash)

				if note.ContentHash == cNote.ContentHash && note.Mtime == cNote.Mtime {
					// 内容和修改时间一致，跳过
					continue
				} else if note.ContentHash != cNote.ContentHash {
					// 内容不一致，以 mtime 新者为准
					if cNote.Mtime < note.Mtime {
						// 服务端较新，下发服务端版本
						messageQueue = append(messageQueue, dto.WSQueuedMessage{
							Action: dto.NoteSyncModify,
							Data: dto.NoteSyncModifyMessage{
								Path:             note.Path,
								PathHash:         note.PathHash,
								Content:          note.Content,
								ContentHash:      note.ContentHash,
								Ctime:            note.Ctime,
								Mtime:            note.Mtime,
								UpdatedTimestamp: note.UpdatedTimestamp,
							},
						})
						needModifyCount++
					} else {
						// 客户端较新，通知客户端上传
						messageQueue = append(messageQueue, dto.WSQueuedMessage{
							Action: dto.NoteSyncNeedPush,
							Data: dto.NoteSyncNeedPushMessage{
								Path:     note.Path,
								PathHash: note.PathHash,
							},
						})
						needUploadCount++
					}
				} else {
					// 内容一致但修改时间不一致，通知客户端更新 mtime
					messageQueue = append(messageQueue, dto.WSQueuedMessage{
						Action: dto.NoteSyncMtime,
						Data: dto.NoteSyncMtimeMessage{
							Path:  note.Path,
							Ctime: note.Ctime,
							Mtime: note.Mtime,
						},
					})
					needSyncMtimeCount++
				}
			} else {
				// 客户端没有的笔记，下发创建
				messageQueue = append(messageQueue, dto.WSQueuedMessage{
					Action: dto.NoteSyncModify,
					Data: dto.NoteSyncModifyMessage{
						Path:             note.Path,
						PathHash:         note.PathHash,
						Content:          note.Content,
						ContentHash:      note.ContentHash,
						Ctime:            note.Ctime,
						Mtime:            note.Mtime,
						UpdatedTimestamp: note.UpdatedTimestamp,
					},
				})
				needModifyCount++
			}
		}
	}

	if list == nil {
		lastTime = timex.Now().UnixMilli()
	}
	if len(cNotesKeys) > 0 {
		// 服务端没有的客户端笔记，通知客户端上传
		for pathHash := range cNotesKeys {
			note := cNotes[pathHash]
			messageQueue = append(messageQueue, dto.WSQueuedMessage{
				Action: dto.NoteSyncNeedPush,
				Data: dto.NoteSyncNeedPushMessage{
					Path:     note.Path,
					PathHash: note.PathHash,
				},
			})
			needUploadCount++
		}
	}

	c.IsFirstSync.Store(true)

	// 发送 NoteSyncEnd 消息，包含所有统计计数
	c.ToResponse(code.Success.WithData(
		dto.NoteSyncEndMessage{
			LastTime:           lastTime,
			NeedUploadCount:    needUploadCount,
			NeedModifyCount:    needModifyCount,
			NeedSyncMtimeCount: needSyncMtimeCount,
			NeedDeleteCount:    needDeleteCount,
		},
	).WithVault(params.Vault), dto.NoteSyncEnd)

	// End 消息之后，逐条发送队列中的消息
	for _, item := range messageQueue {
		c.ToResponse(code.Success.WithData(item.Data).WithVault(params.Vault), item.Action)
	}
}

// UserInfo 获取用户信息并转换为 WebSocket 鉴权所需的实体
// 注册为 WebsocketServer 的用户有效性验证回调
func (h *NoteWSHandler) UserInfo(c *pkgapp.WebsocketClient, uid int64) (*pkgapp.UserSelectEntity, error) {
	// 使用 WebSocket 连接的长生命周期 context
	ctx := c.Context()
	user, err := h.App.UserService.GetInfo(ctx, uid)

	var userEntity *pkgapp.UserSelectEntity
	if user != nil {
		userEntity = convert.StructAssign(user, &pkgapp.UserSelectEntity{}).(*pkgapp.UserSelectEntity)
	}

	return userEntity, err
}
