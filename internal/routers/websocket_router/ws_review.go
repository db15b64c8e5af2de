package websocket_router

import (
	"errors"

	"github.com/haierkeys/note-review-service/internal/app"
	"github.com/haierkeys/note-review-service/internal/dto"
	pkgapp "github.com/haierkeys/note-review-service/pkg/app"
	"github.com/haierkeys/note-review-service/pkg/code"
	"github.com/haierkeys/note-review-service/pkg/util"
)

// ReviewWSHandler WebSocket 月度回顾动作处理器
// 使用 App Container 注入依赖
type ReviewWSHandler struct {
	*WSHandler
}

// NewReviewWSHandler 创建 ReviewWSHandler 实例
func NewReviewWSHandler(a *app.App) *ReviewWSHandler {
	return &ReviewWSHandler{
		WSHandler: NewWSHandler(a),
	}
}

// respondServiceError 回顾动作统一错误响应
// 服务层返回业务错误码时原样下发给客户端，其余错误包装为兜底错误码
func (h *ReviewWSHandler) respondServiceError(c *pkgapp.WebsocketClient, fallback *code.Code, err error, method string) {
	h.logError(c, method, err)
	var codeErr *code.Code
	if errors.As(err, &codeErr) {
		c.ToResponse(codeErr)
		return
	}
	c.ToResponse(fallback.WithDetails(err.Error()))
}

// ReviewAddLink 将当前笔记的链接写入当月回顾笔记
// 月度笔记发生变化时广播给该用户的其他客户端
func (h *ReviewWSHandler) ReviewAddLink(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.ReviewAddLinkRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.review.ReviewAddLink.BindAndValid")
		return
	}
	if params.PathHash == "" {
		params.PathHash = util.EncodeHash32(params.Path)
	}

	pkgapp.NoteModifyLog(c.TraceID, c.User.UID, "ReviewAddLink", params.Path, params.Vault)

	ctx := c.Context()

	reviewSvc := h.App.GetReviewService(c.ClientName, c.ClientVersion)
	result, err := reviewSvc.AddLink(ctx, c.User.UID, params)
	if err != nil {
		h.respondServiceError(c, code.ErrorServerInternal, err, "websocket_router.review.ReviewAddLink.AddLink")
		return
	}

	c.ToResponse(code.Success.WithData(result).WithVault(params.Vault))

	// 月度笔记本次被写入时同步给其他客户端
	if result.Modified && result.Note != nil {
		c.BroadcastResponse(code.Success.WithData(
			dto.ReviewNoteModifyMessage{
				Path:             result.Note.Path,
				PathHash:         result.Note.PathHash,
				Content:          result.Note.Content,
				ContentHash:      result.Note.ContentHash,
				Ctime:            result.Note.Ctime,
				Mtime:            result.Note.Mtime,
				UpdatedTimestamp: result.Note.UpdatedTimestamp,
				Period:           result.Period,
			},
		).WithVault(params.Vault), true, dto.ReviewNoteModify)
	}
}

// ReviewOpen 定位当月回顾笔记（必要时创建），将笔记全文回给客户端打开
func (h *ReviewWSHandler) ReviewOpen(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.ReviewOpenRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.review.ReviewOpen.BindAndValid")
		return
	}

	pkgapp.NoteModifyLog(c.TraceID, c.User.UID, "ReviewOpen", "", params.Vault)

	ctx := c.Context()

	reviewSvc := h.App.GetReviewService(c.ClientName, c.ClientVersion)
	result, err := reviewSvc.Open(ctx, c.User.UID, params)
	if err != nil {
		h.respondServiceError(c, code.ErrorServerInternal, err, "websocket_router.review.ReviewOpen.Open")
		return
	}

	c.ToResponse(code.Success.WithData(result).WithVault(params.Vault))

	// 首次创建的月度笔记同步给其他客户端
	if result.Created && result.Note != nil {
		c.BroadcastResponse(code.Success.WithData(
			dto.ReviewNoteModifyMessage{
				Path:             result.Note.Path,
				PathHash:         result.Note.PathHash,
				Content:          result.Note.Content,
				ContentHash:      result.Note.ContentHash,
				Ctime:            result.Note.Ctime,
				Mtime:            result.Note.Mtime,
				UpdatedTimestamp: result.Note.UpdatedTimestamp,
				Period:           result.Period,
			},
		).WithVault(params.Vault), true, dto.ReviewNoteModify)
	}
}

// ReviewEntries 列出当月回顾段落下的条目，月度笔记不存在时返回空列表
func (h *ReviewWSHandler) ReviewEntries(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.ReviewEntriesRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.review.ReviewEntries.BindAndValid")
		return
	}

	ctx := c.Context()

	reviewSvc := h.App.GetReviewService(c.ClientName, c.ClientVersion)
	result, err := reviewSvc.Entries(ctx, c.User.UID, params)
	if err != nil {
		h.respondServiceError(c, code.ErrorServerInternal, err, "websocket_router.review.ReviewEntries.Entries")
		return
	}

	c.ToResponse(code.Success.WithData(result).WithVault(params.Vault))
}

// ReviewSettingGet 获取指定仓库的回顾配置，空字段已应用默认值
func (h *ReviewWSHandler) ReviewSettingGet(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.ReviewSettingGetRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.review.ReviewSettingGet.BindAndValid")
		return
	}

	ctx := c.Context()

	setting, err := h.App.ReviewSettingService.Get(ctx, c.User.UID, params.Vault)
	if err != nil {
		h.respondServiceError(c, code.ErrorServerInternal, err, "websocket_router.review.ReviewSettingGet.Get")
		return
	}

	c.ToResponse(code.Success.WithData(setting).WithVault(params.Vault))
}

// ReviewSettingModify 全量更新指定仓库的回顾配置
// 更新成功后将最新配置广播给该用户的其他客户端
func (h *ReviewWSHandler) ReviewSettingModify(c *pkgapp.WebsocketClient, msg *pkgapp.WebSocketMessage) {
	params := &dto.ReviewSettingModifyRequest{}

	valid, errs := c.BindAndValid(msg.Data, params)
	if !valid {
		h.respondErrorWithData(c, code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()), errs, errs.MapsToString(), "websocket_router.review.ReviewSettingModify.BindAndValid")
		return
	}

	pkgapp.NoteModifyLog(c.TraceID, c.User.UID, "ReviewSettingModify", "", params.Vault)

	ctx := c.Context()

	setting, err := h.App.ReviewSettingService.Modify(ctx, c.User.UID, params)
	if err != nil {
		h.respondServiceError(c, code.ErrorServerInternal, err, "websocket_router.review.ReviewSettingModify.Modify")
		return
	}

	c.ToResponse(code.Success.WithData(setting).WithVault(params.Vault))

	// 配置变更推送给该用户的其他客户端
	c.BroadcastResponse(code.Success.WithData(
		dto.ReviewSettingChangedMessage{Setting: setting},
	).WithVault(params.Vault), true, dto.ReviewSettingChanged)
}
