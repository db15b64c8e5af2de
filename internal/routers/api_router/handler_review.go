package api_router

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/haierkeys/note-review-service/internal/app"
	"github.com/haierkeys/note-review-service/internal/dto"
	"github.com/haierkeys/note-review-service/internal/middleware"
	pkgapp "github.com/haierkeys/note-review-service/pkg/app"
	"github.com/haierkeys/note-review-service/pkg/code"
	apperrors "github.com/haierkeys/note-review-service/pkg/errors"
	"github.com/haierkeys/note-review-service/pkg/util"
	"go.uber.org/zap"
)

// ReviewHandler 月度回顾 API 路由处理器
// 使用 App Container 注入依赖，支持统一错误处理
type ReviewHandler struct {
	*Handler
}

// NewReviewHandler 创建 ReviewHandler 实例
func NewReviewHandler(a *app.App, wss *pkgapp.WebsocketServer) *ReviewHandler {
	return &ReviewHandler{
		Handler: NewHandlerWithWSS(a, wss),
	}
}

// AddLink 将笔记链接写入当月回顾笔记
// @Summary 添加链接到月度笔记
// @Description 在当月月度笔记的回顾段落下追加指向源笔记的 wiki 链接，链接已存在时不重复写入
// @Tags 回顾
// @Security UserAuthToken
// @Param token header string true "认证 Token"
// @Accept json
// @Produce json
// @Param params body dto.ReviewAddLinkRequest true "链接参数"
// @Success 200 {object} pkgapp.Res{data=dto.ReviewAddLinkDTO} "成功"
// @Router /api/review/link [post]
func (h *ReviewHandler) AddLink(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ReviewAddLinkRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ReviewHandler.AddLink.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	// 获取用户 ID
	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ReviewHandler.AddLink err uid=0")
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	// 计算 PathHash
	if params.PathHash == "" {
		params.PathHash = util.EncodeHash32(params.Path)
	}

	// 获取请求上下文
	ctx := c.Request.Context()

	reviewSvc := h.App.GetReviewService(app.WebClientName, "")
	result, err := reviewSvc.AddLink(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "ReviewHandler.AddLink", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))

	// 月度笔记发生变化时推送给该用户的其他客户端
	if result.Modified && result.Note != nil {
		msg := &dto.ReviewNoteModifyMessage{
			Path:             result.Note.Path,
			PathHash:         result.Note.PathHash,
			Content:          result.Note.Content,
			ContentHash:      result.Note.ContentHash,
			Ctime:            result.Note.Ctime,
			Mtime:            result.Note.Mtime,
			UpdatedTimestamp: result.Note.UpdatedTimestamp,
			Period:           result.Period,
		}
		h.WSS.BroadcastToUser(uid, code.Success.WithData(msg).WithVault(params.Vault), dto.ReviewNoteModify)
	}
}

// Open 定位当月回顾笔记
// @Summary 打开月度笔记
// @Description 定位当月月度笔记（不存在时按模板创建），返回笔记内容供客户端打开
// @Tags 回顾
// @Security UserAuthToken
// @Param token header string true "认证 Token"
// @Produce json
// @Param params query dto.ReviewOpenRequest true "查询参数"
// @Success 200 {object} pkgapp.Res{data=dto.ReviewNoteDTO} "成功"
// @Router /api/review/note [get]
func (h *ReviewHandler) Open(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ReviewOpenRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ReviewHandler.Open.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	// 获取用户 ID
	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ReviewHandler.Open err uid=0")
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	// 获取请求上下文
	ctx := c.Request.Context()

	reviewSvc := h.App.GetReviewService(app.WebClientName, "")
	result, err := reviewSvc.Open(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "ReviewHandler.Open", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))

	// 首次创建也同步给其他客户端
	if result.Created && result.Note != nil {
		msg := &dto.ReviewNoteModifyMessage{
			Path:             result.Note.Path,
			PathHash:         result.Note.PathHash,
			Content:          result.Note.Content,
			ContentHash:      result.Note.ContentHash,
			Ctime:            result.Note.Ctime,
			Mtime:            result.Note.Mtime,
			UpdatedTimestamp: result.Note.UpdatedTimestamp,
			Period:           result.Period,
		}
		h.WSS.BroadcastToUser(uid, code.Success.WithData(msg).WithVault(params.Vault), dto.ReviewNoteModify)
	}
}

// Entries 获取回顾段落条目列表
// @Summary 获取回顾条目
// @Description 列出当月月度笔记回顾段落下的条目，月度笔记不存在时返回空列表（不触发创建）
// @Tags 回顾
// @Security UserAuthToken
// @Param token header string true "认证 Token"
// @Produce json
// @Param params query dto.ReviewEntriesRequest true "查询参数"
// @Success 200 {object} pkgapp.Res{data=dto.ReviewEntriesDTO} "成功"
// @Router /api/review/entries [get]
func (h *ReviewHandler) Entries(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ReviewEntriesRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ReviewHandler.Entries.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	// 获取用户 ID
	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ReviewHandler.Entries err uid=0")
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	// 获取请求上下文
	ctx := c.Request.Context()

	reviewSvc := h.App.GetReviewService(app.WebClientName, "")
	result, err := reviewSvc.Entries(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "ReviewHandler.Entries", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(result))
}

// SettingGet 获取回顾配置
// @Summary 获取回顾配置
// @Description 获取指定仓库的回顾配置，空字段已应用默认值
// @Tags 回顾
// @Security UserAuthToken
// @Param token header string true "认证 Token"
// @Produce json
// @Param params query dto.ReviewSettingGetRequest true "查询参数"
// @Success 200 {object} pkgapp.Res{data=dto.ReviewSettingDTO} "成功"
// @Router /api/review/setting [get]
func (h *ReviewHandler) SettingGet(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ReviewSettingGetRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ReviewHandler.SettingGet.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	// 获取用户 ID
	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ReviewHandler.SettingGet err uid=0")
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	// 获取请求上下文
	ctx := c.Request.Context()

	setting, err := h.App.ReviewSettingService.Get(ctx, uid, params.Vault)
	if err != nil {
		h.logError(ctx, "ReviewHandler.SettingGet", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(setting))
}

// SettingModify 更新回顾配置
// @Summary 更新回顾配置
// @Description 全量更新指定仓库的回顾配置，空字段原样保存（读取时应用默认值）
// @Tags 回顾
// @Security UserAuthToken
// @Param token header string true "认证 Token"
// @Accept json
// @Produce json
// @Param params body dto.ReviewSettingModifyRequest true "配置参数"
// @Success 200 {object} pkgapp.Res{data=dto.ReviewSettingDTO} "成功"
// @Router /api/review/setting [put]
func (h *ReviewHandler) SettingModify(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.ReviewSettingModifyRequest{}

	// 参数绑定和验证
	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("ReviewHandler.SettingModify.BindAndValid err", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	// 获取用户 ID
	uid := pkgapp.GetUID(c)
	if uid == 0 {
		h.App.Logger().Error("ReviewHandler.SettingModify err uid=0")
		response.ToResponse(code.ErrorInvalidUserAuthToken)
		return
	}

	// 获取请求上下文
	ctx := c.Request.Context()

	setting, err := h.App.ReviewSettingService.Modify(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "ReviewHandler.SettingModify", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(setting))

	// 配置变更推送给该用户的其他客户端
	msg := &dto.ReviewSettingChangedMessage{Setting: setting}
	h.WSS.BroadcastToUser(uid, code.Success.WithData(msg).WithVault(params.Vault), dto.ReviewSettingChanged)
}

// logError 记录错误日志，包含 Trace ID
func (h *ReviewHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
