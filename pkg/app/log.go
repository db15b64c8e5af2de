package app

import (
	"github.com/haierkeys/note-review-service/pkg/logger"

	"go.uber.org/zap"
)

// NoteModifyLog 记录一次笔记相关操作的统一审计日志
// 输出字段对齐 logger 包的字段常量，便于检索
// 依赖 zap 全局日志器（服务启动时通过 zap.ReplaceGlobals 注入）
func NoteModifyLog(traceID string, uid int64, action string, path string, vault string) {
	zap.L().Info("note operation",
		zap.String(logger.FieldTraceID, traceID),
		zap.Int64(logger.FieldUID, uid),
		zap.String(logger.FieldAction, action),
		zap.String(logger.FieldPath, path),
		zap.String(logger.FieldVault, vault),
	)
}
