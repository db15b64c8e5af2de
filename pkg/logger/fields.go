package logger

// 日志字段命名常量, 全项目统一便于检索
const (
	// FieldTraceID 追踪 ID
	FieldTraceID = "traceId"

	// FieldUID 用户 ID
	FieldUID = "uid"

	// FieldAction 操作类型
	FieldAction = "action"

	// FieldPath 笔记路径
	FieldPath = "path"

	// FieldVault 仓库名称
	FieldVault = "vault"

	// FieldMethod 方法名称
	FieldMethod = "method"

	// FieldBucket 存储桶名称
	FieldBucket = "bucket"

	// FieldFileKey 对象键
	FieldFileKey = "fileKey"
)
