package code

// 成功码
var (
	Success               = NewSuss(200, lang{en: "Success", zh_cn: "成功"})
	SuccessCreate         = NewSuss(210, lang{en: "Created successfully", zh_cn: "创建成功"})
	SuccessUpdate         = NewSuss(211, lang{en: "Updated successfully", zh_cn: "更新成功"})
	SuccessDelete         = NewSuss(212, lang{en: "Deleted successfully", zh_cn: "删除成功"})
	SuccessPasswordUpdate = NewSuss(213, lang{en: "Password updated successfully", zh_cn: "密码修改成功"})
	SuccessNoUpdate       = NewSuss(214, lang{en: "No update required", zh_cn: "无需更新"})
)

// 通用错误码
var (
	Failed                = NewError(400, lang{en: "Request failed", zh_cn: "请求失败"})
	ErrorServerInternal   = NewError(10000000, lang{en: "Server internal error", zh_cn: "服务内部错误"})
	ErrorInvalidParams    = NewError(10000001, lang{en: "Invalid request parameters", zh_cn: "入参错误"})
	ErrorNotFoundAPI      = NewError(10000002, lang{en: "API not found", zh_cn: "接口不存在"})
	ErrorTooManyRequests  = NewError(10000003, lang{en: "Too many requests", zh_cn: "请求过多"})
	ErrorDBQuery          = NewError(10000004, lang{en: "Database query error", zh_cn: "数据库查询错误"})
	ErrorConfigSaveFailed = NewError(10000005, lang{en: "Failed to save configuration", zh_cn: "配置保存失败"})
)

// 认证与权限错误码
var (
	ErrorInvalidAuthToken     = NewError(10001000, lang{en: "Invalid authorization token", zh_cn: "鉴权 Token 无效"})
	ErrorNotUserAuthToken     = NewError(10001001, lang{en: "User authorization token required", zh_cn: "未携带用户鉴权 Token"})
	ErrorInvalidUserAuthToken = NewError(10001002, lang{en: "Invalid user authorization token", zh_cn: "用户鉴权 Token 无效"})
	ErrorTokenGenerate        = NewError(10001003, lang{en: "Failed to generate token", zh_cn: "Token 生成失败"})
	ErrorUserIsNotAdmin       = NewError(10001004, lang{en: "Administrator permission required", zh_cn: "需要管理员权限"})
)

// 用户错误码
var (
	ErrorUserLoginFailed         = NewError(10002000, lang{en: "Login failed", zh_cn: "登录失败"})
	ErrorUserLoginPasswordFailed = NewError(10002001, lang{en: "Incorrect username or password", zh_cn: "用户名或密码错误"})
	ErrorUserNotFound            = NewError(10002002, lang{en: "User not found", zh_cn: "用户不存在"})
	ErrorUserPasswordNotMatch    = NewError(10002003, lang{en: "The two passwords do not match", zh_cn: "两次输入的密码不一致"})
	ErrorPasswordNotValid        = NewError(10002004, lang{en: "Password length must be 6-50 characters", zh_cn: "密码长度需在 6-50 位之间"})
	ErrorUserUsernameNotValid    = NewError(10002005, lang{en: "Username can only contain letters, numbers and underscores (3-20 characters)", zh_cn: "用户名只能包含字母、数字和下划线（3-20 位）"})
	ErrorUserRegister            = NewError(10002006, lang{en: "Registration failed", zh_cn: "注册失败"})
	ErrorUserRegisterIsDisable   = NewError(10002007, lang{en: "Registration is disabled", zh_cn: "注册已关闭"})
	ErrorUserEmailAlreadyExists  = NewError(10002008, lang{en: "Email already exists", zh_cn: "邮箱已存在"})
	ErrorUserAlreadyExists       = NewError(10002009, lang{en: "Username already exists", zh_cn: "用户名已存在"})
	ErrorUserOldPasswordFailed   = NewError(10002010, lang{en: "Old password is incorrect", zh_cn: "旧密码错误"})
)

// 仓库错误码
var (
	ErrorVaultNotFound = NewError(10003000, lang{en: "Vault not found", zh_cn: "仓库不存在"})
	ErrorVaultExist    = NewError(10003001, lang{en: "Vault already exists", zh_cn: "仓库已存在"})
)

// 笔记错误码
var (
	ErrorNoteNotFound             = NewError(10004000, lang{en: "Note not found", zh_cn: "笔记不存在"})
	ErrorNoteGetFailed            = NewError(10004001, lang{en: "Failed to get note", zh_cn: "笔记获取失败"})
	ErrorNoteListFailed           = NewError(10004002, lang{en: "Failed to list notes", zh_cn: "笔记列表获取失败"})
	ErrorNoteModifyOrCreateFailed = NewError(10004003, lang{en: "Failed to create or modify note", zh_cn: "笔记创建或修改失败"})
	ErrorNoteModifyFailed         = NewError(10004004, lang{en: "Failed to modify note", zh_cn: "笔记修改失败"})
	ErrorNoteDeleteFailed         = NewError(10004005, lang{en: "Failed to delete note", zh_cn: "笔记删除失败"})
	ErrorNoteUpdateCheckFailed    = NewError(10004006, lang{en: "Failed to check note update", zh_cn: "笔记更新检查失败"})
	ErrorRenameNoteTargetExist    = NewError(10004007, lang{en: "Rename target already exists", zh_cn: "重命名目标已存在"})
)

// 月度回顾错误码
var (
	// ErrorReviewCollectionUnavailable 无法确定目标仓库或读取其笔记集合
	ErrorReviewCollectionUnavailable = NewError(10005000, lang{en: "Monthly note collection is unavailable", zh_cn: "月度笔记集合不可用"})
	// ErrorReviewNoteCreateFailed 月度笔记创建失败
	ErrorReviewNoteCreateFailed = NewError(10005001, lang{en: "Failed to create monthly note", zh_cn: "月度笔记创建失败"})
	// ErrorPeriodicNotesDisabled 周期笔记能力未启用
	ErrorPeriodicNotesDisabled = NewError(10005002, lang{en: "Periodic notes capability is not enabled", zh_cn: "周期笔记能力未启用"})
)

// 存储错误码
var (
	ErrorInvalidStorageType  = NewError(10006000, lang{en: "Invalid storage type", zh_cn: "存储类型无效"})
	ErrorStorageNotFound     = NewError(10006001, lang{en: "Storage configuration not found", zh_cn: "存储配置不存在"})
	ErrorStorageTypeDisabled = NewError(10006002, lang{en: "Storage type is disabled", zh_cn: "存储类型未启用"})
)

// 备份错误码
var (
	ErrorBackupConfigNotFound   = NewError(10007000, lang{en: "Backup configuration not found", zh_cn: "备份配置不存在"})
	ErrorBackupVaultRequired    = NewError(10007001, lang{en: "Backup vault is required", zh_cn: "备份需要指定仓库"})
	ErrorBackupStorageIDInvalid = NewError(10007002, lang{en: "Backup storage ID is invalid", zh_cn: "备份存储 ID 无效"})
	ErrorBackupTypeUnknown      = NewError(10007003, lang{en: "Unknown backup type", zh_cn: "未知的备份类型"})
	ErrorBackupExecuteIDReq     = NewError(10007004, lang{en: "Backup execution requires config ID", zh_cn: "执行备份需要配置 ID"})
	ErrorBackupConfigDisabled   = NewError(10007005, lang{en: "Backup configuration is disabled", zh_cn: "备份配置未启用"})
	ErrorBackupGitRepoRequired  = NewError(10007006, lang{en: "Git backup requires a repository URL", zh_cn: "Git 备份需要仓库地址"})
)
