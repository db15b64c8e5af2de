package dto

// ReviewNoteModifyMessage pushed when a review action changed the monthly note
// 回顾操作修改月度笔记后推送的消息
type ReviewNoteModifyMessage struct {
	Path             string `json:"path" form:"path" example:"Monthly/2024-03.md"` // Monthly note path // 月度笔记路径
	PathHash         string `json:"pathHash" form:"pathHash" example:"nhash123"`   // Path hash // 路径哈希值
	Content          string `json:"content" form:"content" example:"## Review"`    // Note content after the change // 修改后的笔记内容
	ContentHash      string `json:"contentHash" form:"contentHash" example:"chash456"` // Content hash // 内容哈希
	Ctime            int64  `json:"ctime" form:"ctime" example:"1700000000"`       // Creation timestamp // 创建时间戳
	Mtime            int64  `json:"mtime" form:"mtime" example:"1700000000"`       // Modification timestamp // 修改时间戳
	UpdatedTimestamp int64  `json:"lastTime" form:"updatedTimestamp" example:"1700000000"` // Record update timestamp // 记录更新时间戳
	Period           string `json:"period" form:"period" example:"2024-03"`        // Period key // 周期键
}

// ReviewSettingChangedMessage pushed to other clients after a settings update
// 配置更新后推送给其他客户端的消息
type ReviewSettingChangedMessage struct {
	Setting *ReviewSettingDTO `json:"setting"` // Updated settings with defaults applied // 应用默认值后的最新配置
}
