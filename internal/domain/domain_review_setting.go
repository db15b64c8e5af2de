package domain

import "time"

// ReviewSetting 每个用户每个仓库一条的回顾配置记录
//
// DailyNotesFolder 仅作为客户端日记流程的存放位置提示，月度回顾
// 逻辑不读取该字段。
type ReviewSetting struct {
	ID                   int64
	UID                  int64
	VaultID              int64
	DailyNotesFolder     string
	ReviewSectionHeading string
	LinePrefix           string
	MonthlyNoteFolder    string
	MonthlyNoteFormat    string
	MonthlyTemplatePath  string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
