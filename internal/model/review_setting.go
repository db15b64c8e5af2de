package model

import "github.com/haierkeys/note-review-service/pkg/timex"

const TableNameReviewSetting = "review_setting"

// ReviewSetting mapped from table <review_setting>
// 每个仓库一条记录，存放月度回顾相关配置
type ReviewSetting struct {
	ID                   int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	UID                  int64      `gorm:"column:uid;not null" json:"uid" form:"uid"`
	VaultID              int64      `gorm:"column:vault_id;not null;uniqueIndex:idx_vault" json:"vaultId" form:"vaultId"`
	DailyNotesFolder     string     `gorm:"column:daily_notes_folder" json:"dailyNotesFolder" form:"dailyNotesFolder"`
	ReviewSectionHeading string     `gorm:"column:review_section_heading" json:"reviewSectionHeading" form:"reviewSectionHeading"`
	LinePrefix           string     `gorm:"column:line_prefix" json:"linePrefix" form:"linePrefix"`
	MonthlyNoteFolder    string     `gorm:"column:monthly_note_folder" json:"monthlyNoteFolder" form:"monthlyNoteFolder"`
	MonthlyNoteFormat    string     `gorm:"column:monthly_note_format" json:"monthlyNoteFormat" form:"monthlyNoteFormat"`
	MonthlyTemplatePath  string     `gorm:"column:monthly_template_path" json:"monthlyTemplatePath" form:"monthlyTemplatePath"`
	CreatedAt            timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt            timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName ReviewSetting's table name
func (*ReviewSetting) TableName() string {
	return TableNameReviewSetting
}
