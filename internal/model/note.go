package model

import "github.com/haierkeys/note-review-service/pkg/timex"

const TableNameNote = "note"

// Note mapped from table <note>
// 正文内容保存在磁盘 content.txt 中，content 列仅为兼容保留
type Note struct {
	ID               int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	VaultID          int64      `gorm:"column:vault_id;not null;index:idx_vault_path_hash,priority:1" json:"vaultId" form:"vaultId"`
	Action           string     `gorm:"column:action;not null;default:create" json:"action" form:"action"`
	Path             string     `gorm:"column:path;not null" json:"path" form:"path"`
	PathHash         string     `gorm:"column:path_hash;not null;index:idx_vault_path_hash,priority:2" json:"pathHash" form:"pathHash"`
	Content          string     `gorm:"column:content" json:"content" form:"content"`
	ContentHash      string     `gorm:"column:content_hash" json:"contentHash" form:"contentHash"`
	ClientName       string     `gorm:"column:client_name" json:"clientName" form:"clientName"`
	Size             int64      `gorm:"column:size;default:0" json:"size" form:"size"`
	Ctime            int64      `gorm:"column:ctime;default:0" json:"ctime" form:"ctime"`
	Mtime            int64      `gorm:"column:mtime;default:0" json:"mtime" form:"mtime"`
	UpdatedTimestamp int64      `gorm:"column:updated_timestamp;default:0;index:idx_updated_timestamp" json:"updatedTimestamp" form:"updatedTimestamp"`
	CreatedAt        timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt        timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Note's table name
func (*Note) TableName() string {
	return TableNameNote
}
