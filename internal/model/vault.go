package model

import "github.com/haierkeys/note-review-service/pkg/timex"

const TableNameVault = "vault"

// Vault mapped from table <vault>
type Vault struct {
	ID        int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id" form:"id"`
	Vault     string     `gorm:"column:vault;not null;index:idx_vault" json:"vault" form:"vault"`
	NoteCount int64      `gorm:"column:note_count;default:0" json:"noteCount" form:"noteCount"`
	NoteSize  int64      `gorm:"column:note_size;default:0" json:"noteSize" form:"noteSize"`
	IsDeleted int64      `gorm:"column:is_deleted;not null;default:0" json:"isDeleted" form:"isDeleted"`
	CreatedAt timex.Time `gorm:"column:created_at;type:datetime;default:NULL;autoCreateTime:false" json:"createdAt" form:"createdAt"`
	UpdatedAt timex.Time `gorm:"column:updated_at;type:datetime;default:NULL;autoUpdateTime:false" json:"updatedAt" form:"updatedAt"`
}

// TableName Vault's table name
func (*Vault) TableName() string {
	return TableNameVault
}
