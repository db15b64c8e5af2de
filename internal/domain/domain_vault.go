package domain

import "time"

// Vault 仓库领域模型
type Vault struct {
	ID        int64
	UID       int64
	Name      string
	NoteCount int64
	NoteSize  int64
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsEmpty 判断仓库是否为空
func (v *Vault) IsEmpty() bool {
	return v.NoteCount == 0
}
