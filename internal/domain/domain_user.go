package domain

import "time"

// User 用户领域模型
type User struct {
	UID       int64
	Email     string
	Username  string
	Password  string
	Salt      string
	Token     string
	Avatar    string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt time.Time
}

// HasEmail 是否登记了邮箱, 备份告警依赖邮箱
func (u *User) HasEmail() bool {
	return u.Email != ""
}

// HasAvatar 是否设置了头像
func (u *User) HasAvatar() bool {
	return u.Avatar != ""
}

// IsActive 账号是否可用 (未删除)
func (u *User) IsActive() bool {
	return !u.IsDeleted
}
