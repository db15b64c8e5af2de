package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 按模型名执行建表迁移，各仓储首次接触用户库时调用
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {

	case "Note":
		return db.AutoMigrate(Note{})

	case "User":
		return db.AutoMigrate(User{})

	case "Vault":
		return db.AutoMigrate(Vault{})

	case "ReviewSetting":
		return db.AutoMigrate(ReviewSetting{})

	case "Storage":
		return db.AutoMigrate(Storage{})

	case "BackupConfig":
		return db.AutoMigrate(BackupConfig{})

	case "BackupHistory":
		return db.AutoMigrate(BackupHistory{})
	}
	return nil
}
