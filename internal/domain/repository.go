// Package domain 定义领域模型和接口
package domain

import (
	"context"
	"time"
)

// NoteRepository 笔记仓储接口
type NoteRepository interface {
	// GetByID 根据ID获取笔记
	GetByID(ctx context.Context, id, uid int64) (*Note, error)

	// GetByPathHash 根据路径哈希获取笔记（排除已删除）
	GetByPathHash(ctx context.Context, pathHash string, vaultID, uid int64) (*Note, error)

	// GetAllByPathHash 根据路径哈希获取笔记（包含所有状态）
	GetAllByPathHash(ctx context.Context, pathHash string, vaultID, uid int64) (*Note, error)

	// GetByPath 根据路径获取笔记
	GetByPath(ctx context.Context, path string, vaultID, uid int64) (*Note, error)

	// Create 创建笔记
	Create(ctx context.Context, note *Note, uid int64) (*Note, error)

	// Update 更新笔记
	Update(ctx context.Context, note *Note, uid int64) (*Note, error)

	// UpdateDelete 更新笔记为删除状态
	UpdateDelete(ctx context.Context, note *Note, uid int64) error

	// UpdateMtime 更新笔记修改时间
	UpdateMtime(ctx context.Context, mtime int64, id, uid int64) error

	// Delete 物理删除笔记
	Delete(ctx context.Context, id, uid int64) error

	// DeletePhysicalByTime 根据时间物理删除已标记删除的笔记
	DeletePhysicalByTime(ctx context.Context, timestamp, uid int64) error

	// List 分页获取笔记列表
	List(ctx context.Context, vaultID int64, page, pageSize int, uid int64, keyword string) ([]*Note, error)

	// ListCount 获取笔记数量
	ListCount(ctx context.Context, vaultID, uid int64, keyword string) (int64, error)

	// ListByUpdatedTimestamp 根据更新时间戳获取笔记列表
	ListByUpdatedTimestamp(ctx context.Context, timestamp, vaultID, uid int64) ([]*Note, error)

	// ListByPathPrefix 获取指定目录直接子级的笔记列表（排除已删除, 不含子目录）
	ListByPathPrefix(ctx context.Context, prefix string, vaultID, uid int64) ([]*Note, error)

	// CountSizeSum 获取笔记数量和大小总和
	CountSizeSum(ctx context.Context, vaultID, uid int64) (*CountSizeResult, error)
}

// VaultRepository 仓库仓储接口
type VaultRepository interface {
	// GetByID 根据ID获取仓库
	GetByID(ctx context.Context, id, uid int64) (*Vault, error)

	// GetByName 根据名称获取仓库
	GetByName(ctx context.Context, name string, uid int64) (*Vault, error)

	// Create 创建仓库
	Create(ctx context.Context, vault *Vault, uid int64) (*Vault, error)

	// UpdateNoteCountSize 更新仓库的笔记数量和大小
	UpdateNoteCountSize(ctx context.Context, noteSize, noteCount, vaultID, uid int64) error

	// List 获取仓库列表
	List(ctx context.Context, uid int64) ([]*Vault, error)

	// Delete 删除仓库（软删除）
	Delete(ctx context.Context, id, uid int64) error
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// GetByUID 根据UID获取用户
	GetByUID(ctx context.Context, uid int64) (*User, error)

	// GetByEmail 根据邮箱获取用户
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByUsername 根据用户名获取用户
	GetByUsername(ctx context.Context, username string) (*User, error)

	// Create 创建用户
	Create(ctx context.Context, user *User) (*User, error)

	// UpdatePassword 更新用户密码
	UpdatePassword(ctx context.Context, password string, uid int64) error

	// GetAllUIDs 获取所有用户UID
	GetAllUIDs(ctx context.Context) ([]int64, error)
}

// ReviewSettingRepository 回顾配置仓储接口
type ReviewSettingRepository interface {
	// GetByVault 获取指定仓库的回顾配置
	GetByVault(ctx context.Context, vaultID, uid int64) (*ReviewSetting, error)

	// Save 创建或更新回顾配置
	Save(ctx context.Context, setting *ReviewSetting, uid int64) (*ReviewSetting, error)
}

// StorageRepository 存储配置仓储接口
type StorageRepository interface {
	// GetByID 根据ID获取存储配置
	GetByID(ctx context.Context, id, uid int64) (*Storage, error)

	// Create 创建存储配置
	Create(ctx context.Context, storage *Storage, uid int64) (*Storage, error)

	// Update 更新存储配置
	Update(ctx context.Context, storage *Storage, uid int64) (*Storage, error)

	// List 获取存储配置列表
	List(ctx context.Context, uid int64) ([]*Storage, error)

	// Delete 删除存储配置
	Delete(ctx context.Context, id, uid int64) error
}

// BackupRepository 备份配置与历史仓储接口
type BackupRepository interface {
	// GetByID 根据ID获取备份配置
	GetByID(ctx context.Context, id, uid int64) (*BackupConfig, error)

	// SaveConfig 创建或更新备份配置
	SaveConfig(ctx context.Context, config *BackupConfig, uid int64) (*BackupConfig, error)

	// DeleteConfig 删除备份配置
	DeleteConfig(ctx context.Context, id, uid int64) error

	// ListConfigs 获取用户备份配置列表
	ListConfigs(ctx context.Context, uid int64) ([]*BackupConfig, error)

	// ListEnabledConfigs 获取所有用户已启用的备份配置
	ListEnabledConfigs(ctx context.Context) ([]*BackupConfig, error)

	// UpdateNextRunTime 更新下次运行时间
	UpdateNextRunTime(ctx context.Context, id, uid int64, nextRun time.Time) error

	// CreateHistory 创建备份历史
	CreateHistory(ctx context.Context, history *BackupHistory, uid int64) (*BackupHistory, error)

	// ListHistory 分页获取备份历史
	ListHistory(ctx context.Context, uid int64, configID int64, page, pageSize int) ([]*BackupHistory, int64, error)

	// ListOldHistory 获取过期备份历史
	ListOldHistory(ctx context.Context, uid int64, configID int64, cutoffTime time.Time) ([]*BackupHistory, error)

	// DeleteOldHistory 删除过期备份历史
	DeleteOldHistory(ctx context.Context, uid int64, configID int64, cutoffTime time.Time) error
}
