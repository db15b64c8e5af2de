package dao

import (
	"context"
	"strconv"
	"time"

	"github.com/haierkeys/note-review-service/internal/domain"
	"github.com/haierkeys/note-review-service/internal/model"
	"github.com/haierkeys/note-review-service/pkg/timex"

	"gorm.io/gorm"
)

type backupRepository struct {
	dao *Dao
}

// NewBackupRepository 创建 BackupRepository 实例
func NewBackupRepository(dao *Dao) domain.BackupRepository {
	return &backupRepository{dao: dao}
}

func (r *backupRepository) GetKey(uid int64) string {
	return "user_" + strconv.FormatInt(uid, 10)
}

// backup 获取备份查询对象
func (r *backupRepository) backup(uid int64) *gorm.DB {
	key := r.GetKey(uid)
	return r.dao.UseWithOnceFunc(func(g *gorm.DB) {
		_ = model.AutoMigrate(g, "BackupConfig")
		_ = model.AutoMigrate(g, "BackupHistory")
	}, key+"#backup", key)
}

func (r *backupRepository) configToDomain(m *model.BackupConfig) *domain.BackupConfig {
	if m == nil {
		return nil
	}
	return &domain.BackupConfig{
		ID:             m.ID,
		UID:            m.UID,
		VaultID:        m.VaultID,
		Type:           m.Type,
		StorageIds:     m.StorageIds,
		GitRepoURL:     m.GitRepoURL,
		GitUsername:    m.GitUsername,
		GitPassword:    m.GitPassword,
		GitBranch:      m.GitBranch,
		IsEnabled:      m.IsEnabled == 1,
		CronStrategy:   m.CronStrategy,
		CronExpression: m.CronExpression,
		RetentionDays:  m.RetentionDays,
		LastRunTime:    time.Time(m.LastRunTime),
		NextRunTime:    time.Time(m.NextRunTime),
		LastStatus:     m.LastStatus,
		LastMessage:    m.LastMessage,
		CreatedAt:      time.Time(m.CreatedAt),
		UpdatedAt:      time.Time(m.UpdatedAt),
	}
}

func (r *backupRepository) configToModel(d *domain.BackupConfig) *model.BackupConfig {
	if d == nil {
		return nil
	}
	isEnabled := int64(0)
	if d.IsEnabled {
		isEnabled = 1
	}
	return &model.BackupConfig{
		ID:             d.ID,
		UID:            d.UID,
		VaultID:        d.VaultID,
		Type:           d.Type,
		StorageIds:     d.StorageIds,
		GitRepoURL:     d.GitRepoURL,
		GitUsername:    d.GitUsername,
		GitPassword:    d.GitPassword,
		GitBranch:      d.GitBranch,
		IsEnabled:      isEnabled,
		CronStrategy:   d.CronStrategy,
		CronExpression: d.CronExpression,
		RetentionDays:  d.RetentionDays,
		LastRunTime:    timex.Time(d.LastRunTime),
		NextRunTime:    timex.Time(d.NextRunTime),
		LastStatus:     d.LastStatus,
		LastMessage:    d.LastMessage,
		CreatedAt:      timex.Time(d.CreatedAt),
		UpdatedAt:      timex.Time(d.UpdatedAt),
	}
}

func (r *backupRepository) historyToDomain(m *model.BackupHistory) *domain.BackupHistory {
	if m == nil {
		return nil
	}
	return &domain.BackupHistory{
		ID:        m.ID,
		UID:       m.UID,
		ConfigID:  m.ConfigID,
		StorageID: m.StorageID,
		Type:      m.Type,
		StartTime: time.Time(m.StartTime),
		EndTime:   time.Time(m.EndTime),
		Status:    m.Status,
		FileSize:  m.FileSize,
		FileCount: m.FileCount,
		Message:   m.Message,
		FilePath:  m.FilePath,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

func (r *backupRepository) historyToModel(d *domain.BackupHistory) *model.BackupHistory {
	if d == nil {
		return nil
	}
	return &model.BackupHistory{
		ID:        d.ID,
		UID:       d.UID,
		ConfigID:  d.ConfigID,
		StorageID: d.StorageID,
		Type:      d.Type,
		StartTime: timex.Time(d.StartTime),
		EndTime:   timex.Time(d.EndTime),
		Status:    d.Status,
		FileSize:  d.FileSize,
		FileCount: d.FileCount,
		Message:   d.Message,
		FilePath:  d.FilePath,
		CreatedAt: timex.Time(d.CreatedAt),
		UpdatedAt: timex.Time(d.UpdatedAt),
	}
}

func (r *backupRepository) GetByID(ctx context.Context, id, uid int64) (*domain.BackupConfig, error) {
	var m model.BackupConfig
	err := r.backup(uid).WithContext(ctx).Where("uid = ? AND id = ?", uid, id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.configToDomain(&m), nil
}

func (r *backupRepository) DeleteConfig(ctx context.Context, id, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		// Limit to UID for safety
		return r.backup(uid).WithContext(ctx).Where("uid = ? AND id = ?", uid, id).Delete(&model.BackupConfig{}).Error
	})
}

func (r *backupRepository) ListConfigs(ctx context.Context, uid int64) ([]*domain.BackupConfig, error) {
	var mList []*model.BackupConfig
	err := r.backup(uid).WithContext(ctx).Where("uid = ?", uid).Order("id DESC").Find(&mList).Error
	if err != nil {
		return nil, err
	}
	var result []*domain.BackupConfig
	for _, m := range mList {
		result = append(result, r.configToDomain(m))
	}
	return result, nil
}

func (r *backupRepository) SaveConfig(ctx context.Context, config *domain.BackupConfig, uid int64) (*domain.BackupConfig, error) {
	var result *domain.BackupConfig
	err := r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		m := r.configToModel(config)
		m.UID = uid

		// 如果 ID > 0，执行更新逻辑
		if config.ID > 0 {
			// 检查 ID 是否属于当前用户
			var old model.BackupConfig
			if err := r.backup(uid).WithContext(ctx).Where("uid = ? AND id = ?", uid, config.ID).First(&old).Error; err != nil {
				return err
			}
			m.CreatedAt = old.CreatedAt
			m.UpdatedAt = timex.Now()
			if err := r.backup(uid).WithContext(ctx).Save(m).Error; err != nil {
				return err
			}
		} else {
			// ID == 0，执行创建新配置逻辑
			m.CreatedAt = timex.Now()
			m.UpdatedAt = timex.Now()
			if err := r.backup(uid).WithContext(ctx).Create(m).Error; err != nil {
				return err
			}
		}
		result = r.configToDomain(m)
		return nil
	})
	return result, err
}

// ListEnabledConfigs 获取所有用户已启用的备份配置
// 备份配置按用户分库，需要先获取全部 UID 再逐库查询
func (r *backupRepository) ListEnabledConfigs(ctx context.Context) ([]*domain.BackupConfig, error) {
	uids, err := r.dao.GetAllUserUIDs()
	if err != nil {
		return nil, err
	}

	var allConfigs []*domain.BackupConfig
	for _, uid := range uids {
		var mList []*model.BackupConfig
		err := r.backup(uid).WithContext(ctx).Where("uid = ? AND is_enabled = ?", uid, 1).Find(&mList).Error
		if err != nil {
			continue
		}
		for _, m := range mList {
			allConfigs = append(allConfigs, r.configToDomain(m))
		}
	}
	return allConfigs, nil
}

func (r *backupRepository) UpdateNextRunTime(ctx context.Context, id, uid int64, nextRun time.Time) error {
	return r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		return r.backup(uid).WithContext(ctx).Model(&model.BackupConfig{}).Where("id = ?", id).Update("next_run_time", timex.Time(nextRun)).Error
	})
}

func (r *backupRepository) CreateHistory(ctx context.Context, history *domain.BackupHistory, uid int64) (*domain.BackupHistory, error) {
	var result *domain.BackupHistory
	err := r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		m := r.historyToModel(history)
		m.UID = uid
		m.CreatedAt = timex.Now()
		m.UpdatedAt = timex.Now()
		if err := r.backup(uid).WithContext(ctx).Save(m).Error; err != nil {
			return err
		}
		result = r.historyToDomain(m)
		return nil
	})
	return result, err
}

func (r *backupRepository) ListHistory(ctx context.Context, uid int64, configID int64, page, pageSize int) ([]*domain.BackupHistory, int64, error) {
	var count int64
	q := r.backup(uid).WithContext(ctx).Model(&model.BackupHistory{}).Where("uid = ? AND config_id = ?", uid, configID)
	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	var mList []*model.BackupHistory
	err := r.backup(uid).WithContext(ctx).Where("uid = ? AND config_id = ?", uid, configID).
		Order("id DESC").Offset(offset).Limit(pageSize).Find(&mList).Error
	if err != nil {
		return nil, 0, err
	}

	var list []*domain.BackupHistory
	for _, m := range mList {
		list = append(list, r.historyToDomain(m))
	}
	return list, count, nil
}

func (r *backupRepository) ListOldHistory(ctx context.Context, uid int64, configID int64, cutoffTime time.Time) ([]*domain.BackupHistory, error) {
	var mList []*model.BackupHistory
	err := r.backup(uid).WithContext(ctx).
		Where("config_id = ? AND uid = ? AND created_at < ?", configID, uid, timex.Time(cutoffTime)).
		Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var list []*domain.BackupHistory
	for _, m := range mList {
		list = append(list, r.historyToDomain(m))
	}
	return list, nil
}

func (r *backupRepository) DeleteOldHistory(ctx context.Context, uid int64, configID int64, cutoffTime time.Time) error {
	return r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		return r.backup(uid).WithContext(ctx).
			Where("config_id = ? AND uid = ? AND created_at < ?", configID, uid, timex.Time(cutoffTime)).
			Delete(&model.BackupHistory{}).Error
	})
}

// 确保 backupRepository 实现了 domain.BackupRepository 接口
var _ domain.BackupRepository = (*backupRepository)(nil)
