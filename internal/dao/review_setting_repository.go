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

// reviewSettingRepository 实现 domain.ReviewSettingRepository 接口
type reviewSettingRepository struct {
	dao *Dao
}

// NewReviewSettingRepository 创建 ReviewSettingRepository 实例
func NewReviewSettingRepository(dao *Dao) domain.ReviewSettingRepository {
	return &reviewSettingRepository{dao: dao}
}

func (r *reviewSettingRepository) GetKey(uid int64) string {
	return "user_" + strconv.FormatInt(uid, 10)
}

// reviewSetting 获取回顾配置查询对象
func (r *reviewSettingRepository) reviewSetting(uid int64) *gorm.DB {
	key := r.GetKey(uid)
	return r.dao.UseWithOnceFunc(func(g *gorm.DB) {
		_ = model.AutoMigrate(g, "ReviewSetting")
	}, key+"#review_setting", key)
}

// toDomain 将数据库模型转换为领域模型
func (r *reviewSettingRepository) toDomain(m *model.ReviewSetting) *domain.ReviewSetting {
	if m == nil {
		return nil
	}
	return &domain.ReviewSetting{
		ID:                   m.ID,
		UID:                  m.UID,
		VaultID:              m.VaultID,
		DailyNotesFolder:     m.DailyNotesFolder,
		ReviewSectionHeading: m.ReviewSectionHeading,
		LinePrefix:           m.LinePrefix,
		MonthlyNoteFolder:    m.MonthlyNoteFolder,
		MonthlyNoteFormat:    m.MonthlyNoteFormat,
		MonthlyTemplatePath:  m.MonthlyTemplatePath,
		CreatedAt:            time.Time(m.CreatedAt),
		UpdatedAt:            time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *reviewSettingRepository) toModel(s *domain.ReviewSetting) *model.ReviewSetting {
	if s == nil {
		return nil
	}
	return &model.ReviewSetting{
		ID:                   s.ID,
		UID:                  s.UID,
		VaultID:              s.VaultID,
		DailyNotesFolder:     s.DailyNotesFolder,
		ReviewSectionHeading: s.ReviewSectionHeading,
		LinePrefix:           s.LinePrefix,
		MonthlyNoteFolder:    s.MonthlyNoteFolder,
		MonthlyNoteFormat:    s.MonthlyNoteFormat,
		MonthlyTemplatePath:  s.MonthlyTemplatePath,
		CreatedAt:            timex.Time(s.CreatedAt),
		UpdatedAt:            timex.Time(s.UpdatedAt),
	}
}

// GetByVault 获取指定仓库的回顾配置
func (r *reviewSettingRepository) GetByVault(ctx context.Context, vaultID, uid int64) (*domain.ReviewSetting, error) {
	var m model.ReviewSetting
	err := r.reviewSetting(uid).WithContext(ctx).Where("vault_id = ?", vaultID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Save 创建或更新回顾配置，每个仓库仅保留一条记录
func (r *reviewSettingRepository) Save(ctx context.Context, setting *domain.ReviewSetting, uid int64) (*domain.ReviewSetting, error) {
	var result *domain.ReviewSetting
	err := r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		m := r.toModel(setting)
		m.UID = uid

		var old model.ReviewSetting
		findErr := r.reviewSetting(uid).WithContext(ctx).Where("vault_id = ?", setting.VaultID).First(&old).Error
		if findErr == nil {
			m.ID = old.ID
			m.CreatedAt = old.CreatedAt
			m.UpdatedAt = timex.Now()
			if err := r.reviewSetting(uid).WithContext(ctx).Save(m).Error; err != nil {
				return err
			}
		} else if findErr == gorm.ErrRecordNotFound {
			m.ID = 0
			m.CreatedAt = timex.Now()
			m.UpdatedAt = timex.Now()
			if err := r.reviewSetting(uid).WithContext(ctx).Create(m).Error; err != nil {
				return err
			}
		} else {
			return findErr
		}
		result = r.toDomain(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// 确保 reviewSettingRepository 实现了 domain.ReviewSettingRepository 接口
var _ domain.ReviewSettingRepository = (*reviewSettingRepository)(nil)
