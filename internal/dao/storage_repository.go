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

// storageRepository 实现 domain.StorageRepository 接口
type storageRepository struct {
	dao *Dao
}

// NewStorageRepository 创建 StorageRepository 实例
func NewStorageRepository(dao *Dao) domain.StorageRepository {
	return &storageRepository{dao: dao}
}

func (r *storageRepository) GetKey(uid int64) string {
	return "user_" + strconv.FormatInt(uid, 10)
}

// storage 获取存储配置查询对象
func (r *storageRepository) storage(uid int64) *gorm.DB {
	key := r.GetKey(uid)
	return r.dao.UseWithOnceFunc(func(g *gorm.DB) {
		_ = model.AutoMigrate(g, "Storage")
	}, key+"#storage", key)
}

// toDomain 将数据库模型转换为领域模型
func (r *storageRepository) toDomain(m *model.Storage) *domain.Storage {
	if m == nil {
		return nil
	}
	return &domain.Storage{
		ID:              m.ID,
		UID:             m.UID,
		Type:            m.Type,
		Endpoint:        m.Endpoint,
		Region:          m.Region,
		AccountID:       m.AccountID,
		BucketName:      m.BucketName,
		AccessKeyID:     m.AccessKeyID,
		AccessKeySecret: m.AccessKeySecret,
		CustomPath:      m.CustomPath,
		AccessURLPrefix: m.AccessURLPrefix,
		User:            m.User,
		Password:        m.Password,
		IsDeleted:       m.IsDeleted == 1,
		CreatedAt:       time.Time(m.CreatedAt),
		UpdatedAt:       time.Time(m.UpdatedAt),
	}
}

// toModel 将领域模型转换为数据库模型
func (r *storageRepository) toModel(s *domain.Storage) *model.Storage {
	if s == nil {
		return nil
	}
	isDeleted := int64(0)
	if s.IsDeleted {
		isDeleted = 1
	}
	return &model.Storage{
		ID:              s.ID,
		UID:             s.UID,
		Type:            s.Type,
		Endpoint:        s.Endpoint,
		Region:          s.Region,
		AccountID:       s.AccountID,
		BucketName:      s.BucketName,
		AccessKeyID:     s.AccessKeyID,
		AccessKeySecret: s.AccessKeySecret,
		CustomPath:      s.CustomPath,
		AccessURLPrefix: s.AccessURLPrefix,
		User:            s.User,
		Password:        s.Password,
		IsDeleted:       isDeleted,
		CreatedAt:       timex.Time(s.CreatedAt),
		UpdatedAt:       timex.Time(s.UpdatedAt),
	}
}

// GetByID 根据ID获取存储配置
func (r *storageRepository) GetByID(ctx context.Context, id, uid int64) (*domain.Storage, error) {
	var m model.Storage
	err := r.storage(uid).WithContext(ctx).Where("id = ? AND uid = ? AND is_deleted = ?", id, uid, 0).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m), nil
}

// Create 创建存储配置
func (r *storageRepository) Create(ctx context.Context, storage *domain.Storage, uid int64) (*domain.Storage, error) {
	var result *domain.Storage

	err := r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		m := r.toModel(storage)
		m.UID = uid
		m.IsDeleted = 0
		m.CreatedAt = timex.Now()
		m.UpdatedAt = timex.Now()

		if err := r.storage(uid).WithContext(ctx).Create(m).Error; err != nil {
			return err
		}
		result = r.toDomain(m)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update 更新存储配置
func (r *storageRepository) Update(ctx context.Context, storage *domain.Storage, uid int64) (*domain.Storage, error) {
	var result *domain.Storage

	err := r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		// 获取原有记录确认归属
		var old model.Storage
		if err := r.storage(uid).WithContext(ctx).Where("id = ? AND uid = ? AND is_deleted = ?", storage.ID, uid, 0).First(&old).Error; err != nil {
			return err
		}

		m := r.toModel(storage)
		m.UID = uid
		m.CreatedAt = old.CreatedAt
		m.UpdatedAt = timex.Now()

		if err := r.storage(uid).WithContext(ctx).Save(m).Error; err != nil {
			return err
		}
		result = r.toDomain(m)
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// List 获取用户的存储配置列表
func (r *storageRepository) List(ctx context.Context, uid int64) ([]*domain.Storage, error) {
	var mList []*model.Storage
	err := r.storage(uid).WithContext(ctx).Where("uid = ? AND is_deleted = ?", uid, 0).Order("id DESC").Find(&mList).Error
	if err != nil {
		return nil, err
	}

	var list []*domain.Storage
	for _, m := range mList {
		list = append(list, r.toDomain(m))
	}
	return list, nil
}

// Delete 删除存储配置（软删除）
func (r *storageRepository) Delete(ctx context.Context, id, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		// Limit to UID for safety
		return r.storage(uid).WithContext(ctx).Model(&model.Storage{}).Where("id = ? AND uid = ?", id, uid).Updates(map[string]interface{}{
			"is_deleted": 1,
			"updated_at": timex.Now(),
		}).Error
	})
}

// 确保 storageRepository 实现了 domain.StorageRepository 接口
var _ domain.StorageRepository = (*storageRepository)(nil)
