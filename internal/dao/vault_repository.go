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

// vaultRepository 实现 domain.VaultRepository 接口
type vaultRepository struct {
	dao *Dao
}

// NewVaultRepository 创建 VaultRepository 实例
func NewVaultRepository(dao *Dao) domain.VaultRepository {
	return &vaultRepository{dao: dao}
}

// GetKey 返回用户库键
func (r *vaultRepository) GetKey(uid int64) string {
	return "user_" + strconv.FormatInt(uid, 10)
}

// vault 获取仓库查询对象
func (r *vaultRepository) vault(uid int64) *gorm.DB {
	key := r.GetKey(uid)
	return r.dao.UseWithOnceFunc(func(g *gorm.DB) {
		_ = model.AutoMigrate(g, "Vault")
	}, key+"#vault", key)
}

// toDomain 将数据库模型转换为领域模型
func (r *vaultRepository) toDomain(m *model.Vault, uid int64) *domain.Vault {
	if m == nil {
		return nil
	}
	return &domain.Vault{
		ID:        m.ID,
		UID:       uid,
		Name:      m.Vault,
		NoteCount: m.NoteCount,
		NoteSize:  m.NoteSize,
		IsDeleted: m.IsDeleted == 1,
		CreatedAt: time.Time(m.CreatedAt),
		UpdatedAt: time.Time(m.UpdatedAt),
	}
}

// GetByID 根据ID获取仓库
func (r *vaultRepository) GetByID(ctx context.Context, id, uid int64) (*domain.Vault, error) {
	var m model.Vault
	err := r.vault(uid).WithContext(ctx).Where("id = ? AND is_deleted = ?", id, 0).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m, uid), nil
}

// GetByName 根据名称获取仓库
func (r *vaultRepository) GetByName(ctx context.Context, name string, uid int64) (*domain.Vault, error) {
	var m model.Vault
	err := r.vault(uid).WithContext(ctx).Where("vault = ? AND is_deleted = ?", name, 0).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m, uid), nil
}

// Create 创建仓库
func (r *vaultRepository) Create(ctx context.Context, vault *domain.Vault, uid int64) (*domain.Vault, error) {
	m := &model.Vault{
		Vault:     vault.Name,
		NoteCount: vault.NoteCount,
		NoteSize:  vault.NoteSize,
		IsDeleted: 0,
		CreatedAt: timex.Now(),
		UpdatedAt: timex.Now(),
	}

	err := r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		return r.vault(uid).WithContext(ctx).Create(m).Error
	})
	if err != nil {
		return nil, err
	}
	return r.toDomain(m, uid), nil
}

// UpdateNoteCountSize 更新仓库的笔记数量和大小
func (r *vaultRepository) UpdateNoteCountSize(ctx context.Context, noteSize, noteCount, vaultID, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		return r.vault(uid).WithContext(ctx).Model(&model.Vault{}).Where("id = ?", vaultID).Updates(map[string]interface{}{
			"note_size":  noteSize,
			"note_count": noteCount,
			"updated_at": timex.Now(),
		}).Error
	})
}

// List 获取仓库列表
func (r *vaultRepository) List(ctx context.Context, uid int64) ([]*domain.Vault, error) {
	var modelList []*model.Vault
	err := r.vault(uid).WithContext(ctx).Where("is_deleted = ?", 0).
		Order("id ASC").Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	var list []*domain.Vault
	for _, m := range modelList {
		list = append(list, r.toDomain(m, uid))
	}
	return list, nil
}

// Delete 删除仓库（软删除）
func (r *vaultRepository) Delete(ctx context.Context, id, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		return r.vault(uid).WithContext(ctx).Model(&model.Vault{}).Where("id = ?", id).Updates(map[string]interface{}{
			"is_deleted": 1,
			"updated_at": timex.Now(),
		}).Error
	})
}

// 确保 vaultRepository 实现了 domain.VaultRepository 接口
var _ domain.VaultRepository = (*vaultRepository)(nil)
