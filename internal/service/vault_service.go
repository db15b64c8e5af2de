// Package service 实现业务逻辑层
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/haierkeys/note-review-service/internal/domain"
	"github.com/haierkeys/note-review-service/internal/dto"
	"github.com/haierkeys/note-review-service/pkg/code"
	"github.com/haierkeys/note-review-service/pkg/timex"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// VaultService 定义 Vault 业务服务接口
// 提供 Vault 获取和创建的核心业务逻辑
type VaultService interface {
	// GetByName 根据名称获取 Vault
	GetByName(ctx context.Context, uid int64, name string) (*domain.Vault, error)

	// GetOrCreate 获取或创建 Vault，使用 Singleflight 合并并发请求
	GetOrCreate(ctx context.Context, uid int64, name string) (*domain.Vault, error)

	// MustGetID 获取 Vault ID，如果不存在则返回错误
	// 使用 Singleflight 合并并发请求
	MustGetID(ctx context.Context, uid int64, name string) (int64, error)

	// List 获取用户的 Vault 列表
	List(ctx context.Context, uid int64) ([]*dto.VaultDTO, error)

	// Delete 删除 Vault（软删除）
	Delete(ctx context.Context, uid int64, id int64) error

	// UpdateNoteStats 更新 Vault 的笔记统计信息
	UpdateNoteStats(ctx context.Context, noteSize, noteCount, vaultID, uid int64) error
}

// vaultService 实现 VaultService 接口
type vaultService struct {
	repo domain.VaultRepository
	sf   *singleflight.Group
}

// NewVaultService 创建 VaultService 实例
func NewVaultService(repo domain.VaultRepository) VaultService {
	return &vaultService{
		repo: repo,
		sf:   &singleflight.Group{},
	}
}

// GetByName 根据名称获取 Vault
func (s *vaultService) GetByName(ctx context.Context, uid int64, name string) (*domain.Vault, error) {
	vault, err := s.repo.GetByName(ctx, name, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.ErrorVaultNotFound
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}
	return vault, nil
}

// GetOrCreate 获取或创建 Vault
// 使用 Singleflight 合并并发请求，避免重复创建问题
func (s *vaultService) GetOrCreate(ctx context.Context, uid int64, name string) (*domain.Vault, error) {
	key := fmt.Sprintf("vault_get_or_create_%d_%s", uid, name)

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		// 先尝试获取
		vault, err := s.repo.GetByName(ctx, name, uid)
		if err == nil {
			return vault, nil
		}

		// 如果不存在，则创建
		if errors.Is(err, gorm.ErrRecordNotFound) {
			newVault := &domain.Vault{
				Name: name,
			}
			created, err := s.repo.Create(ctx, newVault, uid)
			if err != nil {
				return nil, code.ErrorDBQuery.WithDetails(err.Error())
			}
			return created, nil
		}

		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	})

	if err != nil {
		return nil, err
	}
	return result.(*domain.Vault), nil
}

// MustGetID 获取 Vault ID，如果不存在则返回错误
// 使用 Singleflight 合并并发请求
func (s *vaultService) MustGetID(ctx context.Context, uid int64, name string) (int64, error) {
	key := fmt.Sprintf("vault_must_get_id_%d_%s", uid, name)

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		vault, err := s.repo.GetByName(ctx, name, uid)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, code.ErrorVaultNotFound
			}
			return nil, code.ErrorDBQuery.WithDetails(err.Error())
		}
		return vault.ID, nil
	})

	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

// Delete 删除 Vault（软删除）
func (s *vaultService) Delete(ctx context.Context, uid int64, id int64) error {
	if _, err := s.repo.GetByID(ctx, id, uid); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return code.ErrorVaultNotFound
		}
		return code.ErrorDBQuery.WithDetails(err.Error())
	}

	if err := s.repo.Delete(ctx, id, uid); err != nil {
		return code.ErrorDBQuery.WithDetails(err.Error())
	}
	return nil
}

// UpdateNoteStats 更新 Vault 的笔记统计信息
func (s *vaultService) UpdateNoteStats(ctx context.Context, noteSize, noteCount, vaultID, uid int64) error {
	return s.repo.UpdateNoteCountSize(ctx, noteSize, noteCount, vaultID, uid)
}

// List 获取用户的 Vault 列表
func (s *vaultService) List(ctx context.Context, uid int64) ([]*dto.VaultDTO, error) {
	vaults, err := s.repo.List(ctx, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	var results []*dto.VaultDTO
	for _, vault := range vaults {
		results = append(results, s.domainToDTO(vault))
	}
	return results, nil
}

// domainToDTO 将领域模型转换为 DTO
func (s *vaultService) domainToDTO(vault *domain.Vault) *dto.VaultDTO {
	if vault == nil {
		return nil
	}
	return &dto.VaultDTO{
		ID:        vault.ID,
		Name:      vault.Name,
		NoteCount: vault.NoteCount,
		NoteSize:  vault.NoteSize,
		Size:      vault.NoteSize,
		CreatedAt: vault.CreatedAt.Format(timex.TimeLayout),
		UpdatedAt: vault.UpdatedAt.Format(timex.TimeLayout),
	}
}

// 确保 vaultService 实现了 VaultService 接口
var _ VaultService = (*vaultService)(nil)
