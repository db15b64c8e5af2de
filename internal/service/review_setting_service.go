package service

import (
	"context"
	"errors"

	"github.com/haierkeys/note-review-service/internal/domain"
	"github.com/haierkeys/note-review-service/internal/dto"
	"github.com/haierkeys/note-review-service/pkg/code"
	"github.com/haierkeys/note-review-service/pkg/timex"

	"github.com/creasty/defaults"
	"gorm.io/gorm"
)

// ReviewSettingService 定义回顾配置业务服务接口
// 配置按 用户+仓库 维度存储，读取时对空字段应用默认值
type ReviewSettingService interface {
	// Get 获取指定仓库的回顾配置（仓库不存在时自动创建）
	Get(ctx context.Context, uid int64, vaultName string) (*dto.ReviewSettingDTO, error)

	// Modify 全量更新指定仓库的回顾配置
	Modify(ctx context.Context, uid int64, params *dto.ReviewSettingModifyRequest) (*dto.ReviewSettingDTO, error)
}

// reviewSettingService 实现 ReviewSettingService 接口
type reviewSettingService struct {
	repo         domain.ReviewSettingRepository
	vaultService VaultService
}

// NewReviewSettingService 创建 ReviewSettingService 实例
func NewReviewSettingService(repo domain.ReviewSettingRepository, vaultService VaultService) ReviewSettingService {
	return &reviewSettingService{
		repo:         repo,
		vaultService: vaultService,
	}
}

// domainToDTO 将领域模型转换为 DTO，空字段应用默认值
func (s *reviewSettingService) domainToDTO(vaultName string, setting *domain.ReviewSetting) *dto.ReviewSettingDTO {
	d := &dto.ReviewSettingDTO{
		Vault:                vaultName,
		DailyNotesFolder:     setting.DailyNotesFolder,
		ReviewSectionHeading: setting.ReviewSectionHeading,
		LinePrefix:           setting.LinePrefix,
		MonthlyNoteFolder:    setting.MonthlyNoteFolder,
		MonthlyNoteFormat:    setting.MonthlyNoteFormat,
		MonthlyTemplatePath:  setting.MonthlyTemplatePath,
		UpdatedAt:            timex.Time(setting.UpdatedAt),
	}
	_ = defaults.Set(d)
	return d
}

// Get 获取指定仓库的回顾配置
// 配置记录不存在时返回默认配置，不落库
func (s *reviewSettingService) Get(ctx context.Context, uid int64, vaultName string) (*dto.ReviewSettingDTO, error) {

	vault, err := s.vaultService.GetOrCreate(ctx, uid, vaultName)
	if err != nil {
		return nil, err
	}

	setting, err := s.repo.GetByVault(ctx, vault.ID, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 尚未保存过配置，按零值记录应用默认值
			return s.domainToDTO(vaultName, &domain.ReviewSetting{VaultID: vault.ID, UID: uid}), nil
		}
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	return s.domainToDTO(vaultName, setting), nil
}

// Modify 全量更新指定仓库的回顾配置
// 客户端发送完整配置对象，空字符串原样存储（默认值在读取时应用）
func (s *reviewSettingService) Modify(ctx context.Context, uid int64, params *dto.ReviewSettingModifyRequest) (*dto.ReviewSettingDTO, error) {

	vault, err := s.vaultService.GetOrCreate(ctx, uid, params.Vault)
	if err != nil {
		return nil, err
	}

	setting := &domain.ReviewSetting{
		UID:                  uid,
		VaultID:              vault.ID,
		DailyNotesFolder:     params.DailyNotesFolder,
		ReviewSectionHeading: params.ReviewSectionHeading,
		LinePrefix:           params.LinePrefix,
		MonthlyNoteFolder:    params.MonthlyNoteFolder,
		MonthlyNoteFormat:    params.MonthlyNoteFormat,
		MonthlyTemplatePath:  params.MonthlyTemplatePath,
	}

	saved, err := s.repo.Save(ctx, setting, uid)
	if err != nil {
		return nil, code.ErrorDBQuery.WithDetails(err.Error())
	}

	return s.domainToDTO(params.Vault, saved), nil
}

var _ ReviewSettingService = (*reviewSettingService)(nil)
