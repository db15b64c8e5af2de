package service

import (
	"context"
	"testing"

	"github.com/haierkeys/note-review-service/internal/domain"
	"github.com/haierkeys/note-review-service/internal/dto"

	"gorm.io/gorm"
)

type settingMockRepo struct {
	domain.ReviewSettingRepository
	setting *domain.ReviewSetting
	saved   *domain.ReviewSetting
}

func (m *settingMockRepo) GetByVault(ctx context.Context, vaultID, uid int64) (*domain.ReviewSetting, error) {
	if m.setting == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return m.setting, nil
}

func (m *settingMockRepo) Save(ctx context.Context, setting *domain.ReviewSetting, uid int64) (*domain.ReviewSetting, error) {
	m.saved = setting
	saved := *setting
	saved.ID = 1
	return &saved, nil
}

type settingMockVaultService struct {
	VaultService
	vault *domain.Vault
}

func (m *settingMockVaultService) GetOrCreate(ctx context.Context, uid int64, name string) (*domain.Vault, error) {
	return m.vault, nil
}

func newSettingServiceForTest(repo *settingMockRepo) ReviewSettingService {
	return NewReviewSettingService(repo, &settingMockVaultService{vault: &domain.Vault{ID: 7, UID: 1, Name: "main"}})
}

func TestReviewSettingService_Get_Defaults(t *testing.T) {
	ctx := context.Background()
	svc := newSettingServiceForTest(&settingMockRepo{})

	got, err := svc.Get(ctx, 1, "main")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got.Vault != "main" {
		t.Errorf("Vault = %q, want %q", got.Vault, "main")
	}
	if got.ReviewSectionHeading != "## Review" {
		t.Errorf("ReviewSectionHeading = %q, want %q", got.ReviewSectionHeading, "## Review")
	}
	if got.LinePrefix != "- " {
		t.Errorf("LinePrefix = %q, want %q", got.LinePrefix, "- ")
	}
	if got.MonthlyNoteFormat != "2006-01" {
		t.Errorf("MonthlyNoteFormat = %q, want %q", got.MonthlyNoteFormat, "2006-01")
	}
	if got.MonthlyNoteFolder != "" {
		t.Errorf("MonthlyNoteFolder = %q, want empty (vault root)", got.MonthlyNoteFolder)
	}
}

func TestReviewSettingService_Get_Existing(t *testing.T) {
	ctx := context.Background()
	repo := &settingMockRepo{
		setting: &domain.ReviewSetting{
			ID:                   1,
			UID:                  1,
			VaultID:              7,
			ReviewSectionHeading: "## 本月回顾",
			MonthlyNoteFolder:    "Periodic/Monthly",
		},
	}
	svc := newSettingServiceForTest(repo)

	got, err := svc.Get(ctx, 1, "main")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if got.ReviewSectionHeading != "## 本月回顾" {
		t.Errorf("ReviewSectionHeading = %q, want stored value", got.ReviewSectionHeading)
	}
	if got.MonthlyNoteFolder != "Periodic/Monthly" {
		t.Errorf("MonthlyNoteFolder = %q, want stored value", got.MonthlyNoteFolder)
	}
	// 未设置的字段仍应用默认值
	if got.LinePrefix != "- " {
		t.Errorf("LinePrefix = %q, want default", got.LinePrefix)
	}
	if got.MonthlyNoteFormat != "2006-01" {
		t.Errorf("MonthlyNoteFormat = %q, want default", got.MonthlyNoteFormat)
	}
}

func TestReviewSettingService_Modify(t *testing.T) {
	ctx := context.Background()
	repo := &settingMockRepo{}
	svc := newSettingServiceForTest(repo)

	got, err := svc.Modify(ctx, 1, &dto.ReviewSettingModifyRequest{
		Vault:                "main",
		ReviewSectionHeading: "## Monthly Links",
		MonthlyNoteFolder:    "/Monthly/",
		MonthlyTemplatePath:  "Templates/Monthly.md",
	})
	if err != nil {
		t.Fatalf("Modify failed: %v", err)
	}

	if repo.saved == nil {
		t.Fatal("expected setting to be saved")
	}
	if repo.saved.UID != 1 || repo.saved.VaultID != 7 {
		t.Errorf("saved owner = uid %d vault %d, want 1/7", repo.saved.UID, repo.saved.VaultID)
	}
	if repo.saved.ReviewSectionHeading != "## Monthly Links" {
		t.Errorf("saved heading = %q", repo.saved.ReviewSectionHeading)
	}
	// 全量替换：未提交的字段以空串落库
	if repo.saved.LinePrefix != "" {
		t.Errorf("saved LinePrefix = %q, want empty", repo.saved.LinePrefix)
	}

	// 返回的 DTO 已应用默认值
	if got.ReviewSectionHeading != "## Monthly Links" {
		t.Errorf("dto heading = %q", got.ReviewSectionHeading)
	}
	if got.LinePrefix != "- " {
		t.Errorf("dto LinePrefix = %q, want default applied", got.LinePrefix)
	}
	if got.MonthlyNoteFolder != "/Monthly/" {
		t.Errorf("dto MonthlyNoteFolder = %q, want raw stored value", got.MonthlyNoteFolder)
	}
}
