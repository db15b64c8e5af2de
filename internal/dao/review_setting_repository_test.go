package dao

import (
	"context"
	"testing"

	"github.com/haierkeys/note-review-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestReviewSettingRepositorySaveCreatesAndUpdates(t *testing.T) {
	d := newTestDao(t)
	repo := NewReviewSettingRepository(d)
	ctx := context.Background()
	uid := int64(1)

	_, err := repo.GetByVault(ctx, 1, uid)
	assert.Equal(t, gorm.ErrRecordNotFound, err)

	created, err := repo.Save(ctx, &domain.ReviewSetting{
		VaultID:              1,
		DailyNotesFolder:     "Daily",
		ReviewSectionHeading: "## Review",
		LinePrefix:           "- ",
		MonthlyNoteFolder:    "Monthly",
		MonthlyNoteFormat:    "2006-01",
	}, uid)
	assert.Nil(t, err)
	assert.True(t, created.ID > 0)
	assert.Equal(t, uid, created.UID)

	// 再次保存应更新同一条记录
	updated, err := repo.Save(ctx, &domain.ReviewSetting{
		VaultID:              1,
		DailyNotesFolder:     "Journal",
		ReviewSectionHeading: "## Monthly Review",
		LinePrefix:           "- ",
		MonthlyNoteFolder:    "Monthly",
		MonthlyNoteFormat:    "2006-01",
	}, uid)
	assert.Nil(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "## Monthly Review", updated.ReviewSectionHeading)
	assert.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())

	got, err := repo.GetByVault(ctx, 1, uid)
	assert.Nil(t, err)
	assert.Equal(t, "Journal", got.DailyNotesFolder)
}

func TestReviewSettingRepositoryPerVault(t *testing.T) {
	d := newTestDao(t)
	repo := NewReviewSettingRepository(d)
	ctx := context.Background()
	uid := int64(1)

	_, err := repo.Save(ctx, &domain.ReviewSetting{VaultID: 1, ReviewSectionHeading: "## A"}, uid)
	assert.Nil(t, err)
	_, err = repo.Save(ctx, &domain.ReviewSetting{VaultID: 2, ReviewSectionHeading: "## B"}, uid)
	assert.Nil(t, err)

	a, err := repo.GetByVault(ctx, 1, uid)
	assert.Nil(t, err)
	assert.Equal(t, "## A", a.ReviewSectionHeading)

	b, err := repo.GetByVault(ctx, 2, uid)
	assert.Nil(t, err)
	assert.Equal(t, "## B", b.ReviewSectionHeading)
}
