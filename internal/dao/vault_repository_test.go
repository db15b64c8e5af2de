package dao

import (
	"context"
	"testing"

	"github.com/haierkeys/note-review-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestVaultRepositoryCreateAndGet(t *testing.T) {
	d := newTestDao(t)
	repo := NewVaultRepository(d)
	ctx := context.Background()
	uid := int64(1)

	created, err := repo.Create(ctx, &domain.Vault{Name: "ObsidianMain"}, uid)
	assert.Nil(t, err)
	assert.True(t, created.ID > 0)
	assert.Equal(t, "ObsidianMain", created.Name)
	assert.Equal(t, uid, created.UID)

	got, err := repo.GetByName(ctx, "ObsidianMain", uid)
	assert.Nil(t, err)
	assert.Equal(t, created.ID, got.ID)

	got, err = repo.GetByID(ctx, created.ID, uid)
	assert.Nil(t, err)
	assert.Equal(t, "ObsidianMain", got.Name)
}

func TestVaultRepositoryUpdateNoteCountSize(t *testing.T) {
	d := newTestDao(t)
	repo := NewVaultRepository(d)
	ctx := context.Background()
	uid := int64(1)

	created, err := repo.Create(ctx, &domain.Vault{Name: "CountVault"}, uid)
	assert.Nil(t, err)

	err = repo.UpdateNoteCountSize(ctx, 2048, 12, created.ID, uid)
	assert.Nil(t, err)

	got, err := repo.GetByID(ctx, created.ID, uid)
	assert.Nil(t, err)
	assert.Equal(t, int64(12), got.NoteCount)
	assert.Equal(t, int64(2048), got.NoteSize)
}

func TestVaultRepositoryDelete(t *testing.T) {
	d := newTestDao(t)
	repo := NewVaultRepository(d)
	ctx := context.Background()
	uid := int64(1)

	created, err := repo.Create(ctx, &domain.Vault{Name: "Temp"}, uid)
	assert.Nil(t, err)

	err = repo.Delete(ctx, created.ID, uid)
	assert.Nil(t, err)

	// 软删除后不可见
	_, err = repo.GetByID(ctx, created.ID, uid)
	assert.Equal(t, gorm.ErrRecordNotFound, err)

	list, err := repo.List(ctx, uid)
	assert.Nil(t, err)
	assert.Len(t, list, 0)
}
