package dao

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/haierkeys/note-review-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// newTestDao 创建基于临时目录 sqlite 的 Dao 实例
// 笔记正文按相对路径落盘，需要先切换工作目录
func newTestDao(t *testing.T) *Dao {
	t.Helper()
	t.Chdir(t.TempDir())

	c := &DatabaseConfig{
		Type:            "sqlite",
		Path:            filepath.Join(t.TempDir(), "db.sqlite3"),
		AutoMigrate:     true,
		MaxIdleConns:    10,
		MaxOpenConns:    100,
		ConnMaxLifetime: "30m",
		ConnMaxIdleTime: "10m",
	}

	db, err := NewDBEngine(c, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	return New(db, context.Background(), WithConfig(c), WithLogger(zap.NewNop()))
}

func TestNoteRepositoryCreate(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()
	uid := int64(1)

	note := &domain.Note{
		VaultID:     1,
		Action:      domain.NoteActionCreate,
		Path:        "Monthly/2025-08.md",
		PathHash:    "hash-2025-08",
		Content:     "# 2025-08\n",
		ContentHash: "chash-1",
		ClientName:  "test-client",
		Size:        10,
		Ctime:       1700000000000,
		Mtime:       1700000000000,
	}

	created, err := repo.Create(ctx, note, uid)
	assert.Nil(t, err)
	assert.True(t, created.ID > 0)
	assert.Equal(t, note.Path, created.Path)
	assert.Equal(t, note.Content, created.Content)
	assert.True(t, created.UpdatedTimestamp > 0)

	// 正文应落盘而非入库
	folder := d.GetNoteFolderPath(uid, created.ID)
	content, exists, err := d.LoadContentFromFile(folder, "content.txt")
	assert.Nil(t, err)
	assert.True(t, exists)
	assert.Equal(t, note.Content, content)

	got, err := repo.GetByPath(ctx, note.Path, 1, uid)
	assert.Nil(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, note.Content, got.Content)

	got, err = repo.GetByPathHash(ctx, note.PathHash, 1, uid)
	assert.Nil(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestNoteRepositoryUpdate(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()
	uid := int64(1)

	created, err := repo.Create(ctx, &domain.Note{
		VaultID:  1,
		Action:   domain.NoteActionCreate,
		Path:     "Daily/2025-08-20.md",
		PathHash: "hash-daily",
		Content:  "old content",
		Size:     11,
	}, uid)
	assert.Nil(t, err)

	created.Action = domain.NoteActionModify
	created.Content = "new content"
	created.ContentHash = "chash-2"
	created.Size = 11

	updated, err := repo.Update(ctx, created, uid)
	assert.Nil(t, err)
	assert.Equal(t, "new content", updated.Content)

	got, err := repo.GetByID(ctx, created.ID, uid)
	assert.Nil(t, err)
	assert.Equal(t, "new content", got.Content)
	assert.Equal(t, domain.NoteActionModify, got.Action)
}

func TestNoteRepositoryUpdateDelete(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()
	uid := int64(1)

	created, err := repo.Create(ctx, &domain.Note{
		VaultID:  1,
		Action:   domain.NoteActionCreate,
		Path:     "trash.md",
		PathHash: "hash-trash",
		Content:  "bye",
	}, uid)
	assert.Nil(t, err)

	err = repo.UpdateDelete(ctx, &domain.Note{ID: created.ID, ClientName: "test-client"}, uid)
	assert.Nil(t, err)

	// 已删除的笔记不应出现在常规查询中
	_, err = repo.GetByPathHash(ctx, "hash-trash", 1, uid)
	assert.Equal(t, gorm.ErrRecordNotFound, err)

	// 包含所有状态的查询仍可命中
	got, err := repo.GetAllByPathHash(ctx, "hash-trash", 1, uid)
	assert.Nil(t, err)
	assert.Equal(t, domain.NoteActionDelete, got.Action)
}

func TestNoteRepositoryListByPathPrefix(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()
	uid := int64(1)

	paths := []string{
		"Monthly/2025-07.md",
		"Monthly/2025-08.md",
		"Monthly/Archive/2025-03.md",
		"Daily/2025-08-20.md",
		"2025-06.md",
	}
	for i, p := range paths {
		_, err := repo.Create(ctx, &domain.Note{
			VaultID:  1,
			Action:   domain.NoteActionCreate,
			Path:     p,
			PathHash: "hash-" + p,
			Content:  "c",
			Size:     int64(i),
		}, uid)
		assert.Nil(t, err)
	}

	// 只取目录直接子级, 子目录 Archive 下的笔记不参与
	list, err := repo.ListByPathPrefix(ctx, "Monthly/", 1, uid)
	assert.Nil(t, err)
	assert.Len(t, list, 2)
	// 路径升序
	assert.Equal(t, "Monthly/2025-07.md", list[0].Path)
	assert.Equal(t, "Monthly/2025-08.md", list[1].Path)

	// 前缀为空时只返回仓库根目录下的笔记
	root, err := repo.ListByPathPrefix(ctx, "", 1, uid)
	assert.Nil(t, err)
	assert.Len(t, root, 1)
	assert.Equal(t, "2025-06.md", root[0].Path)
}

func TestNoteRepositoryCountSizeSum(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()
	uid := int64(1)

	for i, p := range []string{"a.md", "b.md"} {
		_, err := repo.Create(ctx, &domain.Note{
			VaultID:  1,
			Action:   domain.NoteActionCreate,
			Path:     p,
			PathHash: "hash-" + p,
			Content:  "c",
			Size:     int64(100 * (i + 1)),
		}, uid)
		assert.Nil(t, err)
	}

	result, err := repo.CountSizeSum(ctx, 1, uid)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), result.Count)
	assert.Equal(t, int64(300), result.Size)
}

func TestNoteRepositoryUserIsolation(t *testing.T) {
	d := newTestDao(t)
	repo := NewNoteRepository(d)
	ctx := context.Background()

	_, err := repo.Create(ctx, &domain.Note{
		VaultID:  1,
		Action:   domain.NoteActionCreate,
		Path:     "secret.md",
		PathHash: "hash-secret",
		Content:  "user 1 only",
	}, 1)
	assert.Nil(t, err)

	// 用户库相互隔离，另一个用户查不到
	_, err = repo.GetByPathHash(ctx, "hash-secret", 1, 2)
	assert.Equal(t, gorm.ErrRecordNotFound, err)
}
