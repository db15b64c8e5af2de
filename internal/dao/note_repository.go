package dao

import (
	"context"
	"strconv"
	"time"

	"github.com/haierkeys/note-review-service/internal/domain"
	"github.com/haierkeys/note-review-service/internal/model"
	"github.com/haierkeys/note-review-service/pkg/app"
	"github.com/haierkeys/note-review-service/pkg/logger"
	"github.com/haierkeys/note-review-service/pkg/timex"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// noteRepository 实现 domain.NoteRepository 接口
type noteRepository struct {
	dao *Dao
}

// NewNoteRepository 创建 NoteRepository 实例
func NewNoteRepository(dao *Dao) domain.NoteRepository {
	return &noteRepository{dao: dao}
}

// GetKey 返回用户库键
func (r *noteRepository) GetKey(uid int64) string {
	return "user_" + strconv.FormatInt(uid, 10)
}

// note 获取笔记查询对象
func (r *noteRepository) note(uid int64) *gorm.DB {
	key := r.GetKey(uid)
	return r.dao.UseWithOnceFunc(func(g *gorm.DB) {
		_ = model.AutoMigrate(g, "Note")
	}, key+"#note", key)
}

// toDomain 将数据库模型转换为领域模型
func (r *noteRepository) toDomain(m *model.Note, uid int64) *domain.Note {
	if m == nil {
		return nil
	}
	note := &domain.Note{
		ID:               m.ID,
		VaultID:          m.VaultID,
		Action:           domain.NoteAction(m.Action),
		Path:             m.Path,
		PathHash:         m.PathHash,
		Content:          m.Content,
		ContentHash:      m.ContentHash,
		ClientName:       m.ClientName,
		Size:             m.Size,
		Ctime:            m.Ctime,
		Mtime:            m.Mtime,
		UpdatedTimestamp: m.UpdatedTimestamp,
		CreatedAt:        time.Time(m.CreatedAt),
		UpdatedAt:        time.Time(m.UpdatedAt),
	}
	r.fillNoteContent(uid, note)
	return note
}

// toModel 将领域模型转换为数据库模型
func (r *noteRepository) toModel(note *domain.Note) *model.Note {
	if note == nil {
		return nil
	}
	return &model.Note{
		ID:               note.ID,
		VaultID:          note.VaultID,
		Action:           string(note.Action),
		Path:             note.Path,
		PathHash:         note.PathHash,
		Content:          note.Content,
		ContentHash:      note.ContentHash,
		ClientName:       note.ClientName,
		Size:             note.Size,
		Ctime:            note.Ctime,
		Mtime:            note.Mtime,
		UpdatedTimestamp: note.UpdatedTimestamp,
		CreatedAt:        timex.Time(note.CreatedAt),
		UpdatedAt:        timex.Time(note.UpdatedAt),
	}
}

// fillNoteContent 从磁盘加载笔记内容，数据库缺失时反向落盘
func (r *noteRepository) fillNoteContent(uid int64, n *domain.Note) {
	if n == nil {
		return
	}
	folder := r.dao.GetNoteFolderPath(uid, n.ID)

	if content, exists, _ := r.dao.LoadContentFromFile(folder, "content.txt"); exists {
		n.Content = content
	} else if n.Content != "" {
		if err := r.dao.SaveContentToFile(folder, "content.txt", n.Content); err != nil {
			r.dao.Logger().Warn("lazy migration: SaveContentToFile failed for note content",
				zap.Int64(logger.FieldUID, uid),
				zap.Int64("noteId", n.ID),
				zap.String(logger.FieldMethod, "noteRepository.fillNoteContent"),
				zap.Error(err),
			)
		}
	}
}

// GetByID 根据ID获取笔记
func (r *noteRepository) GetByID(ctx context.Context, id, uid int64) (*domain.Note, error) {
	var m model.Note
	err := r.note(uid).WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m, uid), nil
}

// GetByPathHash 根据路径哈希获取笔记（排除已删除）
func (r *noteRepository) GetByPathHash(ctx context.Context, pathHash string, vaultID, uid int64) (*domain.Note, error) {
	var m model.Note
	err := r.note(uid).WithContext(ctx).Where(
		"vault_id = ? AND path_hash = ? AND action != ?", vaultID, pathHash, string(domain.NoteActionDelete),
	).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m, uid), nil
}

// GetAllByPathHash 根据路径哈希获取笔记（包含所有状态）
func (r *noteRepository) GetAllByPathHash(ctx context.Context, pathHash string, vaultID, uid int64) (*domain.Note, error) {
	var m model.Note
	err := r.note(uid).WithContext(ctx).Where(
		"vault_id = ? AND path_hash = ?", vaultID, pathHash,
	).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m, uid), nil
}

// GetByPath 根据路径获取笔记（排除已删除）
func (r *noteRepository) GetByPath(ctx context.Context, path string, vaultID, uid int64) (*domain.Note, error) {
	var m model.Note
	err := r.note(uid).WithContext(ctx).Where(
		"vault_id = ? AND path = ? AND action != ?", vaultID, path, string(domain.NoteActionDelete),
	).First(&m).Error
	if err != nil {
		return nil, err
	}
	return r.toDomain(&m, uid), nil
}

// Create 创建笔记
func (r *noteRepository) Create(ctx context.Context, note *domain.Note, uid int64) (*domain.Note, error) {
	m := r.toModel(note)

	m.UpdatedTimestamp = timex.Now().UnixMilli()
	m.CreatedAt = timex.Now()
	m.UpdatedAt = timex.Now()

	content := m.Content
	m.Content = "" // 内容不入库，落盘保存

	err := r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		return r.note(uid).WithContext(ctx).Create(m).Error
	})
	if err != nil {
		return nil, err
	}

	folder := r.dao.GetNoteFolderPath(uid, m.ID)
	_ = r.dao.SaveContentToFile(folder, "content.txt", content)

	result := r.toDomain(m, uid)
	result.Content = content
	return result, nil
}

// Update 更新笔记
func (r *noteRepository) Update(ctx context.Context, note *domain.Note, uid int64) (*domain.Note, error) {
	m := r.toModel(note)

	m.UpdatedTimestamp = timex.Now().UnixMilli()
	m.UpdatedAt = timex.Now()

	content := m.Content
	m.Content = ""

	err := r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		return r.note(uid).WithContext(ctx).Where("id = ?", m.ID).Select(
			"vault_id", "action", "path", "path_hash", "content", "content_hash",
			"client_name", "size", "ctime", "mtime", "updated_at", "updated_timestamp",
		).Updates(m).Error
	})
	if err != nil {
		return nil, err
	}

	folder := r.dao.GetNoteFolderPath(uid, m.ID)
	_ = r.dao.SaveContentToFile(folder, "content.txt", content)

	result := r.toDomain(m, uid)
	result.Content = content
	return result, nil
}

// UpdateDelete 更新笔记为删除状态
func (r *noteRepository) UpdateDelete(ctx context.Context, note *domain.Note, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		return r.note(uid).WithContext(ctx).Model(&model.Note{}).Where("id = ?", note.ID).Updates(map[string]interface{}{
			"action":            string(domain.NoteActionDelete),
			"client_name":       note.ClientName,
			"updated_timestamp": timex.Now().UnixMilli(),
			"updated_at":        timex.Now(),
		}).Error
	})
}

// UpdateMtime 更新笔记修改时间
func (r *noteRepository) UpdateMtime(ctx context.Context, mtime int64, id, uid int64) error {
	return r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		return r.note(uid).WithContext(ctx).Model(&model.Note{}).Where("id = ?", id).Updates(map[string]interface{}{
			"mtime":             mtime,
			"updated_timestamp": timex.Now().UnixMilli(),
			"updated_at":        timex.Now(),
		}).Error
	})
}

// Delete 物理删除笔记
func (r *noteRepository) Delete(ctx context.Context, id, uid int64) error {
	err := r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		return r.note(uid).WithContext(ctx).Where("id = ?", id).Delete(&model.Note{}).Error
	})
	if err != nil {
		return err
	}

	folder := r.dao.GetNoteFolderPath(uid, id)
	_ = r.dao.RemoveContentFolder(folder)

	return nil
}

// DeletePhysicalByTime 根据时间物理删除已标记删除的笔记
func (r *noteRepository) DeletePhysicalByTime(ctx context.Context, timestamp, uid int64) error {
	var ids []int64
	if err := r.note(uid).WithContext(ctx).Model(&model.Note{}).Where(
		"action = ? AND updated_timestamp < ?", string(domain.NoteActionDelete), timestamp,
	).Pluck("id", &ids).Error; err != nil {
		return err
	}

	err := r.dao.ExecuteWrite(ctx, uid, r, func(db *gorm.DB) error {
		return r.note(uid).WithContext(ctx).Where(
			"action = ? AND updated_timestamp < ?", string(domain.NoteActionDelete), timestamp,
		).Delete(&model.Note{}).Error
	})
	if err != nil {
		return err
	}

	for _, id := range ids {
		folder := r.dao.GetNoteFolderPath(uid, id)
		_ = r.dao.RemoveContentFolder(folder)
	}
	return nil
}

// List 分页获取笔记列表（排除已删除）
func (r *noteRepository) List(ctx context.Context, vaultID int64, page, pageSize int, uid int64, keyword string) ([]*domain.Note, error) {
	q := r.note(uid).WithContext(ctx).Where(
		"vault_id = ? AND action != ?", vaultID, string(domain.NoteActionDelete),
	)

	if keyword != "" {
		q = q.Where("path LIKE ?", "%"+keyword+"%")
	}

	var modelList []*model.Note
	err := q.Order("path DESC, created_at DESC").
		Limit(pageSize).
		Offset(app.GetPageOffset(page, pageSize)).
		Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	var list []*domain.Note
	for _, m := range modelList {
		list = append(list, r.toDomain(m, uid))
	}
	return list, nil
}

// ListCount 获取笔记数量（排除已删除）
func (r *noteRepository) ListCount(ctx context.Context, vaultID, uid int64, keyword string) (int64, error) {
	q := r.note(uid).WithContext(ctx).Model(&model.Note{}).Where(
		"vault_id = ? AND action != ?", vaultID, string(domain.NoteActionDelete),
	)

	if keyword != "" {
		q = q.Where("path LIKE ?", "%"+keyword+"%")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListByUpdatedTimestamp 根据更新时间戳获取笔记列表
func (r *noteRepository) ListByUpdatedTimestamp(ctx context.Context, timestamp, vaultID, uid int64) ([]*domain.Note, error) {
	var modelList []*model.Note
	err := r.note(uid).WithContext(ctx).Where(
		"vault_id = ? AND updated_timestamp > ?", vaultID, timestamp,
	).Order("updated_timestamp DESC").Find(&modelList).Error
	if err != nil {
		return nil, err
	}

	var list []*domain.Note
	for _, m := range modelList {
		list = append(list, r.toDomain(m, uid))
	}
	return list, nil
}

// ListByPathPrefix 获取指定目录直接子级的笔记列表（排除已删除, 不含子目录）
// prefix 为空时返回仓库根目录下的笔记
func (r *noteRepository) ListByPathPrefix(ctx context.Context, prefix string, vaultID, uid int64) ([]*domain.Note, error) {
	q := r.note(uid).WithContext(ctx).Where(
		"vault_id = ? AND action != ?", vaultID, string(domain.NoteActionDelete),
	)

	if prefix != "" {
		q = q.Where("path LIKE ? AND path NOT LIKE ?", prefix+"%", prefix+"%/%")
	} else {
		q = q.Where("path NOT LIKE ?", "%/%")
	}

	var modelList []*model.Note
	if err := q.Order("path ASC").Find(&modelList).Error; err != nil {
		return nil, err
	}

	var list []*domain.Note
	for _, m := range modelList {
		list = append(list, r.toDomain(m, uid))
	}
	return list, nil
}

// CountSizeSum 获取笔记数量和大小总和
func (r *noteRepository) CountSizeSum(ctx context.Context, vaultID, uid int64) (*domain.CountSizeResult, error) {
	result := &struct {
		Size  int64
		Count int64
	}{}

	err := r.note(uid).WithContext(ctx).Model(&model.Note{}).
		Select("COALESCE(SUM(size), 0) AS size, COUNT(*) AS count").
		Where("vault_id = ? AND action != ?", vaultID, string(domain.NoteActionDelete)).
		Scan(result).Error
	if err != nil {
		return nil, err
	}

	return &domain.CountSizeResult{
		Count: result.Count,
		Size:  result.Size,
	}, nil
}

// 确保 noteRepository 实现了 domain.NoteRepository 接口
var _ domain.NoteRepository = (*noteRepository)(nil)
