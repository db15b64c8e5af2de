package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/haierkeys/note-review-service/global"
	"github.com/haierkeys/note-review-service/internal/domain"
	"github.com/haierkeys/note-review-service/internal/dto"
	"github.com/haierkeys/note-review-service/pkg/code"
	"github.com/haierkeys/note-review-service/pkg/logger"
	"github.com/haierkeys/note-review-service/pkg/timex"
	"github.com/haierkeys/note-review-service/pkg/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// PeriodicNoteService 定义周期笔记解析服务接口
// 负责在仓库中定位指定周期的笔记，未命中时创建
//
// 集合枚举失败时直接返回错误，不尝试创建；创建是解析过程中
// 唯一的写入副作用。
type PeriodicNoteService interface {
	// Resolve 定位指定周期的笔记，未命中时创建
	// 返回值 created 标识笔记是否由本次调用创建
	Resolve(ctx context.Context, uid int64, vaultID int64, period domain.Period, settings *dto.ReviewSettingDTO) (*domain.Note, bool, error)

	// Lookup 定位指定周期的笔记，未命中时返回 nil 而不创建
	Lookup(ctx context.Context, uid int64, vaultID int64, period domain.Period, settings *dto.ReviewSettingDTO) (*domain.Note, error)

	// WithClient 设置客户端信息（用于新建笔记的来源标记）
	WithClient(name string) PeriodicNoteService
}

// periodicNoteService 实现 PeriodicNoteService 接口
type periodicNoteService struct {
	noteRepo   domain.NoteRepository
	sf         *singleflight.Group
	clientName string
}

// NewPeriodicNoteService 创建 PeriodicNoteService 实例
func NewPeriodicNoteService(noteRepo domain.NoteRepository) PeriodicNoteService {
	return &periodicNoteService{
		noteRepo: noteRepo,
		sf:       &singleflight.Group{},
	}
}

// WithClient 设置客户端信息
func (s *periodicNoteService) WithClient(name string) PeriodicNoteService {
	return &periodicNoteService{
		noteRepo:   s.noteRepo,
		sf:         s.sf,
		clientName: name,
	}
}

// resolveResult 单飞合并的解析结果
type resolveResult struct {
	note    *domain.Note
	created bool
}

// Resolve 定位指定周期的笔记，未命中时创建
func (s *periodicNoteService) Resolve(ctx context.Context, uid int64, vaultID int64, period domain.Period, settings *dto.ReviewSettingDTO) (*domain.Note, bool, error) {

	// Singleflight 合并同一用户同一周期的并发解析，保证创建只执行一次
	key := fmt.Sprintf("periodic_resolve_%d_%d_%s", uid, vaultID, period.Key())
	result, err, _ := s.sf.Do(key, func() (interface{}, error) {

		collection, err := s.collect(ctx, vaultID, uid, settings)
		if err != nil {
			return nil, err
		}

		if note, ok := collection[period.Key()]; ok {
			return &resolveResult{note: note, created: false}, nil
		}

		note, err := s.create(ctx, uid, vaultID, period, settings)
		if err != nil {
			return nil, err
		}
		return &resolveResult{note: note, created: true}, nil
	})
	if err != nil {
		return nil, false, err
	}

	r := result.(*resolveResult)
	return r.note, r.created, nil
}

// Lookup 定位指定周期的笔记，未命中时返回 nil 而不创建
func (s *periodicNoteService) Lookup(ctx context.Context, uid int64, vaultID int64, period domain.Period, settings *dto.ReviewSettingDTO) (*domain.Note, error) {

	collection, err := s.collect(ctx, vaultID, uid, settings)
	if err != nil {
		return nil, err
	}
	return collection[period.Key()], nil
}

// collect 枚举月度笔记目录并按周期键建立集合
// 名称不符合周期布局的笔记直接忽略
func (s *periodicNoteService) collect(ctx context.Context, vaultID, uid int64, settings *dto.ReviewSettingDTO) (domain.NoteCollection, error) {

	prefix := folderPrefix(settings.MonthlyNoteFolder)
	notes, err := s.noteRepo.ListByPathPrefix(ctx, prefix, vaultID, uid)
	if err != nil {
		return nil, code.ErrorReviewCollectionUnavailable.WithDetails(err.Error())
	}

	collection := make(domain.NoteCollection, len(notes))
	for _, note := range notes {
		period, ok := domain.ParsePeriod(note.Name(), settings.MonthlyNoteFormat)
		if !ok {
			continue
		}
		collection[period.Key()] = note
	}
	return collection, nil
}

// create 创建指定周期的笔记
// 配置了模板时以模板内容做种子，并在 frontmatter 中记录周期键
func (s *periodicNoteService) create(ctx context.Context, uid int64, vaultID int64, period domain.Period, settings *dto.ReviewSettingDTO) (*domain.Note, error) {

	name := period.Format(settings.MonthlyNoteFormat)
	notePath := folderPrefix(settings.MonthlyNoteFolder) + name + ".md"
	content := s.seedContent(ctx, uid, vaultID, period, settings)

	now := timex.Now().UnixMilli()
	newNote := &domain.Note{
		VaultID:     vaultID,
		Path:        notePath,
		PathHash:    util.EncodeHash32(notePath),
		Content:     content,
		ContentHash: util.EncodeHash32(content),
		ClientName:  s.clientName,
		Size:        int64(len(content)),
		Mtime:       now,
		Ctime:       now,
		Action:      domain.NoteActionCreate,
	}

	created, err := s.noteRepo.Create(ctx, newNote, uid)
	if err != nil {
		return nil, code.ErrorReviewNoteCreateFailed.WithDetails(err.Error())
	}
	return created, nil
}

// seedContent 生成新建周期笔记的初始内容
// 模板缺失不阻断创建，退化为仅含周期标记的内容
func (s *periodicNoteService) seedContent(ctx context.Context, uid int64, vaultID int64, period domain.Period, settings *dto.ReviewSettingDTO) string {

	body := ""
	var yamlData map[string]interface{}

	if settings.MonthlyTemplatePath != "" {
		template, err := s.noteRepo.GetByPath(ctx, settings.MonthlyTemplatePath, vaultID, uid)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				global.Logger.Warn("monthly template lookup failed",
					zap.Int64(logger.FieldUID, uid),
					zap.String(logger.FieldPath, settings.MonthlyTemplatePath),
					zap.String(logger.FieldMethod, "PeriodicNoteService.seedContent"),
					zap.Error(err),
				)
			}
		} else {
			yamlData, body, _ = util.ParseFrontmatter(template.Content)
		}
	}

	yamlData = util.MergeFrontmatter(yamlData, map[string]interface{}{
		"period": period.Key(),
	}, nil)

	return util.ReconstructContent(yamlData, body)
}

// folderPrefix 规范化目录前缀，空串表示仓库根目录
func folderPrefix(folder string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return ""
	}
	return folder + "/"
}

var _ PeriodicNoteService = (*periodicNoteService)(nil)
