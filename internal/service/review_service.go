package service

import (
	"context"
	"strings"
	"time"

	"github.com/haierkeys/note-review-service/internal/domain"
	"github.com/haierkeys/note-review-service/internal/dto"
	"github.com/haierkeys/note-review-service/pkg/code"
	"github.com/haierkeys/note-review-service/pkg/section"
	"github.com/haierkeys/note-review-service/pkg/timex"
	"github.com/haierkeys/note-review-service/pkg/util"
)

// ReviewService 定义月度回顾业务服务接口
// 编排配置加载、周期解析和链接追加
type ReviewService interface {
	// AddLink 向当月月度笔记的回顾段落追加指向源笔记的 wiki 链接
	// 链接已存在时不重复写入，Modified 为 false
	AddLink(ctx context.Context, uid int64, params *dto.ReviewAddLinkRequest) (*dto.ReviewAddLinkDTO, error)

	// Open 定位当月月度笔记（必要时创建），供客户端打开
	Open(ctx context.Context, uid int64, params *dto.ReviewOpenRequest) (*dto.ReviewNoteDTO, error)

	// Entries 列出当月月度笔记回顾段落下的行，不触发创建
	Entries(ctx context.Context, uid int64, params *dto.ReviewEntriesRequest) (*dto.ReviewEntriesDTO, error)

	// WithClient 设置客户端信息
	WithClient(name, version string) ReviewService
}

// reviewService 实现 ReviewService 接口
type reviewService struct {
	settingService  ReviewSettingService
	periodicService PeriodicNoteService // nil 表示周期笔记能力未启用
	noteService     NoteService
	vaultService    VaultService
	clientName      string
	clientVer       string
}

// NewReviewService 创建 ReviewService 实例
// periodicService 传 nil 时所有操作返回 ErrorPeriodicNotesDisabled
func NewReviewService(settingService ReviewSettingService, periodicService PeriodicNoteService, noteService NoteService, vaultService VaultService) ReviewService {
	return &reviewService{
		settingService:  settingService,
		periodicService: periodicService,
		noteService:     noteService,
		vaultService:    vaultService,
	}
}

// WithClient 设置客户端信息
func (s *reviewService) WithClient(name, version string) ReviewService {
	ns := &reviewService{
		settingService:  s.settingService,
		periodicService: s.periodicService,
		noteService:     s.noteService.WithClient(name, version),
		vaultService:    s.vaultService,
		clientName:      name,
		clientVer:       version,
	}
	if s.periodicService != nil {
		ns.periodicService = s.periodicService.WithClient(name)
	}
	return ns
}

// resolveMonthly 执行公共编排前置：加载配置、能力检查、计算周期并解析月度笔记
func (s *reviewService) resolveMonthly(ctx context.Context, uid int64, vaultName string) (*domain.Note, bool, domain.Period, *dto.ReviewSettingDTO, error) {

	settings, err := s.settingService.Get(ctx, uid, vaultName)
	if err != nil {
		return nil, false, domain.Period{}, nil, err
	}

	if s.periodicService == nil {
		return nil, false, domain.Period{}, nil, code.ErrorPeriodicNotesDisabled
	}

	// 周期在单次调用内不变，始终取服务器当前时间
	period := domain.PeriodOf(time.Now())

	vaultID, err := s.vaultService.MustGetID(ctx, uid, vaultName)
	if err != nil {
		return nil, false, domain.Period{}, nil, err
	}

	note, created, err := s.periodicService.Resolve(ctx, uid, vaultID, period, settings)
	if err != nil {
		return nil, false, domain.Period{}, nil, err
	}
	return note, created, period, settings, nil
}

// AddLink 向当月月度笔记的回顾段落追加指向源笔记的 wiki 链接
func (s *reviewService) AddLink(ctx context.Context, uid int64, params *dto.ReviewAddLinkRequest) (result *dto.ReviewAddLinkDTO, err error) {
	defer func() { observeReviewOp("add_link", err) }()

	note, created, period, settings, err := s.resolveMonthly(ctx, uid, params.Vault)
	if err != nil {
		return nil, err
	}
	if created {
		reviewNotesCreatedTotal.Inc()
	}

	linkText := (&domain.Note{Path: params.Path}).Name()
	line := settings.LinePrefix + section.Link(linkText)
	newText := section.Append(note.Content, settings.ReviewSectionHeading, line)

	modified := newText != note.Content
	noteDTO := noteDomainToDTO(note)

	if modified {
		_, noteDTO, err = s.noteService.ModifyOrCreate(ctx, uid, &dto.NoteModifyOrCreateRequest{
			Vault:       params.Vault,
			Path:        note.Path,
			PathHash:    note.PathHash,
			Content:     newText,
			ContentHash: util.EncodeHash32(newText),
			Ctime:       note.Ctime,
			Mtime:       timex.Now().UnixMilli(),
		}, false)
		if err != nil {
			return nil, err
		}
		reviewLinksAppendedTotal.Inc()
	}

	return &dto.ReviewAddLinkDTO{
		Note:     noteDTO,
		Period:   period.Key(),
		Created:  created,
		Modified: modified,
		Line:     line,
	}, nil
}

// Open 定位当月月度笔记（必要时创建）
func (s *reviewService) Open(ctx context.Context, uid int64, params *dto.ReviewOpenRequest) (result *dto.ReviewNoteDTO, err error) {
	defer func() { observeReviewOp("open", err) }()

	note, created, period, _, err := s.resolveMonthly(ctx, uid, params.Vault)
	if err != nil {
		return nil, err
	}
	if created {
		reviewNotesCreatedTotal.Inc()
	}

	return &dto.ReviewNoteDTO{
		Note:    noteDomainToDTO(note),
		Period:  period.Key(),
		Created: created,
	}, nil
}

// Entries 列出当月月度笔记回顾段落下的行
// 月度笔记尚不存在时返回空列表，不触发创建
func (s *reviewService) Entries(ctx context.Context, uid int64, params *dto.ReviewEntriesRequest) (result *dto.ReviewEntriesDTO, err error) {
	defer func() { observeReviewOp("entries", err) }()

	settings, err := s.settingService.Get(ctx, uid, params.Vault)
	if err != nil {
		return nil, err
	}

	if s.periodicService == nil {
		return nil, code.ErrorPeriodicNotesDisabled
	}

	period := domain.PeriodOf(time.Now())

	vaultID, err := s.vaultService.MustGetID(ctx, uid, params.Vault)
	if err != nil {
		return nil, err
	}

	result = &dto.ReviewEntriesDTO{
		Period:  period.Key(),
		Heading: settings.ReviewSectionHeading,
	}

	note, err := s.periodicService.Lookup(ctx, uid, vaultID, period, settings)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return result, nil
	}

	result.Path = note.Path
	result.Entries = sectionEntries(note.Content, settings.ReviewSectionHeading)
	return result, nil
}

// sectionEntries 提取首个 heading 出现位置之后、下一个标题行之前的非空行
// 行内含 wiki 链接时一并解析出链接目标和别名
func sectionEntries(content string, heading string) []dto.ReviewEntry {

	idx := strings.Index(content, heading)
	if idx < 0 {
		return nil
	}

	rest := content[idx+len(heading):]
	lines := strings.Split(rest, "\n")

	var entries []dto.ReviewEntry
	// lines[0] 是标题行残余，跳过
	for _, line := range lines[1:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			break
		}
		entry := dto.ReviewEntry{Line: trimmed}
		if links := util.ParseWikiLinks(trimmed); len(links) > 0 {
			entry.LinkText = links[0].Path
			entry.Alias = links[0].Alias
		}
		entries = append(entries, entry)
	}
	return entries
}

var _ ReviewService = (*reviewService)(nil)
