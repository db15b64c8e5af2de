package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/haierkeys/note-review-service/internal/domain"
	"github.com/haierkeys/note-review-service/internal/dto"
	"github.com/haierkeys/note-review-service/pkg/code"
	"github.com/haierkeys/note-review-service/pkg/util"

	"gorm.io/gorm"
)

type periodicMockNoteRepo struct {
	domain.NoteRepository
	notes       []*domain.Note
	listErr     error
	gotPrefix   string
	template    *domain.Note
	createErr   error
	created     *domain.Note
	createCalls int
}

func (m *periodicMockNoteRepo) ListByPathPrefix(ctx context.Context, prefix string, vaultID, uid int64) ([]*domain.Note, error) {
	m.gotPrefix = prefix
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.notes, nil
}

func (m *periodicMockNoteRepo) GetByPath(ctx context.Context, path string, vaultID, uid int64) (*domain.Note, error) {
	if m.template != nil && m.template.Path == path {
		return m.template, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *periodicMockNoteRepo) Create(ctx context.Context, note *domain.Note, uid int64) (*domain.Note, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = note
	created := *note
	created.ID = 99
	return &created, nil
}

func periodicTestSettings() *dto.ReviewSettingDTO {
	return &dto.ReviewSettingDTO{
		ReviewSectionHeading: "## Review",
		LinePrefix:           "- ",
		MonthlyNoteFolder:    "Monthly",
		MonthlyNoteFormat:    "2006-01",
	}
}

func TestPeriodicNoteService_Resolve_Hit(t *testing.T) {
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.March}
	repo := &periodicMockNoteRepo{
		notes: []*domain.Note{
			{ID: 1, Path: "Monthly/2025-02.md"},
			{ID: 2, Path: "Monthly/2025-03.md"},
			{ID: 3, Path: "Monthly/scratch.md"}, // 名称不符合布局，忽略
		},
	}
	svc := NewPeriodicNoteService(repo)

	note, created, err := svc.Resolve(ctx, 1, 7, period, periodicTestSettings())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if created {
		t.Error("expected created = false for existing note")
	}
	if note.ID != 2 {
		t.Errorf("resolved note ID = %d, want 2", note.ID)
	}
	if repo.gotPrefix != "Monthly/" {
		t.Errorf("list prefix = %q, want %q", repo.gotPrefix, "Monthly/")
	}
	if repo.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", repo.createCalls)
	}
}

func TestPeriodicNoteService_Resolve_Create(t *testing.T) {
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.March}
	repo := &periodicMockNoteRepo{}
	svc := NewPeriodicNoteService(repo).WithClient("obsidian")

	note, created, err := svc.Resolve(ctx, 1, 7, period, periodicTestSettings())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !created {
		t.Error("expected created = true")
	}
	if note.Path != "Monthly/2025-03.md" {
		t.Errorf("created path = %q, want %q", note.Path, "Monthly/2025-03.md")
	}
	if note.PathHash != util.EncodeHash32("Monthly/2025-03.md") {
		t.Errorf("created PathHash = %q mismatch", note.PathHash)
	}
	if note.Action != domain.NoteActionCreate {
		t.Errorf("created Action = %q, want create", note.Action)
	}
	if note.ClientName != "obsidian" {
		t.Errorf("created ClientName = %q, want obsidian", note.ClientName)
	}
	// 无模板时内容退化为仅含周期标记的 frontmatter
	if !strings.Contains(note.Content, "period: 2025-03") {
		t.Errorf("created content missing period stamp: %q", note.Content)
	}
	if note.ContentHash != util.EncodeHash32(note.Content) {
		t.Error("created ContentHash mismatch")
	}
	if note.Size != int64(len(note.Content)) {
		t.Errorf("created Size = %d, want %d", note.Size, len(note.Content))
	}
}

func TestPeriodicNoteService_Resolve_CustomFormat(t *testing.T) {
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.March}
	repo := &periodicMockNoteRepo{}
	settings := periodicTestSettings()
	settings.MonthlyNoteFolder = "/Periodic/Monthly/"
	settings.MonthlyNoteFormat = "Jan 2006"

	_, created, err := NewPeriodicNoteService(repo).Resolve(ctx, 1, 7, period, settings)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !created {
		t.Error("expected created = true")
	}
	if repo.gotPrefix != "Periodic/Monthly/" {
		t.Errorf("list prefix = %q, want normalized folder", repo.gotPrefix)
	}
	if repo.created.Path != "Periodic/Monthly/Mar 2025.md" {
		t.Errorf("created path = %q", repo.created.Path)
	}
}

func TestPeriodicNoteService_Resolve_RootFolder(t *testing.T) {
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.March}
	repo := &periodicMockNoteRepo{}
	settings := periodicTestSettings()
	settings.MonthlyNoteFolder = ""

	_, _, err := NewPeriodicNoteService(repo).Resolve(ctx, 1, 7, period, settings)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if repo.gotPrefix != "" {
		t.Errorf("list prefix = %q, want empty for vault root", repo.gotPrefix)
	}
	if repo.created.Path != "2025-03.md" {
		t.Errorf("created path = %q, want at vault root", repo.created.Path)
	}
}

func TestPeriodicNoteService_Resolve_TemplateSeed(t *testing.T) {
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.March}
	repo := &periodicMockNoteRepo{
		template: &domain.Note{
			Path:    "Templates/Monthly.md",
			Content: "---\ntags: monthly\n---\n# Plan\n",
		},
	}
	settings := periodicTestSettings()
	settings.MonthlyTemplatePath = "Templates/Monthly.md"

	note, _, err := NewPeriodicNoteService(repo).Resolve(ctx, 1, 7, period, settings)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !strings.Contains(note.Content, "tags: monthly") {
		t.Errorf("content missing template frontmatter: %q", note.Content)
	}
	if !strings.Contains(note.Content, "period: 2025-03") {
		t.Errorf("content missing period stamp: %q", note.Content)
	}
	if !strings.Contains(note.Content, "# Plan") {
		t.Errorf("content missing template body: %q", note.Content)
	}
}

func TestPeriodicNoteService_Resolve_TemplateMissing(t *testing.T) {
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.March}
	repo := &periodicMockNoteRepo{}
	settings := periodicTestSettings()
	settings.MonthlyTemplatePath = "Templates/Gone.md"

	// 模板缺失不阻断创建
	note, created, err := NewPeriodicNoteService(repo).Resolve(ctx, 1, 7, period, settings)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if !created {
		t.Error("expected created = true")
	}
	if !strings.Contains(note.Content, "period: 2025-03") {
		t.Errorf("content missing period stamp: %q", note.Content)
	}
}

func TestPeriodicNoteService_Resolve_ListError(t *testing.T) {
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.March}
	repo := &periodicMockNoteRepo{listErr: errors.New("db gone")}

	_, _, err := NewPeriodicNoteService(repo).Resolve(ctx, 1, 7, period, periodicTestSettings())
	if err == nil {
		t.Fatal("expected error when enumeration fails")
	}
	if err != code.ErrorReviewCollectionUnavailable {
		t.Errorf("err = %v, want ErrorReviewCollectionUnavailable", err)
	}
	// 枚举失败时不得尝试创建
	if repo.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", repo.createCalls)
	}
}

func TestPeriodicNoteService_Resolve_CreateError(t *testing.T) {
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.March}
	repo := &periodicMockNoteRepo{createErr: errors.New("insert failed")}

	_, _, err := NewPeriodicNoteService(repo).Resolve(ctx, 1, 7, period, periodicTestSettings())
	if err == nil {
		t.Fatal("expected error when creation fails")
	}
	if err != code.ErrorReviewNoteCreateFailed {
		t.Errorf("err = %v, want ErrorReviewNoteCreateFailed", err)
	}
}

func TestPeriodicNoteService_Lookup(t *testing.T) {
	ctx := context.Background()
	period := domain.Period{Year: 2025, Month: time.March}
	repo := &periodicMockNoteRepo{
		notes: []*domain.Note{{ID: 2, Path: "Monthly/2025-03.md"}},
	}
	svc := NewPeriodicNoteService(repo)

	note, err := svc.Lookup(ctx, 1, 7, period, periodicTestSettings())
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if note == nil || note.ID != 2 {
		t.Errorf("Lookup note = %v, want ID 2", note)
	}

	// 未命中返回 nil，不触发创建
	missing, err := svc.Lookup(ctx, 1, 7, domain.Period{Year: 2030, Month: time.January}, periodicTestSettings())
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Lookup for missing period = %v, want nil", missing)
	}
	if repo.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", repo.createCalls)
	}
}

func TestFolderPrefix(t *testing.T) {
	tests := []struct {
		folder string
		want   string
	}{
		{"", ""},
		{"/", ""},
		{"Monthly", "Monthly/"},
		{"/Monthly/", "Monthly/"},
		{"Periodic/Monthly", "Periodic/Monthly/"},
	}
	for _, tt := range tests {
		if got := folderPrefix(tt.folder); got != tt.want {
			t.Errorf("folderPrefix(%q) = %q, want %q", tt.folder, got, tt.want)
		}
	}
}
