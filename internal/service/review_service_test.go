package service

import (
	"context"
	"testing"
	"time"

	"github.com/haierkeys/note-review-service/internal/domain"
	"github.com/haierkeys/note-review-service/internal/dto"
	"github.com/haierkeys/note-review-service/pkg/code"
	"github.com/haierkeys/note-review-service/pkg/util"
)

type reviewMockSettingService struct {
	ReviewSettingService
	settings *dto.ReviewSettingDTO
}

func (m *reviewMockSettingService) Get(ctx context.Context, uid int64, vaultName string) (*dto.ReviewSettingDTO, error) {
	return m.settings, nil
}

type reviewMockPeriodicService struct {
	PeriodicNoteService
	note    *domain.Note
	created bool
}

func (m *reviewMockPeriodicService) Resolve(ctx context.Context, uid int64, vaultID int64, period domain.Period, settings *dto.ReviewSettingDTO) (*domain.Note, bool, error) {
	return m.note, m.created, nil
}

func (m *reviewMockPeriodicService) Lookup(ctx context.Context, uid int64, vaultID int64, period domain.Period, settings *dto.ReviewSettingDTO) (*domain.Note, error) {
	return m.note, nil
}

func (m *reviewMockPeriodicService) WithClient(name string) PeriodicNoteService {
	return m
}

type reviewMockNoteService struct {
	NoteService
	gotModify   *dto.NoteModifyOrCreateRequest
	modifyCalls int
}

func (m *reviewMockNoteService) ModifyOrCreate(ctx context.Context, uid int64, params *dto.NoteModifyOrCreateRequest, mtimeCheck bool) (bool, *dto.NoteDTO, error) {
	m.modifyCalls++
	m.gotModify = params
	return false, &dto.NoteDTO{
		Path:        params.Path,
		PathHash:    params.PathHash,
		Content:     params.Content,
		ContentHash: params.ContentHash,
		Ctime:       params.Ctime,
		Mtime:       params.Mtime,
	}, nil
}

func (m *reviewMockNoteService) WithClient(name, version string) NoteService {
	return m
}

type reviewMockVaultService struct {
	VaultService
}

func (m *reviewMockVaultService) MustGetID(ctx context.Context, uid int64, name string) (int64, error) {
	return 7, nil
}

func newReviewServiceForTest(note *domain.Note, created bool) (ReviewService, *reviewMockNoteService) {
	noteSvc := &reviewMockNoteService{}
	svc := NewReviewService(
		&reviewMockSettingService{settings: periodicTestSettings()},
		&reviewMockPeriodicService{note: note, created: created},
		noteSvc,
		&reviewMockVaultService{},
	)
	return svc, noteSvc
}

func TestReviewService_AddLink(t *testing.T) {
	ctx := context.Background()
	monthly := &domain.Note{
		ID:       2,
		Path:     "Monthly/2025-03.md",
		PathHash: "ph",
		Content:  "# March\n\n## Review\n- [[2025-03-01]]\n",
		Ctime:    1000,
	}
	svc, noteSvc := newReviewServiceForTest(monthly, false)

	got, err := svc.AddLink(ctx, 1, &dto.ReviewAddLinkRequest{Vault: "main", Path: "Daily/2025-03-14.md"})
	if err != nil {
		t.Fatalf("AddLink failed: %v", err)
	}

	if got.Line != "- [[2025-03-14]]" {
		t.Errorf("Line = %q, want %q", got.Line, "- [[2025-03-14]]")
	}
	if !got.Modified {
		t.Error("expected Modified = true")
	}
	if got.Created {
		t.Error("expected Created = false")
	}
	if want := domain.PeriodOf(time.Now()).Key(); got.Period != want {
		t.Errorf("Period = %q, want %q", got.Period, want)
	}

	wantContent := "# March\n\n## Review\n- [[2025-03-14]]\n- [[2025-03-01]]\n"
	if noteSvc.gotModify == nil {
		t.Fatal("expected note write")
	}
	if noteSvc.gotModify.Content != wantContent {
		t.Errorf("written content = %q, want %q", noteSvc.gotModify.Content, wantContent)
	}
	if noteSvc.gotModify.Vault != "main" || noteSvc.gotModify.Path != "Monthly/2025-03.md" {
		t.Errorf("write target = %q/%q", noteSvc.gotModify.Vault, noteSvc.gotModify.Path)
	}
	if noteSvc.gotModify.PathHash != "ph" || noteSvc.gotModify.Ctime != 1000 {
		t.Error("identity fields not carried from the resolved note")
	}
	if noteSvc.gotModify.ContentHash != util.EncodeHash32(wantContent) {
		t.Error("written ContentHash mismatch")
	}
	if got.Note.Content != wantContent {
		t.Errorf("result note content = %q", got.Note.Content)
	}
}

func TestReviewService_AddLink_Idempotent(t *testing.T) {
	ctx := context.Background()
	monthly := &domain.Note{
		ID:      2,
		Path:    "Monthly/2025-03.md",
		Content: "# March\n\n## Review\n- [[2025-03-14]]\n",
	}
	svc, noteSvc := newReviewServiceForTest(monthly, false)

	got, err := svc.AddLink(ctx, 1, &dto.ReviewAddLinkRequest{Vault: "main", Path: "Daily/2025-03-14.md"})
	if err != nil {
		t.Fatalf("AddLink failed: %v", err)
	}

	if got.Modified {
		t.Error("expected Modified = false when link already present")
	}
	if noteSvc.modifyCalls != 0 {
		t.Errorf("modifyCalls = %d, want 0", noteSvc.modifyCalls)
	}
	if got.Note.Content != monthly.Content {
		t.Error("note content should be unchanged")
	}
}

func TestReviewService_AddLink_HeadingMissing(t *testing.T) {
	ctx := context.Background()
	monthly := &domain.Note{Path: "Monthly/2025-03.md", Content: "notes so far"}
	svc, noteSvc := newReviewServiceForTest(monthly, true)

	got, err := svc.AddLink(ctx, 1, &dto.ReviewAddLinkRequest{Vault: "main", Path: "Ideas.md"})
	if err != nil {
		t.Fatalf("AddLink failed: %v", err)
	}

	want := "notes so far\n## Review\n- [[Ideas]]"
	if noteSvc.gotModify.Content != want {
		t.Errorf("written content = %q, want %q", noteSvc.gotModify.Content, want)
	}
	if !got.Created || !got.Modified {
		t.Errorf("Created/Modified = %v/%v, want true/true", got.Created, got.Modified)
	}
}

func TestReviewService_PeriodicDisabled(t *testing.T) {
	ctx := context.Background()
	svc := NewReviewService(
		&reviewMockSettingService{settings: periodicTestSettings()},
		nil,
		&reviewMockNoteService{},
		&reviewMockVaultService{},
	)

	if _, err := svc.AddLink(ctx, 1, &dto.ReviewAddLinkRequest{Vault: "main", Path: "A.md"}); err != code.ErrorPeriodicNotesDisabled {
		t.Errorf("AddLink err = %v, want ErrorPeriodicNotesDisabled", err)
	}
	if _, err := svc.Open(ctx, 1, &dto.ReviewOpenRequest{Vault: "main"}); err != code.ErrorPeriodicNotesDisabled {
		t.Errorf("Open err = %v, want ErrorPeriodicNotesDisabled", err)
	}
	if _, err := svc.Entries(ctx, 1, &dto.ReviewEntriesRequest{Vault: "main"}); err != code.ErrorPeriodicNotesDisabled {
		t.Errorf("Entries err = %v, want ErrorPeriodicNotesDisabled", err)
	}
}

func TestReviewService_Open(t *testing.T) {
	ctx := context.Background()
	monthly := &domain.Note{ID: 9, Path: "Monthly/2025-03.md", Content: "seed"}
	svc, _ := newReviewServiceForTest(monthly, true)

	got, err := svc.Open(ctx, 1, &dto.ReviewOpenRequest{Vault: "main"})
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !got.Created {
		t.Error("expected Created = true")
	}
	if got.Note.Path != "Monthly/2025-03.md" {
		t.Errorf("note path = %q", got.Note.Path)
	}
	if want := domain.PeriodOf(time.Now()).Key(); got.Period != want {
		t.Errorf("Period = %q, want %q", got.Period, want)
	}
}

func TestReviewService_Entries(t *testing.T) {
	ctx := context.Background()
	monthly := &domain.Note{
		Path:    "Monthly/2025-03.md",
		Content: "# March\n\n## Review\n- [[Daily/2025-03-14|Friday]]\nplain follow-up\n\n## Elsewhere\n- [[Other]]\n",
	}
	svc, _ := newReviewServiceForTest(monthly, false)

	got, err := svc.Entries(ctx, 1, &dto.ReviewEntriesRequest{Vault: "main"})
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}

	if got.Path != "Monthly/2025-03.md" {
		t.Errorf("Path = %q", got.Path)
	}
	if got.Heading != "## Review" {
		t.Errorf("Heading = %q", got.Heading)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("entries = %d, want 2: %+v", len(got.Entries), got.Entries)
	}
	if got.Entries[0].LinkText != "Daily/2025-03-14" || got.Entries[0].Alias != "Friday" {
		t.Errorf("entry[0] link = %q alias = %q", got.Entries[0].LinkText, got.Entries[0].Alias)
	}
	if got.Entries[1].Line != "plain follow-up" || got.Entries[1].LinkText != "" {
		t.Errorf("entry[1] = %+v, want plain line", got.Entries[1])
	}
}

func TestReviewService_Entries_NoteMissing(t *testing.T) {
	ctx := context.Background()
	svc, _ := newReviewServiceForTest(nil, false)

	got, err := svc.Entries(ctx, 1, &dto.ReviewEntriesRequest{Vault: "main"})
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if got.Path != "" || len(got.Entries) != 0 {
		t.Errorf("expected empty result, got %+v", got)
	}
	if got.Period == "" || got.Heading == "" {
		t.Error("period and heading should still be reported")
	}
}

func TestSectionEntries(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"heading missing", "no sections here", 0},
		{"heading at end of note", "intro\n## Review", 0},
		{"entries until next heading", "## Review\n- [[A]]\n- [[B]]\n## Next\n- [[C]]", 2},
		{"blank lines between entries", "## Review\n\n- [[A]]\n\n- [[B]]\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sectionEntries(tt.content, "## Review"); len(got) != tt.want {
				t.Errorf("entries = %d, want %d: %+v", len(got), tt.want, got)
			}
		})
	}
}
