// Package util provides common utility functions
package util

import (
	"testing"
)

func TestParseWikiLinks(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []WikiLink
	}{
		{
			name:    "plain link",
			content: "- [[Daily/2025-03-14]]",
			want: []WikiLink{
				{Path: "Daily/2025-03-14"},
			},
		},
		{
			name:    "link with alias",
			content: "- [[Daily/2025-03-14|Friday]]",
			want: []WikiLink{
				{Path: "Daily/2025-03-14", Alias: "Friday"},
			},
		},
		{
			name:    "heading and block targets kept verbatim",
			content: "[[Note#Section]] then [[Note#^abc123]]",
			want: []WikiLink{
				{Path: "Note#Section"},
				{Path: "Note#^abc123"},
			},
		},
		{
			name:    "embed form",
			content: "![[photo.jpg]] and ![[clip.mp4|400]]",
			want: []WikiLink{
				{Path: "photo.jpg", IsEmbed: true},
				{Path: "clip.mp4", Alias: "400", IsEmbed: true},
			},
		},
		{
			name:    "same path as link and embed are distinct",
			content: "[[Note]] plus ![[Note]]",
			want: []WikiLink{
				{Path: "Note"},
				{Path: "Note", IsEmbed: true},
			},
		},
		{
			name:    "repeated path reported once",
			content: "[[Note]] appears twice [[Note]]",
			want: []WikiLink{
				{Path: "Note"},
			},
		},
		{
			name:    "multiple links keep order",
			content: "[[A]] then [[B]] then [[C|see c]]",
			want: []WikiLink{
				{Path: "A"},
				{Path: "B"},
				{Path: "C", Alias: "see c"},
			},
		},
		{
			name:    "markdown links are not wiki links",
			content: "[External](https://example.com) and [Relative](./other.md)",
			want:    nil,
		},
		{
			name:    "bare URL is not a wiki link",
			content: "Visit https://example.com for more",
			want:    nil,
		},
		{
			name:    "empty content",
			content: "",
			want:    nil,
		},
		{
			name:    "no links",
			content: "Just plain text",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseWikiLinks(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseWikiLinks(%q) = %+v, want %+v", tt.content, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("link[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseWikiLinks_ReviewSection(t *testing.T) {
	content := `# 2025-03

## Review
- [[Daily/2025-03-12]]
- [[Daily/2025-03-13|yesterday]]
- a line without a link
- ![[chart.png]]

## Other
- [External](https://example.com)
- [[Daily/2025-03-12]]
`

	got := ParseWikiLinks(content)

	wantPaths := []string{"Daily/2025-03-12", "Daily/2025-03-13", "chart.png"}
	if len(got) != len(wantPaths) {
		t.Fatalf("got %d links, want %d: %+v", len(got), len(wantPaths), got)
	}
	for i, p := range wantPaths {
		if got[i].Path != p {
			t.Errorf("link[%d].Path = %q, want %q", i, got[i].Path, p)
		}
	}
	if got[1].Alias != "yesterday" {
		t.Errorf("alias = %q, want %q", got[1].Alias, "yesterday")
	}
	if !got[2].IsEmbed {
		t.Errorf("chart.png should be an embed")
	}
}
