package section

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestAppend(t *testing.T) {
	tests := []struct {
		name    string
		content string
		heading string
		line    string
		want    string
	}{
		{
			name:    "heading present line inserted below it",
			content: "## Links\nfoo",
			heading: "## Links",
			line:    "- [[A]]",
			want:    "## Links\n- [[A]]\nfoo",
		},
		{
			name:    "line already present returns content unchanged",
			content: "## Links\n- [[A]]",
			heading: "## Links",
			line:    "- [[A]]",
			want:    "## Links\n- [[A]]",
		},
		{
			name:    "line present outside the section still suppresses insert",
			content: "intro\n- [[A]]\n## Links\nfoo",
			heading: "## Links",
			line:    "- [[A]]",
			want:    "intro\n- [[A]]\n## Links\nfoo",
		},
		{
			name:    "heading missing appends heading and line",
			content: "Some text",
			heading: "## Links",
			line:    "- [[A]]",
			want:    "Some text\n## Links\n- [[A]]",
		},
		{
			name:    "empty content",
			content: "",
			heading: "## Links",
			line:    "- [[A]]",
			want:    "\n## Links\n- [[A]]",
		},
		{
			name:    "trailing newline is not collapsed",
			content: "Some text\n",
			heading: "## Links",
			line:    "- [[A]]",
			want:    "Some text\n\n## Links\n- [[A]]",
		},
		{
			name:    "only first heading occurrence receives the line",
			content: "## Links\nfoo\n## Links\nbar",
			heading: "## Links",
			line:    "- [[A]]",
			want:    "## Links\n- [[A]]\nfoo\n## Links\nbar",
		},
		{
			name:    "heading at end of content",
			content: "intro\n## Links",
			heading: "## Links",
			line:    "- [[A]]",
			want:    "intro\n## Links\n- [[A]]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Append(tt.content, tt.heading, tt.line); got != tt.want {
				t.Errorf("Append() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLink(t *testing.T) {
	if got := Link("2024-03"); got != "[[2024-03]]" {
		t.Errorf("Link() = %q, want %q", got, "[[2024-03]]")
	}
}

func TestAppendLink(t *testing.T) {
	got := AppendLink("## Review\nolder", "## Review", "- ", "Daily/2024-03-14")
	want := "## Review\n- [[Daily/2024-03-14]]\nolder"
	if got != want {
		t.Errorf("AppendLink() = %q, want %q", got, want)
	}
}

func TestAppendProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("append is idempotent", prop.ForAll(
		func(content, target string) bool {
			line := "- " + Link(target)
			once := Append(content, "## Review", line)
			twice := Append(once, "## Review", line)
			return once == twice
		},
		gen.AnyString(),
		gen.AlphaString(),
	))

	properties.Property("appended line is present exactly once", prop.ForAll(
		func(content, target string) bool {
			line := "- " + Link(target)
			if strings.Contains(content, line) {
				return true
			}
			got := Append(content, "## Review", line)
			return strings.Count(got, line) == 1
		},
		gen.AnyString(),
		gen.AlphaString().SuchThat(func(s string) bool { return len(s) > 0 }),
	))

	properties.Property("heading survives every append", prop.ForAll(
		func(content, target string) bool {
			got := Append(content, "## Review", "- "+Link(target))
			return strings.Contains(got, "## Review")
		},
		gen.AnyString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
