// Package section edits named sections inside markdown note content.
//
// All functions are pure string transforms. Content is treated as opaque
// text, headings are matched as literal substrings and the caller is
// responsible for keeping headings unique within a note.
package section

import "strings"

// Link renders a note name as a wiki link.
func Link(target string) string {
	return "[[" + target + "]]"
}

// Append inserts line directly below the first occurrence of heading.
//
// If content already contains line anywhere the content is returned
// unchanged, so repeated appends of the same line are no-ops. If heading
// is missing, heading and line are appended at the end of content.
func Append(content string, heading string, line string) string {
	if strings.Contains(content, heading) {
		if strings.Contains(content, line) {
			return content
		}
		return strings.Replace(content, heading, heading+"\n"+line, 1)
	}
	return content + "\n" + heading + "\n" + line
}

// AppendLink appends a prefixed wiki link to target under heading.
func AppendLink(content string, heading string, prefix string, target string) string {
	return Append(content, heading, prefix+Link(target))
}
