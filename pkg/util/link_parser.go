// Package util provides common utility functions
// Package util 提供通用工具函数
package util

import "regexp"

// WikiLink is one [[wiki-link]] found in note content
// WikiLink 表示笔记内容中的一个 [[wiki-link]]
type WikiLink struct {
	Path    string // link target // 链接目标
	Alias   string // display alias from [[link|alias]] // [[link|alias]] 中的显示别名
	IsEmbed bool   // ![[...]] embed form // ![[...]] 嵌入形式
}

// 捕获组依次为: 嵌入标记 "!", 目标路径, 可选别名
var wikiLinkPattern = regexp.MustCompile(`(!?)\[\[([^\]|]+)(?:\|([^\]]+))?\]\]`)

// ParseWikiLinks returns the wiki links in content, in order of first
// appearance. A path that appears more than once in the same form (link or
// embed) is reported once.
// ParseWikiLinks 按首次出现顺序返回内容中的维基链接，同一路径同一形式只返回一次
func ParseWikiLinks(content string) []WikiLink {
	if content == "" {
		return nil
	}

	matches := wikiLinkPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}

	type seenKey struct {
		path  string
		embed bool
	}
	seen := make(map[seenKey]bool, len(matches))

	links := make([]WikiLink, 0, len(matches))
	for _, m := range matches {
		link := WikiLink{
			Path:    m[2],
			IsEmbed: m[1] == "!",
		}
		key := seenKey{path: link.Path, embed: link.IsEmbed}
		if seen[key] {
			continue
		}
		seen[key] = true
		if m[3] != "" {
			link.Alias = m[3]
		}
		links = append(links, link)
	}
	return links
}
