// Package util provides common utility functions
package util

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// ParseFrontmatter 拆出内容开头的 YAML frontmatter
// 返回解析后的 map、frontmatter 之后的正文, 以及是否存在 frontmatter
// 解析失败时按无 frontmatter 处理, 原文原样返回
func ParseFrontmatter(content string) (yamlData map[string]interface{}, body string, hasFrontmatter bool) {
	if content == "" {
		return nil, content, false
	}

	if !strings.HasPrefix(content, frontmatterDelimiter+"\n") {
		return nil, content, false
	}

	rest := content[len(frontmatterDelimiter)+1:]
	endIndex := strings.Index(rest, "\n"+frontmatterDelimiter)
	if endIndex == -1 {
		return nil, content, false
	}

	yamlContent := rest[:endIndex]
	body = rest[endIndex+len("\n"+frontmatterDelimiter):]
	if strings.HasPrefix(body, "\n") {
		body = body[1:]
	}

	yamlData = make(map[string]interface{})
	if err := yaml.Unmarshal([]byte(yamlContent), &yamlData); err != nil {
		return nil, content, false
	}

	return yamlData, body, true
}

// MergeFrontmatter 以 existing 为底合并 updates, 再删掉 removeKeys 指定的键
func MergeFrontmatter(existing, updates map[string]interface{}, removeKeys []string) map[string]interface{} {
	result := make(map[string]interface{})

	for k, v := range existing {
		result[k] = v
	}
	for k, v := range updates {
		result[k] = v
	}
	for _, key := range removeKeys {
		delete(result, key)
	}

	return result
}

// ReconstructContent 把 frontmatter 与正文重新拼成完整内容
func ReconstructContent(yamlData map[string]interface{}, body string) string {
	if len(yamlData) == 0 {
		return body
	}

	yamlBytes, err := yaml.Marshal(yamlData)
	if err != nil {
		return body
	}

	var sb strings.Builder
	sb.WriteString(frontmatterDelimiter)
	sb.WriteString("\n")
	sb.Write(yamlBytes)
	sb.WriteString(frontmatterDelimiter)
	sb.WriteString("\n")
	sb.WriteString(body)

	return sb.String()
}
