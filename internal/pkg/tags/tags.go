// Package tags 解析模板文本中的 [tag] 占位符。
package tags

import (
	"regexp"
	"strings"
)

var (
	tagPattern = regexp.MustCompile(`\[([^\]]+)\]`)
	// 校验用 * 以便捕获 [] 这类空 tag
	emptyOKPattern = regexp.MustCompile(`\[([^\]]*)\]`)
)

// Extract 按出现顺序提取全部 [tag] 名称
// 级联逻辑依赖位置顺序，重复出现的 tag 保留不去重
func Extract(templateText string) []string {
	matches := tagPattern.FindAllStringSubmatch(templateText, -1)
	result := make([]string, 0, len(matches))
	for _, m := range matches {
		result = append(result, m[1])
	}
	return result
}

// Validate 检查模板文本的 tag 是否全部良构
// 要求开闭括号数量相等，且每个 tag 去除空白后非空
func Validate(templateText string) bool {
	if strings.Count(templateText, "[") != strings.Count(templateText, "]") {
		return false
	}
	for _, m := range emptyOKPattern.FindAllStringSubmatch(templateText, -1) {
		if strings.TrimSpace(m[1]) == "" {
			return false
		}
	}
	return true
}
