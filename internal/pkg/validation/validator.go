// Package validation 提供提示词字段的业务校验规则。
package validation

import "strings"

const (
	maxNameLength     = 100
	maxTextLength     = 10000
	maxCategoryLength = 50
)

// name/category 中禁止出现的文件系统保留字符
const forbiddenChars = `<>:"|?*`

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidatePrompt 校验提示词创建数据，收集所有违规项而不短路
func ValidatePrompt(name, text, category string) (bool, []FieldError) {
	var errs []FieldError
	errs = append(errs, validateName(name)...)
	errs = append(errs, validateText(text)...)
	errs = append(errs, validateCategory(category)...)
	return len(errs) == 0, errs
}

// ValidatePromptUpdate 校验更新数据，只检查提供的字段（nil 表示不修改）
func ValidatePromptUpdate(name, text, category *string) (bool, []FieldError) {
	var errs []FieldError
	if name != nil {
		errs = append(errs, validateName(*name)...)
	}
	if text != nil {
		errs = append(errs, validateText(*text)...)
	}
	if category != nil {
		errs = append(errs, validateCategory(*category)...)
	}
	return len(errs) == 0, errs
}

func validateName(name string) []FieldError {
	if name == "" {
		return []FieldError{{Field: "name", Message: "Name cannot be empty"}}
	}
	var errs []FieldError
	if len(name) > maxNameLength {
		errs = append(errs, FieldError{Field: "name", Message: "Name cannot exceed 100 characters"})
	}
	if strings.ContainsAny(name, forbiddenChars) {
		errs = append(errs, FieldError{Field: "name", Message: "Name contains invalid characters"})
	}
	return errs
}

func validateText(text string) []FieldError {
	if text == "" {
		return []FieldError{{Field: "text", Message: "Text cannot be empty"}}
	}
	if len(text) > maxTextLength {
		return []FieldError{{Field: "text", Message: "Text cannot exceed 10000 characters"}}
	}
	return nil
}

func validateCategory(category string) []FieldError {
	if category == "" {
		return []FieldError{{Field: "category", Message: "Category cannot be empty"}}
	}
	var errs []FieldError
	if len(category) > maxCategoryLength {
		errs = append(errs, FieldError{Field: "category", Message: "Category cannot exceed 50 characters"})
	}
	if strings.ContainsAny(category, forbiddenChars) {
		errs = append(errs, FieldError{Field: "category", Message: "Category contains invalid characters"})
	}
	return errs
}

// SanitizeName 去除 name 中的保留字符并裁剪首尾空白
func SanitizeName(name string) string {
	return sanitize(name)
}

// SanitizeCategory 去除 category 中的保留字符并裁剪首尾空白
func SanitizeCategory(category string) string {
	return sanitize(category)
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(forbiddenChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
