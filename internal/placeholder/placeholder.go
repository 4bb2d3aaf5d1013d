// Package placeholder finds and fills the <<Column>> placeholders merge
// fields carry. Column names are matched exactly as written in the sheet's
// header row.
package placeholder

import (
	"regexp"
	"strings"

	"github.com/mark3labs/mailman/internal/mergetemplate"
)

var pattern = regexp.MustCompile(`<<([^<>]+)>>`)

// Fields returns the distinct column names used in s, in order of first
// use. Surrounding whitespace inside the brackets is ignored.
func Fields(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, m := range pattern.FindAllStringSubmatch(s, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// Render replaces each <<Column>> in s with row[Column]. Columns missing
// from row are left in place so they stay visible in previews.
func Render(s string, row map[string]string) string {
	return pattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		if value, ok := row[name]; ok {
			return value
		}
		return match
	})
}

// TemplateFields returns the columns a template reads across its
// recipients, subject and condition.
func TemplateFields(t *mergetemplate.Template) []string {
	md := t.ToConfig().MergeData
	parts := []string{md.Data.To, md.Data.CC, md.Data.BCC, md.Data.Subject}
	if md.Conditional != nil {
		parts = append(parts, *md.Conditional)
	}
	return Fields(strings.Join(parts, "\n"))
}
