package reminders

import "regexp"

var placeholderRe = regexp.MustCompile(`\{(\w+)\}`)

// Compose substitutes {name}-style named placeholders from fields. Unknown
// or missing fields render as empty strings so a malformed template never
// blocks a dispatch.
func Compose(template string, fields map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		key := match[1 : len(match)-1]
		return fields[key]
	})
}
