// Package sanitize cleans free-form visitor input before it is stored in the
// session or echoed into templates.
package sanitize

import (
	"html"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictOnce   sync.Once
	strictPolicy *bluemonday.Policy

	commentOnce   sync.Once
	commentPolicy *bluemonday.Policy
)

// Text strips all markup from raw. Entities produced by the policy are
// decoded again so templates escape the value exactly once.
func Text(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict().Sanitize(trimmed)))
}

// Comment keeps basic inline formatting (b, i, em, strong, br) and drops the
// rest.
func Comment(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(comment().Sanitize(trimmed))
}

// Values sanitizes every value with Text and drops entries that end up
// empty.
func Values(values map[string]string) map[string]string {
	out := make(map[string]string, len(values))
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		cleanKey := Text(key)
		if cleanKey == "" {
			continue
		}
		if value := Text(values[key]); value != "" {
			out[cleanKey] = value
		}
	}
	return out
}

func strict() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

func comment() *bluemonday.Policy {
	commentOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "i", "em", "strong", "br")
		commentPolicy = policy
	})
	return commentPolicy
}
