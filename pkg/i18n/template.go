package i18n

import "strings"

// TemplateFuncs returns helpers suitable for a template engine's global
// context. The main helper signature is:
//
//	translate(domain, msg) string
func TemplateFuncs(t Translator) map[string]any {
	if t == nil {
		t = Passthrough
	}
	return map[string]any{
		"translate": func(domain, msg string) string {
			msg = strings.TrimSpace(msg)
			if msg == "" {
				return ""
			}
			return t.Translate(strings.TrimSpace(domain), msg)
		},
	}
}
