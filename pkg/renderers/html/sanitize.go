package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	textPolicy *bluemonday.Policy
	richPolicy *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()

		rich := bluemonday.NewPolicy()
		rich.AllowElements("br", "p", "b", "strong", "i", "em", "ul", "ol", "li", "code")
		rich.AllowAttrs("href").OnElements("a")
		rich.AllowStandardURLs()
		rich.RequireNoFollowOnLinks(true)
		richPolicy = rich
	})
	return textPolicy, richPolicy
}

// sanitizeText strips every tag. The result is HTML-escaped and is emitted
// with the |safe filter.
func sanitizeText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	text, _ := policies()
	return strings.TrimSpace(text.Sanitize(raw))
}

// sanitizeRich keeps basic formatting and turns newlines into <br>.
func sanitizeRich(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	_, rich := policies()
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\n", "<br>")
	return strings.TrimSpace(rich.Sanitize(raw))
}
