package tui

import (
	"html"
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-surveygen/pkg/model"
)

var (
	plainPolicy     *bluemonday.Policy
	plainPolicyOnce sync.Once
	lineBreak       = regexp.MustCompile(`(?i)<br\s*/?>`)
)

func plainTextPolicy() *bluemonday.Policy {
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return plainPolicy
}

// plainText turns label markup into terminal text: line breaks become
// newlines and every other tag is dropped.
func plainText(markup string) string {
	if markup == "" {
		return ""
	}
	text := lineBreak.ReplaceAllString(markup, "\n")
	text = plainTextPolicy().Sanitize(text)
	return strings.TrimSpace(html.UnescapeString(text))
}

// localize picks the text of t for lang, falling back to the survey's
// languages in order when lang has no text.
func localize(t *model.Translation, lang string, fallbacks []string) string {
	if t.IsEmpty() {
		return ""
	}
	if text, ok := t.Get(lang); ok && strings.TrimSpace(text) != "" {
		return plainText(text)
	}
	for _, code := range fallbacks {
		if text, ok := t.Get(code); ok && strings.TrimSpace(text) != "" {
			return plainText(text)
		}
	}
	return ""
}
