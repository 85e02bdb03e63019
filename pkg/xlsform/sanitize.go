package xlsform

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

var (
	labelPolicyOnce sync.Once
	labelPolicy     *bluemonday.Policy
)

func labelSanitizer() *bluemonday.Policy {
	labelPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(
			"b", "strong", "i", "em", "u", "s", "mark",
			"small", "sup", "sub", "br", "span",
		)
		labelPolicy = policy
	})
	return labelPolicy
}

// labelText prepares a cell for display: NFC normalisation, line breaks as
// <br>, and, when sanitize is set, any markup outside inline formatting
// removed.
func labelText(raw string, sanitize bool) string {
	text := norm.NFC.String(strings.TrimSpace(raw))
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\n", "<br>")
	if !sanitize || !strings.ContainsAny(text, "<>&") {
		return text
	}
	return strings.TrimSpace(labelSanitizer().Sanitize(text))
}
