package expr

import (
	"regexp"
	"strings"
)

var fieldReference = regexp.MustCompile(`\$\{([^}]*)\}`)

// References returns the field names a condition refers to, in order of
// first appearance.
func References(rule string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range fieldReference.FindAllStringSubmatch(rule, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
