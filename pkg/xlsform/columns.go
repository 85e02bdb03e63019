package xlsform

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	labelPrefix = "label::"
	hintPrefix  = "hint::"
)

// languageColumn is a translated column such as "label::English (en)".
type languageColumn struct {
	index  int
	suffix string
	code   string
	name   string
}

// parseLanguageSuffix reads the part of a translated column header after the
// "label::" prefix. "English (en)" gives code "en" and name "English"; a
// suffix without parentheses is used as the code, named after the language
// it denotes when it parses as a language tag.
func parseLanguageSuffix(suffix string) (code, name string) {
	suffix = strings.TrimSpace(suffix)
	open := strings.IndexByte(suffix, '(')
	closing := strings.LastIndexByte(suffix, ')')
	if open >= 0 && closing > open {
		code = canonicalCode(suffix[open+1 : closing])
		name = strings.TrimSpace(suffix[:open])
	} else {
		code = canonicalCode(suffix)
	}
	if name == "" {
		name = LanguageName(code)
	}
	return code, name
}

// canonicalCode lower-cases a language code and, when it is a valid BCP 47
// tag, canonicalises it ("iw" becomes "he", "EN-gb" becomes "en-gb").
func canonicalCode(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return raw
	}
	return strings.ToLower(tag.String())
}

// LanguageName returns the name of a language in that language ("español"
// for "es"), or the code itself when it is not a known tag.
func LanguageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.Self.Name(tag); name != "" {
		return name
	}
	return code
}

// header indexes the columns of a sheet by lower-cased name.
type header struct {
	names  []string
	index  map[string]int
	labels []languageColumn
}

func newHeader(row []string, defaultLanguage string) header {
	h := header{names: row, index: make(map[string]int, len(row))}
	for i, raw := range row {
		name := strings.TrimSpace(raw)
		lower := strings.ToLower(name)
		if _, dup := h.index[lower]; !dup {
			h.index[lower] = i
		}
		switch {
		case strings.HasPrefix(lower, labelPrefix):
			suffix := name[len(labelPrefix):]
			code, langName := parseLanguageSuffix(suffix)
			if code == "" {
				continue
			}
			h.labels = append(h.labels, languageColumn{index: i, suffix: suffix, code: code, name: langName})
		case lower == "label":
			h.labels = append(h.labels, languageColumn{index: i, code: defaultLanguage, name: LanguageName(defaultLanguage)})
		}
	}
	return h
}

// column returns the index of a column, or -1.
func (h header) column(name string) int {
	if i, ok := h.index[strings.ToLower(name)]; ok {
		return i
	}
	return -1
}

// hintColumn returns the hint column paired with a label column.
func (h header) hintColumn(label languageColumn) int {
	if label.suffix == "" {
		return h.column("hint")
	}
	return h.column(hintPrefix + strings.TrimSpace(label.suffix))
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return row[index]
}
