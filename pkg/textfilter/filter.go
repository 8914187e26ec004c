// Package textfilter converts display names into forms the plugin container can carry.
package textfilter

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NameFilter turns display names into printable ASCII. Non-localized plugin
// records cannot reliably carry Hangul or other non-Latin text in every UI path.
type NameFilter struct {
	marks transform.Transformer
}

// NewNameFilter creates a name filter.
func NewNameFilter() *NameFilter {
	return &NameFilter{marks: runes.Remove(runes.In(unicode.Mn))}
}

// PluginSafeName returns the ASCII side of a bilingual "EN / KO" name.
// If the part before the slash has no printable ASCII the whole name is
// tried, and failing that the editor id is returned.
func (f *NameFilter) PluginSafeName(rawName, editorID string) string {
	if strings.TrimSpace(rawName) == "" {
		return ""
	}

	preferred := rawName
	if i := strings.IndexByte(preferred, '/'); i > 0 {
		preferred = strings.TrimSpace(preferred[:i])
	}
	if s := f.PrintableASCII(preferred); s != "" {
		return s
	}
	if s := f.PrintableASCII(rawName); s != "" {
		return s
	}
	return editorID
}

// PrintableASCII keeps characters in ' '..'~'. Any Unicode whitespace run,
// including no-break and ideographic spaces, becomes a single space.
func (f *NameFilter) PrintableASCII(value string) string {
	words := strings.FieldsFunc(value, unicode.IsSpace)
	out := words[:0]
	for _, w := range words {
		if a := f.asciiWord(w); a != "" {
			out = append(out, a)
		}
	}
	return strings.Join(out, " ")
}

// asciiWord drops combining marks after decomposition, so "Café" keeps its
// "e", then drops everything outside printable ASCII.
func (f *NameFilter) asciiWord(w string) string {
	decomposed := norm.NFD.String(w)
	if stripped, _, err := transform.String(f.marks, decomposed); err == nil {
		decomposed = stripped
	}
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range norm.NFC.String(decomposed) {
		if r > ' ' && r <= '~' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
