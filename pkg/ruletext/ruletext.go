// Package ruletext renders the KID and SPID distribution ini files from the
// rule lists a spec carries through unchanged.
package ruletext

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/tidwall/gjson"

	"github.com/jwebster45206/calamity-forge/pkg/affixspec"
)

// CommentWidth is where rule comments wrap.
const CommentWidth = 96

const none = "NONE"

// Writer renders rule text.
type Writer struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{logger: logger}
}

// KID renders CalamityAffixes_KID.ini. Affix keywords are applied per item
// instance at runtime, so only free-standing rules are written. A rule with
// no string, form or trait filter would tag every item of its type and is
// skipped with a warning.
func (w *Writer) KID(rules []affixspec.KIDRule) string {
	var b strings.Builder
	b.WriteString("; Generated by calamity-forge. Do not edit by hand.\n")
	b.WriteString("; Instance mode: affix keywords are NOT distributed via KID.\n")

	for _, r := range rules {
		b.WriteString("\n")
		comment(&b, r.Comment)

		filters := joinFilters(r.Strings, r.FormFilters)
		traits := orNone(r.Traits)
		if filters == none && traits == none {
			w.logger.Warn("skipping KID rule without filters", "keyword", r.KeywordEditorID, "type", r.Type)
			fmt.Fprintf(&b, "; WARNING: skipped %s rule for %s: no strings, form filters or traits.\n", orNone(r.Type), r.KeywordEditorID)
			continue
		}
		fmt.Fprintf(&b, "Keyword = %s|%s|%s|%s|%s\n", r.KeywordEditorID, r.Type, filters, traits, chance(r.Chance))
	}
	return b.String()
}

// SPID renders CalamityAffixes_DISTR.ini. Each rule's line is written
// verbatim under its comment; rules without a line are ignored.
func (w *Writer) SPID(rules []json.RawMessage) string {
	var b strings.Builder
	b.WriteString("; Generated by calamity-forge. Do not edit by hand.\n")

	for _, raw := range rules {
		rule := gjson.ParseBytes(raw)
		line := rule.Get("line")
		if line.Type != gjson.String || strings.TrimSpace(line.Str) == "" {
			continue
		}
		b.WriteString("\n")
		comment(&b, rule.Get("comment").String())
		b.WriteString(strings.TrimSpace(line.Str))
		b.WriteString("\n")
	}
	return b.String()
}

func comment(b *strings.Builder, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	for _, line := range strings.Split(wordwrap.String(text, CommentWidth-2), "\n") {
		b.WriteString("; ")
		b.WriteString(strings.TrimRight(line, " "))
		b.WriteString("\n")
	}
}

// joinFilters folds form filters into the string filter field, which is
// where KID reads both.
func joinFilters(fields ...string) string {
	var parts []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || strings.EqualFold(f, none) {
			continue
		}
		parts = append(parts, f)
	}
	if len(parts) == 0 {
		return none
	}
	return strings.Join(parts, ",")
}

func orNone(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return none
	}
	return s
}

func chance(c float64) string {
	if c <= 0 || c >= 100 {
		return "100"
	}
	return strconv.FormatFloat(c, 'f', -1, 64)
}
