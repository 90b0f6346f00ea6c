package entry

import (
	"math"
	"strconv"
	"strings"
)

const (
	dueMarker  = "📅"
	doneMarker = "✅"
)

var glyphs = map[Priority]string{
	Critical: "🔺",
	High:     "⏫",
	Low:      "🔽",
}

func isGlyph(tok string) bool {
	for _, g := range glyphs {
		if g == tok {
			return true
		}
	}
	return false
}

// Glyph returns the priority glyph, empty for medium
func Glyph(p Priority) string { return glyphs[p] }

// Format renders description as the canonical entry for t. Text that is
// already canonical for t is stripped back to its description first, so
// Format is idempotent for a fixed set of options. Unknown types render as
// review entries.
func Format(t ItemType, description string, o Options) string {
	if !t.Valid() {
		t = Review
	}
	desc := Parse(t, description)
	d := o.date()

	switch t {
	case Action:
		toks := []string{"- [ ]", "#action", desc, "#" + NormalizeTag(o.Tag)}
		if g := Glyph(o.Priority); g != "" {
			toks = append(toks, g)
		}
		if !o.DueDate.IsZero() {
			toks = append(toks, dueMarker, o.DueDate.Format(dateLayout))
		}
		return join(toks...)

	case Activity:
		return join("- ["+d.Format(stampLayout)+"]", desc)

	case Reference:
		title, detail := splitTitle(desc)
		return join("- **"+title+"**:", detail, "["+d.Format(dateLayout)+"]")

	case Someday:
		return join("- [ ]", "#someday", desc, "["+d.Format(dateLayout)+"]", "#"+NormalizeTag(o.Tag))

	default:
		return join("- [ ]", "#review", desc, "["+d.Format(dateLayout)+"]",
			"(confidence: "+strconv.Itoa(Percent(o.Confidence))+"%)")
	}
}

// Percent turns a confidence into a whole percentage clamped to 0..100
func Percent(c float64) int {
	if math.IsNaN(c) || c < 0 {
		return 0
	}
	if c > 1 {
		return 100
	}
	return int(math.Round(c * 100))
}

// join concatenates non-empty tokens with single spaces
func join(toks ...string) string {
	var b strings.Builder
	for _, t := range toks {
		if t == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t)
	}
	return b.String()
}

// splitTitle cuts a reference description into a bold title and a detail
func splitTitle(desc string) (string, string) {
	if i := strings.Index(desc, ": "); i > 0 {
		return strings.TrimSpace(desc[:i]), strings.TrimSpace(desc[i+2:])
	}
	if i := strings.Index(desc, " - "); i > 0 {
		return strings.TrimSpace(desc[:i]), strings.TrimSpace(desc[i+3:])
	}
	return desc, ""
}
