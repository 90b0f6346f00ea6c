package entry

import (
	"strings"
	"time"
)

// Parse returns the bare description held by text. Markers around the
// description are only removed when text carries the canonical prefix for t,
// which keeps user hashtags and dates in plain input intact.
func Parse(t ItemType, text string) string {
	toks := strings.Fields(text)
	toks = dropListMarker(toks)

	switch t {
	case Action:
		toks = dropCheckbox(toks)
		if !hasHead(toks, "#action") {
			return strings.Join(toks, " ")
		}
		toks = toks[1:]
		toks = dropDated(toks, doneMarker)
		toks = dropDated(toks, dueMarker)
		if n := len(toks); n > 0 && isGlyph(toks[n-1]) {
			toks = toks[:n-1]
		}
		toks = dropTag(toks)

	case Activity:
		if _, n, ok := leadingStamp(toks); ok {
			toks = toks[n:]
		}

	case Reference:
		return parseReference(strings.Join(toks, " "))

	case Someday:
		toks = dropCheckbox(toks)
		if !hasHead(toks, "#someday") {
			return strings.Join(toks, " ")
		}
		toks = dropTag(toks[1:])
		toks = dropBracketDate(toks)

	default:
		toks = dropCheckbox(toks)
		if !hasHead(toks, "#review") {
			return strings.Join(toks, " ")
		}
		toks = toks[1:]
		if n := len(toks); n >= 2 && toks[n-2] == "(confidence:" && strings.HasSuffix(toks[n-1], "%)") {
			toks = toks[:n-2]
		}
		toks = dropBracketDate(toks)
	}
	return strings.Join(toks, " ")
}

func parseReference(s string) string {
	if !strings.HasPrefix(s, "**") {
		return s
	}
	i := strings.Index(s[2:], "**:")
	if i < 0 {
		return s
	}
	title := strings.TrimSpace(s[2 : 2+i])
	rest := dropBracketDate(strings.Fields(s[2+i+3:]))
	if len(rest) == 0 {
		return title
	}
	return title + ": " + strings.Join(rest, " ")
}

func dropListMarker(toks []string) []string {
	if len(toks) > 0 && (toks[0] == "-" || toks[0] == "*" || toks[0] == "+") {
		return toks[1:]
	}
	return toks
}

func dropCheckbox(toks []string) []string {
	switch {
	case len(toks) >= 2 && toks[0] == "[" && toks[1] == "]":
		return toks[2:]
	case len(toks) >= 1 && (toks[0] == "[x]" || toks[0] == "[X]" || toks[0] == "[]"):
		return toks[1:]
	}
	return toks
}

func hasHead(toks []string, head string) bool { return len(toks) > 0 && toks[0] == head }

// dropDated strips a trailing "<marker> YYYY-MM-DD" pair
func dropDated(toks []string, marker string) []string {
	n := len(toks)
	if n >= 2 && toks[n-2] == marker && isDate(toks[n-1]) {
		return toks[:n-2]
	}
	return toks
}

func dropTag(toks []string) []string {
	n := len(toks)
	if n > 0 && len(toks[n-1]) > 1 && strings.HasPrefix(toks[n-1], "#") {
		return toks[:n-1]
	}
	return toks
}

func dropBracketDate(toks []string) []string {
	n := len(toks)
	if n > 0 {
		last := toks[n-1]
		if strings.HasPrefix(last, "[") && strings.HasSuffix(last, "]") && isDate(last[1:len(last)-1]) {
			return toks[:n-1]
		}
	}
	return toks
}

func isDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// leadingStamp reads a "[YYYY-MM-DD HH:MM]" or "[YYYY-MM-DD]" prefix and
// reports how many tokens it used
func leadingStamp(toks []string) (time.Time, int, bool) {
	if len(toks) == 0 || !strings.HasPrefix(toks[0], "[") {
		return time.Time{}, 0, false
	}
	if len(toks) >= 2 && strings.HasSuffix(toks[1], "]") {
		raw := toks[0][1:] + " " + strings.TrimSuffix(toks[1], "]")
		if ts, err := time.ParseInLocation(stampLayout, raw, time.Local); err == nil {
			return ts, 2, true
		}
	}
	if strings.HasSuffix(toks[0], "]") {
		raw := strings.TrimSuffix(toks[0][1:], "]")
		if ts, err := time.ParseInLocation(dateLayout, raw, time.Local); err == nil {
			return ts, 1, true
		}
	}
	return time.Time{}, 0, false
}

// Timestamp returns the timestamp embedded at the start of an activity line
func Timestamp(line string) (time.Time, bool) {
	ts, _, ok := leadingStamp(dropListMarker(strings.Fields(line)))
	return ts, ok
}

// Stamp renders the activity timestamp prefix for t
func Stamp(t time.Time) string { return "[" + t.Format(stampLayout) + "]" }

// IsOpenTask reports whether line is an unchecked checkbox item
func IsOpenTask(line string) bool {
	s := strings.TrimSpace(line)
	return strings.HasPrefix(s, "- [ ]") || strings.HasPrefix(s, "* [ ]")
}

// Complete flips an open checkbox to done and appends the completion date.
// It reports false when line is not an open task.
func Complete(line string, at time.Time) (string, bool) {
	if !IsOpenTask(line) {
		return line, false
	}
	i := strings.Index(line, "[ ]")
	out := line[:i] + "[x]" + line[i+3:]
	return strings.TrimRight(out, " ") + " " + doneMarker + " " + at.Format(dateLayout), true
}
