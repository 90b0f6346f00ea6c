// Package document maintains the canonical section layout of a tracker
// document and places entries inside it
package document

import (
	"strings"

	"capturebox/internal/core/entry"
)

// Section names a canonical level-two heading
type Section string

const (
	// ActivityLog holds timestamped activity lines
	ActivityLog Section = "Activity Log"
	// ActionItems holds open and finished tasks
	ActionItems Section = "Action Items"
	// References holds reference material
	References Section = "References"
	// SomedayMaybe holds parked ideas
	SomedayMaybe Section = "Someday/Maybe"
	// ReviewQueue holds entries awaiting a human decision
	ReviewQueue Section = "Review Queue"
	// NotesContext holds free form notes
	NotesContext Section = "Notes & Context"
)

// Order is the canonical top to bottom section order
var Order = []Section{ActivityLog, ActionItems, References, SomedayMaybe, ReviewQueue, NotesContext}

// ParseSection matches a heading name against the canonical sections, case insensitive
func ParseSection(name string) (Section, bool) {
	name = strings.TrimSpace(name)
	for _, s := range Order {
		if strings.EqualFold(name, string(s)) {
			return s, true
		}
	}
	return "", false
}

// Rank is the position of s in Order, -1 when unknown
func (s Section) Rank() int {
	for i, o := range Order {
		if o == s {
			return i
		}
	}
	return -1
}

// Header renders the heading line for s
func (s Section) Header() string { return "## " + string(s) }

// SectionFor maps an item type onto the section that stores it
func SectionFor(t entry.ItemType) Section {
	switch t {
	case entry.Action:
		return ActionItems
	case entry.Activity:
		return ActivityLog
	case entry.Reference:
		return References
	case entry.Someday:
		return SomedayMaybe
	default:
		return ReviewQueue
	}
}

// Document is a tracker body split into lines. The header block is every
// line before the first canonical heading and is never touched.
type Document struct {
	lines []string
}

// Parse splits text into a Document
func Parse(text string) *Document {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return &Document{}
	}
	return &Document{lines: strings.Split(text, "\n")}
}

// String renders the document with a single trailing newline
func (d *Document) String() string {
	if len(d.lines) == 0 {
		return ""
	}
	return strings.Join(d.lines, "\n") + "\n"
}

// headingAt reports the canonical section a line opens, if any
func headingAt(line string) (Section, bool) {
	t := strings.TrimSpace(line)
	if !strings.HasPrefix(t, "## ") {
		return "", false
	}
	return ParseSection(t[3:])
}

// span returns the heading index and the exclusive end of section s
func (d *Document) span(s Section) (int, int, bool) {
	start := -1
	for i, l := range d.lines {
		sec, ok := headingAt(l)
		if !ok {
			continue
		}
		if start >= 0 {
			return start, i, true
		}
		if sec == s {
			start = i
		}
	}
	if start < 0 {
		return 0, 0, false
	}
	return start, len(d.lines), true
}

// Sections lists the canonical sections present, in document order
func (d *Document) Sections() []Section {
	var out []Section
	for _, l := range d.lines {
		if s, ok := headingAt(l); ok {
			out = append(out, s)
		}
	}
	return out
}

// Has reports whether section s exists
func (d *Document) Has(s Section) bool {
	_, _, ok := d.span(s)
	return ok
}

// Entries returns the list style lines of section s in document order
func (d *Document) Entries(s Section) []string {
	start, end, ok := d.span(s)
	if !ok {
		return nil
	}
	var out []string
	for _, l := range d.lines[start+1 : end] {
		if isListLine(l) {
			out = append(out, l)
		}
	}
	return out
}

func isBlank(l string) bool { return strings.TrimSpace(l) == "" }

// isListLine reports bullet or numbered list lines at any indent
func isListLine(l string) bool {
	t := strings.TrimLeft(l, " \t")
	if strings.HasPrefix(t, "- ") || strings.HasPrefix(t, "* ") || strings.HasPrefix(t, "+ ") ||
		t == "-" || t == "*" || t == "+" {
		return true
	}
	i := 0
	for i < len(t) && t[i] >= '0' && t[i] <= '9' {
		i++
	}
	return i > 0 && i+1 < len(t) && (t[i] == '.' || t[i] == ')') && t[i+1] == ' '
}

// isTopLevelItem reports list lines that start at column zero
func isTopLevelItem(l string) bool {
	return isListLine(l) && l != "" && l[0] != ' ' && l[0] != '\t'
}

func (d *Document) insertAt(i int, ls ...string) {
	d.lines = append(d.lines[:i], append(append([]string(nil), ls...), d.lines[i:]...)...)
}
