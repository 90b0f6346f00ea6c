package document

import (
	"sort"
	"strings"
	"time"

	"capturebox/internal/core/entry"
	"capturebox/internal/core/normalize"
	perr "capturebox/internal/platform/errors"
)

// Insert describes one entry placement
type Insert struct {
	Section Section
	Entry   string
	// SortKey is embedded as the entry timestamp for Activity Log entries
	// that carry none of their own
	SortKey time.Time
}

// Insert places an entry into its section, creating the section when absent.
// Activity Log entries are re-sorted by timestamp afterwards.
func (d *Document) Insert(in Insert) error {
	if in.Section.Rank() < 0 {
		return perr.InvalidArgf("document: unknown section %q", in.Section)
	}
	line, err := entryLine(in.Entry)
	if err != nil {
		return err
	}
	if in.Section == ActivityLog && !in.SortKey.IsZero() {
		if _, ok := entry.Timestamp(line); !ok {
			line = "- " + entry.Stamp(in.SortKey) + " " + bulletless(line)
		}
	}

	d.place(in.Section, line, true)
	if in.Section == ActivityLog {
		d.sortActivity()
	}
	return nil
}

// AppendRaw appends line to section s exactly as given
func (d *Document) AppendRaw(s Section, line string) error {
	if s.Rank() < 0 {
		return perr.InvalidArgf("document: unknown section %q", s)
	}
	if strings.TrimSpace(line) == "" || strings.ContainsAny(line, "\r\n") {
		return perr.New(perr.ErrorCodeValidation, "document: raw line must be a single non-empty line")
	}
	d.place(s, line, false)
	return nil
}

// entryLine checks an entry is a single line and gives it a bullet when it has none
func entryLine(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", perr.New(perr.ErrorCodeValidation, "document: empty entry")
	}
	if strings.ContainsAny(s, "\r\n") {
		return "", perr.New(perr.ErrorCodeValidation, "document: entry spans multiple lines")
	}
	if !isListLine(s) {
		s = "- " + s
	}
	return s, nil
}

func bulletless(l string) string {
	for _, b := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(l, b) {
			return strings.TrimSpace(l[len(b):])
		}
	}
	return l
}

// place appends line after the last list line of s, or creates s
func (d *Document) place(s Section, line string, list bool) {
	start, end, ok := d.span(s)
	if !ok {
		d.create(s, line)
		return
	}

	lastList, lastContent := -1, -1
	for i := start + 1; i < end; i++ {
		if isBlank(d.lines[i]) {
			continue
		}
		lastContent = i
		if isListLine(d.lines[i]) {
			lastList = i
		}
	}

	var at int
	switch {
	case list && lastList >= 0:
		at = lastList + 1
		d.insertAt(at, line)
	case lastContent >= 0:
		at = lastContent + 1
		if isListLine(d.lines[lastContent]) {
			d.insertAt(at, line)
		} else {
			d.insertAt(at, "", line)
			at++
		}
	default:
		at = start + 1
		d.insertAt(at, "", line)
		at++
	}

	if next := at + 1; next < len(d.lines) {
		if _, isHeading := headingAt(d.lines[next]); isHeading {
			d.insertAt(next, "")
		}
	}
}

// create inserts a new heading before the next present section in canonical
// order, or at the end, with exactly one blank line on either side
func (d *Document) create(s Section, line string) {
	next := -1
	for i, l := range d.lines {
		if sec, ok := headingAt(l); ok && sec.Rank() > s.Rank() {
			next = i
			break
		}
	}

	if next < 0 {
		d.trimTrailingBlank(len(d.lines))
		block := []string{s.Header(), "", line}
		if len(d.lines) > 0 {
			block = append([]string{""}, block...)
		}
		d.lines = append(d.lines, block...)
		return
	}

	at := d.trimTrailingBlank(next)
	block := []string{s.Header(), "", line, ""}
	if at > 0 {
		block = append([]string{""}, block...)
	}
	d.insertAt(at, block...)
}

// trimTrailingBlank removes blank lines directly before index i and returns
// the new position of i
func (d *Document) trimTrailingBlank(i int) int {
	j := i
	for j > 0 && isBlank(d.lines[j-1]) {
		j--
	}
	d.lines = append(d.lines[:j], d.lines[i:]...)
	return j
}

// sortActivity orders top level Activity Log items by embedded timestamp,
// untimed items last. Items keep their indented continuation lines and
// free text stays where it is.
func (d *Document) sortActivity() {
	start, end, ok := d.span(ActivityLog)
	if !ok {
		return
	}

	type item struct {
		lines []string
		ts    time.Time
		timed bool
	}
	var items []item
	var slots []int
	for i := start + 1; i < end; {
		if !isTopLevelItem(d.lines[i]) {
			i++
			continue
		}
		j := i + 1
		for j < end && !isBlank(d.lines[j]) && (d.lines[j][0] == ' ' || d.lines[j][0] == '\t') {
			j++
		}
		ts, timed := entry.Timestamp(d.lines[i])
		items = append(items, item{lines: append([]string(nil), d.lines[i:j]...), ts: ts, timed: timed})
		slots = append(slots, i)
		i = j
	}
	if len(items) < 2 {
		return
	}

	sorted := append([]item(nil), items...)
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].timed != sorted[b].timed {
			return sorted[a].timed
		}
		return sorted[a].timed && sorted[a].ts.Before(sorted[b].ts)
	})

	out := make([]string, 0, end-start)
	slot := 0
	for i := start + 1; i < end; {
		if slot < len(slots) && i == slots[slot] {
			out = append(out, sorted[slot].lines...)
			i += len(items[slot].lines)
			slot++
			continue
		}
		out = append(out, d.lines[i])
		i++
	}
	tail := append([]string(nil), d.lines[end:]...)
	d.lines = append(append(d.lines[:start+1], out...), tail...)
}

// minEmbeddedWords is the shortest task that may match by appearing inside
// the completion description
const minEmbeddedWords = 2

// Complete marks the first open Action Items task matching description as
// done. An exact description match wins over a task containing description,
// which wins over a task named inside description.
func (d *Document) Complete(description string, at time.Time) (string, bool) {
	start, end, ok := d.span(ActionItems)
	if !ok || strings.TrimSpace(description) == "" {
		return "", false
	}
	want := normalize.Key(entry.Parse(entry.Action, description))
	if want == "" {
		return "", false
	}

	match := -1
	for i := start + 1; i < end && match < 0; i++ {
		if entry.IsOpenTask(d.lines[i]) && normalize.Key(entry.Parse(entry.Action, d.lines[i])) == want {
			match = i
		}
	}
	for i := start + 1; i < end && match < 0; i++ {
		if entry.IsOpenTask(d.lines[i]) && normalize.Contains(entry.Parse(entry.Action, d.lines[i]), description) {
			match = i
		}
	}
	// a task named inside a longer description only counts when the task
	// has enough words to be specific
	for i := start + 1; i < end && match < 0; i++ {
		if !entry.IsOpenTask(d.lines[i]) {
			continue
		}
		desc := entry.Parse(entry.Action, d.lines[i])
		if len(strings.Fields(normalize.Key(desc))) >= minEmbeddedWords && normalize.Contains(description, desc) {
			match = i
		}
	}
	if match < 0 {
		return "", false
	}

	done, _ := entry.Complete(d.lines[match], at)
	d.lines[match] = done
	return done, true
}
