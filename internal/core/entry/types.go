// Package entry renders and reads the canonical single-line markdown entries
// stored in tracker documents
package entry

import (
	"strings"
	"time"
)

// ItemType is the closed set of entry kinds a tracker understands
type ItemType string

const (
	// Action is an open task with a checkbox
	Action ItemType = "action"
	// Review is an item that needs a human decision
	Review ItemType = "review"
	// Reference is a piece of information worth keeping
	Reference ItemType = "reference"
	// Someday is a parked idea
	Someday ItemType = "someday"
	// Activity is a timestamped log line
	Activity ItemType = "activity"
)

// Types lists every item type in a stable order
var Types = []ItemType{Action, Review, Reference, Someday, Activity}

// Priority is the closed set of action priorities
type Priority string

const (
	// Critical needs attention now
	Critical Priority = "critical"
	// High should be done soon
	High Priority = "high"
	// Medium is the default
	Medium Priority = "medium"
	// Low can wait
	Low Priority = "low"
)

// DefaultTag is used when no tag is supplied
const DefaultTag = "inbox"

const (
	dateLayout  = "2006-01-02"
	stampLayout = "2006-01-02 15:04"
)

var itemTypeAliases = map[string]ItemType{
	"action":    Action,
	"task":      Action,
	"todo":      Action,
	"review":    Review,
	"reference": Reference,
	"ref":       Reference,
	"note":      Reference,
	"someday":   Someday,
	"maybe":     Someday,
	"idea":      Someday,
	"activity":  Activity,
	"log":       Activity,
	"done":      Activity,
}

var priorityAliases = map[string]Priority{
	"critical": Critical,
	"urgent":   Critical,
	"high":     High,
	"medium":   Medium,
	"normal":   Medium,
	"low":      Low,
}

// ParseItemType maps a loose label onto an ItemType
func ParseItemType(s string) (ItemType, bool) {
	t, ok := itemTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// ParsePriority maps a loose label onto a Priority
func ParsePriority(s string) (Priority, bool) {
	p, ok := priorityAliases[strings.ToLower(strings.TrimSpace(s))]
	return p, ok
}

// Valid reports whether t is one of the known item types
func (t ItemType) Valid() bool {
	for _, k := range Types {
		if k == t {
			return true
		}
	}
	return false
}

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case Critical, High, Medium, Low:
		return true
	}
	return false
}

// Options carries the metadata rendered around a description
type Options struct {
	Tag        string
	Priority   Priority
	DueDate    time.Time
	Date       time.Time
	Confidence float64
}

// now is a seam for tests
var now = time.Now

func (o Options) date() time.Time {
	if o.Date.IsZero() {
		return now()
	}
	return o.Date
}

// NormalizeTag lowercases a tag, strips the leading hash and keeps only
// characters that survive as a markdown hashtag
func NormalizeTag(s string) string {
	s = strings.ToLower(strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "#")))
	var b strings.Builder
	b.Grow(len(s))
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '/':
			b.WriteRune(r)
			dash = false
		case r == '-' || r == ' ' || r == '\t':
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if out == "" {
		return DefaultTag
	}
	return out
}
