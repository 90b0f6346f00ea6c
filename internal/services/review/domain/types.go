// Package domain holds review queue items, actions and ports
package domain

import (
	"context"
	"time"

	"capturebox/internal/core/entry"
)

// Status is the lifecycle state of a queued item
type Status string

const (
	// Pending items had low confidence
	Pending Status = "pending"
	// Flagged items had at least FlagThreshold confidence
	Flagged Status = "flagged"
	// Confirmed items are done and wait to be purged
	Confirmed Status = "confirmed"
)

// FlagThreshold splits flagged from pending on creation
const FlagThreshold = 0.5

// rank orders statuses; transitions may only move forward
func (s Status) rank() int {
	switch s {
	case Pending:
		return 0
	case Flagged:
		return 1
	case Confirmed:
		return 2
	}
	return -1
}

// Valid reports a known status
func (s Status) Valid() bool { return s.rank() >= 0 }

// Advances reports whether moving from s to next never goes backwards
func (s Status) Advances(next Status) bool {
	return s.Valid() && next.Valid() && next.rank() >= s.rank()
}

// Open reports statuses that still need a decision
func (s Status) Open() bool { return s == Pending || s == Flagged }

// Source says who queued an item
type Source string

const (
	SourceCapture   Source = "capture"
	SourceInference Source = "inference"
)

// Action is a review decision
type Action string

const (
	Accept       Action = "accept"
	EditPriority Action = "edit-priority"
	EditTags     Action = "edit-tags"
	EditType     Action = "edit-type"
	Move         Action = "move"
	Reject       Action = "reject"
)

// Actions lists every supported action
var Actions = []Action{Accept, EditPriority, EditTags, EditType, Move, Reject}

// Metadata carries the classification hints a reviewer can edit
type Metadata struct {
	Keywords       []string       `json:"keywords,omitempty"`
	Urgency        entry.Priority `json:"urgency,omitempty"`
	Type           entry.ItemType `json:"type,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	EditableFields []string       `json:"editable_fields,omitempty"`
}

// Item is one queued capture
type Item struct {
	ID             string    `json:"id"`
	Content        string    `json:"content"`
	Confidence     float64   `json:"confidence"`
	CurrentTracker string    `json:"current_tracker"`
	CurrentSection string    `json:"current_section"`
	Timestamp      time.Time `json:"timestamp"`
	Source         Source    `json:"source"`
	Status         Status    `json:"status"`
	Metadata       Metadata  `json:"metadata"`
}

// Clone deep copies the slices of i
func (i Item) Clone() Item {
	i.Metadata.Keywords = append([]string(nil), i.Metadata.Keywords...)
	i.Metadata.Tags = append([]string(nil), i.Metadata.Tags...)
	i.Metadata.EditableFields = append([]string(nil), i.Metadata.EditableFields...)
	return i
}

// FlagRequest queues a new item
type FlagRequest struct {
	Content    string    `json:"content"    validate:"required,max=8000"`
	Confidence float64   `json:"confidence" validate:"gte=0,lte=1"`
	Tracker    string    `json:"tracker"    validate:"required"`
	Section    string    `json:"section"`
	Source     Source    `json:"source"     validate:"omitempty,oneof=capture inference"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

// Values are the optional new values of an edit or move
type Values struct {
	Priority string   `json:"priority,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Type     string   `json:"type,omitempty"`
	Tracker  string   `json:"tracker,omitempty"`
	Section  string   `json:"section,omitempty"`
}

// ActionRequest is one entry of a batch
type ActionRequest struct {
	ID     string `json:"id"     validate:"required"`
	Action Action `json:"action" validate:"required"`
	Values Values `json:"values"`
}

// ActionResult reports one batch entry
type ActionResult struct {
	ID      string `json:"id"`
	Action  Action `json:"action"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Store persists queued items. Get returns a NotFound error for unknown ids.
type Store interface {
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Upsert(ctx context.Context, it Item) error
	Remove(ctx context.Context, id string) error
}

// QueuePort is the surface capture uses
type QueuePort interface {
	FlagItemForReview(ctx context.Context, req FlagRequest) (Item, error)
	GetItemsNeedingReview(ctx context.Context, tracker string) ([]Item, error)
}
