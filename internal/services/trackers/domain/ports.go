package domain

import (
	"context"
	"time"
)

// Store persists tracker documents. Read returns a NotFound error for
// unknown ids; Write returns a Conflict error when t.Version is stale.
type Store interface {
	List(ctx context.Context) ([]Tracker, error)
	Read(ctx context.Context, id string) (Tracker, error)
	Write(ctx context.Context, t Tracker) error
}

// CommitPort is the boolean commit surface used by capture and review.
// false means the entry was not durably stored.
type CommitPort interface {
	AddEntry(ctx context.Context, trackerID, section, entry string, sortKey time.Time) bool
	AddActivity(ctx context.Context, trackerID, entry string, at time.Time) bool
	AddToReview(ctx context.Context, trackerID, entry string) bool
	AppendRaw(ctx context.Context, trackerID, section, line string) bool
	MarkComplete(ctx context.Context, trackerID, description string, at time.Time) bool
}

// RegistryPort reads the loaded tracker set
type RegistryPort interface {
	Get(id string) (Tracker, bool)
	List() []Tracker
	Context() map[string]ContextEntry
	Counts() map[string]int
	Refresh(ctx context.Context) error
}
