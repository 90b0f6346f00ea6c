// Package domain holds the capture history event and its ports
package domain

import (
	"context"
	"time"
)

// Event is one committed capture
type Event struct {
	CaptureID      string
	At             time.Time
	Text           string
	InputType      string
	PrimaryTracker string
	Confidence     float64
	ItemTypes      []string
	Trackers       []string
	RequiresReview bool
	Fallback       bool
}

// Recorder writes events best-effort
type Recorder interface {
	Record(ctx context.Context, e Event) error
}
