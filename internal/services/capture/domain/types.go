// Package domain holds capture inputs and results
package domain

import (
	"time"

	"capturebox/internal/core/entry"
)

// Input is one raw capture
type Input struct {
	Text         string    `json:"text"                    validate:"required,max=8000"`
	InputType    string    `json:"input_type,omitempty"`
	ForceContext string    `json:"force_context,omitempty"`
	Timestamp    time.Time `json:"timestamp,omitzero"`
}

// ItemResult reports one item commit
type ItemResult struct {
	Tracker           string         `json:"tracker"`
	Section           string         `json:"section"`
	ItemType          entry.ItemType `json:"item_type"`
	Priority          entry.Priority `json:"priority"`
	FormattedEntry    string         `json:"formatted_entry"`
	Success           bool           `json:"success"`
	ReminderScheduled bool           `json:"reminder_scheduled"`
	Error             string         `json:"error,omitempty"`
}

// CompletionResult reports one completion signal
type CompletionResult struct {
	Tracker     string `json:"tracker"`
	Description string `json:"description"`
	Success     bool   `json:"success"`
}

// Result is the outcome of one capture
type Result struct {
	Success        bool               `json:"success"`
	CaptureID      string             `json:"capture_id"`
	PrimaryTracker string             `json:"primary_tracker"`
	Confidence     float64            `json:"confidence"`
	ItemResults    []ItemResult       `json:"item_results"`
	CompletedTasks []CompletionResult `json:"completed_tasks"`
	RequiresReview bool               `json:"requires_review"`
	ReviewID       string             `json:"review_id,omitempty"`
	// Emergency is set when the capture went through the raw fallback chain
	Emergency bool   `json:"emergency,omitempty"`
	Error     string `json:"error,omitempty"`
}

// NoTracker is the primary tracker of a capture nothing could store
const NoTracker = "none"

// Status summarizes the loaded trackers and the review backlog
type Status struct {
	Trackers      int            `json:"trackers"`
	ByContextType map[string]int `json:"by_context_type"`
	PendingReview int            `json:"pending_review"`
}
