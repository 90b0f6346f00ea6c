// Package domain holds the classification request and validated result
package domain

import (
	"context"
	"time"

	"capturebox/internal/core/entry"
	trackers "capturebox/internal/services/trackers/domain"
)

// Input is one capture as handed to the classifier
type Input struct {
	Text         string    `json:"text"          validate:"required,max=8000"`
	InputType    string    `json:"input_type,omitempty"`
	ForceContext string    `json:"force_context,omitempty"`
	Timestamp    time.Time `json:"timestamp,omitzero"`
}

// Request is the outbound inference request
type Request struct {
	Input
	Trackers map[string]trackers.ContextEntry `json:"trackers"`
}

// InferencePort sends a request to the external model and returns its raw reply
type InferencePort interface {
	Classify(ctx context.Context, req Request) ([]byte, error)
}

// Item is one routed entry
type Item struct {
	Tracker       string         `json:"tracker"`
	ItemType      entry.ItemType `json:"item_type"`
	Priority      entry.Priority `json:"priority"`
	Description   string         `json:"description"`
	CanonicalText string         `json:"canonical_text"`
	DueDate       time.Time      `json:"due_date,omitzero"`
	TimeSensitive bool           `json:"time_sensitive,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
}

// Completion names a task the capture reports as done
type Completion struct {
	Tracker     string `json:"tracker"`
	Description string `json:"description"`
}

// Result is the closed shape every reply is coerced into
type Result struct {
	PrimaryTracker string         `json:"primary_tracker"`
	Confidence     float64        `json:"confidence"`
	RequiresReview bool           `json:"requires_review"`
	ItemType       entry.ItemType `json:"item_type"`
	Priority       entry.Priority `json:"priority"`
	Keywords       []string       `json:"keywords,omitempty"`
	Reasoning      string         `json:"reasoning,omitempty"`
	Items          []Item         `json:"items"`
	CompletedTasks []Completion   `json:"completed_tasks,omitempty"`
	Fallback       bool           `json:"fallback,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// Classifier turns a capture into a Result
type Classifier interface {
	Classify(ctx context.Context, in Input, known map[string]trackers.ContextEntry) (Result, error)
}
