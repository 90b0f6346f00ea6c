// Package domain holds reminders and the scheduling port
package domain

import (
	"context"
	"time"
)

// Request asks for a reminder about one committed action
type Request struct {
	CaptureID   string
	Tracker     string
	Description string
	// DueDate is the day the action is due; zero means unknown
	DueDate time.Time
}

// Reminder is a stored reminder
type Reminder struct {
	ID          string
	CaptureID   string
	Tracker     string
	Description string
	RemindAt    time.Time
	CreatedAt   time.Time
}

// Scheduler schedules reminders
type Scheduler interface {
	Schedule(ctx context.Context, req Request) (Reminder, error)
}

// Store persists reminders
type Store interface {
	Insert(ctx context.Context, r Reminder) error
}
