// Package work runs import jobs on a bounded set of goroutines and keeps a
// short history of what ran, for logging and the import summary.
//
// Logging: every state change goes through internal/logging, since the
// TUI owns the terminal while imports run in the background.
package work

import (
	"context"
	"time"

	"github.com/abelbrown/newsfeed/internal/logging"
)

// LogEvent logs a work event for debugging.
func LogEvent(event Event) {
	item := event.Item
	switch event.Change {
	case ChangeStarted:
		logging.Debug("Work started",
			"id", item.ID,
			"type", item.Type,
			"desc", item.Description)
	case ChangeCompleted:
		logging.Info("Work completed",
			"id", item.ID,
			"type", item.Type,
			"desc", item.Description,
			"result", item.Result,
			"duration", item.Duration())
	case ChangeFailed:
		logging.Error("Work failed",
			"id", item.ID,
			"type", item.Type,
			"desc", item.Description,
			"error", item.Error,
			"duration", item.Duration())
	}
}

// Type categorizes work items.
type Type string

const (
	TypeFetch Type = "fetch" // download and parse a remote feed
	TypeParse Type = "parse" // parse a local feed file
	TypeOther Type = "other"
)

// Status is the lifecycle state of a work item.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Change names a transition reported to subscribers.
type Change string

const (
	ChangeStarted   Change = "started"
	ChangeCompleted Change = "completed"
	ChangeFailed    Change = "failed"
)

// Func is the body of a work item. The returned string is a short
// human-readable result such as "12 articles".
type Func func(ctx context.Context) (string, error)

// Item is one unit of work.
type Item struct {
	ID          string
	Type        Type
	Status      Status
	Description string // "Fetching Reuters"
	Source      string // feed URL or path

	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time

	Result string
	Error  error

	fn Func
}

// Duration is the run time of a finished item, or the time so far.
func (i *Item) Duration() time.Duration {
	if i.StartedAt.IsZero() {
		return 0
	}
	if i.FinishedAt.IsZero() {
		return time.Since(i.StartedAt)
	}
	return i.FinishedAt.Sub(i.StartedAt)
}

// Event reports an item state change.
type Event struct {
	Item   Item
	Change Change
}

// Stats summarizes pool activity.
type Stats struct {
	TotalCreated   int64
	TotalCompleted int64
	TotalFailed    int64
	WorkersActive  int
	WorkersTotal   int
}
