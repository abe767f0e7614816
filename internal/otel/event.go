// Package otel records structured search, store and feed events.
//
// Events are serialized as JSONL by an async Logger. A RingBuffer keeps the
// most recent events in memory for the TUI debug line and for tests.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind is dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Search session
	KindSearchRaw      EventKind = "search.raw"
	KindSearchDebounce EventKind = "search.debounce"
	KindSearchSettle   EventKind = "search.settle"
	KindSearchFacet    EventKind = "search.facet"
	KindSearchClear    EventKind = "search.clear"
	KindSearchComplete EventKind = "search.complete"

	// Store
	KindStoreOpen  EventKind = "store.open"
	KindStoreSave  EventKind = "store.save"
	KindStoreLoad  EventKind = "store.load"
	KindStoreError EventKind = "store.error"

	// Feeds
	KindFeedFetch    EventKind = "feed.fetch"
	KindFeedComplete EventKind = "feed.complete"
	KindFeedError    EventKind = "feed.error"

	// HTTP API
	KindHTTPRequest EventKind = "http.request"
	KindHTTPError   EventKind = "http.error"

	// UI and process
	KindKeyPress EventKind = "ui.key"
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"
)

// Event is a single observability record. Every field except Kind and Time
// is optional.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "session", "server", "tui", "store", "feeds"
	SessionID string         `json:"session_id,omitempty"`
	Facet     string         `json:"facet,omitempty"`
	Query     string         `json:"query,omitempty"`
	Count     int            `json:"count,omitempty"`
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"`
	Source    string         `json:"source,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON converts Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := alias(e)
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
