// Package search holds the state behind one search screen: the raw and
// stabilized query, the active facet, and the memoized visible results.
//
// Keystrokes go through a Debouncer; facet changes and clears apply
// immediately. The Session is safe for concurrent use because settle
// callbacks arrive on the clock's goroutine.
package search

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/abelbrown/newsfeed/internal/debounce"
	"github.com/abelbrown/newsfeed/internal/facet"
	"github.com/abelbrown/newsfeed/internal/highlight"
	"github.com/abelbrown/newsfeed/internal/otel"
	"github.com/abelbrown/newsfeed/internal/store"
)

const comp = "session"

// Phase is Idle when the stabilized query is current and Pending while a
// non-empty raw query waits to settle.
type Phase int

const (
	Idle Phase = iota
	Pending
)

func (p Phase) String() string {
	if p == Pending {
		return "pending"
	}
	return "idle"
}

// State is a snapshot of the session.
type State struct {
	RawQuery       string
	DebouncedQuery string
	ActiveFacet    facet.ID
	Pending        bool
	Results        int
}

type options struct {
	clock    clock.Clock
	interval time.Duration
	facet    facet.ID
	events   *otel.Logger
	onChange func(State)
}

// Option configures a Session.
type Option func(*options)

// WithClock drives the debounce timer from c.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithInterval overrides debounce.DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// WithFacet selects the initial facet. The default is facet.MyFeed.
func WithFacet(id facet.ID) Option {
	return func(o *options) { o.facet = id }
}

// WithTelemetry records session events to l.
func WithTelemetry(l *otel.Logger) Option {
	return func(o *options) { o.events = l }
}

// OnChange registers fn to run after every stabilized query, facet change,
// clear and collection swap. fn runs without the session lock held.
func OnChange(fn func(State)) Option {
	return func(o *options) { o.onChange = fn }
}

// Session is the per-screen search state.
type Session struct {
	mu       sync.Mutex
	articles []store.Article
	table    *facet.Table
	active   facet.Facet
	stable   string
	results  []store.Article
	cache    *Cache
	deb      *debounce.Debouncer
	events   *otel.Logger
	onChange func(State)
	closed   bool
}

// New mounts a session over articles. A nil table uses facet.Default.
// It fails only when the initial facet is not in the table.
func New(articles []store.Article, table *facet.Table, opts ...Option) (*Session, error) {
	if table == nil {
		table = facet.Default()
	}
	o := options{
		clock:    clock.New(),
		interval: debounce.DefaultInterval,
		facet:    facet.MyFeed,
	}
	for _, opt := range opts {
		opt(&o)
	}

	active, ok := table.Lookup(o.facet)
	if !ok {
		return nil, fmt.Errorf("initial facet: %w: %q", facet.ErrUnknownFacet, o.facet)
	}

	s := &Session{
		articles: articles,
		table:    table,
		active:   active,
		cache:    NewCache(),
		events:   o.events,
		onChange: o.onChange,
	}
	s.deb = debounce.New(s.settle,
		debounce.WithClock(o.clock),
		debounce.WithInterval(o.interval),
	)
	s.recompute()
	return s, nil
}

// SetRawQuery records a keystroke. Results change only once the text has
// been still for the debounce interval.
func (s *Session) SetRawQuery(text string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	restarted := s.deb.Pending()
	s.deb.Push(text)
	s.mu.Unlock()

	s.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindSearchRaw, Comp: comp, Query: text})
	if restarted {
		s.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindSearchDebounce, Comp: comp, Query: text, Msg: "timer restarted"})
	}
}

// Flush applies the pending raw query without waiting for the interval.
// Used by one-shot callers that have nothing to debounce.
func (s *Session) Flush() {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if !closed {
		s.deb.Flush()
	}
}

// settle is the Debouncer's emit callback.
func (s *Session) settle(q string) {
	s.mu.Lock()
	// A clear or a newer settle may have run since the timer fired.
	if s.closed || q != s.deb.Stable() {
		s.mu.Unlock()
		return
	}
	s.stable = q
	ev := s.recompute()
	st := s.stateLocked()
	fn := s.onChange
	s.mu.Unlock()

	s.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSearchSettle, Comp: comp, Query: q, Facet: string(st.ActiveFacet)})
	s.events.Emit(ev)
	if fn != nil {
		fn(st)
	}
}

// SetActiveFacet switches facets immediately, keeping the current
// stabilized query. An unknown id leaves the session unchanged.
func (s *Session) SetActiveFacet(id facet.ID) error {
	f, ok := s.table.Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", facet.ErrUnknownFacet, id)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.active = f
	ev := s.recompute()
	st := s.stateLocked()
	fn := s.onChange
	s.mu.Unlock()

	s.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSearchFacet, Comp: comp, Facet: string(id), Query: st.DebouncedQuery})
	s.events.Emit(ev)
	if fn != nil {
		fn(st)
	}
	return nil
}

// ClearQuery cancels any pending keystroke and resets both queries to ""
// in one step.
func (s *Session) ClearQuery() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.deb.Clear()
	s.stable = ""
	ev := s.recompute()
	st := s.stateLocked()
	fn := s.onChange
	s.mu.Unlock()

	s.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSearchClear, Comp: comp, Facet: string(st.ActiveFacet)})
	s.events.Emit(ev)
	if fn != nil {
		fn(st)
	}
}

// SetArticles replaces the collection, for example after an import.
func (s *Session) SetArticles(articles []store.Article) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.articles = articles
	ev := s.recompute()
	st := s.stateLocked()
	fn := s.onChange
	s.mu.Unlock()

	s.events.Emit(ev)
	if fn != nil {
		fn(st)
	}
}

// recompute must be called with s.mu held. It returns the completion event
// for the caller to emit after unlocking.
func (s *Session) recompute() otel.Event {
	start := time.Now()
	results, hit := s.cache.Get(s.articles, s.active, s.stable)
	s.results = results

	cache := "miss"
	if hit {
		cache = "hit"
	}
	return otel.Event{
		Level: otel.LevelDebug,
		Kind:  otel.KindSearchComplete,
		Comp:  comp,
		Facet: string(s.active.ID),
		Query: s.stable,
		Count: len(results),
		Dur:   time.Since(start),
		Extra: map[string]any{"cache": cache},
	}
}

// VisibleResults returns a copy of the current filtered view.
func (s *Session) VisibleResults() []store.Article {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]store.Article, len(s.results))
	copy(out, s.results)
	return out
}

// HighlightedFields splits a's searchable fields on the stabilized query.
func (s *Session) HighlightedFields(a store.Article) highlight.Fields {
	s.mu.Lock()
	q := s.stable
	s.mu.Unlock()
	return highlight.ForArticle(a, q)
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	return State{
		RawQuery:       s.deb.Raw(),
		DebouncedQuery: s.stable,
		ActiveFacet:    s.active.ID,
		Pending:        s.deb.Pending(),
		Results:        len(s.results),
	}
}

// Phase reports whether a non-empty query is waiting to settle.
func (s *Session) Phase() Phase {
	if s.deb.Pending() {
		return Pending
	}
	return Idle
}

// ShowEmptyState reports whether the "no results" view should be shown.
// It stays hidden while a search is pending.
func (s *Session) ShowEmptyState() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results) == 0 && !s.deb.Pending()
}

// Table returns the facet table the session was mounted with.
func (s *Session) Table() *facet.Table {
	return s.table
}

// Close stops the debounce timer. Later calls become no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.deb.Stop()
}
