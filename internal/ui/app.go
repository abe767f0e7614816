package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/newsfeed/internal/debounce"
	"github.com/abelbrown/newsfeed/internal/facet"
	"github.com/abelbrown/newsfeed/internal/otel"
	"github.com/abelbrown/newsfeed/internal/search"
	"github.com/abelbrown/newsfeed/internal/store"
)

const comp = "tui"

// Options configures the search screen.
type Options struct {
	Load      func() tea.Cmd // returns a Cmd producing ArticlesLoaded
	Table     *facet.Table
	Facet     facet.ID
	Interval  time.Duration
	Events    *otel.Logger
	Ring      *otel.RingBuffer
	ShowDebug bool
	Now       func() time.Time
}

// App is the root Bubble Tea model for the search screen.
// App does not hold the store; articles arrive via ArticlesLoaded.
type App struct {
	load     func() tea.Cmd
	table    *facet.Table
	interval time.Duration
	events   *otel.Logger
	ring     *otel.RingBuffer
	now      func() time.Time

	input    textinput.Model
	spinner  spinner.Model
	spinning bool
	ctl      debounce.Controller
	stable   string
	active   facet.ID
	cache    *search.Cache

	articles []store.Article
	results  []store.Article
	cursor   int

	err       error
	width     int
	height    int
	ready     bool
	loading   bool
	showDebug bool
}

// NewApp creates the search screen.
func NewApp(opts Options) App {
	if opts.Table == nil {
		opts.Table = facet.Default()
	}
	if _, ok := opts.Table.Lookup(opts.Facet); !ok {
		opts.Facet = opts.Table.IDs()[0]
		if _, ok := opts.Table.Lookup(facet.MyFeed); ok {
			opts.Facet = facet.MyFeed
		}
	}
	if opts.Interval <= 0 {
		opts.Interval = debounce.DefaultInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ti := textinput.New()
	ti.Placeholder = "Search news, topics…"
	ti.Prompt = "› "
	ti.CharLimit = 256
	ti.Focus()

	a := App{
		load:      opts.Load,
		table:     opts.Table,
		interval:  opts.Interval,
		events:    opts.Events,
		ring:      opts.Ring,
		now:       opts.Now,
		input:     ti,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(Searching)),
		active:    opts.Facet,
		cache:     search.NewCache(),
		loading:   opts.Load != nil,
		showDebug: opts.ShowDebug,
	}
	a.recompute()
	return a
}

// Init starts the cursor blink and loads articles.
func (a App) Init() tea.Cmd {
	if a.load == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, a.load())
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.input.Width = max(msg.Width-10, 10)
		a.ready = true
		return a, nil

	case ArticlesLoaded:
		a.loading = false
		if msg.Err != nil {
			a.err = msg.Err
			a.events.Error(otel.KindStoreError, comp, msg.Err)
			return a, nil
		}
		a.err = nil
		a.articles = msg.Articles
		a.recompute()
		return a, nil

	case SettleTick:
		a.settle(msg.Ticket)
		return a, nil

	case spinner.TickMsg:
		if !a.ctl.Pending() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.err = nil

	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Clear):
		a.clear()
		return a, nil

	case key.Matches(msg, keys.NextFacet):
		a.setFacet(a.table.Next(a.active))
		return a, nil

	case key.Matches(msg, keys.PrevFacet):
		a.setFacet(a.table.Prev(a.active))
		return a, nil

	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case key.Matches(msg, keys.Down):
		if a.cursor < len(a.results)-1 {
			a.cursor++
		}
		return a, nil

	case key.Matches(msg, keys.Debug):
		a.showDebug = !a.showDebug
		return a, nil
	}

	if otel.TraceEnabled() {
		a.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindKeyPress, Comp: comp, Msg: msg.String()})
	}

	prev := a.input.Value()
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	if a.input.Value() == prev {
		return a, cmd
	}
	return a, tea.Batch(cmd, a.push(a.input.Value()))
}

// push records a keystroke and schedules its settle tick.
func (a *App) push(raw string) tea.Cmd {
	t := a.ctl.Push(raw)
	a.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindSearchRaw, Comp: comp, Query: raw})

	cmds := []tea.Cmd{
		tea.Tick(a.interval, func(time.Time) tea.Msg { return SettleTick{Ticket: t} }),
	}
	if a.ctl.Pending() && !a.spinning {
		a.spinning = true
		cmds = append(cmds, a.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (a *App) settle(t debounce.Ticket) {
	q, ok := a.ctl.Settle(t)
	if !ok {
		a.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindSearchDebounce, Comp: comp, Msg: "stale tick dropped"})
		return
	}
	a.stable = q
	a.cursor = 0
	a.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSearchSettle, Comp: comp, Query: q, Facet: string(a.active)})
	a.recompute()
}

func (a *App) clear() {
	a.ctl.Clear()
	a.input.SetValue("")
	a.stable = ""
	a.cursor = 0
	a.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSearchClear, Comp: comp, Facet: string(a.active)})
	a.recompute()
}

func (a *App) setFacet(id facet.ID) {
	a.active = id
	a.cursor = 0
	a.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindSearchFacet, Comp: comp, Facet: string(id), Query: a.stable})
	a.recompute()
}

func (a *App) recompute() {
	f, ok := a.table.Lookup(a.active)
	if !ok {
		return
	}
	start := time.Now()
	results, hit := a.cache.Get(a.articles, f, a.stable)
	a.results = results
	if a.cursor >= len(a.results) {
		a.cursor = max(len(a.results)-1, 0)
	}

	cache := "miss"
	if hit {
		cache = "hit"
	}
	a.events.Emit(otel.Event{
		Level: otel.LevelDebug,
		Kind:  otel.KindSearchComplete,
		Comp:  comp,
		Facet: string(a.active),
		Query: a.stable,
		Count: len(results),
		Dur:   time.Since(start),
		Extra: map[string]any{"cache": cache},
	})
}

// Query returns the raw input text.
func (a App) Query() string { return a.input.Value() }

// StableQuery returns the query the results are filtered by.
func (a App) StableQuery() string { return a.stable }

// Pending reports whether the "Searching..." indicator is shown.
func (a App) Pending() bool { return a.ctl.Pending() }

// ActiveFacet returns the selected facet.
func (a App) ActiveFacet() facet.ID { return a.active }

// Results returns the visible articles (for testing).
func (a App) Results() []store.Article { return a.results }

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int { return a.cursor }

// ShowEmptyState reports whether "No results found" is shown. It stays
// hidden while loading and while a search is pending.
func (a App) ShowEmptyState() bool {
	return len(a.results) == 0 && !a.ctl.Pending() && !a.loading
}

// LatestTicket returns the ticket of the most recent keystroke.
func (a App) LatestTicket() debounce.Ticket { return a.ctl.Latest() }
