package work

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/abelbrown/newsfeed/internal/logging"
)

// historySize bounds the completed list.
const historySize = 100

// Pool runs submitted items with at most workers running at once.
type Pool struct {
	mu        sync.RWMutex
	workers   int
	sem       chan struct{}
	active    map[string]*Item
	completed []Item

	subscribers   []chan Event
	subscribersMu sync.RWMutex

	totalCreated   int64
	totalCompleted int64
	totalFailed    int64
	nextID         int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool creates a pool bound to ctx. If workers <= 0, uses runtime.NumCPU().
func NewPool(parent context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	c, cancel := context.WithCancel(parent)
	return &Pool{
		workers: workers,
		sem:     make(chan struct{}, workers),
		active:  make(map[string]*Item),
		ctx:     c,
		cancel:  cancel,
	}
}

// Submit queues fn and returns the item ID. Items still waiting for a
// worker when the pool is stopped fail with the context error.
func (p *Pool) Submit(typ Type, desc, source string, fn Func) string {
	item := &Item{
		ID:          p.generateID(),
		Type:        typ,
		Status:      StatusPending,
		Description: desc,
		Source:      source,
		CreatedAt:   time.Now(),
		fn:          fn,
	}
	atomic.AddInt64(&p.totalCreated, 1)

	p.wg.Add(1)
	go p.run(item)
	return item.ID
}

func (p *Pool) run(item *Item) {
	defer p.wg.Done()

	select {
	case p.sem <- struct{}{}:
	case <-p.ctx.Done():
		p.complete(item, "", p.ctx.Err())
		return
	}
	defer func() { <-p.sem }()
	if err := p.ctx.Err(); err != nil {
		p.complete(item, "", err)
		return
	}

	p.mu.Lock()
	item.Status = StatusActive
	item.StartedAt = time.Now()
	p.active[item.ID] = item
	snap := *item
	p.mu.Unlock()
	p.notify(Event{Item: snap, Change: ChangeStarted})

	p.execute(item)
}

// execute runs a single work item, turning a panic into a failure.
func (p *Pool) execute(item *Item) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Work panicked", "id", item.ID, "panic", r)
			p.complete(item, "", fmt.Errorf("panic: %v", r))
		}
	}()

	if item.fn == nil {
		p.complete(item, "", fmt.Errorf("no work function"))
		return
	}
	result, err := item.fn(p.ctx)
	p.complete(item, result, err)
}

func (p *Pool) complete(item *Item, result string, err error) {
	p.mu.Lock()
	item.FinishedAt = time.Now()
	item.Result = result
	item.Error = err
	change := ChangeCompleted
	if err != nil {
		item.Status = StatusFailed
		change = ChangeFailed
		atomic.AddInt64(&p.totalFailed, 1)
	} else {
		item.Status = StatusComplete
		atomic.AddInt64(&p.totalCompleted, 1)
	}
	delete(p.active, item.ID)
	p.completed = append(p.completed, *item)
	if len(p.completed) > historySize {
		p.completed = p.completed[len(p.completed)-historySize:]
	}
	snap := *item
	p.mu.Unlock()

	p.notify(Event{Item: snap, Change: change})
}

// Wait blocks until every submitted item has finished.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Stop cancels running items and waits for them to return.
func (p *Pool) Stop() {
	p.cancel()
	p.wg.Wait()
	s := p.Stats()
	logging.Info("Work pool stopped",
		"created", s.TotalCreated,
		"completed", s.TotalCompleted,
		"failed", s.TotalFailed)
}

// Completed returns finished items, oldest first.
func (p *Pool) Completed() []Item {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Item, len(p.completed))
	copy(out, p.completed)
	return out
}

// Subscribe returns a channel that receives work events.
// A subscriber that falls behind misses events rather than blocking the pool.
func (p *Pool) Subscribe() <-chan Event {
	ch := make(chan Event, 100)
	p.subscribersMu.Lock()
	p.subscribers = append(p.subscribers, ch)
	p.subscribersMu.Unlock()
	return ch
}

func (p *Pool) notify(event Event) {
	LogEvent(event)

	p.subscribersMu.RLock()
	defer p.subscribersMu.RUnlock()
	for _, ch := range p.subscribers {
		select {
		case ch <- event:
		default:
			logging.Debug("Work event dropped (subscriber full)",
				"id", event.Item.ID,
				"change", event.Change)
		}
	}
}

func (p *Pool) generateID() string {
	id := atomic.AddInt64(&p.nextID, 1)
	return fmt.Sprintf("w%d", id)
}

// Stats returns current statistics.
func (p *Pool) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Stats{
		TotalCreated:   atomic.LoadInt64(&p.totalCreated),
		TotalCompleted: atomic.LoadInt64(&p.totalCompleted),
		TotalFailed:    atomic.LoadInt64(&p.totalFailed),
		WorkersActive:  len(p.active),
		WorkersTotal:   p.workers,
	}
}
