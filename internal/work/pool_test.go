package work

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsAll(t *testing.T) {
	p := NewPool(context.Background(), 2)

	var ran int32
	for i := 0; i < 5; i++ {
		p.Submit(TypeParse, "job", "", func(ctx context.Context) (string, error) {
			atomic.AddInt32(&ran, 1)
			return "ok", nil
		})
	}
	p.Wait()

	if ran != 5 {
		t.Errorf("expected 5 runs, got %d", ran)
	}
	s := p.Stats()
	if s.TotalCreated != 5 || s.TotalCompleted != 5 || s.TotalFailed != 0 {
		t.Errorf("unexpected stats %+v", s)
	}
	if s.WorkersActive != 0 || s.WorkersTotal != 2 {
		t.Errorf("unexpected worker counts %+v", s)
	}
	if got := len(p.Completed()); got != 5 {
		t.Errorf("expected 5 completed items, got %d", got)
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	p := NewPool(context.Background(), 2)

	var running, peak int32
	for i := 0; i < 8; i++ {
		p.Submit(TypeFetch, "job", "", func(ctx context.Context) (string, error) {
			n := atomic.AddInt32(&running, 1)
			for {
				old := atomic.LoadInt32(&peak)
				if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
			return "", nil
		})
	}
	p.Wait()

	if peak > 2 {
		t.Errorf("expected at most 2 concurrent items, got %d", peak)
	}
}

func TestPoolFailures(t *testing.T) {
	p := NewPool(context.Background(), 1)
	boom := errors.New("boom")

	p.Submit(TypeFetch, "fails", "a", func(ctx context.Context) (string, error) { return "", boom })
	p.Submit(TypeFetch, "panics", "b", func(ctx context.Context) (string, error) { panic("bad feed") })
	p.Submit(TypeFetch, "nil", "c", nil)
	p.Wait()

	if s := p.Stats(); s.TotalFailed != 3 {
		t.Errorf("expected 3 failures, got %+v", s)
	}
	for _, item := range p.Completed() {
		if item.Status != StatusFailed || item.Error == nil {
			t.Errorf("%s: expected failed with error, got %s %v", item.Description, item.Status, item.Error)
		}
		if item.Description == "fails" && !errors.Is(item.Error, boom) {
			t.Errorf("expected boom, got %v", item.Error)
		}
	}
}

func TestPoolStopCancels(t *testing.T) {
	p := NewPool(context.Background(), 1)

	started := make(chan struct{})
	p.Submit(TypeFetch, "blocks", "", func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		return "", ctx.Err()
	})
	<-started
	p.Submit(TypeFetch, "queued", "", func(ctx context.Context) (string, error) { return "ran", nil })

	p.Stop()

	for _, item := range p.Completed() {
		if !errors.Is(item.Error, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", item.Description, item.Error)
		}
	}
}

func TestPoolSubscribe(t *testing.T) {
	p := NewPool(context.Background(), 1)
	events := p.Subscribe()

	p.Submit(TypeParse, "job", "", func(ctx context.Context) (string, error) { return "3 articles", nil })
	p.Wait()

	var changes []Change
	for len(events) > 0 {
		e := <-events
		changes = append(changes, e.Change)
		if e.Change == ChangeCompleted && e.Item.Result != "3 articles" {
			t.Errorf("expected result on completion, got %q", e.Item.Result)
		}
	}
	if len(changes) != 2 || changes[0] != ChangeStarted || changes[1] != ChangeCompleted {
		t.Errorf("expected started then completed, got %v", changes)
	}
}

func TestItemDuration(t *testing.T) {
	start := time.Now()
	tests := []struct {
		name string
		item Item
		want time.Duration
	}{
		{"not started", Item{}, 0},
		{"finished", Item{StartedAt: start, FinishedAt: start.Add(time.Second)}, time.Second},
	}
	for _, tt := range tests {
		if got := tt.item.Duration(); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}
