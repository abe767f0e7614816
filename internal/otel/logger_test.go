package otel

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestEmitWritesJSONL(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Emit(Event{Kind: KindSearchSettle, Level: LevelInfo, Comp: "session", Query: "ai", Facet: "allnews"})
	l.Close()

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	got := lines[0]
	if got["kind"] != "search.settle" {
		t.Errorf("expected kind=search.settle, got %v", got["kind"])
	}
	if got["query"] != "ai" || got["facet"] != "allnews" {
		t.Errorf("expected query and facet fields, got %v", got)
	}
	if got["comp"] != "session" {
		t.Errorf("expected comp=session, got %v", got["comp"])
	}
}

func TestEmitSetsTimeAndSessionID(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	before := time.Now()
	l.Emit(Event{Kind: KindStartup})
	l.Close()
	after := time.Now()

	var ev Event
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Time.Before(before) || ev.Time.After(after) {
		t.Errorf("time %v not in [%v, %v]", ev.Time, before, after)
	}
	if _, err := uuid.Parse(ev.SessionID); err != nil {
		t.Errorf("expected uuid session id, got %q", ev.SessionID)
	}
	if ev.SessionID != l.SessionID() {
		t.Errorf("expected %q, got %q", l.SessionID(), ev.SessionID)
	}
}

func TestDurToMs(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Emit(Event{Kind: KindSearchComplete, Dur: 1500 * time.Microsecond})
	l.Close()

	got := decodeLines(t, &buf)[0]
	if got["dur_ms"] != 1.5 {
		t.Errorf("expected dur_ms=1.5, got %v", got["dur_ms"])
	}
}

func TestOmitempty(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Emit(Event{Kind: KindStartup})
	l.Close()

	line := buf.String()
	for _, field := range []string{"dur_ms", "count", "source", "query", "facet", "err", "msg", "extra"} {
		if strings.Contains(line, `"`+field+`"`) {
			t.Errorf("expected %q to be omitted: %s", field, line)
		}
	}
}

func TestConcurrentEmit(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Emit(Event{Kind: KindSearchRaw, Comp: "test"})
		}()
	}
	wg.Wait()
	l.Close()

	if got := len(decodeLines(t, &buf)); got != 100 {
		t.Errorf("expected 100 lines, got %d", got)
	}
}

func TestCloseIdempotentAndDropsLateEmits(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Emit(Event{Kind: KindStartup})
	l.Close()
	l.Close()
	l.Emit(Event{Kind: KindShutdown})

	if got := len(decodeLines(t, &buf)); got != 1 {
		t.Errorf("expected 1 line, got %d", got)
	}
	if l.Dropped() != 1 {
		t.Errorf("expected 1 dropped, got %d", l.Dropped())
	}
}

func TestDropWhenQueueFull(t *testing.T) {
	bw := &blockingWriter{started: make(chan struct{}), block: make(chan struct{})}
	l := NewLogger(bw)

	l.Emit(Event{Kind: KindSearchRaw})
	<-bw.started

	for i := 0; i < queueSize+10; i++ {
		l.Emit(Event{Kind: KindSearchRaw})
	}
	if l.Dropped() == 0 {
		t.Error("expected drops when the queue is full")
	}

	close(bw.block)
	l.Close()
}

type blockingWriter struct {
	started chan struct{}
	block   chan struct{}
	once    sync.Once
}

func (w *blockingWriter) Write(p []byte) (int, error) {
	w.once.Do(func() {
		close(w.started)
		<-w.block
	})
	return len(p), nil
}

func TestHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf)

	l.Info(KindStartup, "main", "starting")
	l.Warn(KindFeedError, "feeds", "timeout")
	l.Error(KindStoreError, "store", errForTest("disk full"))
	l.Error(KindError, "main", nil)
	l.Close()

	lines := decodeLines(t, &buf)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(lines))
	}

	tests := []struct {
		level, kind, comp string
	}{
		{"info", "sys.startup", "main"},
		{"warn", "feed.error", "feeds"},
		{"error", "store.error", "store"},
		{"error", "sys.error", "main"},
	}
	for i, tt := range tests {
		got := lines[i]
		if got["level"] != tt.level || got["kind"] != tt.kind || got["comp"] != tt.comp {
			t.Errorf("line %d: got %v, want %+v", i, got, tt)
		}
	}
	if lines[2]["err"] != "disk full" {
		t.Errorf("expected err=disk full, got %v", lines[2]["err"])
	}
}

type errForTest string

func (e errForTest) Error() string { return string(e) }

func TestRingBufferReceivesEvents(t *testing.T) {
	l := NewNullLogger()
	ring := NewRingBuffer(8)
	l.SetRingBuffer(ring)

	l.Emit(Event{Kind: KindSearchFacet, Facet: "sports", Dur: time.Millisecond})
	l.Close()

	snap := ring.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 event in ring, got %d", len(snap))
	}
	if snap[0].Facet != "sports" || snap[0].Dur != time.Millisecond {
		t.Errorf("ring event lost fields: %+v", snap[0])
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Emit(Event{Kind: KindStartup})
	l.Info(KindStartup, "main", "x")
	l.SetRingBuffer(NewRingBuffer(1))
	l.Close()
	if l.Dropped() != 0 || l.SessionID() != "" {
		t.Error("nil logger should report zero values")
	}
}
