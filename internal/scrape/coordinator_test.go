package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/internscout/internal/model"
	"github.com/amishk599/internscout/internal/store"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubAdapter returns n records, an error, or panics.
type stubAdapter struct {
	name  string
	n     int
	err   error
	panic bool
	block bool
	calls atomic.Int32
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Scrape(ctx context.Context, query string) ([]model.RawRecord, error) {
	s.calls.Add(1)
	if s.panic {
		panic("selector exploded")
	}
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.RawRecord, s.n)
	for i := range out {
		out[i] = model.RawRecord{RawText: fmt.Sprintf("%s %s #%d", s.name, query, i), URL: fmt.Sprintf("https://%s.example/%d", s.name, i)}
	}
	return out, nil
}

// recordingScope tracks Open/Close calls.
type recordingScope struct {
	openErr error
	opened  int
	closed  int
}

func (r *recordingScope) Open(context.Context) error {
	r.opened++
	return r.openErr
}

func (r *recordingScope) Close() error {
	r.closed++
	return nil
}

// memorySnapshot captures what would be written.
type memorySnapshot struct {
	written [][]model.RawRecord
}

func (m *memorySnapshot) Write(records []model.RawRecord) error {
	m.written = append(m.written, records)
	return nil
}

func tasks(adapters ...*stubAdapter) []model.SiteTask {
	out := make([]model.SiteTask, len(adapters))
	for i, a := range adapters {
		out[i] = model.SiteTask{Name: a.name, Adapter: a, Query: "data analyst"}
	}
	return out
}

func TestRun_AggregatesSurvivorsAndWritesSnapshot(t *testing.T) {
	// 5 + 0 (failed) + 3 records -> exactly 8, and the snapshot holds the same 8.
	path := filepath.Join(t.TempDir(), "scraped_jobs_raw.json")
	scope := &recordingScope{}
	c := NewCoordinator(scope, store.NewSnapshotFile(path), Options{}, discardLogger())

	res := c.Run(context.Background(), tasks(
		&stubAdapter{name: "internshala", n: 5},
		&stubAdapter{name: "unstop", err: errors.New("navigation timeout")},
		&stubAdapter{name: "remoteok", n: 3},
	))

	if len(res.Records) != 8 {
		t.Fatalf("records = %d, want 8", len(res.Records))
	}
	snap, err := store.ReadSnapshot(path)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	if len(snap) != 8 {
		t.Fatalf("snapshot entries = %d, want 8", len(snap))
	}
	for i := range snap {
		if snap[i] != res.Records[i] {
			t.Errorf("snapshot[%d] = %+v, want %+v", i, snap[i], res.Records[i])
		}
	}
	if res.Sites[1].Err == nil || res.Sites[1].Records != 0 {
		t.Errorf("failed site result = %+v", res.Sites[1])
	}
	if scope.opened != 1 || scope.closed != 1 {
		t.Errorf("scope opened=%d closed=%d, want 1/1", scope.opened, scope.closed)
	}
}

func TestRun_AllAdaptersFailReturnsEmpty(t *testing.T) {
	snap := &memorySnapshot{}
	c := NewCoordinator(nil, snap, Options{}, discardLogger())

	res := c.Run(context.Background(), tasks(
		&stubAdapter{name: "a", err: errors.New("boom")},
		&stubAdapter{name: "b", panic: true},
	))

	if res.Records == nil || len(res.Records) != 0 {
		t.Fatalf("records = %#v, want empty non-nil", res.Records)
	}
	if len(snap.written) != 1 || len(snap.written[0]) != 0 {
		t.Errorf("snapshot should be written once and empty, got %v", snap.written)
	}
}

func TestRun_PanicDoesNotBlockLaterSites(t *testing.T) {
	later := &stubAdapter{name: "later", n: 2}
	c := NewCoordinator(nil, nil, Options{}, discardLogger())

	res := c.Run(context.Background(), tasks(&stubAdapter{name: "panicky", panic: true}, later))

	if len(res.Records) != 2 {
		t.Errorf("records = %d, want 2", len(res.Records))
	}
	if later.calls.Load() != 1 {
		t.Error("later adapter should still run")
	}
}

func TestRun_SiteTimeoutIsAdapterFailure(t *testing.T) {
	c := NewCoordinator(nil, nil, Options{SiteTimeout: 50 * time.Millisecond}, discardLogger())

	res := c.Run(context.Background(), tasks(
		&stubAdapter{name: "slow", block: true},
		&stubAdapter{name: "fast", n: 1},
	))

	if len(res.Records) != 1 {
		t.Errorf("records = %d, want 1", len(res.Records))
	}
	if !errors.Is(res.Sites[0].Err, context.DeadlineExceeded) {
		t.Errorf("slow site err = %v, want deadline exceeded", res.Sites[0].Err)
	}
}

func TestRun_SessionOpenFailureContributesNothing(t *testing.T) {
	scope := &recordingScope{openErr: errors.New("chrome not found")}
	snap := &memorySnapshot{}
	a := &stubAdapter{name: "a", n: 4}
	c := NewCoordinator(scope, snap, Options{}, discardLogger())

	res := c.Run(context.Background(), tasks(a))

	if len(res.Records) != 0 {
		t.Errorf("records = %d, want 0", len(res.Records))
	}
	if a.calls.Load() != 0 {
		t.Error("adapters must not run without a session")
	}
	if len(snap.written) != 1 {
		t.Error("snapshot must still be written")
	}
	if scope.closed != 0 {
		t.Error("a session that never opened should not be closed")
	}
}

func TestRun_ConcurrentPreservesTaskOrder(t *testing.T) {
	scope := &recordingScope{}
	c := NewCoordinator(scope, nil, Options{Concurrency: 3}, discardLogger())

	res := c.Run(context.Background(), tasks(
		&stubAdapter{name: "first", n: 2},
		&stubAdapter{name: "second", err: errors.New("down")},
		&stubAdapter{name: "third", n: 1},
	))

	if len(res.Records) != 3 {
		t.Fatalf("records = %d, want 3", len(res.Records))
	}
	if res.Records[0].URL != "https://first.example/0" || res.Records[2].URL != "https://third.example/0" {
		t.Errorf("records out of task order: %+v", res.Records)
	}
	if scope.closed != 1 {
		t.Errorf("scope closed %d times, want 1", scope.closed)
	}
}

func TestRun_NoTasks(t *testing.T) {
	snap := &memorySnapshot{}
	c := NewCoordinator(nil, snap, Options{}, discardLogger())

	res := c.Run(context.Background(), nil)
	if len(res.Records) != 0 || len(snap.written) != 1 {
		t.Errorf("records = %d, snapshots = %d", len(res.Records), len(snap.written))
	}
}
