package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type fakeExpirer struct {
	expireFn func(ctx context.Context) (int64, error)
}

func (f *fakeExpirer) ExpireBookings(ctx context.Context) (int64, error) {
	if f.expireFn == nil {
		panic("ExpireBookings not configured")
	}
	return f.expireFn(ctx)
}

type fakePinger struct {
	pingFn func(ctx context.Context) error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	if f.pingFn == nil {
		panic("Ping not configured")
	}
	return f.pingFn(ctx)
}

type recordingReporter struct {
	mu     sync.Mutex
	states []bool
}

func (r *recordingReporter) SetServing(serving bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, serving)
}

func (r *recordingReporter) last() (bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.states) == 0 {
		return false, false
	}
	return r.states[len(r.states)-1], true
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

var hourly = Schedules{Sweep: "@hourly", Probe: "@hourly", JobTimeout: time.Second}

func TestNew_RejectsBadSchedule(t *testing.T) {
	_, err := New(&fakeExpirer{}, &fakePinger{}, nil, discardLogger(), Schedules{Sweep: "whenever", Probe: "@hourly"})
	if err == nil {
		t.Fatalf("expected error for malformed schedule")
	}
}

func TestProbe_ReportsServingStatus(t *testing.T) {
	pingErr := errors.New("db down")
	var fail bool
	pinger := &fakePinger{pingFn: func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			t.Fatalf("probe context has no deadline")
		}
		if fail {
			return pingErr
		}
		return nil
	}}
	reporter := &recordingReporter{}
	w, err := New(&fakeExpirer{}, pinger, reporter, discardLogger(), hourly)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	w.probe()
	if got, ok := reporter.last(); !ok || !got {
		t.Fatalf("serving = %v (reported=%v), want true", got, ok)
	}
	fail = true
	w.probe()
	if got, _ := reporter.last(); got {
		t.Fatalf("serving = true, want false after failed ping")
	}
}

func TestSweep_CallsExpirer(t *testing.T) {
	var calls int
	w, err := New(&fakeExpirer{expireFn: func(ctx context.Context) (int64, error) {
		calls++
		if calls == 2 {
			return 0, errors.New("timeout")
		}
		return 4, nil
	}}, &fakePinger{}, nil, discardLogger(), hourly)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}

	w.sweep()
	w.sweep()
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestStartRunsScheduledSweep(t *testing.T) {
	swept := make(chan struct{}, 1)
	expirer := &fakeExpirer{expireFn: func(ctx context.Context) (int64, error) {
		select {
		case swept <- struct{}{}:
		default:
		}
		return 1, nil
	}}
	pinger := &fakePinger{pingFn: func(ctx context.Context) error { return nil }}
	reporter := &recordingReporter{}

	w, err := New(expirer, pinger, reporter, discardLogger(), Schedules{Sweep: "@every 1s", Probe: "@hourly", JobTimeout: time.Second})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	w.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		w.Stop(ctx)
	}()

	if got, ok := reporter.last(); !ok || !got {
		t.Fatalf("Start did not probe before scheduling")
	}
	select {
	case <-swept:
	case <-time.After(5 * time.Second):
		t.Fatalf("sweep did not run")
	}
}

func TestStopCancelsJobContext(t *testing.T) {
	w, err := New(&fakeExpirer{}, &fakePinger{}, nil, discardLogger(), hourly)
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	w.Stop(context.Background())
	if w.ctx.Err() == nil {
		t.Fatalf("job context not cancelled")
	}
}
