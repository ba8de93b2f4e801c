// Package worker runs periodic background jobs: the booking expiry sweep and the store health probe.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"barberq/backend/internal/store"
)

type bookingExpirer interface {
	ExpireBookings(ctx context.Context) (int64, error)
}

type servingReporter interface {
	SetServing(serving bool)
}

type Schedules struct {
	Sweep string
	Probe string
	// JobTimeout bounds a single run of either job.
	JobTimeout time.Duration
}

type Worker struct {
	cron     *cron.Cron
	expirer  bookingExpirer
	pinger   store.Pinger
	reporter servingReporter
	timeout  time.Duration
	log      *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New registers the jobs. reporter may be nil.
func New(expirer bookingExpirer, pinger store.Pinger, reporter servingReporter, log *slog.Logger, sch Schedules) (*Worker, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "worker"))
	if sch.JobTimeout <= 0 {
		sch.JobTimeout = 30 * time.Second
	}

	cl := cronLogger{log: log}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		cron:     c,
		expirer:  expirer,
		pinger:   pinger,
		reporter: reporter,
		timeout:  sch.JobTimeout,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}

	if _, err := c.AddFunc(sch.Sweep, w.sweep); err != nil {
		cancel()
		return nil, err
	}
	if _, err := c.AddFunc(sch.Probe, w.probe); err != nil {
		cancel()
		return nil, err
	}
	return w, nil
}

// Start probes once so health reflects the store before the first tick, then starts the scheduler.
func (w *Worker) Start() {
	w.log.Info("worker started", slog.Int("jobs", len(w.cron.Entries())))
	w.probe()
	w.cron.Start()
}

// Stop cancels running jobs and waits for them until ctx is done.
func (w *Worker) Stop(ctx context.Context) {
	w.cancel()
	select {
	case <-w.cron.Stop().Done():
		w.log.Info("worker stopped")
	case <-ctx.Done():
		w.log.Warn("worker stop timed out")
	}
}

func (w *Worker) sweep() {
	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	n, err := w.expirer.ExpireBookings(ctx)
	if err != nil {
		w.log.Error("expiry sweep failed", slog.Any("err", err))
		return
	}
	if n > 0 {
		w.log.Info("bookings expired", slog.Int64("count", n))
	}
}

func (w *Worker) probe() {
	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	err := w.pinger.Ping(ctx)
	if err != nil {
		w.log.Warn("store probe failed", slog.Any("err", err))
	}
	if w.reporter != nil {
		w.reporter.SetServing(err == nil)
	}
}

type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.log.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.log.Error("cron: "+msg, append(keysAndValues, slog.Any("err", err))...)
}
