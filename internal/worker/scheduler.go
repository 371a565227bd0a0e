package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Task is one scheduled unit of work.
type Task func(ctx context.Context) error

// Scheduler runs tasks on cron schedules. A run that is still going when the
// next tick fires is skipped, and panics are recovered.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
	entries map[string]cron.EntryID
	log     zerolog.Logger
}

// NewScheduler creates a Scheduler whose task runs are bounded by timeout.
func NewScheduler(timeout time.Duration, log zerolog.Logger) *Scheduler {
	log = log.With().Str("component", "scheduler").Logger()
	clog := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(cron.WithLogger(clog), cron.WithChain(
			cron.Recover(clog),
			cron.SkipIfStillRunning(clog),
		)),
		timeout: timeout,
		entries: make(map[string]cron.EntryID),
		log:     log,
	}
}

// Add schedules task under name. spec accepts standard five-field
// expressions and descriptors such as "@every 15m".
func (s *Scheduler) Add(name, spec string, task Task) error {
	id, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		start := time.Now()
		if err := task(ctx); err != nil {
			s.log.Error().Err(err).Str("task", name).Msg("scheduled task failed")
			return
		}
		s.log.Debug().Str("task", name).Dur("latency", time.Since(start)).Msg("scheduled task done")
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	s.entries[name] = id
	return nil
}

// Interval is the gap between two consecutive firings of spec.
func Interval(spec string) (time.Duration, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return 0, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	next := sched.Next(time.Now())
	return sched.Next(next).Sub(next), nil
}

// RunNow runs the named task synchronously through the same wrappers as a
// scheduled tick.
func (s *Scheduler) RunNow(name string) bool {
	id, ok := s.entries[name]
	if !ok {
		return false
	}
	s.cron.Entry(id).WrappedJob.Run()
	return true
}

// Start begins firing schedules in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Int("tasks", len(s.entries)).Msg("scheduler started")
}

// Stop stops new runs and waits for running tasks or ctx, whichever is first.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn().Msg("scheduler stop timed out with tasks still running")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
