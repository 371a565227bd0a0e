package worker

import (
	"context"
	"sync"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

const maxRetryDelay = time.Hour

// PoolConfig sizes the worker pool and its retry policy.
type PoolConfig struct {
	Concurrency    int
	MaxAttempts    int
	RetryBaseDelay time.Duration
	PollTimeout    time.Duration
}

// Pool runs jobs from a ports.JobSource with a fixed number of workers.
type Pool struct {
	source     ports.JobSource
	dispatcher *Dispatcher
	cfg        PoolConfig
	log        zerolog.Logger
}

// NewPool creates a Pool. Zero config values fall back to one worker, a
// single attempt and a one second poll.
func NewPool(source ports.JobSource, dispatcher *Dispatcher, cfg PoolConfig, log zerolog.Logger) *Pool {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = time.Second
	}
	return &Pool{
		source:     source,
		dispatcher: dispatcher,
		cfg:        cfg,
		log:        log.With().Str("component", "worker_pool").Logger(),
	}
}

// Run consumes jobs until ctx is cancelled and in-flight jobs have finished.
func (p *Pool) Run(ctx context.Context) {
	p.log.Info().Int("concurrency", p.cfg.Concurrency).Msg("worker pool started")

	var wg sync.WaitGroup
	for i := range p.cfg.Concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.loop(ctx, i)
		}()
	}
	wg.Wait()

	p.log.Info().Msg("worker pool stopped")
}

func (p *Pool) loop(ctx context.Context, worker int) {
	log := p.log.With().Int("worker", worker).Logger()
	for ctx.Err() == nil {
		job, err := p.source.Dequeue(ctx, p.cfg.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Msg("dequeue failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.cfg.PollTimeout):
			}
			continue
		}
		if job == nil {
			continue
		}
		// A job that started finishes even during shutdown.
		p.Process(context.WithoutCancel(ctx), job)
	}
}

// Process runs one job and settles it on the source: ack on success or a
// handled outcome, retry on infrastructure errors, dead-letter when retries
// are exhausted or cannot help.
func (p *Pool) Process(ctx context.Context, job *domain.Job) {
	log := p.log.With().
		Str("job_id", job.ID.String()).
		Str("job", string(job.Name)).
		Int("attempts", job.Attempts).
		Logger()

	start := time.Now()
	res, err := p.dispatcher.Dispatch(ctx, job)
	if err == nil {
		evt := log.Info().Dur("latency", time.Since(start))
		if res != nil {
			evt = evt.Str("outcome", string(res.Outcome))
			if res.Reason != "" {
				evt = evt.Str("reason", res.Reason)
			}
		}
		evt.Msg("job done")
		if err := p.source.Ack(ctx, job); err != nil {
			log.Error().Err(err).Msg("failed to ack job")
		}
		return
	}

	job.Attempts++
	job.LastError = err.Error()

	if IsPermanent(err) || job.Attempts >= p.cfg.MaxAttempts {
		log.Error().Err(err).Bool("permanent", IsPermanent(err)).Msg("job dead-lettered")
		if err := p.source.DeadLetter(ctx, job); err != nil {
			log.Error().Err(err).Msg("failed to dead-letter job")
		}
		return
	}

	delay := RetryDelay(p.cfg.RetryBaseDelay, job.Attempts)
	log.Warn().Err(err).Dur("retry_in", delay).Msg("job failed, retrying")
	if err := p.source.Retry(ctx, job, delay); err != nil {
		log.Error().Err(err).Msg("failed to schedule job retry")
	}
}

// RetryDelay returns base·2^(attempt-1) for attempt ≥ 1, capped at one hour.
func RetryDelay(base time.Duration, attempt int) time.Duration {
	if base <= 0 || attempt < 1 {
		return 0
	}
	b := &backoff.ExponentialBackOff{
		InitialInterval:     base,
		RandomizationFactor: 0,
		Multiplier:          2,
		MaxInterval:         maxRetryDelay,
	}
	b.Reset()

	var d time.Duration
	for range attempt {
		d = b.NextBackOff()
	}
	return d
}
