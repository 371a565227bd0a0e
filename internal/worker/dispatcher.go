// Package worker consumes the job queue and runs recurring sweeps.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// ErrUnknownJob is returned for job names no handler is registered for.
var ErrUnknownJob = errors.New("no handler registered for job")

// PermanentError marks a failure that retrying cannot fix, such as a payload
// that does not decode. The pool dead-letters these immediately.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the pool skips retries.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err carries a PermanentError.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}

// HandlerFunc processes one job.
type HandlerFunc func(ctx context.Context, job *domain.Job) (*ports.Result, error)

// Services are the job handlers' collaborators.
type Services struct {
	Settlement ports.SettlementService
	Clearance  ports.ClearanceService
	Mandates   ports.MandateService
}

// Dispatcher routes jobs to handlers by name.
type Dispatcher struct {
	handlers map[domain.JobName]HandlerFunc
	log      zerolog.Logger
}

// NewDispatcher registers a handler for every job name the ledger produces.
func NewDispatcher(svc Services, log zerolog.Logger) *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[domain.JobName]HandlerFunc),
		log:      log.With().Str("component", "dispatcher").Logger(),
	}
	d.Register(domain.JobProcessWalletInflow, decoded(svc.Settlement.ProcessInflow))
	d.Register(domain.JobProcessWalletOutflow, decoded(svc.Settlement.ProcessOutflow))
	d.Register(domain.JobProcessWalletEntryClearance, decoded(svc.Clearance.ClearEntry))
	d.Register(domain.JobAddWalletEntriesForClearance, decoded(func(ctx context.Context, p domain.ClearanceSweepPayload) (*ports.Result, error) {
		n, err := svc.Clearance.QueueStaleEntries(ctx)
		if err != nil {
			return nil, err
		}
		d.log.Info().Str("requested_by", p.RequestedBy).Int("queued", n).Msg("clearance sweep finished")
		return ports.Handled(ports.OutcomeQueued, strconv.Itoa(n)+" entries queued"), nil
	}))
	d.Register(domain.JobProcessMandateCreated, decoded(svc.Mandates.HandleCreated))
	d.Register(domain.JobProcessMandateApproved, decoded(svc.Mandates.HandleApproved))
	d.Register(domain.JobProcessMandateDebitReady, decoded(svc.Mandates.HandleDebitReady))
	return d
}

// Register sets the handler for name, replacing any previous one.
func (d *Dispatcher) Register(name domain.JobName, h HandlerFunc) {
	d.handlers[name] = h
}

// Dispatch runs the handler for job.Name.
func (d *Dispatcher) Dispatch(ctx context.Context, job *domain.Job) (*ports.Result, error) {
	h, ok := d.handlers[job.Name]
	if !ok {
		return nil, Permanent(fmt.Errorf("%w: %s", ErrUnknownJob, job.Name))
	}
	return h(ctx, job)
}

// decoded adapts a typed service method to a HandlerFunc.
func decoded[T any](fn func(context.Context, T) (*ports.Result, error)) HandlerFunc {
	return func(ctx context.Context, job *domain.Job) (*ports.Result, error) {
		var payload T
		if err := job.Decode(&payload); err != nil {
			return nil, Permanent(err)
		}
		return fn(ctx, payload)
	}
}
