package ports

//go:generate mockgen -source=queue.go -destination=mocks/mock_queue.go -package=mocks

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"
)

// JobQueue publishes jobs for asynchronous processing.
type JobQueue interface {
	Enqueue(ctx context.Context, job *domain.Job) error
}

// JobSource is the consuming side of the queue.
type JobSource interface {
	// Dequeue waits up to wait for a job. It returns (nil, nil) on timeout.
	Dequeue(ctx context.Context, wait time.Duration) (*domain.Job, error)
	Ack(ctx context.Context, job *domain.Job) error
	// Retry redelivers the job after delay. The caller bumps Attempts.
	Retry(ctx context.Context, job *domain.Job, delay time.Duration) error
	DeadLetter(ctx context.Context, job *domain.Job) error
}

// Locker provides a cluster-wide mutex for singleton work such as sweeps.
type Locker interface {
	// TryLock returns acquired=false without error when another holder owns name.
	TryLock(ctx context.Context, name string, ttl time.Duration) (unlock func(context.Context) error, acquired bool, err error)
}
