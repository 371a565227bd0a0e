// Package queue implements the job queue ports on Redis lists and on RabbitMQ.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	promoteBatch = 100

	defaultConsumerLease = time.Minute
)

// promoteScript moves due retries to the ready list. Claim and push happen
// in one script so a job is never in neither structure.
var promoteScript = goredis.NewScript(`
local due = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, ARGV[2])
for _, raw in ipairs(due) do
	redis.call('ZREM', KEYS[1], raw)
	redis.call('LPUSH', KEYS[2], raw)
end
return #due
`)

// RedisQueue is a reliable queue on Redis lists. Dequeued jobs move
// atomically from the ready list to this consumer's processing list and stay
// there until acked, retried or dead-lettered. Retries wait in a sorted set
// scored by their due time.
//
// Each consumer holds a lease it refreshes while alive. Processing lists
// whose lease has lapsed belong to a dead consumer and are requeued.
type RedisQueue struct {
	client     *goredis.Client
	log        zerolog.Logger
	prefix     string
	consumer   string
	lease      time.Duration
	ready      string
	processing string
	delayed    string
	dead       string
	consumers  string

	mu        sync.Mutex
	inflight  map[uuid.UUID]string // raw payload as stored in the processing list
	lastTouch time.Time
}

// NewRedisQueue creates a consumer of the queue named name. A lease of zero
// means one minute.
func NewRedisQueue(client *goredis.Client, name string, lease time.Duration, log zerolog.Logger) *RedisQueue {
	if lease <= 0 {
		lease = defaultConsumerLease
	}
	prefix := "wlg:queue:" + name + ":"
	consumer := uuid.NewString()
	return &RedisQueue{
		client:     client,
		log:        log.With().Str("consumer", consumer).Logger(),
		prefix:     prefix,
		consumer:   consumer,
		lease:      lease,
		ready:      prefix + "ready",
		processing: processingKey(prefix, consumer),
		delayed:    prefix + "delayed",
		dead:       prefix + "dead",
		consumers:  prefix + "consumers",
		inflight:   make(map[uuid.UUID]string),
	}
}

func processingKey(prefix, consumer string) string { return prefix + "processing:" + consumer }
func leaseKey(prefix, consumer string) string      { return prefix + "lease:" + consumer }

// Enqueue implements ports.JobQueue.
func (q *RedisQueue) Enqueue(ctx context.Context, job *domain.Job) error {
	raw, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.client.LPush(ctx, q.ready, raw).Err(); err != nil {
		return fmt.Errorf("redis enqueue %s: %w", job.Name, err)
	}
	return nil
}

// Dequeue implements ports.JobSource.
func (q *RedisQueue) Dequeue(ctx context.Context, wait time.Duration) (*domain.Job, error) {
	if err := q.touch(ctx, false); err != nil {
		return nil, err
	}
	if err := q.promoteDue(ctx); err != nil {
		return nil, err
	}

	var raw string
	var err error
	if wait > 0 {
		raw, err = q.client.BRPopLPush(ctx, q.ready, q.processing, wait).Result()
	} else {
		raw, err = q.client.RPopLPush(ctx, q.ready, q.processing).Result()
	}
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis dequeue: %w", err)
	}

	job := &domain.Job{}
	if err := json.Unmarshal([]byte(raw), job); err != nil {
		// A payload we cannot decode can never succeed.
		q.log.Error().Err(err).Str("raw", raw).Msg("dropping undecodable job to dead letter")
		if derr := q.moveToDead(ctx, raw, raw); derr != nil {
			return nil, derr
		}
		return nil, nil
	}

	q.mu.Lock()
	q.inflight[job.ID] = raw
	q.mu.Unlock()
	return job, nil
}

// Ack implements ports.JobSource.
func (q *RedisQueue) Ack(ctx context.Context, job *domain.Job) error {
	raw, ok := q.take(job.ID)
	if !ok {
		return fmt.Errorf("ack job %s: not in flight", job.ID)
	}
	if err := q.client.LRem(ctx, q.processing, 1, raw).Err(); err != nil {
		return fmt.Errorf("redis ack: %w", err)
	}
	return nil
}

// Retry implements ports.JobSource.
func (q *RedisQueue) Retry(ctx context.Context, job *domain.Job, delay time.Duration) error {
	raw, ok := q.take(job.ID)
	if !ok {
		return fmt.Errorf("retry job %s: not in flight", job.ID)
	}
	updated, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	due := float64(time.Now().Add(delay).UnixMilli())
	_, err = q.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LRem(ctx, q.processing, 1, raw)
		pipe.ZAdd(ctx, q.delayed, goredis.Z{Score: due, Member: updated})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis retry: %w", err)
	}
	return nil
}

// DeadLetter implements ports.JobSource.
func (q *RedisQueue) DeadLetter(ctx context.Context, job *domain.Job) error {
	raw, ok := q.take(job.ID)
	if !ok {
		return fmt.Errorf("dead-letter job %s: not in flight", job.ID)
	}
	updated, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return q.moveToDead(ctx, raw, string(updated))
}

// Maintain keeps this consumer's lease alive and requeues the work of dead
// consumers, once now and then on every heartbeat, until ctx is done.
func (q *RedisQueue) Maintain(ctx context.Context) {
	ticker := time.NewTicker(q.lease / 3)
	defer ticker.Stop()
	for {
		if err := q.touch(ctx, true); err != nil && ctx.Err() == nil {
			q.log.Warn().Err(err).Msg("could not refresh queue consumer lease")
		}
		n, err := q.RecoverOrphaned(ctx)
		switch {
		case err != nil && ctx.Err() == nil:
			q.log.Warn().Err(err).Msg("could not requeue orphaned jobs")
		case n > 0:
			q.log.Warn().Int("jobs", n).Msg("requeued jobs left in flight by a dead consumer")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RecoverOrphaned moves the processing lists of consumers whose lease has
// lapsed back to the ready list. Live consumers, this one included, are
// left alone.
func (q *RedisQueue) RecoverOrphaned(ctx context.Context) (int, error) {
	members, err := q.client.SMembers(ctx, q.consumers).Result()
	if err != nil {
		return 0, fmt.Errorf("redis list consumers: %w", err)
	}

	n := 0
	for _, consumer := range members {
		if consumer == q.consumer {
			continue
		}
		alive, err := q.client.Exists(ctx, leaseKey(q.prefix, consumer)).Result()
		if err != nil {
			return n, fmt.Errorf("redis check lease: %w", err)
		}
		if alive > 0 {
			continue
		}

		orphaned := processingKey(q.prefix, consumer)
		for {
			err := q.client.RPopLPush(ctx, orphaned, q.ready).Err()
			if errors.Is(err, goredis.Nil) {
				break
			}
			if err != nil {
				return n, fmt.Errorf("redis requeue orphaned job: %w", err)
			}
			n++
		}
		if err := q.client.SRem(ctx, q.consumers, consumer).Err(); err != nil {
			return n, fmt.Errorf("redis forget consumer: %w", err)
		}
	}
	return n, nil
}

// touch registers the consumer and refreshes its lease. Unless forced it
// skips the round trip while the lease is still fresh.
func (q *RedisQueue) touch(ctx context.Context, force bool) error {
	q.mu.Lock()
	fresh := !force && time.Since(q.lastTouch) < q.lease/3
	q.mu.Unlock()
	if fresh {
		return nil
	}

	_, err := q.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.SAdd(ctx, q.consumers, q.consumer)
		pipe.Set(ctx, leaseKey(q.prefix, q.consumer), 1, q.lease)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis refresh lease: %w", err)
	}

	q.mu.Lock()
	q.lastTouch = time.Now()
	q.mu.Unlock()
	return nil
}

// DeadLetterCount reports how many jobs have been dead-lettered.
func (q *RedisQueue) DeadLetterCount(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.dead).Result()
}

func (q *RedisQueue) promoteDue(ctx context.Context) error {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	err := promoteScript.Run(ctx, q.client, []string{q.delayed, q.ready}, now, promoteBatch).Err()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return fmt.Errorf("redis promote delayed jobs: %w", err)
	}
	return nil
}

func (q *RedisQueue) moveToDead(ctx context.Context, processingRaw, deadRaw string) error {
	_, err := q.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.LRem(ctx, q.processing, 1, processingRaw)
		pipe.LPush(ctx, q.dead, deadRaw)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis dead-letter: %w", err)
	}
	return nil
}

func (q *RedisQueue) take(id uuid.UUID) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	raw, ok := q.inflight[id]
	delete(q.inflight, id)
	return raw, ok
}
