package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisQueue(t *testing.T) (*miniredis.Miniredis, *RedisQueue) {
	t.Helper()
	s := miniredis.RunT(t)
	return s, newConsumer(t, s)
}

// newConsumer attaches another worker to the same queue.
func newConsumer(t *testing.T, s *miniredis.Miniredis) *RedisQueue {
	t.Helper()
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisQueue(client, "test", time.Minute, zerolog.Nop())
}

func mustJob(t *testing.T, ref string) *domain.Job {
	t.Helper()
	job, err := domain.NewJob(domain.JobProcessWalletOutflow, domain.OutflowPayload{Reference: ref, Status: domain.EntryStatusSuccessful})
	require.NoError(t, err)
	return job
}

func TestRedisQueue_EnqueueDequeueAck(t *testing.T) {
	s, q := newRedisQueue(t)
	ctx := context.Background()

	job := mustJob(t, "trf_1")
	require.NoError(t, q.Enqueue(ctx, job))

	got, err := q.Dequeue(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, domain.JobProcessWalletOutflow, got.Name)

	var p domain.OutflowPayload
	require.NoError(t, got.Decode(&p))
	assert.Equal(t, "trf_1", p.Reference)

	items, err := s.List(q.processing)
	require.NoError(t, err)
	assert.Len(t, items, 1, "job is parked in processing until acked")

	require.NoError(t, q.Ack(ctx, got))
	assert.False(t, s.Exists(q.processing))
}

func TestRedisQueue_DequeueEmpty(t *testing.T) {
	_, q := newRedisQueue(t)

	got, err := q.Dequeue(context.Background(), 0)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisQueue_FIFO(t *testing.T) {
	_, q := newRedisQueue(t)
	ctx := context.Background()

	first, second := mustJob(t, "a"), mustJob(t, "b")
	require.NoError(t, q.Enqueue(ctx, first))
	require.NoError(t, q.Enqueue(ctx, second))

	got, err := q.Dequeue(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
}

func TestRedisQueue_RetryIsDelayed(t *testing.T) {
	_, q := newRedisQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, mustJob(t, "trf_2")))
	got, err := q.Dequeue(ctx, 0)
	require.NoError(t, err)

	got.Attempts++
	got.LastError = "provider unavailable"
	require.NoError(t, q.Retry(ctx, got, 50*time.Millisecond))

	again, err := q.Dequeue(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, again, "retry is not due yet")

	time.Sleep(80 * time.Millisecond)

	again, err = q.Dequeue(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, got.ID, again.ID)
	assert.Equal(t, 1, again.Attempts)
	assert.Equal(t, "provider unavailable", again.LastError)
}

func TestRedisQueue_DeadLetter(t *testing.T) {
	_, q := newRedisQueue(t)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, mustJob(t, "trf_3")))
	got, err := q.Dequeue(ctx, 0)
	require.NoError(t, err)

	require.NoError(t, q.DeadLetter(ctx, got))

	n, err := q.DeadLetterCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Error(t, q.Ack(ctx, got), "a dead-lettered job is no longer in flight")
}

func TestRedisQueue_PromotesOnlyDueRetries(t *testing.T) {
	s, q := newRedisQueue(t)
	ctx := context.Background()

	due, later := mustJob(t, "trf_due"), mustJob(t, "trf_later")
	rawDue, err := json.Marshal(due)
	require.NoError(t, err)
	rawLater, err := json.Marshal(later)
	require.NoError(t, err)
	_, err = s.ZAdd(q.delayed, float64(time.Now().Add(-time.Second).UnixMilli()), string(rawDue))
	require.NoError(t, err)
	_, err = s.ZAdd(q.delayed, float64(time.Now().Add(time.Hour).UnixMilli()), string(rawLater))
	require.NoError(t, err)

	got, err := q.Dequeue(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, due.ID, got.ID)

	waiting, err := s.ZMembers(q.delayed)
	require.NoError(t, err)
	assert.Equal(t, []string{string(rawLater)}, waiting)

	none, err := q.Dequeue(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestRedisQueue_LiveConsumersKeepTheirJobs(t *testing.T) {
	s := miniredis.RunT(t)
	first, second := newConsumer(t, s), newConsumer(t, s)
	ctx := context.Background()

	require.NoError(t, first.Enqueue(ctx, mustJob(t, "trf_a")))
	require.NoError(t, first.Enqueue(ctx, mustJob(t, "trf_b")))

	gotFirst, err := first.Dequeue(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, gotFirst)

	// A second worker starting up must not take the first one's job.
	n, err := second.RecoverOrphaned(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	gotSecond, err := second.Dequeue(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, gotSecond)
	assert.NotEqual(t, gotFirst.ID, gotSecond.ID)

	empty, err := second.Dequeue(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, empty)

	require.NoError(t, first.Ack(ctx, gotFirst))
	require.NoError(t, second.Ack(ctx, gotSecond))
	assert.False(t, s.Exists(first.processing))
	assert.False(t, s.Exists(second.processing))
}

func TestRedisQueue_DeadConsumerJobsAreRequeued(t *testing.T) {
	s := miniredis.RunT(t)
	crashed, survivor := newConsumer(t, s), newConsumer(t, s)
	ctx := context.Background()

	job := mustJob(t, "trf_4")
	require.NoError(t, crashed.Enqueue(ctx, job))
	claimed, err := crashed.Dequeue(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, claimed)

	s.FastForward(2 * time.Minute)
	require.NoError(t, survivor.touch(ctx, true))

	n, err := survivor.RecoverOrphaned(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.False(t, s.Exists(crashed.processing))

	members, err := s.Members(survivor.consumers)
	require.NoError(t, err)
	assert.Equal(t, []string{survivor.consumer}, members)

	got, err := survivor.Dequeue(ctx, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, job.ID, got.ID)
	require.NoError(t, survivor.Ack(ctx, got))

	// A consumer that was only stalled acks a copy it no longer holds.
	assert.NoError(t, crashed.Ack(ctx, claimed))
}

func TestRedisQueue_MaintainHoldsLease(t *testing.T) {
	s, q := newRedisQueue(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		q.Maintain(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return s.Exists(leaseKey(q.prefix, q.consumer))
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Maintain did not stop after cancel")
	}
}

func TestRedisQueue_UndecodableGoesToDead(t *testing.T) {
	s, q := newRedisQueue(t)
	ctx := context.Background()

	_, err := s.Lpush(q.ready, "{not json")
	require.NoError(t, err)

	got, err := q.Dequeue(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := q.DeadLetterCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
