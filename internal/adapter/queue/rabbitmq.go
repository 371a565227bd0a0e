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
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// Channel is the subset of *amqp.Channel the queue uses.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Ack(tag uint64, multiple bool) error
	Close() error
}

// RabbitMQQueue implements ports.JobQueue and ports.JobSource on three
// durable queues: the work queue, a retry queue whose expired messages
// dead-letter back into the work queue, and a parking queue for jobs that
// exhausted their attempts.
type RabbitMQQueue struct {
	ch       Channel
	log      zerolog.Logger
	work     string
	retry    string
	dead     string
	prefetch int

	pubMu sync.Mutex

	consumeOnce sync.Once
	consumeErr  error
	deliveries  <-chan amqp.Delivery

	mu       sync.Mutex
	inflight map[uuid.UUID]uint64 // delivery tags
}

// NewRabbitMQQueue declares the topology for name and returns the queue.
func NewRabbitMQQueue(ch Channel, name string, prefetch int, log zerolog.Logger) (*RabbitMQQueue, error) {
	q := &RabbitMQQueue{
		ch:       ch,
		log:      log,
		work:     name,
		retry:    name + ".retry",
		dead:     name + ".dead",
		prefetch: prefetch,
		inflight: make(map[uuid.UUID]uint64),
	}

	if _, err := ch.QueueDeclare(q.work, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare work queue: %w", err)
	}
	if _, err := ch.QueueDeclare(q.retry, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": q.work,
	}); err != nil {
		return nil, fmt.Errorf("declare retry queue: %w", err)
	}
	if _, err := ch.QueueDeclare(q.dead, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare dead-letter queue: %w", err)
	}
	return q, nil
}

// DialRabbitMQ connects to the broker and opens the queue on a fresh channel.
func DialRabbitMQ(url, name string, prefetch int, log zerolog.Logger) (*RabbitMQQueue, *amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}
	q, err := NewRabbitMQQueue(ch, name, prefetch, log)
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}

	log.Info().Str("queue", name).Msg("RabbitMQ connection established")
	return q, conn, nil
}

// Enqueue implements ports.JobQueue.
func (q *RabbitMQQueue) Enqueue(ctx context.Context, job *domain.Job) error {
	return q.publish(ctx, q.work, job, "")
}

// Dequeue implements ports.JobSource. The consumer is started on first use
// so publish-only processes never take deliveries.
func (q *RabbitMQQueue) Dequeue(ctx context.Context, wait time.Duration) (*domain.Job, error) {
	q.consumeOnce.Do(func() {
		if err := q.ch.Qos(q.prefetch, 0, false); err != nil {
			q.consumeErr = fmt.Errorf("set rabbitmq qos: %w", err)
			return
		}
		q.deliveries, q.consumeErr = q.ch.Consume(q.work, "", false, false, false, false, nil)
	})
	if q.consumeErr != nil {
		return nil, fmt.Errorf("start rabbitmq consumer: %w", q.consumeErr)
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		return nil, nil
	case d, ok := <-q.deliveries:
		if !ok {
			return nil, errors.New("rabbitmq delivery channel closed")
		}
		job := &domain.Job{}
		if err := json.Unmarshal(d.Body, job); err != nil {
			q.log.Error().Err(err).Msg("parking undecodable rabbitmq message")
			if perr := q.publishRaw(ctx, q.dead, d.Body, ""); perr != nil {
				return nil, perr
			}
			return nil, q.ch.Ack(d.DeliveryTag, false)
		}
		q.mu.Lock()
		q.inflight[job.ID] = d.DeliveryTag
		q.mu.Unlock()
		return job, nil
	}
}

// Ack implements ports.JobSource.
func (q *RabbitMQQueue) Ack(_ context.Context, job *domain.Job) error {
	tag, ok := q.take(job.ID)
	if !ok {
		return fmt.Errorf("ack job %s: not in flight", job.ID)
	}
	if err := q.ch.Ack(tag, false); err != nil {
		return fmt.Errorf("rabbitmq ack: %w", err)
	}
	return nil
}

// Retry implements ports.JobSource. The message waits in the retry queue
// until its expiration dead-letters it back to the work queue.
func (q *RabbitMQQueue) Retry(ctx context.Context, job *domain.Job, delay time.Duration) error {
	tag, ok := q.take(job.ID)
	if !ok {
		return fmt.Errorf("retry job %s: not in flight", job.ID)
	}
	expiration := strconv.FormatInt(max(delay.Milliseconds(), 1), 10)
	if err := q.publish(ctx, q.retry, job, expiration); err != nil {
		return err
	}
	if err := q.ch.Ack(tag, false); err != nil {
		return fmt.Errorf("rabbitmq ack retried job: %w", err)
	}
	return nil
}

// DeadLetter implements ports.JobSource.
func (q *RabbitMQQueue) DeadLetter(ctx context.Context, job *domain.Job) error {
	tag, ok := q.take(job.ID)
	if !ok {
		return fmt.Errorf("dead-letter job %s: not in flight", job.ID)
	}
	if err := q.publish(ctx, q.dead, job, ""); err != nil {
		return err
	}
	if err := q.ch.Ack(tag, false); err != nil {
		return fmt.Errorf("rabbitmq ack dead-lettered job: %w", err)
	}
	return nil
}

// Close closes the channel.
func (q *RabbitMQQueue) Close() error {
	return q.ch.Close()
}

func (q *RabbitMQQueue) publish(ctx context.Context, queue string, job *domain.Job, expiration string) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return q.publishRaw(ctx, queue, body, expiration)
}

func (q *RabbitMQQueue) publishRaw(ctx context.Context, queue string, body []byte, expiration string) error {
	q.pubMu.Lock()
	defer q.pubMu.Unlock()

	err := q.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Expiration:   expiration,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq publish to %s: %w", queue, err)
	}
	return nil
}

func (q *RabbitMQQueue) take(id uuid.UUID) (uint64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	tag, ok := q.inflight[id]
	delete(q.inflight, id)
	return tag, ok
}

// ConnectionHealth implements ports.HealthChecker for the broker connection.
type ConnectionHealth struct {
	conn *amqp.Connection
}

// NewConnectionHealth creates a RabbitMQ health checker.
func NewConnectionHealth(conn *amqp.Connection) *ConnectionHealth {
	return &ConnectionHealth{conn: conn}
}

func (h *ConnectionHealth) Ping(_ context.Context) error {
	if h.conn.IsClosed() {
		return errors.New("rabbitmq connection closed")
	}
	return nil
}

func (h *ConnectionHealth) Name() string {
	return "rabbitmq"
}
