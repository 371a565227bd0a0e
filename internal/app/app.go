// Package app wires the ledger's adapters and services from configuration.
// Both the API and worker processes build the same Container.
package app

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger/config"
	httpHandler "wallet-ledger/internal/adapter/http/handler"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/adapter/provider"
	"wallet-ledger/internal/adapter/queue"
	"wallet-ledger/internal/adapter/storage/memory"
	pgStorage "wallet-ledger/internal/adapter/storage/postgres"
	redisStorage "wallet-ledger/internal/adapter/storage/redis"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/service"
	"wallet-ledger/internal/worker"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Scheduled task names.
const (
	TaskClearanceSweep = "clearance-sweep"
	TaskMandateExpiry  = "mandate-expiry"
)

// Container holds every wired collaborator.
type Container struct {
	cfg *config.Config
	log zerolog.Logger

	// Memory is set when storage.driver is "memory".
	Memory *memory.Store

	transactor    ports.Transactor
	wallets       ports.WalletRepository
	entries       ports.EntryRepository
	budgets       ports.BudgetRepository
	accounts      ports.VirtualAccountRepository
	mandates      ports.MandateRepository
	webhookEvents ports.WebhookEventRepository
	auditRepo     ports.AuditRepository

	redis      *goredis.Client
	rateLimits *redisStorage.RateLimitStore
	queue      ports.JobQueue
	source     ports.JobSource
	registry   *provider.Registry
	locker     *redisStorage.Locker

	Settlement ports.SettlementService
	Transfers  ports.TransferService
	Clearance  ports.ClearanceService
	Mandates   ports.MandateService
	Webhooks   ports.WebhookService
	Ledger     ports.LedgerService
	Audit      ports.AuditService
	Tokens     ports.TokenService

	checkers []ports.HealthChecker
	closers  []func()
}

// New connects to every configured backend and builds the services.
// On error, anything already opened is closed.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{cfg: cfg, log: log}
	if err := c.wire(ctx); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) wire(ctx context.Context) error {
	if err := c.openStorage(ctx); err != nil {
		return err
	}

	rdb, err := redisStorage.NewClient(ctx, c.cfg.Redis, c.log)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	c.redis = rdb
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	c.checkers = append(c.checkers, redisStorage.NewHealthCheck(rdb))
	c.rateLimits = redisStorage.NewRateLimitStore(rdb)

	if err := c.openQueue(); err != nil {
		return err
	}
	return c.buildServices()
}

func (c *Container) openStorage(ctx context.Context) error {
	switch c.cfg.Storage.Driver {
	case "memory":
		store := memory.NewStore()
		c.Memory = store
		c.transactor = store
		c.wallets = store.Wallets()
		c.entries = store.Entries()
		c.budgets = store.Budgets()
		c.accounts = store.VirtualAccounts()
		c.mandates = store.Mandates()
		c.webhookEvents = store.WebhookEventLog()
		c.auditRepo = store.Audit()
		c.log.Warn().Msg("using in-memory storage; ledger state is lost on exit")
		return nil

	case "postgres":
		if c.cfg.Database.AutoMigrate {
			if err := pgStorage.Migrate(c.cfg.Database, c.log); err != nil {
				return fmt.Errorf("migrating database: %w", err)
			}
		}
		pool, err := pgStorage.NewPool(ctx, c.cfg.Database, c.log)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		c.closers = append(c.closers, pool.Close)
		c.checkers = append(c.checkers, pgStorage.NewHealthCheck(pool))

		c.transactor = pgStorage.NewTransactor(pool, c.cfg.Database.TxMaxAttempts, c.log)
		c.wallets = pgStorage.NewWalletRepo(pool)
		c.entries = pgStorage.NewEntryRepo(pool)
		c.budgets = pgStorage.NewBudgetRepo(pool)
		c.accounts = pgStorage.NewVirtualAccountRepo(pool)
		c.mandates = pgStorage.NewMandateRepo(pool)
		c.webhookEvents = pgStorage.NewWebhookEventRepo(pool)
		c.auditRepo = pgStorage.NewAuditRepo(pool)
		return nil
	}
	return fmt.Errorf("unsupported storage driver %q", c.cfg.Storage.Driver)
}

func (c *Container) openQueue() error {
	qc := c.cfg.Queue
	switch qc.Driver {
	case "redis":
		q := queue.NewRedisQueue(c.redis, qc.Name, qc.ConsumerLease, c.log)
		c.queue, c.source = q, q
		return nil

	case "rabbitmq":
		q, conn, err := queue.DialRabbitMQ(qc.RabbitMQURL, qc.Name, c.cfg.Worker.Concurrency, c.log)
		if err != nil {
			return fmt.Errorf("connecting to rabbitmq: %w", err)
		}
		c.closers = append(c.closers, func() {
			_ = q.Close()
			_ = conn.Close()
		})
		c.checkers = append(c.checkers, queue.NewConnectionHealth(conn))
		c.queue, c.source = q, q
		return nil
	}
	return fmt.Errorf("unsupported queue driver %q", qc.Driver)
}

func (c *Container) buildServices() error {
	cfg := c.cfg

	encSvc, err := service.NewAESEncryptionService(cfg.Security.EncryptionKey)
	if err != nil {
		return fmt.Errorf("initialising encryption: %w", err)
	}
	sigSvc := service.NewHMACSignatureService()
	c.Tokens = service.NewJWTTokenService(cfg.Security.JWTSecret, cfg.Security.TokenTTL, cfg.Security.JWTIssuer)

	c.registry = provider.NewRegistry(cfg.Providers, sigSvc, c.log)
	c.log.Info().Interface("providers", c.registry.Providers()).Msg("provider registry ready")

	c.locker = redisStorage.NewLocker(c.redis)

	settlement := service.NewSettlementService(c.transactor, c.entries, c.accounts, c.log)
	c.Settlement = settlement
	c.Transfers = service.NewTransferService(
		c.transactor,
		c.entries,
		c.budgets,
		c.registry,
		settlement,
		redisStorage.NewIdempotencyCache(c.redis),
		cfg.Security.IdempotencyTTL,
		c.log,
	)
	c.Clearance = service.NewClearanceService(
		c.entries,
		c.registry,
		c.queue,
		c.locker,
		cfg.Clearance.GraceWindow,
		cfg.Clearance.BatchSize,
		c.log,
	)
	c.Mandates = service.NewMandateService(service.MandateServiceDeps{
		Transactor:      c.transactor,
		Mandates:        c.mandates,
		Wallets:         c.wallets,
		Accounts:        c.accounts,
		Providers:       c.registry,
		Encryption:      encSvc,
		Locker:          c.locker,
		DefaultProvider: domain.ProviderName(cfg.Mandate.DefaultProvider),
		ExpiryAfter:     cfg.Mandate.ExpiryAfter,
	}, c.log)
	c.Webhooks = service.NewWebhookService(
		c.registry,
		redisStorage.NewEventDeduplicator(c.redis),
		c.queue,
		c.webhookEvents,
		cfg.Security.WebhookDedupeTTL,
		c.log,
	)
	c.Ledger = service.NewLedgerService(c.wallets, c.entries, c.log)
	c.Audit = service.NewAuditService(c.auditRepo, c.log)
	return nil
}

// Router builds the HTTP engine for the API process.
func (c *Container) Router() *gin.Engine {
	return httpHandler.SetupRouter(httpHandler.RouterDeps{
		WebhookSvc:     c.Webhooks,
		LedgerSvc:      c.Ledger,
		TransferSvc:    c.Transfers,
		Queue:          c.queue,
		TokenSvc:       c.Tokens,
		RateLimitStore: c.rateLimits,
		RateLimits:     middleware.RateLimitRules(c.cfg.RateLimit.WebhookPerMinute, c.cfg.RateLimit.OpsPerMinute),
		HealthCheckers: c.checkers,
		AuditSvc:       c.Audit,
		MaxBodyBytes:   c.cfg.Server.MaxBodyBytes,
		Mode:           c.cfg.Server.Mode,
		Logger:         c.log,
	})
}

// Pool builds the job consumer for the worker process.
func (c *Container) Pool() *worker.Pool {
	dispatcher := worker.NewDispatcher(worker.Services{
		Settlement: c.Settlement,
		Clearance:  c.Clearance,
		Mandates:   c.Mandates,
	}, c.log)

	return worker.NewPool(c.source, dispatcher, worker.PoolConfig{
		Concurrency:    c.cfg.Worker.Concurrency,
		MaxAttempts:    c.cfg.Queue.MaxAttempts,
		RetryBaseDelay: c.cfg.Queue.RetryBaseDelay,
		PollTimeout:    c.cfg.Queue.PollTimeout,
	}, c.log)
}

// Scheduler registers the recurring sweeps. The clearance sweep is queued
// rather than run inline so any worker replica may pick it up. A tick lock
// held for most of one interval keeps replicas from queueing it once each.
func (c *Container) Scheduler() (*worker.Scheduler, error) {
	s := worker.NewScheduler(c.cfg.Worker.ShutdownTimeout, c.log)

	interval, err := worker.Interval(c.cfg.Clearance.Schedule)
	if err != nil {
		return nil, err
	}
	tickWindow := interval * 9 / 10

	err = s.Add(TaskClearanceSweep, c.cfg.Clearance.Schedule, func(ctx context.Context) error {
		_, acquired, err := c.locker.TryLock(ctx, TaskClearanceSweep+":tick", tickWindow)
		if err != nil {
			return err
		}
		if !acquired {
			c.log.Debug().Msg("clearance sweep already queued by another replica")
			return nil
		}
		job, err := domain.NewJob(domain.JobAddWalletEntriesForClearance, domain.ClearanceSweepPayload{
			RequestedBy: "scheduler",
		})
		if err != nil {
			return err
		}
		return c.queue.Enqueue(ctx, job)
	})
	if err != nil {
		return nil, err
	}

	err = s.Add(TaskMandateExpiry, c.cfg.Mandate.ExpirySchedule, func(ctx context.Context) error {
		_, err := c.Mandates.ExpireStale(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// MaintainQueue keeps the worker's claim on its in-flight jobs alive and
// requeues jobs abandoned by dead workers, until ctx is done. Only the Redis
// queue needs this; RabbitMQ redelivers unacked jobs itself.
func (c *Container) MaintainQueue(ctx context.Context) {
	q, ok := c.source.(*queue.RedisQueue)
	if !ok {
		return
	}
	q.Maintain(ctx)
}

// Close releases connections in reverse order of opening.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// ShutdownTimeout bounds graceful shutdown of either process.
func (c *Container) ShutdownTimeout() time.Duration {
	if c.cfg.Worker.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return c.cfg.Worker.ShutdownTimeout
}
