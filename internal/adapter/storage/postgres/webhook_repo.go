package postgres

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"
)

// WebhookEventRepo implements ports.WebhookEventRepository.
type WebhookEventRepo struct {
	pool Pool
}

// NewWebhookEventRepo creates a PostgreSQL-backed webhook event log.
func NewWebhookEventRepo(pool Pool) *WebhookEventRepo {
	return &WebhookEventRepo{pool: pool}
}

func (r *WebhookEventRepo) Create(ctx context.Context, ev *domain.WebhookEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO webhook_events (id, provider, event_id, event_type, status, job_id, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)`,
		ev.ID, string(ev.Provider), ev.EventID, ev.EventType, string(ev.Status),
		ev.JobID, ev.Payload, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook event: %w", err)
	}
	return nil
}
