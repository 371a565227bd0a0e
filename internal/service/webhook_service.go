package service

import (
	"context"
	"net/http"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// webhookService implements ports.WebhookService. It authenticates and
// translates provider pushes and hands the work to the job queue; it never
// touches balances itself.
type webhookService struct {
	providers ports.ProviderRegistry
	dedupe    ports.EventDeduplicator
	queue     ports.JobQueue
	events    ports.WebhookEventRepository
	dedupeTTL time.Duration
	log       zerolog.Logger
}

// NewWebhookService creates a new webhook service.
func NewWebhookService(
	providers ports.ProviderRegistry,
	dedupe ports.EventDeduplicator,
	queue ports.JobQueue,
	events ports.WebhookEventRepository,
	dedupeTTL time.Duration,
	log zerolog.Logger,
) ports.WebhookService {
	return &webhookService{
		providers: providers,
		dedupe:    dedupe,
		queue:     queue,
		events:    events,
		dedupeTTL: dedupeTTL,
		log:       log.With().Str("component", "webhook").Logger(),
	}
}

// Ingest authenticates body before parsing it. Unknown event types and
// repeated deliveries are acknowledged without enqueueing.
func (s *webhookService) Ingest(ctx context.Context, provider domain.ProviderName, header http.Header, body []byte) (*ports.WebhookAck, error) {
	parser, err := s.providers.WebhookParser(provider)
	if err != nil {
		return nil, err
	}
	log := s.log.With().Str("provider", string(provider)).Logger()

	if err := parser.Authenticate(header, body); err != nil {
		log.Warn().Err(err).Msg("webhook authentication failed")
		return nil, err
	}

	parsed, err := parser.Parse(body)
	if err != nil {
		log.Warn().Err(err).Msg("webhook payload rejected")
		return nil, err
	}
	log = log.With().Str("event_id", parsed.EventID).Str("event_type", parsed.EventType).Logger()

	key := domain.BuildWebhookDedupeKey(provider, parsed.EventID)
	first, err := s.dedupe.FirstSeen(ctx, key, s.dedupeTTL)
	if err != nil {
		// Fail open: the ledger's reference uniqueness still guards money.
		log.Warn().Err(err).Msg("webhook dedupe unavailable, continuing")
		first = true
	}
	if !first {
		s.record(ctx, provider, parsed, domain.WebhookEventDuplicate, nil, body)
		log.Info().Msg("duplicate webhook delivery")
		return &ports.WebhookAck{Status: ports.WebhookAckDuplicate, EventID: parsed.EventID}, nil
	}

	if parsed.Job == nil {
		s.record(ctx, provider, parsed, domain.WebhookEventLogged, nil, body)
		log.Info().Msg("webhook event logged without action")
		return &ports.WebhookAck{Status: ports.WebhookAckLogged, EventID: parsed.EventID}, nil
	}

	if err := s.queue.Enqueue(ctx, parsed.Job); err != nil {
		// Let the provider redeliver.
		if ferr := s.dedupe.Forget(ctx, key); ferr != nil {
			log.Warn().Err(ferr).Msg("failed to clear webhook dedupe key")
		}
		log.Error().Err(err).Msg("failed to enqueue webhook job")
		return nil, apperror.ErrQueueUnavailable(err)
	}

	jobID := parsed.Job.ID
	s.record(ctx, provider, parsed, domain.WebhookEventQueued, &jobID, body)
	log.Info().Str("job_id", jobID.String()).Str("job", string(parsed.Job.Name)).Msg("webhook job queued")
	return &ports.WebhookAck{Status: ports.WebhookAckReceived, EventID: parsed.EventID}, nil
}

// record writes the inbound event log (best-effort).
func (s *webhookService) record(ctx context.Context, provider domain.ProviderName, parsed *ports.ParsedWebhook, status domain.WebhookEventStatus, jobID *uuid.UUID, body []byte) {
	ev := &domain.WebhookEvent{
		ID:        uuid.New(),
		Provider:  provider,
		EventID:   parsed.EventID,
		EventType: parsed.EventType,
		Status:    status,
		JobID:     jobID,
		Payload:   string(body),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.events.Create(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event_id", parsed.EventID).Msg("failed to persist webhook event")
	}
}
