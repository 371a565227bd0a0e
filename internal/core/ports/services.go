package ports

//go:generate mockgen -source=services.go -destination=mocks/mock_services.go -package=mocks

import (
	"context"
	"net/http"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// EncryptionService handles AES-256-GCM encryption bound to associated data.
type EncryptionService interface {
	Encrypt(plaintext string, associatedData []byte) (string, error)
	Decrypt(ciphertext string, associatedData []byte) (string, error)
}

// SignatureService authenticates webhook payloads.
type SignatureService interface {
	Sign(secretKey string, payload []byte) string
	Verify(secretKey string, payload []byte, signature string) bool
	// CompareSecret checks a shared-secret header in constant time.
	CompareSecret(expected, provided string) bool
}

// TokenService handles ops API bearer tokens.
type TokenService interface {
	Generate(subject string, scopes []string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
	Scopes  []string
}

// HasScope reports whether the token grants scope.
func (c *TokenClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// IdempotencyCache remembers the entry each transfer request produced so a
// retried request is answered without touching the database.
type IdempotencyCache interface {
	Lookup(ctx context.Context, organizationID uuid.UUID, reference string) (*domain.WalletEntry, error) // nil on miss
	Remember(ctx context.Context, entry *domain.WalletEntry, ttl time.Duration) error
}

// EventDeduplicator drops repeated webhook deliveries.
type EventDeduplicator interface {
	// FirstSeen atomically marks key as seen. It returns false if it already was.
	FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Forget clears key so a delivery that failed to enqueue can be retried.
	Forget(ctx context.Context, key string) error
}

// --- Service Ports (Business Logic) ---

// Outcome classifies how a job handler resolved its input.
type Outcome string

const (
	OutcomeApplied           Outcome = "applied"
	OutcomeDuplicate         Outcome = "duplicate"
	OutcomeNotFound          Outcome = "not_found"
	OutcomeAlreadyConclusive Outcome = "already_conclusive"
	OutcomeRejected          Outcome = "rejected"
	OutcomeStillPending      Outcome = "still_pending"
	OutcomeQueued            Outcome = "queued"
)

// Result is returned by job handlers. Only infrastructure failures are
// returned as errors; business-rule outcomes are handled results.
type Result struct {
	Outcome      Outcome
	Reason       string
	Entry        *domain.WalletEntry
	Compensation *domain.WalletEntry // credit created by a reversal
}

// Applied reports whether the handler mutated state.
func (r *Result) Applied() bool {
	return r != nil && (r.Outcome == OutcomeApplied || r.Outcome == OutcomeQueued)
}

// Handled builds a no-op result.
func Handled(outcome Outcome, reason string) *Result {
	return &Result{Outcome: outcome, Reason: reason}
}

// SettlementService applies provider verdicts to the ledger.
type SettlementService interface {
	ProcessInflow(ctx context.Context, p domain.InflowPayload) (*Result, error)
	ProcessOutflow(ctx context.Context, p domain.OutflowPayload) (*Result, error)
}

// TransferService starts outbound transfers from a wallet.
type TransferService interface {
	Initiate(ctx context.Context, req TransferInitiation) (*domain.WalletEntry, error)
}

// TransferInitiation holds validated input for an outbound transfer.
type TransferInitiation struct {
	OrganizationID uuid.UUID
	WalletID       uuid.UUID
	BudgetID       *uuid.UUID
	Amount         int64
	Currency       string
	Provider       domain.ProviderName
	Scope          domain.EntryScope
	Reference      string // client idempotency key, becomes the entry reference
	Narration      string
	Counterparty   Counterparty
}

// ClearanceService reconciles entries stuck in pending.
type ClearanceService interface {
	QueueStaleEntries(ctx context.Context) (int, error)
	ClearEntry(ctx context.Context, p domain.ClearancePayload) (*Result, error)
}

// MandateService drives the bank-account linking lifecycle.
type MandateService interface {
	HandleCreated(ctx context.Context, p domain.MandateCreatedPayload) (*Result, error)
	HandleApproved(ctx context.Context, p domain.MandateEventPayload) (*Result, error)
	HandleDebitReady(ctx context.Context, p domain.MandateEventPayload) (*Result, error)
	ExpireStale(ctx context.Context) (int64, error)
}

// WebhookService authenticates provider pushes and queues the work.
type WebhookService interface {
	Ingest(ctx context.Context, provider domain.ProviderName, header http.Header, body []byte) (*WebhookAck, error)
}

// Webhook acknowledgement statuses.
const (
	WebhookAckReceived  = "webhook_received"
	WebhookAckLogged    = "webhook_logged"
	WebhookAckDuplicate = "webhook_duplicate"
)

// WebhookAck is the generic acknowledgement returned to providers.
type WebhookAck struct {
	Status  string `json:"status"`
	EventID string `json:"event_id,omitempty"`
}

// LedgerService serves read-side ledger queries.
type LedgerService interface {
	GetWallet(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	ListEntries(ctx context.Context, params EntryListParams) ([]domain.WalletEntry, int64, error)
	VerifyWallet(ctx context.Context, id uuid.UUID) (*WalletVerification, error)
}

// WalletVerification is the result of replaying a wallet's entries.
type WalletVerification struct {
	WalletID              uuid.UUID `json:"wallet_id"`
	Balance               int64     `json:"balance"`
	LedgerBalance         int64     `json:"ledger_balance"`
	ReplayedLedgerBalance int64     `json:"replayed_ledger_balance"`
	InFlightDebits        int64     `json:"in_flight_debits"`
	EntryCount            int64     `json:"entry_count"`
	Consistent            bool      `json:"consistent"`
}

// AuditService records operator actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
