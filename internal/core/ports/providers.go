package ports

//go:generate mockgen -source=providers.go -destination=mocks/mock_providers.go -package=mocks

import (
	"context"
	"net/http"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// Counterparty is the destination bank account of an outbound transfer.
type Counterparty struct {
	AccountNumber string
	BankCode      string
	AccountName   string
}

// TransferRequest is an outbound transfer in minor units.
type TransferRequest struct {
	Amount       int64
	Currency     string
	Reference    string
	Narration    string
	Counterparty Counterparty
}

// TransferResult is the provider's immediate answer to a transfer request.
type TransferResult struct {
	Reference   string
	ProviderRef string
	Status      domain.EntryStatus
}

// TransferVerification is the provider's current view of a transfer.
type TransferVerification struct {
	Status          domain.EntryStatus
	Amount          int64
	Currency        string
	GatewayResponse string
	Reference       string
}

// TransferClient moves money out through one provider.
type TransferClient interface {
	Name() domain.ProviderName
	Currencies() []string
	InitiateTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
	VerifyTransferByID(ctx context.Context, providerRef string) (*TransferVerification, error)
	// VerifyTransferByReference looks a transfer up by the reference we sent,
	// for entries whose initiation response never arrived.
	VerifyTransferByReference(ctx context.Context, reference string) (*TransferVerification, error)
}

// VirtualAccountRequest asks a provider for an inbound account number.
type VirtualAccountRequest struct {
	OrganizationID uuid.UUID
	Reference      string
	AccountName    string
	Currency       string
	Amount         int64         // dynamic accounts only
	ExpiresIn      time.Duration // dynamic accounts only
}

// VirtualAccountDetails is a provisioned inbound account.
type VirtualAccountDetails struct {
	AccountName   string
	AccountNumber string
	BankCode      string
	BankName      string
	Provider      domain.ProviderName
	ProviderRef   string
	ExpiresAt     *time.Time
}

// VirtualAccountClient issues inbound account numbers.
type VirtualAccountClient interface {
	Name() domain.ProviderName
	Currencies() []string
	CreateStaticVirtualAccount(ctx context.Context, req VirtualAccountRequest) (*VirtualAccountDetails, error)
	CreateDynamicVirtualAccount(ctx context.Context, req VirtualAccountRequest) (*VirtualAccountDetails, error)
	GetVirtualAccount(ctx context.Context, providerRef string) (*VirtualAccountDetails, error)
}

// MandateDetails is a provider's record of a mandate.
type MandateDetails struct {
	MandateRef     string
	CustomerRef    string
	Status         string
	OrganizationID uuid.UUID
	Currency       string
	AccountName    string
	AccountNumber  string
	BankCode       string
}

// MandateClient reads mandates from a bank-linking provider.
type MandateClient interface {
	Name() domain.ProviderName
	GetMandate(ctx context.Context, mandateRef string) (*MandateDetails, error)
}

// ParsedWebhook is a provider event translated into our terms. Job is nil for
// event types we acknowledge without acting on.
type ParsedWebhook struct {
	EventID   string
	EventType string
	Job       *domain.Job
}

// WebhookParser authenticates and translates one provider's push events.
type WebhookParser interface {
	Name() domain.ProviderName
	Authenticate(header http.Header, body []byte) error
	Parse(body []byte) (*ParsedWebhook, error)
}

// ProviderRegistry resolves capabilities by provider name. Transfer and
// virtual-account lookups also check the currency.
type ProviderRegistry interface {
	TransferClient(name domain.ProviderName, currency string) (TransferClient, error)
	VirtualAccountClient(name domain.ProviderName, currency string) (VirtualAccountClient, error)
	MandateClient(name domain.ProviderName) (MandateClient, error)
	WebhookParser(name domain.ProviderName) (WebhookParser, error)
}
