package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

const anchorSignatureHeader = "x-anchor-signature"

// Anchor settles NGN transfers and issues NGN virtual accounts. Amounts on
// its API are integers in kobo.
type Anchor struct {
	api        *apiClient
	currencies []string
	secret     string
	signer     ports.SignatureService
}

// NewAnchor creates an Anchor client.
func NewAnchor(cfg config.ProviderConfig, signer ports.SignatureService, log zerolog.Logger) *Anchor {
	auth := func(r *http.Request) { r.Header.Set("x-anchor-key", cfg.APIKey) }
	return &Anchor{
		api:        newAPIClient(domain.ProviderAnchor, cfg, auth, log),
		currencies: cfg.Currencies,
		secret:     cfg.WebhookSecret,
		signer:     signer,
	}
}

func (a *Anchor) Name() domain.ProviderName { return domain.ProviderAnchor }
func (a *Anchor) Currencies() []string      { return a.currencies }

type anchorCounterparty struct {
	AccountNumber string `json:"accountNumber"`
	BankCode      string `json:"bankCode"`
	AccountName   string `json:"accountName,omitempty"`
}

type anchorTransferRequest struct {
	Amount       int64              `json:"amount"`
	Currency     string             `json:"currency"`
	Reference    string             `json:"reference"`
	Reason       string             `json:"reason,omitempty"`
	Counterparty anchorCounterparty `json:"counterParty"`
}

type anchorTransfer struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
	Reason    string `json:"failureReason"`
}

type anchorEnvelope[T any] struct {
	Data T `json:"data"`
}

func (a *Anchor) InitiateTransfer(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	body := anchorTransferRequest{
		Amount:    req.Amount,
		Currency:  req.Currency,
		Reference: req.Reference,
		Reason:    req.Narration,
		Counterparty: anchorCounterparty{
			AccountNumber: req.Counterparty.AccountNumber,
			BankCode:      req.Counterparty.BankCode,
			AccountName:   req.Counterparty.AccountName,
		},
	}
	var resp anchorEnvelope[anchorTransfer]
	if err := a.api.do(ctx, http.MethodPost, "/api/v1/transfers", body, &resp); err != nil {
		return nil, err
	}
	return &ports.TransferResult{
		Reference:   req.Reference,
		ProviderRef: resp.Data.ID,
		Status:      anchorStatus(resp.Data.Status),
	}, nil
}

func (a *Anchor) VerifyTransferByID(ctx context.Context, providerRef string) (*ports.TransferVerification, error) {
	return a.verifyTransfer(ctx, "/api/v1/transfers/verify/"+url.PathEscape(providerRef))
}

// VerifyTransferByReference uses the reference we sent on initiation.
func (a *Anchor) VerifyTransferByReference(ctx context.Context, reference string) (*ports.TransferVerification, error) {
	return a.verifyTransfer(ctx, "/api/v1/transfers/verify/reference/"+url.PathEscape(reference))
}

func (a *Anchor) verifyTransfer(ctx context.Context, path string) (*ports.TransferVerification, error) {
	var resp anchorEnvelope[anchorTransfer]
	if err := a.api.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		if notFound(err) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, err
	}
	return &ports.TransferVerification{
		Status:          anchorStatus(resp.Data.Status),
		Amount:          resp.Data.Amount,
		Currency:        resp.Data.Currency,
		GatewayResponse: resp.Data.Reason,
		Reference:       resp.Data.Reference,
	}, nil
}

type anchorAccountRequest struct {
	AccountName      string `json:"accountName"`
	Reference        string `json:"reference"`
	Currency         string `json:"currency"`
	Permanent        bool   `json:"permanent"`
	Amount           int64  `json:"amount,omitempty"`
	ExpiresInMinutes int64  `json:"expiresInMinutes,omitempty"`
}

type anchorAccount struct {
	ID            string `json:"id"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	Bank          struct {
		Name    string `json:"name"`
		NIPCode string `json:"nipCode"`
	} `json:"bank"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

func (a *Anchor) CreateStaticVirtualAccount(ctx context.Context, req ports.VirtualAccountRequest) (*ports.VirtualAccountDetails, error) {
	return a.createAccount(ctx, anchorAccountRequest{
		AccountName: req.AccountName,
		Reference:   req.Reference,
		Currency:    req.Currency,
		Permanent:   true,
	})
}

func (a *Anchor) CreateDynamicVirtualAccount(ctx context.Context, req ports.VirtualAccountRequest) (*ports.VirtualAccountDetails, error) {
	return a.createAccount(ctx, anchorAccountRequest{
		AccountName:      req.AccountName,
		Reference:        req.Reference,
		Currency:         req.Currency,
		Amount:           req.Amount,
		ExpiresInMinutes: int64(req.ExpiresIn / time.Minute),
	})
}

func (a *Anchor) GetVirtualAccount(ctx context.Context, providerRef string) (*ports.VirtualAccountDetails, error) {
	var resp anchorEnvelope[anchorAccount]
	if err := a.api.do(ctx, http.MethodGet, "/api/v1/virtual-nubans/"+url.PathEscape(providerRef), nil, &resp); err != nil {
		return nil, err
	}
	return a.accountDetails(resp.Data), nil
}

func (a *Anchor) createAccount(ctx context.Context, body anchorAccountRequest) (*ports.VirtualAccountDetails, error) {
	var resp anchorEnvelope[anchorAccount]
	if err := a.api.do(ctx, http.MethodPost, "/api/v1/virtual-nubans", body, &resp); err != nil {
		return nil, err
	}
	return a.accountDetails(resp.Data), nil
}

func (a *Anchor) accountDetails(acc anchorAccount) *ports.VirtualAccountDetails {
	return &ports.VirtualAccountDetails{
		AccountName:   acc.AccountName,
		AccountNumber: acc.AccountNumber,
		BankCode:      acc.Bank.NIPCode,
		BankName:      acc.Bank.Name,
		Provider:      domain.ProviderAnchor,
		ProviderRef:   acc.ID,
		ExpiresAt:     acc.ExpiresAt,
	}
}

// Authenticate checks the hex HMAC-SHA256 of the raw body.
func (a *Anchor) Authenticate(header http.Header, body []byte) error {
	sig := header.Get(anchorSignatureHeader)
	if sig == "" {
		return apperror.ErrMissingSignature()
	}
	if !a.signer.Verify(a.secret, body, strings.ToLower(sig)) {
		return apperror.ErrInvalidSignature()
	}
	return nil
}

type anchorEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		ID            string `json:"id"`
		Reference     string `json:"reference"`
		Amount        int64  `json:"amount"`
		Fee           int64  `json:"fee"`
		Currency      string `json:"currency"`
		AccountNumber string `json:"accountNumber"`
		SenderName    string `json:"senderName"`
		Narration     string `json:"narration"`
		Reason        string `json:"failureReason"`
	} `json:"data"`
}

// Parse translates payin and transfer events. Everything else is logged only.
func (a *Anchor) Parse(body []byte) (*ports.ParsedWebhook, error) {
	var ev anchorEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, apperror.Validation("malformed anchor event")
	}
	if ev.ID == "" || ev.Type == "" {
		return nil, apperror.Validation("anchor event missing id or type")
	}
	parsed := &ports.ParsedWebhook{EventID: ev.ID, EventType: ev.Type}

	switch ev.Type {
	case "payin.received":
		job, err := domain.NewJob(domain.JobProcessWalletInflow, domain.InflowPayload{
			Provider:      domain.ProviderAnchor,
			AccountNumber: ev.Data.AccountNumber,
			Amount:        ev.Data.Amount,
			Fee:           ev.Data.Fee,
			Currency:      ev.Data.Currency,
			Reference:     ev.Data.Reference,
			ProviderRef:   ev.Data.ID,
			SenderName:    ev.Data.SenderName,
			Narration:     ev.Data.Narration,
		})
		if err != nil {
			return nil, err
		}
		parsed.Job = job
	case "transfer.successful", "transfer.failed", "transfer.reversed":
		job, err := domain.NewJob(domain.JobProcessWalletOutflow, domain.OutflowPayload{
			Reference:       ev.Data.Reference,
			Status:          anchorStatus(strings.TrimPrefix(ev.Type, "transfer.")),
			Provider:        domain.ProviderAnchor,
			GatewayResponse: ev.Data.Reason,
		})
		if err != nil {
			return nil, err
		}
		parsed.Job = job
	}
	return parsed, nil
}

func anchorStatus(s string) domain.EntryStatus {
	switch strings.ToUpper(s) {
	case "COMPLETED", "SUCCESSFUL":
		return domain.EntryStatusSuccessful
	case "FAILED":
		return domain.EntryStatusFailed
	case "REVERSED":
		return domain.EntryStatusReversed
	case "PROCESSING":
		return domain.EntryStatusProcessing
	default:
		return domain.EntryStatusPending
	}
}

var (
	_ ports.TransferClient       = (*Anchor)(nil)
	_ ports.VirtualAccountClient = (*Anchor)(nil)
	_ ports.WebhookParser        = (*Anchor)(nil)
)
