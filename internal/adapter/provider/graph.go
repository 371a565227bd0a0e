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

const graphSignatureHeader = "x-graph-signature"

// Graph settles USD payouts and issues USD bank accounts. Its API speaks
// major-unit decimal strings.
type Graph struct {
	api        *apiClient
	currencies []string
	secret     string
	signer     ports.SignatureService
}

// NewGraph creates a Graph client.
func NewGraph(cfg config.ProviderConfig, signer ports.SignatureService, log zerolog.Logger) *Graph {
	auth := func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+cfg.APIKey) }
	return &Graph{
		api:        newAPIClient(domain.ProviderGraph, cfg, auth, log),
		currencies: cfg.Currencies,
		secret:     cfg.WebhookSecret,
		signer:     signer,
	}
}

func (g *Graph) Name() domain.ProviderName { return domain.ProviderGraph }
func (g *Graph) Currencies() []string      { return g.currencies }

type graphPayoutRequest struct {
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
	Description string `json:"description,omitempty"`
	Destination struct {
		AccountNumber string `json:"account_number"`
		RoutingNumber string `json:"routing_number"`
		Name          string `json:"name,omitempty"`
	} `json:"destination"`
}

type graphPayout struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Reference     string `json:"reference"`
	FailureReason string `json:"failure_reason"`
}

type graphEnvelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

func (g *Graph) InitiateTransfer(ctx context.Context, req ports.TransferRequest) (*ports.TransferResult, error) {
	body := graphPayoutRequest{
		Amount:      toMajor(req.Amount),
		Currency:    req.Currency,
		Reference:   req.Reference,
		Description: req.Narration,
	}
	body.Destination.AccountNumber = req.Counterparty.AccountNumber
	body.Destination.RoutingNumber = req.Counterparty.BankCode
	body.Destination.Name = req.Counterparty.AccountName

	var resp graphEnvelope[graphPayout]
	if err := g.api.do(ctx, http.MethodPost, "/payout", body, &resp); err != nil {
		return nil, err
	}
	return &ports.TransferResult{
		Reference:   req.Reference,
		ProviderRef: resp.Data.ID,
		Status:      graphStatus(resp.Data.Status),
	}, nil
}

func (g *Graph) VerifyTransferByID(ctx context.Context, providerRef string) (*ports.TransferVerification, error) {
	return g.verifyPayout(ctx, "/payout/"+url.PathEscape(providerRef))
}

// VerifyTransferByReference looks the payout up by our reference.
func (g *Graph) VerifyTransferByReference(ctx context.Context, reference string) (*ports.TransferVerification, error) {
	return g.verifyPayout(ctx, "/payout/reference/"+url.PathEscape(reference))
}

func (g *Graph) verifyPayout(ctx context.Context, path string) (*ports.TransferVerification, error) {
	var resp graphEnvelope[graphPayout]
	if err := g.api.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		if notFound(err) {
			return nil, domain.ErrTransferNotFound
		}
		return nil, err
	}
	amount, err := fromMajor(resp.Data.Amount)
	if err != nil {
		return nil, apperror.ErrServiceUnavailable(err)
	}
	return &ports.TransferVerification{
		Status:          graphStatus(resp.Data.Status),
		Amount:          amount,
		Currency:        resp.Data.Currency,
		GatewayResponse: resp.Data.FailureReason,
		Reference:       resp.Data.Reference,
	}, nil
}

type graphAccountRequest struct {
	Label      string `json:"label"`
	Reference  string `json:"reference"`
	Currency   string `json:"currency"`
	Type       string `json:"type"` // static, dynamic
	Amount     string `json:"amount,omitempty"`
	ExpiresAt  string `json:"expires_at,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
}

type graphAccount struct {
	ID            string     `json:"id"`
	AccountName   string     `json:"account_name"`
	AccountNumber string     `json:"account_number"`
	RoutingNumber string     `json:"routing_number"`
	BankName      string     `json:"bank_name"`
	ExpiresAt     *time.Time `json:"expires_at"`
}

func (g *Graph) CreateStaticVirtualAccount(ctx context.Context, req ports.VirtualAccountRequest) (*ports.VirtualAccountDetails, error) {
	return g.createAccount(ctx, graphAccountRequest{
		Label:      req.AccountName,
		Reference:  req.Reference,
		Currency:   req.Currency,
		Type:       "static",
		CustomerID: req.OrganizationID.String(),
	})
}

func (g *Graph) CreateDynamicVirtualAccount(ctx context.Context, req ports.VirtualAccountRequest) (*ports.VirtualAccountDetails, error) {
	body := graphAccountRequest{
		Label:      req.AccountName,
		Reference:  req.Reference,
		Currency:   req.Currency,
		Type:       "dynamic",
		Amount:     toMajor(req.Amount),
		CustomerID: req.OrganizationID.String(),
	}
	if req.ExpiresIn > 0 {
		body.ExpiresAt = time.Now().UTC().Add(req.ExpiresIn).Format(time.RFC3339)
	}
	return g.createAccount(ctx, body)
}

func (g *Graph) GetVirtualAccount(ctx context.Context, providerRef string) (*ports.VirtualAccountDetails, error) {
	var resp graphEnvelope[graphAccount]
	if err := g.api.do(ctx, http.MethodGet, "/bank_account/"+url.PathEscape(providerRef), nil, &resp); err != nil {
		return nil, err
	}
	return g.accountDetails(resp.Data), nil
}

func (g *Graph) createAccount(ctx context.Context, body graphAccountRequest) (*ports.VirtualAccountDetails, error) {
	var resp graphEnvelope[graphAccount]
	if err := g.api.do(ctx, http.MethodPost, "/bank_account", body, &resp); err != nil {
		return nil, err
	}
	return g.accountDetails(resp.Data), nil
}

func (g *Graph) accountDetails(acc graphAccount) *ports.VirtualAccountDetails {
	return &ports.VirtualAccountDetails{
		AccountName:   acc.AccountName,
		AccountNumber: acc.AccountNumber,
		BankCode:      acc.RoutingNumber,
		BankName:      acc.BankName,
		Provider:      domain.ProviderGraph,
		ProviderRef:   acc.ID,
		ExpiresAt:     acc.ExpiresAt,
	}
}

// Authenticate checks the hex HMAC-SHA256 of the raw body.
func (g *Graph) Authenticate(header http.Header, body []byte) error {
	sig := header.Get(graphSignatureHeader)
	if sig == "" {
		return apperror.ErrMissingSignature()
	}
	if !g.signer.Verify(g.secret, body, strings.ToLower(sig)) {
		return apperror.ErrInvalidSignature()
	}
	return nil
}

type graphEvent struct {
	ID    string `json:"id"`
	Event string `json:"event"`
	Data  struct {
		ID            string `json:"id"`
		Reference     string `json:"reference"`
		Amount        string `json:"amount"`
		Fee           string `json:"fee"`
		Currency      string `json:"currency"`
		AccountNumber string `json:"account_number"`
		PayerName     string `json:"payer_name"`
		Description   string `json:"description"`
		FailureReason string `json:"failure_reason"`
	} `json:"data"`
}

// Parse translates deposit and payout events.
func (g *Graph) Parse(body []byte) (*ports.ParsedWebhook, error) {
	var ev graphEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, apperror.Validation("malformed graph event")
	}
	if ev.ID == "" || ev.Event == "" {
		return nil, apperror.Validation("graph event missing id or event")
	}
	parsed := &ports.ParsedWebhook{EventID: ev.ID, EventType: ev.Event}

	switch ev.Event {
	case "deposit.received":
		amount, err := fromMajor(ev.Data.Amount)
		if err != nil {
			return nil, apperror.Validation("graph deposit amount: " + err.Error())
		}
		var fee int64
		if ev.Data.Fee != "" {
			if fee, err = fromMajor(ev.Data.Fee); err != nil {
				return nil, apperror.Validation("graph deposit fee: " + err.Error())
			}
		}
		job, err := domain.NewJob(domain.JobProcessWalletInflow, domain.InflowPayload{
			Provider:      domain.ProviderGraph,
			AccountNumber: ev.Data.AccountNumber,
			Amount:        amount,
			Fee:           fee,
			Currency:      strings.ToUpper(ev.Data.Currency),
			Reference:     ev.Data.Reference,
			ProviderRef:   ev.Data.ID,
			SenderName:    ev.Data.PayerName,
			Narration:     ev.Data.Description,
		})
		if err != nil {
			return nil, err
		}
		parsed.Job = job
	case "payout.completed", "payout.failed", "payout.reversed":
		job, err := domain.NewJob(domain.JobProcessWalletOutflow, domain.OutflowPayload{
			Reference:       ev.Data.Reference,
			Status:          graphStatus(strings.TrimPrefix(ev.Event, "payout.")),
			Provider:        domain.ProviderGraph,
			GatewayResponse: ev.Data.FailureReason,
		})
		if err != nil {
			return nil, err
		}
		parsed.Job = job
	}
	return parsed, nil
}

func graphStatus(s string) domain.EntryStatus {
	switch strings.ToLower(s) {
	case "completed", "successful", "success":
		return domain.EntryStatusSuccessful
	case "failed", "cancelled":
		return domain.EntryStatusFailed
	case "reversed", "returned":
		return domain.EntryStatusReversed
	case "processing", "in_transit":
		return domain.EntryStatusProcessing
	default:
		return domain.EntryStatusPending
	}
}

var (
	_ ports.TransferClient       = (*Graph)(nil)
	_ ports.VirtualAccountClient = (*Graph)(nil)
	_ ports.WebhookParser        = (*Graph)(nil)
)
