package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const monoSecretHeader = "mono-webhook-secret"

// Mono links customer bank accounts through direct-debit mandates.
type Mono struct {
	api    *apiClient
	secret string
	signer ports.SignatureService
}

// NewMono creates a Mono client.
func NewMono(cfg config.ProviderConfig, signer ports.SignatureService, log zerolog.Logger) *Mono {
	auth := func(r *http.Request) { r.Header.Set("mono-sec-key", cfg.APIKey) }
	return &Mono{
		api:    newAPIClient(domain.ProviderMono, cfg, auth, log),
		secret: cfg.WebhookSecret,
		signer: signer,
	}
}

func (m *Mono) Name() domain.ProviderName { return domain.ProviderMono }

type monoMandate struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Customer    string `json:"customer"`
	Currency    string `json:"currency"`
	AccountName string `json:"account_name"`
	AccountNo   string `json:"account_number"`
	BankCode    string `json:"nip_code"`
	Meta        struct {
		OrganizationID string `json:"organization_id"`
	} `json:"meta"`
}

func (m *Mono) GetMandate(ctx context.Context, mandateRef string) (*ports.MandateDetails, error) {
	var resp struct {
		Data monoMandate `json:"data"`
	}
	if err := m.api.do(ctx, http.MethodGet, "/v3/payments/mandates/"+url.PathEscape(mandateRef), nil, &resp); err != nil {
		return nil, err
	}
	orgID, _ := uuid.Parse(resp.Data.Meta.OrganizationID)
	return &ports.MandateDetails{
		MandateRef:     resp.Data.ID,
		CustomerRef:    resp.Data.Customer,
		Status:         resp.Data.Status,
		OrganizationID: orgID,
		Currency:       strings.ToUpper(resp.Data.Currency),
		AccountName:    resp.Data.AccountName,
		AccountNumber:  resp.Data.AccountNo,
		BankCode:       resp.Data.BankCode,
	}, nil
}

// Authenticate compares the shared webhook secret header.
func (m *Mono) Authenticate(header http.Header, _ []byte) error {
	provided := header.Get(monoSecretHeader)
	if provided == "" {
		return apperror.ErrMissingSignature()
	}
	if !m.signer.CompareSecret(m.secret, provided) {
		return apperror.ErrInvalidSignature()
	}
	return nil
}

type monoEvent struct {
	Event string      `json:"event"`
	Data  monoMandate `json:"data"`
}

// Parse translates mandate lifecycle events. Mono sends no delivery id, so
// the event id is the event name joined with the mandate id.
func (m *Mono) Parse(body []byte) (*ports.ParsedWebhook, error) {
	var ev monoEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, apperror.Validation("malformed mono event")
	}
	if ev.Event == "" || ev.Data.ID == "" {
		return nil, apperror.Validation("mono event missing event or mandate id")
	}
	parsed := &ports.ParsedWebhook{EventID: ev.Event + ":" + ev.Data.ID, EventType: ev.Event}

	var (
		job *domain.Job
		err error
	)
	switch ev.Event {
	case "events.mandates.created":
		orgID, perr := uuid.Parse(ev.Data.Meta.OrganizationID)
		if perr != nil {
			return nil, apperror.Validation("mono mandate missing organization_id")
		}
		job, err = domain.NewJob(domain.JobProcessMandateCreated, domain.MandateCreatedPayload{
			Provider:       domain.ProviderMono,
			MandateRef:     ev.Data.ID,
			CustomerRef:    ev.Data.Customer,
			OrganizationID: orgID,
			Currency:       strings.ToUpper(ev.Data.Currency),
			AccountName:    ev.Data.AccountName,
			AccountNumber:  ev.Data.AccountNo,
			BankCode:       ev.Data.BankCode,
		})
	case "events.mandates.approved":
		job, err = domain.NewJob(domain.JobProcessMandateApproved, m.eventPayload(ev))
	case "events.mandates.ready":
		job, err = domain.NewJob(domain.JobProcessMandateDebitReady, m.eventPayload(ev))
	}
	if err != nil {
		return nil, err
	}
	parsed.Job = job
	return parsed, nil
}

func (m *Mono) eventPayload(ev monoEvent) domain.MandateEventPayload {
	return domain.MandateEventPayload{
		Provider:    domain.ProviderMono,
		MandateRef:  ev.Data.ID,
		CustomerRef: ev.Data.Customer,
	}
}

var (
	_ ports.MandateClient = (*Mono)(nil)
	_ ports.WebhookParser = (*Mono)(nil)
)
