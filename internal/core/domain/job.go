package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobName selects the handler a queued job is dispatched to.
type JobName string

const (
	JobProcessWalletInflow          JobName = "processWalletInflow"
	JobProcessWalletOutflow         JobName = "processWalletOutflow"
	JobProcessWalletEntryClearance  JobName = "processWalletEntryClearance"
	JobAddWalletEntriesForClearance JobName = "addWalletEntriesForClearance"
	JobProcessMandateCreated        JobName = "processMandateCreated"
	JobProcessMandateApproved       JobName = "processMandateApproved"
	JobProcessMandateDebitReady     JobName = "processMandateDebitReady"
)

// Job is the envelope carried by the queue. Delivery is at-least-once.
type Job struct {
	ID         uuid.UUID       `json:"id"`
	Name       JobName         `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	LastError  string          `json:"last_error,omitempty"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// NewJob marshals payload into a fresh envelope.
func NewJob(name JobName, payload any) (*Job, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", name, err)
	}
	return &Job{
		ID:         uuid.New(),
		Name:       name,
		Payload:    raw,
		EnqueuedAt: time.Now().UTC(),
	}, nil
}

// Decode unmarshals the payload into v.
func (j *Job) Decode(v any) error {
	if err := json.Unmarshal(j.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", j.Name, err)
	}
	return nil
}

// InflowPayload is money received into a virtual account.
type InflowPayload struct {
	Provider      ProviderName `json:"provider"`
	AccountNumber string       `json:"account_number"`
	Amount        int64        `json:"amount"`
	Fee           int64        `json:"fee"`
	Currency      string       `json:"currency"`
	Reference     string       `json:"reference"`
	ProviderRef   string       `json:"provider_ref"`
	SenderName    string       `json:"sender_name,omitempty"`
	Narration     string       `json:"narration,omitempty"`
}

// OutflowPayload is a provider verdict on a transfer we initiated.
type OutflowPayload struct {
	Reference       string       `json:"reference"`
	Status          EntryStatus  `json:"status"`
	Provider        ProviderName `json:"provider,omitempty"`
	GatewayResponse string       `json:"gateway_response,omitempty"`
}

// ClearancePayload asks for one pending entry to be re-verified.
type ClearancePayload struct {
	EntryID   uuid.UUID `json:"entry_id"`
	Reference string    `json:"reference"`
}

// ClearanceSweepPayload triggers a sweep for stale pending entries.
type ClearanceSweepPayload struct {
	RequestedBy string `json:"requested_by"`
}

// MandateCreatedPayload registers a new mandate.
type MandateCreatedPayload struct {
	Provider       ProviderName `json:"provider"`
	MandateRef     string       `json:"mandate_ref"`
	CustomerRef    string       `json:"customer_ref"`
	OrganizationID uuid.UUID    `json:"organization_id"`
	Currency       string       `json:"currency"`
	AccountName    string       `json:"account_name"`
	AccountNumber  string       `json:"account_number"`
	BankCode       string       `json:"bank_code"`
}

// MandateEventPayload drives approved and ready_to_debit transitions.
type MandateEventPayload struct {
	Provider    ProviderName `json:"provider"`
	MandateRef  string       `json:"mandate_ref"`
	CustomerRef string       `json:"customer_ref"`
}
