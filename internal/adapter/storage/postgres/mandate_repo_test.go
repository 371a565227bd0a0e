package postgres

import (
	"context"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mandateCols() []string {
	return []string{"id", "organization_id", "provider", "mandate_ref", "customer_ref", "currency",
		"account_name", "bank_code", "account_number_enc", "account_mask", "status",
		"approved_at", "ready_at", "created_at", "updated_at"}
}

func newTestMandate() *domain.Mandate {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Mandate{
		ID:               uuid.New(),
		OrganizationID:   uuid.New(),
		Provider:         domain.ProviderMono,
		MandateRef:       "mmc_" + uuid.NewString(),
		CustomerRef:      "cus_1",
		Currency:         "NGN",
		AccountName:      "Acme Ltd",
		BankCode:         "058",
		AccountNumberEnc: "ciphertext",
		AccountMask:      "******6789",
		Status:           domain.MandateStatusCreated,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func mandateRow(m *domain.Mandate) *pgxmock.Rows {
	return pgxmock.NewRows(mandateCols()).AddRow(
		m.ID, m.OrganizationID, m.Provider, m.MandateRef, m.CustomerRef, m.Currency,
		m.AccountName, m.BankCode, m.AccountNumberEnc, m.AccountMask, m.Status,
		m.ApprovedAt, m.ReadyAt, m.CreatedAt, m.UpdatedAt,
	)
}

func TestMandateRepo_GetByCustomerRef(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	m := newTestMandate()
	mock.ExpectQuery("SELECT .+ FROM mandates WHERE provider = \\$1 AND customer_ref = \\$2").
		WithArgs(domain.ProviderMono, "cus_1").
		WillReturnRows(mandateRow(m))

	result, err := NewMandateRepo(mock).GetByCustomerRef(context.Background(), domain.ProviderMono, "cus_1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, m.MandateRef, result.MandateRef)
	assert.Equal(t, domain.MandateStatusCreated, result.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMandateRepo_Create_Duplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO mandates").
		WillReturnError(&pgconn.PgError{Code: pgUniqueViolation, ConstraintName: constraintMandateRef})

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = NewMandateRepo(mock).Create(context.Background(), tx, newTestMandate())
	assert.ErrorIs(t, err, domain.ErrDuplicateReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMandateRepo_Transition(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	at := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE mandates .+ WHERE id = \\$3 AND status = \\$4").
		WithArgs("approved", at, id, "created").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = NewMandateRepo(mock).Transition(context.Background(), tx, id, domain.MandateStatusCreated, domain.MandateStatusApproved, at)
	assert.ErrorIs(t, err, domain.ErrStaleState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMandateRepo_ExpireStale(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cutoff := time.Now().Add(-72 * time.Hour)
	mock.ExpectExec("UPDATE mandates SET status = 'expired'").
		WithArgs(cutoff).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	n, err := NewMandateRepo(mock).ExpireStale(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVirtualAccountRepo_GetByAccountNumber(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	va := domain.VirtualAccount{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		WalletID:       uuid.New(),
		Provider:       domain.ProviderAnchor,
		ProviderRef:    "va_1",
		Type:           domain.VirtualAccountStatic,
		AccountName:    "Acme Ltd",
		AccountNumber:  "0123456789",
		BankCode:       "000",
		BankName:       "Anchor MFB",
		Currency:       "NGN",
		CreatedAt:      time.Now().UTC(),
	}
	rows := pgxmock.NewRows([]string{"id", "organization_id", "wallet_id", "provider", "provider_ref", "type",
		"account_name", "account_number", "bank_code", "bank_name", "currency", "expires_at", "created_at"}).
		AddRow(va.ID, va.OrganizationID, va.WalletID, va.Provider, va.ProviderRef, va.Type,
			va.AccountName, va.AccountNumber, va.BankCode, va.BankName, va.Currency, va.ExpiresAt, va.CreatedAt)

	mock.ExpectQuery("SELECT .+ FROM virtual_accounts WHERE provider = \\$1 AND account_number = \\$2").
		WithArgs(domain.ProviderAnchor, "0123456789").
		WillReturnRows(rows)

	result, err := NewVirtualAccountRepo(mock).GetByAccountNumber(context.Background(), domain.ProviderAnchor, "0123456789")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, va.WalletID, result.WalletID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookEventRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ev := &domain.WebhookEvent{
		ID:        uuid.New(),
		Provider:  domain.ProviderAnchor,
		EventID:   "evt_1",
		EventType: "payment.settled",
		Status:    domain.WebhookEventQueued,
		Payload:   `{"ok":true}`,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO webhook_events").
		WithArgs(ev.ID, "anchor", "evt_1", "payment.settled", "queued", ev.JobID, ev.Payload, ev.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewWebhookEventRepo(mock).Create(context.Background(), ev))
	assert.NoError(t, mock.ExpectationsWereMet())
}
