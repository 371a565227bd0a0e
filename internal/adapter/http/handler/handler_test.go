package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/core/ports/mocks"
	"wallet-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type handlerMocks struct {
	webhooks  *mocks.MockWebhookService
	ledger    *mocks.MockLedgerService
	transfers *mocks.MockTransferService
	queue     *mocks.MockJobQueue
	tokens    *mocks.MockTokenService
	audit     *mocks.MockAuditService
}

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(context.Context) error { return s.err }
func (s stubChecker) Name() string               { return s.name }

func setupRouter(t *testing.T, checkers ...ports.HealthChecker) (*gin.Engine, *handlerMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &handlerMocks{
		webhooks:  mocks.NewMockWebhookService(ctrl),
		ledger:    mocks.NewMockLedgerService(ctrl),
		transfers: mocks.NewMockTransferService(ctrl),
		queue:     mocks.NewMockJobQueue(ctrl),
		tokens:    mocks.NewMockTokenService(ctrl),
		audit:     mocks.NewMockAuditService(ctrl),
	}

	m.tokens.EXPECT().Validate(gomock.Any()).DoAndReturn(func(token string) (*ports.TokenClaims, error) {
		switch token {
		case "writer":
			return &ports.TokenClaims{Subject: "ops-bot", Scopes: []string{middleware.ScopeOpsRead, middleware.ScopeOpsWrite}}, nil
		case "reader":
			return &ports.TokenClaims{Subject: "viewer", Scopes: []string{middleware.ScopeOpsRead}}, nil
		}
		return nil, errors.New("token is malformed")
	}).AnyTimes()
	m.audit.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()

	r := SetupRouter(RouterDeps{
		WebhookSvc:     m.webhooks,
		LedgerSvc:      m.ledger,
		TransferSvc:    m.transfers,
		Queue:          m.queue,
		TokenSvc:       m.tokens,
		HealthCheckers: checkers,
		AuditSvc:       m.audit,
		MaxBodyBytes:   4096,
		Mode:           gin.TestMode,
		Logger:         zerolog.Nop(),
	})
	return r, m
}

func doRequest(r *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	code, _ := resp["error_code"].(string)
	return code
}

// ---- Webhooks ----

func TestWebhook_Queued(t *testing.T) {
	r, m := setupRouter(t)
	body := []byte(`{"event":"nip.inbound.completed","id":"evt_1"}`)

	m.webhooks.EXPECT().
		Ingest(gomock.Any(), domain.ProviderAnchor, gomock.Any(), body).
		DoAndReturn(func(_ context.Context, _ domain.ProviderName, header http.Header, _ []byte) (*ports.WebhookAck, error) {
			assert.Equal(t, "sig", header.Get("x-anchor-signature"))
			return &ports.WebhookAck{Status: ports.WebhookAckReceived, EventID: "evt_1"}, nil
		})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/anchor", bytes.NewReader(body))
	req.Header.Set("x-anchor-signature", "sig")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var ack ports.WebhookAck
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ack))
	assert.Equal(t, ports.WebhookAckReceived, ack.Status)
	assert.Equal(t, "evt_1", ack.EventID)
}

func TestWebhook_UnknownProvider(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/webhooks/paystack", "", []byte(`{}`))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWebhook_InvalidSignature(t *testing.T) {
	r, m := setupRouter(t)
	m.webhooks.EXPECT().Ingest(gomock.Any(), domain.ProviderMono, gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrInvalidSignature())

	w := doRequest(r, http.MethodPost, "/webhooks/mono", "", []byte(`{"event":"mandate.approved"}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "SEC_002", errorCode(t, w))
}

func TestWebhook_BodyTooLarge(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/webhooks/graph", "", []byte(strings.Repeat("x", 5000)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "VAL_002", errorCode(t, w))
}

// ---- Ops API: auth ----

func TestOps_RequiresToken(t *testing.T) {
	r, _ := setupRouter(t)
	path := "/internal/v1/wallets/" + uuid.NewString()

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, path, "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, http.MethodGet, path, "forged", nil).Code)
}

func TestOps_WritesNeedWriteScope(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/internal/v1/clearance/sweep", "reader", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "AUTH_003", errorCode(t, w))
}

// ---- Ops API: wallets ----

func TestOps_GetWallet(t *testing.T) {
	r, m := setupRouter(t)
	wallet := domain.NewWallet(uuid.New(), "NGN", true)
	wallet.Balance = 6500
	wallet.LedgerBalance = 7000

	m.ledger.EXPECT().GetWallet(gomock.Any(), wallet.ID).Return(wallet, nil)

	w := doRequest(r, http.MethodGet, "/internal/v1/wallets/"+wallet.ID.String(), "reader", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	decodeData(t, w, &got)
	assert.Equal(t, wallet.ID.String(), got["id"])
	assert.Equal(t, float64(6500), got["balance"])
	assert.Equal(t, float64(7000), got["ledger_balance"])
	assert.Equal(t, true, got["primary"])
}

func TestOps_GetWallet_Errors(t *testing.T) {
	r, m := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/internal/v1/wallets/not-a-uuid", "reader", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := uuid.New()
	m.ledger.EXPECT().GetWallet(gomock.Any(), id).Return(nil, apperror.ErrNotFound("Wallet"))
	w = doRequest(r, http.MethodGet, "/internal/v1/wallets/"+id.String(), "reader", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "LED_002", errorCode(t, w))
}

func TestOps_ListEntries(t *testing.T) {
	r, m := setupRouter(t)
	walletID := uuid.New()
	entry := domain.WalletEntry{
		ID:        uuid.New(),
		WalletID:  walletID,
		Type:      domain.EntryTypeDebit,
		Amount:    500,
		Currency:  "NGN",
		Status:    domain.EntryStatusPending,
		Scope:     domain.EntryScopeBudgetTransfer,
		Reference: "payout-1",
	}

	m.ledger.EXPECT().ListEntries(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p ports.EntryListParams) ([]domain.WalletEntry, int64, error) {
			assert.Equal(t, walletID, p.WalletID)
			require.NotNil(t, p.Status)
			assert.Equal(t, domain.EntryStatusPending, *p.Status)
			require.NotNil(t, p.Type)
			assert.Equal(t, domain.EntryTypeDebit, *p.Type)
			assert.Nil(t, p.Scope)
			assert.Equal(t, 2, p.Page)
			assert.Equal(t, 10, p.PageSize)
			return []domain.WalletEntry{entry}, 11, nil
		})

	path := "/internal/v1/wallets/" + walletID.String() + "/entries?status=pending&type=debit&page=2&page_size=10"
	w := doRequest(r, http.MethodGet, path, "reader", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Data       []map[string]interface{} `json:"data"`
		Page       int                      `json:"page"`
		PageSize   int                      `json:"page_size"`
		TotalCount int64                    `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, int64(11), page.TotalCount)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "payout-1", page.Data[0]["reference"])
}

func TestOps_ListEntries_InvalidFilter(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/internal/v1/wallets/"+uuid.NewString()+"/entries?status=settled", "reader", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", errorCode(t, w))
}

func TestOps_VerifyWallet(t *testing.T) {
	r, m := setupRouter(t)
	id := uuid.New()
	m.ledger.EXPECT().VerifyWallet(gomock.Any(), id).Return(&ports.WalletVerification{
		WalletID:              id,
		Balance:               6500,
		LedgerBalance:         7000,
		ReplayedLedgerBalance: 7000,
		InFlightDebits:        500,
		EntryCount:            4,
		Consistent:            true,
	}, nil)

	w := doRequest(r, http.MethodGet, "/internal/v1/wallets/"+id.String()+"/verify", "reader", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var v ports.WalletVerification
	decodeData(t, w, &v)
	assert.True(t, v.Consistent)
	assert.Equal(t, int64(500), v.InFlightDebits)
}

// ---- Ops API: transfers ----

func transferBody(t *testing.T, overrides map[string]interface{}) []byte {
	t.Helper()
	body := map[string]interface{}{
		"organization_id": uuid.NewString(),
		"wallet_id":       uuid.NewString(),
		"amount":          150000,
		"currency":        "NGN",
		"provider":        "anchor",
		"reference":       "payout-42",
		"narration":       "  March <b>payroll</b>  ",
		"account_number":  "0123456789",
		"bank_code":       "058",
	}
	for k, v := range overrides {
		body[k] = v
	}
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	return raw
}

func TestOps_InitiateTransfer(t *testing.T) {
	r, m := setupRouter(t)
	budgetID := uuid.New()
	entryID := uuid.New()

	m.transfers.EXPECT().Initiate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req ports.TransferInitiation) (*domain.WalletEntry, error) {
			assert.Equal(t, int64(150000), req.Amount)
			assert.Equal(t, domain.ProviderAnchor, req.Provider)
			assert.Equal(t, "payout-42", req.Reference)
			assert.Equal(t, "March &lt;b&gt;payroll&lt;/b&gt;", req.Narration)
			assert.Equal(t, "0123456789", req.Counterparty.AccountNumber)
			require.NotNil(t, req.BudgetID)
			assert.Equal(t, budgetID, *req.BudgetID)
			return &domain.WalletEntry{
				ID:        entryID,
				WalletID:  req.WalletID,
				BudgetID:  req.BudgetID,
				Type:      domain.EntryTypeDebit,
				Amount:    req.Amount,
				Currency:  req.Currency,
				Status:    domain.EntryStatusPending,
				Reference: req.Reference,
				CreatedAt: time.Now(),
			}, nil
		})

	w := doRequest(r, http.MethodPost, "/internal/v1/transfers", "writer",
		transferBody(t, map[string]interface{}{"budget_id": budgetID.String()}))

	require.Equal(t, http.StatusCreated, w.Code)
	var got map[string]interface{}
	decodeData(t, w, &got)
	assert.Equal(t, entryID.String(), got["id"])
	assert.Equal(t, "pending", got["status"])
	assert.Equal(t, budgetID.String(), got["budget_id"])
}

func TestOps_InitiateTransfer_Rejections(t *testing.T) {
	r, m := setupRouter(t)

	w := doRequest(r, http.MethodPost, "/internal/v1/transfers", "writer",
		transferBody(t, map[string]interface{}{"amount": 0}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VAL_001", errorCode(t, w))

	m.transfers.EXPECT().Initiate(gomock.Any(), gomock.Any()).Return(nil, apperror.ErrInsufficientFunds())
	w = doRequest(r, http.MethodPost, "/internal/v1/transfers", "writer", transferBody(t, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "LED_004", errorCode(t, w))
}

func TestOps_InitiateTransfer_IsAudited(t *testing.T) {
	ctrl := gomock.NewController(t)
	transfers := mocks.NewMockTransferService(ctrl)
	tokens := mocks.NewMockTokenService(ctrl)
	audit := mocks.NewMockAuditService(ctrl)
	entryID := uuid.New()

	tokens.EXPECT().Validate("writer").Return(&ports.TokenClaims{
		Subject: "ops-bot",
		Scopes:  []string{middleware.ScopeOpsRead, middleware.ScopeOpsWrite},
	}, nil)
	transfers.EXPECT().Initiate(gomock.Any(), gomock.Any()).Return(&domain.WalletEntry{ID: entryID}, nil)
	audit.EXPECT().Log(gomock.Any(), gomock.Any()).Do(func(_ context.Context, log *domain.AuditLog) {
		assert.Equal(t, domain.AuditActionTransferInitiated, log.Action)
		assert.Equal(t, "ops-bot", log.Actor)
		assert.Equal(t, entryID.String(), log.ResourceID)
	})

	r := SetupRouter(RouterDeps{
		TransferSvc: transfers,
		TokenSvc:    tokens,
		AuditSvc:    audit,
		Mode:        gin.TestMode,
		Logger:      zerolog.Nop(),
	})

	w := doRequest(r, http.MethodPost, "/internal/v1/transfers", "writer", transferBody(t, nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}

// ---- Ops API: clearance ----

func TestOps_TriggerClearance(t *testing.T) {
	r, m := setupRouter(t)

	var queued *domain.Job
	m.queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, job *domain.Job) error {
		queued = job
		return nil
	})

	w := doRequest(r, http.MethodPost, "/internal/v1/clearance/sweep", "writer", nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.NotNil(t, queued)
	assert.Equal(t, domain.JobAddWalletEntriesForClearance, queued.Name)
	var payload domain.ClearanceSweepPayload
	require.NoError(t, queued.Decode(&payload))
	assert.Equal(t, "ops-bot", payload.RequestedBy)

	var got map[string]string
	decodeData(t, w, &got)
	assert.Equal(t, queued.ID.String(), got["job_id"])
	assert.Equal(t, "queued", got["status"])
}

func TestOps_TriggerClearance_QueueDown(t *testing.T) {
	r, m := setupRouter(t)
	m.queue.EXPECT().Enqueue(gomock.Any(), gomock.Any()).Return(errors.New("dial tcp: connection refused"))

	w := doRequest(r, http.MethodPost, "/internal/v1/clearance/sweep", "writer", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "SYS_004", errorCode(t, w))
	assert.NotContains(t, w.Body.String(), "connection refused")
}

// ---- Health & docs ----

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		r, _ := setupRouter(t, stubChecker{name: "postgres"}, stubChecker{name: "redis"})

		w := doRequest(r, http.MethodGet, "/health", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	})

	t.Run("degraded", func(t *testing.T) {
		r, _ := setupRouter(t, stubChecker{name: "postgres"}, stubChecker{name: "rabbitmq", err: errors.New("channel closed")})

		w := doRequest(r, http.MethodGet, "/health", "", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp struct {
			Status       string `json:"status"`
			Dependencies map[string]struct {
				Status string `json:"status"`
				Error  string `json:"error"`
			} `json:"dependencies"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "healthy", resp.Dependencies["postgres"].Status)
		assert.Equal(t, "channel closed", resp.Dependencies["rabbitmq"].Error)
	})
}

func TestSwaggerSpec(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/swagger/spec", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/internal/v1/transfers")
}
