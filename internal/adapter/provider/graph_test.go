package provider

import (
	"context"
	"net/http"
	"testing"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_InitiateTransferSendsMajorUnits(t *testing.T) {
	srv, rec := newProviderServer(t, http.StatusOK, `{"status":"success","data":{"id":"po_1","status":"processing"}}`)
	g := NewGraph(testProviderConfig(srv.URL, "USD"), testSigner, testLogger())

	res, err := g.InitiateTransfer(context.Background(), transferRequest("ref-usd", 125050, "USD"))
	require.NoError(t, err)

	assert.Equal(t, "/payout", rec.Path)
	assert.Equal(t, "Bearer test-key", rec.Header.Get("Authorization"))
	assert.Equal(t, "1250.50", rec.Body["amount"])
	assert.Equal(t, "po_1", res.ProviderRef)
	assert.Equal(t, domain.EntryStatusProcessing, res.Status)
}

func TestGraph_VerifyTransferByID(t *testing.T) {
	srv, rec := newProviderServer(t, http.StatusOK,
		`{"status":"success","data":{"id":"po_1","status":"failed","amount":"1250.50","currency":"USD","reference":"ref-usd","failure_reason":"account closed"}}`)
	g := NewGraph(testProviderConfig(srv.URL, "USD"), testSigner, testLogger())

	v, err := g.VerifyTransferByID(context.Background(), "po_1")
	require.NoError(t, err)

	assert.Equal(t, "/payout/po_1", rec.Path)
	assert.Equal(t, domain.EntryStatusFailed, v.Status)
	assert.Equal(t, int64(125050), v.Amount)
	assert.Equal(t, "account closed", v.GatewayResponse)
}

func TestGraph_VerifyTransferByReference(t *testing.T) {
	srv, rec := newProviderServer(t, http.StatusOK,
		`{"status":"success","data":{"id":"po_7","status":"completed","amount":"40.00","currency":"USD","reference":"ref-usd"}}`)
	g := NewGraph(testProviderConfig(srv.URL, "USD"), testSigner, testLogger())

	v, err := g.VerifyTransferByReference(context.Background(), "ref-usd")
	require.NoError(t, err)

	assert.Equal(t, "/payout/reference/ref-usd", rec.Path)
	assert.Equal(t, domain.EntryStatusSuccessful, v.Status)
	assert.Equal(t, int64(4000), v.Amount)
}

func TestGraph_UnknownPayout(t *testing.T) {
	srv, _ := newProviderServer(t, http.StatusNotFound, `{"status":"error","message":"payout not found"}`)
	g := NewGraph(testProviderConfig(srv.URL, "USD"), testSigner, testLogger())

	_, err := g.VerifyTransferByReference(context.Background(), "ref-lost")
	assert.ErrorIs(t, err, domain.ErrTransferNotFound)
}

func TestGraph_VerifyRejectsUnparseableAmount(t *testing.T) {
	srv, _ := newProviderServer(t, http.StatusOK, `{"data":{"id":"po_1","status":"completed","amount":"12.345"}}`)
	g := NewGraph(testProviderConfig(srv.URL, "USD"), testSigner, testLogger())

	_, err := g.VerifyTransferByID(context.Background(), "po_1")
	assert.ErrorIs(t, err, apperror.ErrServiceUnavailable(nil))
}

func TestGraph_CreateStaticVirtualAccount(t *testing.T) {
	srv, rec := newProviderServer(t, http.StatusOK,
		`{"data":{"id":"ba_1","account_name":"Acme","account_number":"400012345","routing_number":"021000021","bank_name":"Graph Bank"}}`)
	g := NewGraph(testProviderConfig(srv.URL, "USD"), testSigner, testLogger())

	details, err := g.CreateStaticVirtualAccount(context.Background(), virtualAccountRequest("USD", 0))
	require.NoError(t, err)

	assert.Equal(t, "/bank_account", rec.Path)
	assert.Equal(t, "static", rec.Body["type"])
	assert.Equal(t, "400012345", details.AccountNumber)
	assert.Equal(t, "021000021", details.BankCode)
	assert.Equal(t, domain.ProviderGraph, details.Provider)
}

func TestGraph_Parse(t *testing.T) {
	g := NewGraph(testProviderConfig("http://unused", "USD"), testSigner, testLogger())

	t.Run("deposit becomes inflow job in minor units", func(t *testing.T) {
		body := []byte(`{"id":"evt_g1","event":"deposit.received","data":{"id":"dep_1","amount":"50.00","fee":"0.25","currency":"usd","account_number":"400012345"}}`)
		require.NoError(t, g.Authenticate(signedHeader(graphSignatureHeader, body), body))

		parsed, err := g.Parse(body)
		require.NoError(t, err)
		require.NotNil(t, parsed.Job)

		var p domain.InflowPayload
		require.NoError(t, parsed.Job.Decode(&p))
		assert.Equal(t, int64(5000), p.Amount)
		assert.Equal(t, int64(25), p.Fee)
		assert.Equal(t, "USD", p.Currency)
		assert.Equal(t, "dep_1", p.ProviderRef)
	})

	t.Run("payout completed becomes successful outflow", func(t *testing.T) {
		parsed, err := g.Parse([]byte(`{"id":"evt_g2","event":"payout.completed","data":{"reference":"ref-usd"}}`))
		require.NoError(t, err)

		var p domain.OutflowPayload
		require.NoError(t, parsed.Job.Decode(&p))
		assert.Equal(t, domain.EntryStatusSuccessful, p.Status)
		assert.Equal(t, domain.ProviderGraph, p.Provider)
	})

	t.Run("bad deposit amount is a validation error", func(t *testing.T) {
		_, err := g.Parse([]byte(`{"id":"evt_g3","event":"deposit.received","data":{"amount":"abc"}}`))
		assert.ErrorIs(t, err, apperror.Validation(""))
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := g.Parse([]byte(`{"event":"payout.completed"}`))
		assert.ErrorIs(t, err, apperror.Validation(""))
	})
}
