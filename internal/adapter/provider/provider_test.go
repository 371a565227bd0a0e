package provider

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const testWebhookSecret = "whsec_test"

var testSigner = service.NewHMACSignatureService()

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testProviderConfig(baseURL string, currencies ...string) config.ProviderConfig {
	return config.ProviderConfig{
		Enabled:       true,
		BaseURL:       baseURL,
		APIKey:        "test-key",
		WebhookSecret: testWebhookSecret,
		Timeout:       2 * time.Second,
		Currencies:    currencies,
	}
}

// recordedRequest captures what a provider client sent.
type recordedRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   map[string]any
}

// newProviderServer answers every request with status and body and records
// the last request.
func newProviderServer(t *testing.T, status int, body string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.Header = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func signedHeader(name string, body []byte) http.Header {
	h := http.Header{}
	h.Set(name, testSigner.Sign(testWebhookSecret, body))
	return h
}

func transferRequest(reference string, amount int64, currency string) ports.TransferRequest {
	return ports.TransferRequest{
		Amount:    amount,
		Currency:  currency,
		Reference: reference,
		Narration: "vendor payout",
		Counterparty: ports.Counterparty{
			AccountNumber: "9988776655",
			BankCode:      "058",
			AccountName:   "Vendor Ltd",
		},
	}
}

func virtualAccountRequest(currency string, amount int64) ports.VirtualAccountRequest {
	return ports.VirtualAccountRequest{
		OrganizationID: uuid.MustParse("6f1c2b8e-3a4d-4e5f-8a9b-0c1d2e3f4a5b"),
		Reference:      "va-ref-1",
		AccountName:    "Acme",
		Currency:       currency,
		Amount:         amount,
		ExpiresIn:      30 * time.Minute,
	}
}
