package provider

import (
	"testing"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegistry() *Registry {
	return NewRegistry(config.ProvidersConfig{
		Anchor: testProviderConfig("http://anchor.test", "NGN"),
		Graph:  testProviderConfig("http://graph.test", "USD"),
		Mono:   config.ProviderConfig{Enabled: false},
	}, testSigner, testLogger())
}

func TestRegistry_TransferClient(t *testing.T) {
	r := testRegistry()

	c, err := r.TransferClient(domain.ProviderAnchor, "NGN")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderAnchor, c.Name())

	c, err = r.TransferClient(domain.ProviderGraph, "usd")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGraph, c.Name())
}

func TestRegistry_CurrencyNotSupported(t *testing.T) {
	r := testRegistry()

	_, err := r.TransferClient(domain.ProviderAnchor, "USD")
	assert.ErrorIs(t, err, apperror.ErrCurrencyNotSupported())

	_, err = r.VirtualAccountClient(domain.ProviderGraph, "NGN")
	assert.ErrorIs(t, err, apperror.ErrCurrencyNotSupported())
}

func TestRegistry_UnknownOrDisabledProvider(t *testing.T) {
	r := testRegistry()

	_, err := r.TransferClient("paystack", "NGN")
	assert.ErrorIs(t, err, apperror.ErrServiceUnavailable(nil))

	_, err = r.MandateClient(domain.ProviderMono)
	assert.ErrorIs(t, err, apperror.ErrServiceUnavailable(nil))

	_, err = r.WebhookParser(domain.ProviderMono)
	assert.ErrorIs(t, err, apperror.ErrServiceUnavailable(nil))
}

func TestRegistry_Providers(t *testing.T) {
	assert.Equal(t, []domain.ProviderName{domain.ProviderAnchor, domain.ProviderGraph}, testRegistry().Providers())
}

func TestRegistry_WebhookParserIsKeyedByName(t *testing.T) {
	r := testRegistry()
	for _, name := range r.Providers() {
		parser, err := r.WebhookParser(name)
		require.NoError(t, err)
		assert.Equal(t, name, parser.Name())
	}
}
