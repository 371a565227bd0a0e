package provider

import (
	"fmt"
	"slices"
	"strings"

	"wallet-ledger/config"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/rs/zerolog"
)

// Registry holds the enabled provider clients keyed by name.
type Registry struct {
	transfers map[domain.ProviderName]ports.TransferClient
	accounts  map[domain.ProviderName]ports.VirtualAccountClient
	mandates  map[domain.ProviderName]ports.MandateClient
	parsers   map[domain.ProviderName]ports.WebhookParser
}

// NewRegistry builds clients for every enabled provider.
func NewRegistry(cfg config.ProvidersConfig, signer ports.SignatureService, log zerolog.Logger) *Registry {
	r := newEmptyRegistry()
	if cfg.Anchor.Enabled {
		a := NewAnchor(cfg.Anchor, signer, log)
		r.transfers[a.Name()] = a
		r.accounts[a.Name()] = a
		r.parsers[a.Name()] = a
	}
	if cfg.Graph.Enabled {
		g := NewGraph(cfg.Graph, signer, log)
		r.transfers[g.Name()] = g
		r.accounts[g.Name()] = g
		r.parsers[g.Name()] = g
	}
	if cfg.Mono.Enabled {
		m := NewMono(cfg.Mono, signer, log)
		r.mandates[m.Name()] = m
		r.parsers[m.Name()] = m
	}
	return r
}

func newEmptyRegistry() *Registry {
	return &Registry{
		transfers: make(map[domain.ProviderName]ports.TransferClient),
		accounts:  make(map[domain.ProviderName]ports.VirtualAccountClient),
		mandates:  make(map[domain.ProviderName]ports.MandateClient),
		parsers:   make(map[domain.ProviderName]ports.WebhookParser),
	}
}

// Providers lists the names with at least one enabled capability.
func (r *Registry) Providers() []domain.ProviderName {
	seen := make(map[domain.ProviderName]struct{})
	for n := range r.transfers {
		seen[n] = struct{}{}
	}
	for n := range r.parsers {
		seen[n] = struct{}{}
	}
	out := make([]domain.ProviderName, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

func (r *Registry) TransferClient(name domain.ProviderName, currency string) (ports.TransferClient, error) {
	c, ok := r.transfers[name]
	if !ok {
		return nil, unavailable(name, "transfers")
	}
	if !supports(c.Currencies(), currency) {
		return nil, apperror.ErrCurrencyNotSupported()
	}
	return c, nil
}

func (r *Registry) VirtualAccountClient(name domain.ProviderName, currency string) (ports.VirtualAccountClient, error) {
	c, ok := r.accounts[name]
	if !ok {
		return nil, unavailable(name, "virtual accounts")
	}
	if !supports(c.Currencies(), currency) {
		return nil, apperror.ErrCurrencyNotSupported()
	}
	return c, nil
}

func (r *Registry) MandateClient(name domain.ProviderName) (ports.MandateClient, error) {
	c, ok := r.mandates[name]
	if !ok {
		return nil, unavailable(name, "mandates")
	}
	return c, nil
}

func (r *Registry) WebhookParser(name domain.ProviderName) (ports.WebhookParser, error) {
	p, ok := r.parsers[name]
	if !ok {
		return nil, unavailable(name, "webhooks")
	}
	return p, nil
}

func unavailable(name domain.ProviderName, capability string) error {
	return apperror.ErrServiceUnavailable(fmt.Errorf("provider %q is not enabled for %s", name, capability))
}

func supports(currencies []string, currency string) bool {
	return slices.ContainsFunc(currencies, func(c string) bool {
		return strings.EqualFold(c, currency)
	})
}

var _ ports.ProviderRegistry = (*Registry)(nil)
