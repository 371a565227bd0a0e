package domain

// ProviderName identifies an external settlement or account provider.
type ProviderName string

const (
	ProviderAnchor ProviderName = "anchor"
	ProviderGraph  ProviderName = "graph"
	ProviderMono   ProviderName = "mono"
)

// ParseProviderName validates a provider name from a URL or payload.
func ParseProviderName(s string) (ProviderName, bool) {
	switch p := ProviderName(s); p {
	case ProviderAnchor, ProviderGraph, ProviderMono:
		return p, true
	}
	return "", false
}

// InflowReference namespaces a provider's payment reference so references
// stay globally unique across providers.
func InflowReference(provider ProviderName, providerRef string) string {
	return string(provider) + ":" + providerRef
}
