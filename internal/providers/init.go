// Package providers registers the concrete data providers with a
// provider registry.
package providers

import (
	"github.com/seenimoa/fairvalue/internal/provider"
	"github.com/seenimoa/fairvalue/internal/providers/fixture"
	"github.com/seenimoa/fairvalue/internal/providers/yfinance"
)

// NewRegistry returns a registry with every built-in provider registered.
func NewRegistry() *provider.Registry {
	reg := provider.NewRegistry()
	// Names are constant and factories non-nil, so registration cannot fail.
	_ = RegisterAllTo(reg)
	return reg
}

// RegisterAllTo registers all available providers to the given registry.
func RegisterAllTo(reg *provider.Registry) error {
	// --- YFinance (free, no API key) ---
	if err := reg.Register("yfinance", yfinance.Factory); err != nil {
		return err
	}

	// --- Fixture (offline YAML data) ---
	if err := reg.Register("fixture", fixture.Factory); err != nil {
		return err
	}
	return nil
}
