package providers

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/seenimoa/fairvalue/internal/provider"
)

func TestRegisterAllTo(t *testing.T) {
	reg := provider.NewRegistry()
	if err := RegisterAllTo(reg); err != nil {
		t.Fatalf("RegisterAllTo: %v", err)
	}

	names := reg.Names()
	if len(names) != 2 || names[0] != "fixture" || names[1] != "yfinance" {
		t.Errorf("Names() = %v", names)
	}
}

func TestNewRegistryBuildsYFinance(t *testing.T) {
	reg := NewRegistry()
	p, err := reg.New("yfinance", provider.Options{Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("New(yfinance): %v", err)
	}
	if p.Info().Name != "yfinance" {
		t.Errorf("wrong provider name %q", p.Info().Name)
	}
}

func TestNewRegistryFixtureNeedsFile(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.New("fixture", provider.Options{}); err == nil {
		t.Error("expected error without fixture file")
	}
	p, err := reg.New("fixture", provider.Options{FixtureFile: "fixture/testdata/companies.yaml"})
	if err != nil {
		t.Fatalf("New(fixture): %v", err)
	}
	if p.Info().Name != "fixture" {
		t.Errorf("wrong provider name %q", p.Info().Name)
	}
}

func TestNewRegistryUnknown(t *testing.T) {
	_, err := NewRegistry().New("bloomberg", provider.Options{})
	var nf *provider.ErrProviderNotFound
	if !errors.As(err, &nf) {
		t.Errorf("expected ErrProviderNotFound, got %v", err)
	}
}
