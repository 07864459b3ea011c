package provider

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"gstrate/internal/config"
	"gstrate/internal/port"
)

// Factory creates a RateProvider from a provider config.
type Factory func(cfg *config.ProviderConfig) (port.RateProvider, error)

// registry of provider factories keyed by request style.
var factories = map[string]Factory{
	StyleQuery: newHTTPFromConfig,
	StylePath:  newHTTPFromConfig,
}

// Register registers a provider factory for a style name.
func Register(style string, factory Factory) {
	factories[style] = factory
}

// New creates a RateProvider from a provider config using the registered factory.
func New(cfg *config.ProviderConfig) (port.RateProvider, error) {
	factory, ok := factories[cfg.Style]
	if !ok {
		return nil, fmt.Errorf("unknown tax rate provider style: %s", cfg.Style)
	}
	return factory(cfg)
}

// Build creates the enabled providers in order. Providers without a base URL
// are skipped, so an empty configuration yields an empty chain.
func Build(cfgs []config.ProviderConfig) ([]port.RateProvider, error) {
	var out []port.RateProvider
	for i := range cfgs {
		cfg := &cfgs[i]
		if !cfg.Enabled() {
			continue
		}
		p, err := New(cfg)
		if err != nil {
			return nil, fmt.Errorf("provider %q: %w", cfg.Name, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func newHTTPFromConfig(cfg *config.ProviderConfig) (port.RateProvider, error) {
	var limiter *rate.Limiter
	if cfg.RatePerSec > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), burst)
	}
	return NewHTTPProvider(Options{
		Name:       cfg.Name,
		BaseURL:    cfg.BaseURL,
		Style:      cfg.Style,
		QueryParam: cfg.QueryParam,
		APIKey:     cfg.APIKey,
		Timeout:    time.Duration(cfg.TimeoutSecs) * time.Second,
		Limiter:    limiter,
	}), nil
}
