package app

import (
	"fmt"

	"github.com/vitalis-health/vitalis/internal/config"
	"github.com/vitalis-health/vitalis/pkg/Logger"
	"github.com/vitalis-health/vitalis/pkg/assistant/adapters"
	"github.com/vitalis-health/vitalis/pkg/assistant/providers/gemini"
	"github.com/vitalis-health/vitalis/pkg/assistant/providers/ollama"
	"github.com/vitalis-health/vitalis/pkg/assistant/providers/openaicompat"
	"github.com/vitalis-health/vitalis/pkg/assistant/router"
)

// RouterFactory builds the dispatch engine from configuration: the backend
// catalog, one provider adapter per backend, the outcome tracker and the
// routing policy.
type RouterFactory struct {
	cfg    config.RouterConfig
	logger *Logger.Logger
}

func NewRouterFactory(cfg config.RouterConfig, logger *Logger.Logger) *RouterFactory {
	return &RouterFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateRouter wires catalog, tracker, policy and adapters into a Mux.
func (f *RouterFactory) CreateRouter() (*router.Mux, *router.Registry, *router.Tracker, error) {
	descriptors := make([]router.BackendDescriptor, 0, len(f.cfg.Backends))
	adapterMap := make(map[string]adapters.ContractAdapter)

	for _, bc := range f.cfg.Backends {
		ad, err := f.createAdapter(bc)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("backend %s: %w", bc.Name, err)
		}
		adapterMap[bc.Name] = ad
		descriptors = append(descriptors, router.BackendDescriptor{
			Name:     bc.Name,
			Role:     router.Role(bc.Role),
			Provider: bc.Provider,
			Timeout:  bc.Timeout,
			Priority: bc.Priority,
		})
	}

	registry, err := router.NewRegistry(descriptors)
	if err != nil {
		return nil, nil, nil, err
	}

	tracker := router.NewTracker(f.cfg, registry)
	policy := router.NewPolicy(registry, tracker, f.cfg.PrecisionFirst)

	mux, err := router.New(registry, tracker, policy, adapterMap, f.logger)
	if err != nil {
		return nil, nil, nil, err
	}

	f.logger.Infof("model router created with %d backend(s)", len(descriptors))
	return mux, registry, tracker, nil
}

func (f *RouterFactory) createAdapter(bc config.BackendConfig) (adapters.ContractAdapter, error) {
	switch bc.Provider {
	case "openai":
		f.logger.Infof("openai-compatible adapter created for %s (base url %s)", bc.Name, bc.BaseURL)
		return openaicompat.New(bc.BaseURL, bc.APIKey), nil
	case "ollama":
		if bc.BaseURL == "" {
			return nil, fmt.Errorf("ollama backend needs a base_url")
		}
		f.logger.Infof("ollama adapter created for %s at %s", bc.Name, bc.BaseURL)
		return ollama.New([]string{bc.BaseURL}), nil
	case "gemini":
		provider, err := gemini.New(bc.APIKey)
		if err != nil {
			return nil, err
		}
		f.logger.Infof("gemini adapter created for %s", bc.Name)
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", bc.Provider)
	}
}
