package api

import (
	"github.com/JaimeStill/conclave/internal/config"
	"github.com/JaimeStill/conclave/internal/infrastructure"
	"github.com/JaimeStill/conclave/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Review     config.ReviewConfig
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Database:  infra.Database,
			Storage:   infra.Storage,
		},
		Review:     cfg.Review,
		Pagination: cfg.API.Pagination,
	}
}
