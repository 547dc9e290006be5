package api

import (
	"net/http"

	"github.com/JaimeStill/conclave/internal/config"
	"github.com/JaimeStill/conclave/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
) {
	routes.Register(
		mux,
		domain.Submissions.Handler(domain.Reviews, cfg.API.MaxUploadSizeBytes()).Routes(),
		domain.Reviews.Handler().Routes(),
	)
}
