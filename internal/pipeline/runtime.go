package pipeline

import (
	"log/slog"

	"github.com/JaimeStill/conclave/internal/config"
)

// Runtime bundles the dependencies the pipeline requires. It is constructed
// by higher-level composition code from infrastructure and domain systems.
type Runtime struct {
	Client Client
	Source TextSource
	Issuer CertificateIssuer
	Store  Store
	Config config.ReviewConfig
	Logger *slog.Logger
}
