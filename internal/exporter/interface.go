package exporter

import (
	"sheet-split/internal/config"
	"sheet-split/internal/model"
)

// Exporter is the unified interface for all post-split outputs
type Exporter interface {
	Name() string
	Export(summary *model.Summary, cfg *config.Config) error
}
