package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfmark/shelfmark-server/internal/config"
	"github.com/shelfmark/shelfmark-server/internal/logger"
	"github.com/shelfmark/shelfmark-server/internal/metadata/openlibrary"
)

// MetadataClientHandle wraps the Open Library client with shutdown capability.
type MetadataClientHandle struct {
	*openlibrary.Client
}

// Shutdown implements do.Shutdownable.
func (h *MetadataClientHandle) Shutdown() error {
	h.Client.Close()
	return nil
}

// ProvideMetadataClient provides the Open Library metadata client.
func ProvideMetadataClient(i do.Injector) (*MetadataClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := openlibrary.NewClient(cfg.Metadata.BaseURL, log.Logger)
	log.Info("Metadata client initialized", "base_url", cfg.Metadata.BaseURL)

	return &MetadataClientHandle{Client: client}, nil
}
