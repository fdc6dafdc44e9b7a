//go:build tinygo

package main

import (
	"cartreader/app"
	"cartreader/hal"
	"cartreader/internal/config"
	"cartreader/internal/logging"
	"cartreader/internal/storage"
	"cartreader/ui"
)

func main() {
	h := hal.New()
	cfg := config.Default()
	logger := logging.Device(h.Logger(), cfg.Log.Level)

	var folders ui.FolderStore = storage.NewMemory(0)
	if f := h.Flash(); f != nil {
		if store, err := storage.NewFlash(f); err == nil {
			folders = store
		} else {
			logger.Warn().Err(err).Msg("folder counter kept in memory")
		}
	}

	if err := app.Run(h, app.Options{Config: cfg, Log: logger, Folders: folders}); err != nil {
		logger.Error().Err(err).Msg("firmware stopped")
	}
	select {}
}
