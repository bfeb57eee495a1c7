package main

import (
	"go.uber.org/zap"

	"github.com/Faultbox/skydome/internal/config"
	"github.com/Faultbox/skydome/internal/engine/skydome"
	"github.com/Faultbox/skydome/internal/logger"
)

// startSky builds the sky. A sky that cannot be built (shader, upload or
// mesh parameter failure) is logged and nil is returned; the viewer keeps
// running without it.
func startSky(cfg config.SkyConfig, deps skydome.Deps) *skydome.Sky {
	sky, err := skydome.NewSky(cfg, deps)
	if err != nil {
		logger.Error("sky disabled, continuing without it", zap.Error(err))
		return nil
	}
	return sky
}
