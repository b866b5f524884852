// Package handler is the Vercel Go function entry point. Configuration comes
// from the environment (VIBE_CODER_* or MINIMAX_API_KEY).
package handler

import (
	"net/http"
	"sync"

	"github.com/witch-agent/vibe-coder/internal/config"
	"github.com/witch-agent/vibe-coder/internal/logging"
	"github.com/witch-agent/vibe-coder/internal/relay"
)

var (
	relayHandler *relay.Handler
	once         sync.Once
)

// setup runs once per cold start. Invalid configuration still yields a
// handler, one without a client, so callers get a JSON configuration error.
func setup() {
	log := logging.GetLogger()
	if err := config.Init(""); err != nil {
		log.WithError(err).Error("init config")
	}
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Error("load config")
		relayHandler = relay.New(relay.Options{Logger: log})
		return
	}
	if configured, err := logging.Configure(cfg.Log.Level, cfg.Log.Format); err == nil {
		log = configured
	}
	h, err := relay.NewFromConfig(cfg, nil, log)
	if err != nil {
		log.WithError(err).Error("build relay")
		h = relay.New(relay.Options{AllowOrigin: cfg.Relay.AllowOrigin, Logger: log})
	}
	relayHandler = h
}

// Handler is the entry point for Vercel's Go runtime.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	relayHandler.ServeHTTP(w, r)
}
