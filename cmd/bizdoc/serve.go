package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/alnah/go-bizdoc/internal/metrics"
	"github.com/alnah/go-bizdoc/internal/server"
	"github.com/alnah/go-bizdoc/internal/store"
)

// runServe serves the document API until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f, err := parseServeFlags(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(f.common.config, env)
	if err != nil {
		return err
	}
	if f.addr != "" {
		cfg.Server.Addr = f.addr
	}

	logger, err := newLogger(cfg, f.common)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	docs, err := store.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() {
		if err := docs.Close(); err != nil {
			logger.Warn("closing document store", zap.Error(err))
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New()
	recorder.RegisterCollectors(reg)

	r, err := env.newRenderer(cfg, logger, recorder)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()

	logger.Info("serving documents",
		zap.String("addr", cfg.Server.Addr),
		zap.String("database", cfg.Database.Path),
		zap.String("version", Version),
	)
	return server.New(docs, r, logger, reg).ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ShutdownTimeout)
}
