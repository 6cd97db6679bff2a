package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fdymylja/blockdump/extract"
	"github.com/fdymylja/blockdump/follow"
	"github.com/fdymylja/blockdump/status"
)

// newLogger builds the structured logger every diagnostic is routed through
func newLogger(verbosity string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(verbosity)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	return cfg.Build()
}

// run dispatches one invocation to range extraction or head following
func run(ctx context.Context, cfg *Config) error {
	logger, err := newLogger(cfg.Verbosity)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	log := logger.Sugar()
	if cfg.Follow {
		return runFollow(ctx, cfg, log)
	}
	return runRange(ctx, cfg, log)
}

func runRange(ctx context.Context, cfg *Config, log *zap.SugaredLogger) error {
	log.Infow("extracting block range",
		"endpoint", cfg.Endpoint,
		"start", cfg.StartBlock,
		"final", cfg.EndBlock,
		"dir", cfg.OutDir)
	e := extract.New(&extract.Options{
		NodeOpTimeout:    cfg.Timeout,
		FileMode:         extract.DefaultOptions.FileMode,
		FullTransactions: cfg.FullTransactions,
	}, log)
	return e.Run(ctx, extract.Request{
		OutDir:     cfg.OutDir,
		StartBlock: cfg.StartBlock,
		EndBlock:   cfg.EndBlock,
		Endpoint:   cfg.Endpoint,
	})
}

func runFollow(ctx context.Context, cfg *Config, log *zap.SugaredLogger) error {
	log.Infow("following chain head", "endpoint", cfg.Endpoint, "dir", cfg.OutDir)
	if cfg.MetricsPort != 0 {
		stop := serveMetrics(cfg.MetricsPort, log)
		defer stop()
	}
	c := follow.NewClient(cfg.Endpoint, cfg.OutDir, &follow.Options{
		NodeOpTimeout:    cfg.Timeout,
		WaitAfterHeader:  follow.DefaultOptions.WaitAfterHeader,
		FileMode:         follow.DefaultOptions.FileMode,
		FullTransactions: cfg.FullTransactions,
	}, log)
	if err := c.Connect(); err != nil {
		return err
	}
	defer c.Close() //nolint:errcheck
	for {
		select {
		case <-ctx.Done():
			log.Infow("shutting down")
			return nil
		case n := <-c.Saved():
			blocksSaved.Inc()
			log.Infow("block saved", "block", n)
		case err := <-c.Err():
			if errors.Is(err, status.ErrShutdown) {
				return nil
			}
			followErrors.Inc()
			return err
		}
	}
}
