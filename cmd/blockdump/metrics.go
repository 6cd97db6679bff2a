package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	blocksSaved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blockdump_blocks_saved_total",
		Help: "Blocks persisted while following the chain head",
	})
	followErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "blockdump_follow_errors_total",
		Help: "Errors that stopped head following",
	})
)

func init() {
	prometheus.MustRegister(blocksSaved, followErrors)
}

// serveMetrics exposes the Prometheus metrics endpoint, the returned function stops
// the server
func serveMetrics(port uint16, log *zap.SugaredLogger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("metrics server stopped", "err", err)
		}
	}()
	log.Infow("serving metrics", "addr", srv.Addr)
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorw("metrics server shutdown", "err", err)
		}
	}
}
