// Command membtreed serves a membtree.Handle over HTTP.
package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/arbor-db/membtree/internal/config"
	"github.com/arbor-db/membtree/internal/logging"
	"github.com/arbor-db/membtree/pkg/api"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (optional)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			panic(err)
		}
		cfg = loaded
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Pretty)

	store := api.NewStore(cfg.Tree.FanOut)
	router := api.NewRouter(store, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go api.RunExpirySweep(ctx, store, time.Duration(cfg.Tree.ExpirySweepSeconds)*time.Second, log)
	go api.RunCapacitySweep(ctx, store, time.Duration(cfg.Tree.ExpirySweepSeconds)*time.Second, cfg.Tree.MaxCapacity, log)

	addr := api.Addr(cfg.Bind, cfg.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Int("fan_out", cfg.Tree.FanOut).Msg("starting membtreed")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server exited")
	}
}
