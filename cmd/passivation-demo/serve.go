package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dreamware/passivation/internal/adminhttp"
	"github.com/dreamware/passivation/internal/clock"
	"github.com/dreamware/passivation/internal/config"
	"github.com/dreamware/passivation/internal/logging"
	"github.com/dreamware/passivation/internal/metrics"
	"github.com/dreamware/passivation/internal/passivation"
	"github.com/dreamware/passivation/internal/strategy"
)

func newServeCmd() *cobra.Command {
	var addr string
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin HTTP API over a Manager loaded from a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr, configPath)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", getenv("PASSIVATION_ADDR", ":8090"), "address to listen on")
	cmd.Flags().StringVar(&configPath, "config", getenv("PASSIVATION_CONFIG", ""), "path to a passivation config YAML file")
	return cmd
}

func runServe(cmd *cobra.Command, addr, configPath string) error {
	logger := logging.NewStandard()

	var mgr *passivation.Manager
	sweepInterval := time.Second
	if configPath != "" {
		cfg, err := config.LoadFile(configPath, logger)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		mgr = cfg.BuildManager(passivation.Config{
			Metrics: metrics.Noop{},
			Logger:  logger,
			Clock:   clock.New(),
		})
		if timeout, ok := cfg.IdleTimeout(); ok {
			sweepInterval = timeout / 2
		}
	} else {
		mgr = passivation.New(passivation.Config{
			Strategy:       strategy.NewNone(),
			Metrics:        metrics.Noop{},
			Logger:         logger,
			Clock:          clock.New(),
			BufferSize:     16,
			HandOffTimeout: 5 * time.Second,
		})
	}

	// A no-op under None/LeastRecentlyUsed (sweeper.go), so it is always
	// safe to start regardless of which strategy the config picked.
	go mgr.StartSweeper(context.Background(), sweepInterval)
	defer mgr.StopSweeper()

	ref := &controllerRef{}
	spawn := newDemoWorker(ref, func(s string) { log.Println(s) })
	adminSrv := adminhttp.New(mgr, spawn)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           adminSrv,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("passivation-demo admin API listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
	log.Println("passivation-demo stopped")
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
