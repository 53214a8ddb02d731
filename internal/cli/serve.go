package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/augmentorium/augmentorium/internal/config"
	"github.com/augmentorium/augmentorium/internal/coordinator"
	"github.com/augmentorium/augmentorium/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the coordinator and HTTP API, indexing and watching every configured project",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe is the long-lived daemon entrypoint: it loads config, confirms
// the embedding provider is reachable, starts the Coordinator's background
// loops, and serves the HTTP API on cfg.Server.
func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	loader := config.NewLoader(cfgFile)
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := checkEmbeddingProvider(ctx, cfg); err != nil {
		return err
	}

	co := coordinator.New(loader, cfg)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- co.Run(ctx)
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: httpapi.New(co).Handler(),
	}

	httpErrCh := make(chan error, 1)
	go func() {
		log.Printf("serve: http api listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErrCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-httpErrCh:
		cancel()
		<-runErrCh
		return fmt.Errorf("http api: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)

	return <-runErrCh
}
