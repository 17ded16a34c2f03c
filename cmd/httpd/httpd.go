// Package httpd implements the HTTP server command for pricewatch. It serves
// the product API and runs the interval price check scheduler in-process.
package httpd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/pricewatch/cmd/common"
	"github.com/jonesrussell/pricewatch/internal/api"
	"github.com/jonesrussell/pricewatch/internal/job"
	"github.com/jonesrussell/pricewatch/internal/logger"
	"github.com/jonesrussell/pricewatch/internal/scheduler"
)

const (
	errorChannelBufferSize = 1
	defaultShutdownTimeout = 30 * time.Second
)

// Command returns the httpd command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "httpd",
		Short: "Start the pricewatch HTTP server and scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Start(cmd.Context())
		},
	}
}

// jobRunner adapts the price check job to the scheduler's Runner interface,
// discarding the per-run summary (it is already logged by the job).
type jobRunner struct {
	job *job.PriceCheck
}

func (r jobRunner) Run(ctx context.Context) error {
	_, err := r.job.Run(ctx)
	return err
}

// Start runs the server until interrupted, then shuts down gracefully.
func Start(ctx context.Context) error {
	deps, err := common.Setup(ctx)
	if err != nil {
		return err
	}
	defer deps.Close()

	// Scheduler: interval-triggered price checks sharing the API's DB pool.
	sched := scheduler.New(deps.Logger, jobRunner{job: deps.NewPriceCheck()}, deps.Config.Scheduler.Interval)
	if startErr := sched.Start(); startErr != nil {
		return fmt.Errorf("start scheduler: %w", startErr)
	}
	defer sched.Stop()

	// HTTP server.
	handler := api.NewProductHandler(deps.Products, deps.History, deps.Logger)
	router := api.NewRouter(handler, &deps.Config.Server, deps.Logger)

	server := &http.Server{
		Addr:         deps.Config.Server.Address,
		Handler:      router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
	}

	errChan := make(chan error, errorChannelBufferSize)
	go func() {
		deps.Logger.Info("Starting HTTP server", logger.String("address", server.Addr))
		if serveErr := server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			errChan <- serveErr
		}
	}()

	return waitForShutdown(ctx, deps.Logger, server, errChan)
}

// waitForShutdown blocks until a signal or server error, then drains the
// server with a bounded timeout.
func waitForShutdown(ctx context.Context, log logger.Logger, server *http.Server, errChan chan error) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", logger.String("signal", sig.String()))
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		log.Info("Context cancelled, shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server exited")
	return nil
}
