package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/deanrcg/skincheck/internal/config"
	"github.com/deanrcg/skincheck/internal/handlers"
	"github.com/deanrcg/skincheck/internal/logging"
	"github.com/deanrcg/skincheck/internal/report"
	"github.com/deanrcg/skincheck/internal/usecase"
	"github.com/deanrcg/skincheck/internal/vision"
)

func main() {
	logger, err := logging.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync() //nolint:errcheck

	cfg, err := config.Load()
	if err != nil {
		// Missing credential or an unusable reports dir: refuse to start.
		logger.Fatal("configuration failed", zap.Error(err))
	}

	assessor := vision.NewOpenAIClient(cfg.OpenAI.BaseURL, cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Timeout, logger)
	reports := report.NewGenerator(cfg.App.ReportsDir, logger)
	uc := usecase.NewAssessmentUseCase(assessor, reports, logger)

	r := gin.Default()
	r.MaxMultipartMemory = cfg.App.MaxUploadBytes
	handlers.RegisterRoutes(r, uc, cfg.App.ReportsDir, cfg.App.MaxUploadBytes)

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: r,
	}

	logger.Info("skincheck listening",
		zap.String("addr", cfg.Server.Addr),
		zap.String("model", cfg.OpenAI.Model))
	if err := serveHTTPServer(server, cfg.Server.ShutdownTimeout, logger); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func serveHTTPServer(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger) error {
	return serveHTTPServerWithOptions(server, shutdownTimeout, logger, nil, nil)
}

func serveHTTPServerWithOptions(server *http.Server, shutdownTimeout time.Duration, logger *zap.Logger, listener net.Listener, signalCh <-chan os.Signal) error {
	errCh := make(chan error, 1)
	go func() {
		var err error
		if listener != nil {
			err = server.Serve(listener)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	var (
		sigCh       <-chan os.Signal
		stopSignals func()
	)

	if signalCh != nil {
		sigCh = signalCh
		stopSignals = func() {}
	} else {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		sigCh = ch
		stopSignals = func() {
			signal.Stop(ch)
		}
	}
	defer stopSignals()

	select {
	case err := <-errCh:
		return err
	case sig, ok := <-sigCh:
		if !ok {
			return <-errCh
		}
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return <-errCh
	}
}
