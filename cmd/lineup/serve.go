package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/derekprior/lineup/internal/api"
	"github.com/derekprior/lineup/internal/logging"
)

const defaultAddr = ":8080"

// loadEnv reads the first .env found in the current or parent directories.
// LOG_LEVEL and LOG_FORMAT from the file apply to the returned logger.
func loadEnv(logger *logrus.Logger, level string) *logrus.Logger {
	for _, p := range []string{".env", "../.env"} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			logger.WithError(err).WithField("path", p).Warn("could not load env file")
			return logger
		}
		return logging.New(level, os.Stderr)
	}
	return logger
}

func resolveAddr(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv("LINEUP_ADDR"); env != "" {
		return env
	}
	return defaultAddr
}

func runServe(logger *logrus.Logger, logLevel, addrFlag string) error {
	logger = loadEnv(logger, logLevel)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              resolveAddr(addrFlag),
		Handler:           api.NewRouter(logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("addr", srv.Addr).Info("lineup API started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("starting server: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down lineup API")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
