// @title Unión Ganadera API
// @version 1.0
// @description Registro de bovinos, predios, domicilios, documentos y eventos.
// @BasePath /
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"union-ganadera/internal/adapters/auth/jwtlocal"
	"union-ganadera/internal/adapters/auth/odin"
	blobmem "union-ganadera/internal/adapters/blob/memory"
	blobs3 "union-ganadera/internal/adapters/blob/s3"
	pg "union-ganadera/internal/adapters/storage/postgres"
	"union-ganadera/internal/platform/config"
	"union-ganadera/internal/platform/logger"
	"union-ganadera/internal/platform/metrics"
	"union-ganadera/internal/ports/auth"
	"union-ganadera/internal/ports/blob"
	"union-ganadera/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.ParseFormat(cfg.LogFormat),
		App:    cfg.AppName,
	})

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", map[string]any{"error": err})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *sql.DB
	if cfg.DBDSN != "" {
		opened, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		defer opened.Close()
		db = opened
		log.Info("using postgres repositories", nil)
	} else {
		log.Warn("DB_DSN not set, using in-memory repositories", nil)
	}

	store, err := openBlob(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}

	verifier, err := openVerifier(cfg)
	if err != nil {
		return fmt.Errorf("auth verifier: %w", err)
	}
	if verifier == nil {
		log.Warn("AUTH_MODE=dev, trusting X-Debug-User-ID headers", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DB:           db,
		Blob:         store,
		PresignTTL:   cfg.PresignTTL,
		Logger:       log,
		Metrics:      metrics.New(),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second, // uploads de documentos
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.Addr()})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openBlob(ctx context.Context, cfg config.Config) (blob.Store, error) {
	switch cfg.BlobDriver {
	case config.BlobDriverS3:
		return blobs3.New(ctx, blobs3.Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			PublicURL: cfg.S3PublicURL,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return blobmem.New("http://localhost:" + cfg.Port + "/blobs"), nil
	}
}

// openVerifier devuelve nil en modo dev.
func openVerifier(cfg config.Config) (auth.AuthVerifier, error) {
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		return jwtlocal.NewVerifier(cfg.JWTSecret)
	case config.AuthModeOdin:
		client, err := odin.NewClient(odin.Config{
			BaseURL: cfg.OdinBaseURL,
			APIKey:  cfg.OdinAPIKey,
			Timeout: 5 * time.Second,
		})
		if err != nil {
			return nil, err
		}
		return odin.NewVerifier(client), nil
	default:
		return nil, nil
	}
}
