package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sanjeevkumarraob/file-extractor-service/internal/api"
	"github.com/sanjeevkumarraob/file-extractor-service/internal/auth"
	"github.com/sanjeevkumarraob/file-extractor-service/internal/upload"
	"github.com/sanjeevkumarraob/file-extractor-service/pkg/stream"
)

const shutdownTimeout = 15 * time.Second

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Log.Format != "console" {
			gin.SetMode(gin.ReleaseMode)
		}

		ext, err := newExtractor(cfg, logger)
		if err != nil {
			return err
		}

		handler := api.NewHandler(ext, upload.Options{
			Dir:       cfg.Upload.TempDir,
			MaxBytes:  cfg.Upload.MaxBytes,
			ChunkSize: stream.DefaultChunkSize,
		}, logger)

		routerCfg := api.RouterConfig{AllowOrigins: cfg.CORS.AllowOrigins}
		if cfg.AuthEnabled() {
			routerCfg.JWT = auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		} else {
			logger.Warn("auth.jwt_secret not set, extract endpoints are unauthenticated")
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      api.NewRouter(handler, routerCfg, logger),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("server shutdown", zap.Error(err))
			}
		}()

		logger.Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
