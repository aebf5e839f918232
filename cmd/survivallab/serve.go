package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"survivallab/internal/config"
	"survivallab/internal/lab"
	"survivallab/internal/server"
)

var (
	serveConfigPath string
	serveSchemaPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the survival lab over HTTP",
	Long:  "serve exposes session execution through a JSON API (POST /api/simulate).",
	RunE: func(cmd *cobra.Command, args []string) error {
		srvCfg, err := server.LoadConfig()
		if err != nil {
			return err
		}
		cfg, err := config.Load(serveConfigPath, serveSchemaPath)
		if err != nil {
			return err
		}

		zerolog.TimeFieldFormat = time.RFC3339
		level, _ := zerolog.ParseLevel(srvCfg.LogLevel)
		logger := log.Level(level).With().Str("service", "survivallab").Logger()

		svc := lab.NewService(cfg, nil)
		router := server.Router(srvCfg, svc, logger)

		srv := &http.Server{
			Addr:        ":" + srvCfg.Port,
			Handler:     router,
			ReadTimeout: srvCfg.RequestTimeout,
		}

		go func() {
			logger.Info().Str("port", srvCfg.Port).Msg("server started")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal().Err(err).Msg("server error")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info().Msg("server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config/economics.yaml", "Path to economics configuration document")
	serveCmd.Flags().StringVar(&serveSchemaPath, "schema", "schemas/economics.cue", "Path to CUE schema file")
}
