package cmd

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/felixguerrero12/SessionSentry/internal/csvparser"
	"github.com/felixguerrero12/SessionSentry/internal/eventlog"
	"github.com/felixguerrero12/SessionSentry/internal/httpserver"
	"github.com/felixguerrero12/SessionSentry/internal/jsonlparser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session activity JSON API",
	Long: `Serve starts the HTTP API. Events are reloaded from the configured
source on every request: a CSV or JSONL export (the default), or a
database previously populated with 'sessionsentry import'.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("log-path", defaultCSVPath, "path to the activity log export (.csv or .jsonl)")
	serveCmd.Flags().String("db-driver", "", "read events from a database instead: sqlite or postgres")
	serveCmd.Flags().String("db-dsn", "", "database file path (sqlite) or connection string (postgres)")
	serveCmd.Flags().String("api-addr", "", "listen address (overrides api-port)")
	serveCmd.Flags().Int("api-port", defaultAPIPort, "listen port")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var source httpserver.EventSource
	if cfg.Driver != "" {
		store, err := eventlog.OpenStore(cfg.Driver, cfg.DSN)
		if err != nil {
			return fmt.Errorf("opening event store: %w", err)
		}
		defer store.Close()
		source = store
		slog.Info("serving from database", "driver", cfg.Driver)
	} else if isJSONL(cfg.LogPath) {
		source = jsonlparser.NewSource(cfg.LogPath)
		slog.Info("serving from JSONL export", "path", cfg.LogPath)
	} else {
		source = csvparser.NewSource(cfg.LogPath)
		slog.Info("serving from CSV export", "path", cfg.LogPath)
	}

	srv := httpserver.NewServer(cfg.APIAddr, source)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	slog.Info("listening", "addr", cfg.APIAddr)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("shutting down")
	return srv.Stop()
}
