package cmd

import (
	"fmt"
	"log/slog"

	"github.com/felixguerrero12/SessionSentry/internal/csvparser"
	"github.com/felixguerrero12/SessionSentry/internal/eventlog"
	"github.com/felixguerrero12/SessionSentry/internal/jsonlparser"
	"github.com/felixguerrero12/SessionSentry/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var importCmd = &cobra.Command{
	Use:   "import <log-file>",
	Short: "Import a CSV or JSONL activity log into a database",
	Long: `Import validates and normalizes an activity log export and writes the
raw events to a database. Only raw events are stored; sessions stay
derived views, recomputed on every query.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("db-driver", "sqlite", "target database: sqlite or postgres")
	importCmd.Flags().String("db-dsn", "activity.db", "database file path (sqlite) or connection string (postgres)")

	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	driver := viper.GetString("db-driver")
	dsn := viper.GetString("db-dsn")
	if driver == "" {
		driver = "sqlite"
	}

	logPath := args[0]

	events, err := readLog(logPath)
	if err != nil {
		return err
	}
	slog.Info("read activity log", "path", logPath, "events", len(events))

	store, err := eventlog.CreateStore(driver, dsn)
	if err != nil {
		return fmt.Errorf("creating event store: %w", err)
	}
	defer store.Close()

	inserted, err := store.InsertEvents(events, func(count int) {
		slog.Info("inserting events", "count", count, "total", len(events))
	})
	if err != nil {
		return fmt.Errorf("inserting events: %w", err)
	}

	minTS, maxTS, err := store.MinMaxTimestamp()
	if err != nil {
		return fmt.Errorf("reading timestamp range: %w", err)
	}

	slog.Info("import complete", "events", inserted, "from", minTS, "to", maxTS, "store", store.Path())
	return nil
}

// readLog normalizes a CSV or JSONL export, chosen by file extension.
func readLog(path string) ([]*model.Event, error) {
	if isJSONL(path) {
		if err := jsonlparser.ValidateFile(path); err != nil {
			return nil, fmt.Errorf("invalid JSONL log: %w", err)
		}
		result, err := jsonlparser.ReadEvents(path, func(count int) {
			slog.Info("reading events", "count", count)
		})
		if err != nil {
			return nil, fmt.Errorf("reading JSONL log: %w", err)
		}
		return result.Events, nil
	}

	if err := csvparser.ValidateHeader(path); err != nil {
		return nil, fmt.Errorf("invalid CSV log: %w", err)
	}
	result, err := csvparser.ReadEvents(path, 0, func(count int) {
		slog.Info("reading events", "count", count)
	})
	if err != nil {
		return nil, fmt.Errorf("reading CSV log: %w", err)
	}
	return result.Events, nil
}
