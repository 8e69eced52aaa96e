package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "sessionsentry",
	Short: "SessionSentry is a logon session activity viewer",
	Long: `SessionSentry reconstructs user logon/logoff sessions and activity
timelines from Windows security event logs. It serves the reconstructed
sessions as a JSON API and can import CSV or JSONL log exports into a
local database for faster reloads.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{}))
		slog.SetDefault(logger)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./sessionsentry.yaml)")
}

func initConfig() {
	viper.SetEnvPrefix("SESSIONSENTRY")
	viper.AutomaticEnv()

	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("sessionsentry")
		viper.SetConfigType("yaml")
	}

	_ = viper.ReadInConfig()
}
