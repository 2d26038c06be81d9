package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/jsonview/internal/config"
	"github.com/aretw0/jsonview/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "jsonview",
	Short: "jsonview plays declarative assessment questions",
	Long: `jsonview loads a question document, builds its scope tree and resolves the
actions its widgets trigger, interactively or over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		applyFlags(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}
		level, _ := config.ParseLevel(cfg.LogLevel)
		logger = logging.New(logging.Options{Level: level, Format: cfg.LogFormat})
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags override JSONVIEW_* variables.
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-format", "", "Log format (text, json)")
	flags.String("default-command", "", "Command run when no scope resolves a name")
	flags.String("evaluator", "", "Expression evaluator (builtin, cel)")
	flags.StringSlice("whitelist", nil, "Allowed exec commands, e.g. nav::*")
}

func applyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.LogFormat, _ = flags.GetString("log-format")
	}
	if flags.Changed("default-command") {
		cfg.DefaultCommand, _ = flags.GetString("default-command")
	}
	if flags.Changed("evaluator") {
		cfg.Evaluator, _ = flags.GetString("evaluator")
	}
	if flags.Changed("whitelist") {
		cfg.Whitelist, _ = flags.GetStringSlice("whitelist")
	}
	if flags.Lookup("store") != nil && flags.Changed("store") {
		cfg.Store, _ = flags.GetString("store")
	}
	if flags.Lookup("addr") != nil && flags.Changed("addr") {
		cfg.Addr, _ = flags.GetString("addr")
	}
}
