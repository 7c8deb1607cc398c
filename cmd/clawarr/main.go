package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MrSnakeDoc/clawarr/internal/app"
	"github.com/MrSnakeDoc/clawarr/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	rootCmd := newRootCmd(viper.New())
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "clawarr",
		Short: "Media stack control plane",
		Long: `Clawarr - discovery, status and credentials for a media stack.

Server commands:
  clawarr serve              Run the HTTP API and the health monitor

Client commands:
  clawarr setup              Probe hosts for the media apps
  clawarr status             Print one status line per app
  clawarr test               Run the connection tests
  clawarr compose            Generate a docker compose file
  clawarr secret set|list|delete
  clawarr version`,
		SilenceUsage: true,
	}

	v.SetEnvPrefix("CLAWARR")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd.PersistentFlags().String("config-file", "", "suite config file (default $CLAWARR_CONFIG_FILE or /app/clawarr.yaml)")
	_ = v.BindPFlag("config_file", rootCmd.PersistentFlags().Lookup("config-file"))

	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = v.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentFlags().String("redis-addr", "", "redis address for secrets and discovery cache")
	_ = v.BindPFlag("redis_addr", rootCmd.PersistentFlags().Lookup("redis-addr"))

	rootCmd.PersistentFlags().StringP("output", "o", "text", "output format (text, json)")
	_ = v.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	rootCmd.AddCommand(newServeCmd(v))
	rootCmd.AddCommand(newSetupCmd(v))
	rootCmd.AddCommand(newStatusCmd(v))
	rootCmd.AddCommand(newTestCmd(v))
	rootCmd.AddCommand(newComposeCmd())
	rootCmd.AddCommand(newSecretCmd(v))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig reads the environment, then lets flags override the few
// settings exposed on the command line.
func loadConfig(v *viper.Viper) *config.Config {
	cfg := config.Load()
	if s := v.GetString("config_file"); s != "" {
		cfg.ConfigFile = s
	}
	if s := v.GetString("log_level"); s != "" {
		cfg.LogLevel = s
	}
	if s := v.GetString("redis_addr"); s != "" {
		cfg.RedisAddr = s
	}
	return cfg
}

// openApp wires the application for a one-shot command. The caller closes it.
func openApp(cmd *cobra.Command, v *viper.Viper) (*app.App, error) {
	cfg := loadConfig(v)
	if !cmd.Flags().Changed("log-level") && v.GetString("log_level") == "" {
		// keep one-shot output clean unless asked otherwise
		cfg.LogLevel = "warn"
	}
	return app.New(cmd.Context(), cfg)
}
