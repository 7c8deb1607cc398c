package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MrSnakeDoc/clawarr/internal/app"
	"github.com/MrSnakeDoc/clawarr/internal/apps"
)

var errNoPersistentStore = errors.New("secret commands need a redis store, set --redis-addr or CLAWARR_REDIS_ADDR")

func newSecretCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage stored API keys",
	}

	cmd.AddCommand(newSecretSetCmd(v))
	cmd.AddCommand(newSecretListCmd(v))
	cmd.AddCommand(newSecretDeleteCmd(v))
	return cmd
}

// openSecretApp refuses to run against the in-memory store, whose content
// would vanish when the command exits.
func openSecretApp(cmd *cobra.Command, v *viper.Viper) (*app.App, error) {
	a, err := openApp(cmd, v)
	if err != nil {
		return nil, err
	}
	if !a.Persistent() {
		_ = a.Close()
		return nil, errNoPersistentStore
	}
	return a, nil
}

func newSecretSetCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "set <app> [apiKey]",
		Short: "Store the API key of an app",
		Long: `Store the API key of an app. Without an apiKey argument the key
is read from stdin, which keeps it out of the shell history.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := apps.ParseApp(args[0])
			if err != nil {
				return err
			}

			var key string
			if len(args) == 2 {
				key = args[1]
			} else {
				raw, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), 64<<10))
				if err != nil {
					return fmt.Errorf("failed to read apiKey: %w", err)
				}
				key = strings.TrimSpace(string(raw))
			}

			a, err := openSecretApp(cmd, v)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.Suite().SetSecret(cmd.Context(), target, key); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stored apiKey for %s\n", target)
			return nil
		},
	}
}

func newSecretListCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored secret names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openSecretApp(cmd, v)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			names, err := a.Suite().SecretNames(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput(v) {
				return printJSON(cmd.OutOrStdout(), names)
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newSecretDeleteCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <app>",
		Short: "Delete the stored API key of an app",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := apps.ParseApp(args[0])
			if err != nil {
				return err
			}

			a, err := openSecretApp(cmd, v)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			if err := a.Suite().DeleteSecret(cmd.Context(), target); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted apiKey for %s\n", target)
			return nil
		},
	}
}
