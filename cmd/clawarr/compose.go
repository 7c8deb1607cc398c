package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/clawarr/internal/apps"
	"github.com/MrSnakeDoc/clawarr/internal/compose"
)

func newComposeCmd() *cobra.Command {
	var (
		plan  compose.Plan
		ports []string
		file  string
	)

	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Generate a docker compose file for the stack",
		Long: `Generate a docker compose file with one service per app.

Examples:
  clawarr compose --project media --data-dir /srv/media
  clawarr compose --project media --data-dir /srv/media --port plex=32401 -f compose.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			plan.Ports, err = parsePorts(ports)
			if err != nil {
				return err
			}

			data, err := compose.Generate(plan)
			if err != nil {
				return err
			}

			if file == "" || file == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(file, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", file)
			return nil
		},
	}

	cmd.Flags().StringVar(&plan.ProjectName, "project", "", "compose project name (required)")
	cmd.Flags().StringVar(&plan.DataDir, "data-dir", "", "host directory holding config, media and downloads (required)")
	cmd.Flags().StringVar(&plan.Timezone, "tz", compose.DefaultTimezone, "TZ passed to every container")
	cmd.Flags().StringArrayVar(&ports, "port", nil, "host port override as app=port, repeatable")
	cmd.Flags().StringVarP(&file, "file", "f", "", "write to this file instead of stdout")
	return cmd
}

// parsePorts reads app=port pairs.
func parsePorts(pairs []string) (map[apps.App]int, error) {
	ports := make(map[apps.App]int, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid port override %q, want app=port", pair)
		}
		app, err := apps.ParseApp(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		port, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid port for %s: %w", app, err)
		}
		ports[app] = port
	}
	return ports, nil
}
