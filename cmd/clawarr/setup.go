package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MrSnakeDoc/clawarr/internal/config"
)

func newSetupCmd(v *viper.Viper) *cobra.Command {
	var hosts string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Probe hosts for the media apps",
		Long: `Probe every candidate port of every app on the given hosts.

Examples:
  clawarr setup                              # hosts from the config file
  clawarr setup --hosts nas.lan,10.0.0.5     # explicit hosts
  clawarr setup -o json                      # full results`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, v)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			res := a.Suite().Setup(cmd.Context(), config.SplitList(hosts))
			out := cmd.OutOrStdout()
			if jsonOutput(v) {
				return printJSON(out, res)
			}

			for _, r := range res.Results {
				if !r.OK {
					continue
				}
				line := fmt.Sprintf("%-10s %s (%s, HTTP %d)", r.App, r.BaseURL, r.Verdict, r.Status)
				if r.Hint != "" {
					line += " " + r.Hint
				}
				_, _ = fmt.Fprintln(out, line)
			}
			_, _ = fmt.Fprintln(out, res.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&hosts, "hosts", "", "comma separated hosts to probe")
	return cmd
}
