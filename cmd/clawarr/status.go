package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MrSnakeDoc/clawarr/internal/suite"
)

var errChecksFailed = errors.New("some configured apps failed their check")

func newStatusCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print one status line per app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, v, false)
		},
	}
}

func newTestCmd(v *viper.Viper) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the connection tests",
		Long: `Validate the credentials of every configured app.

With --strict the command exits non-zero when a configured app fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, v, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when a configured app fails its check")
	return cmd
}

type statusLine struct {
	App        string `json:"app"`
	Configured bool   `json:"configured"`
	OK         bool   `json:"ok"`
	Message    string `json:"message,omitempty"`
}

func runStatus(cmd *cobra.Command, v *viper.Viper, strict bool) error {
	a, err := openApp(cmd, v)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	statuses := a.Suite().Check(cmd.Context())
	out := cmd.OutOrStdout()

	if jsonOutput(v) {
		lines := make([]statusLine, len(statuses))
		for i, st := range statuses {
			lines[i] = statusLine{
				App:        st.App.String(),
				Configured: st.Configured,
				OK:         st.Outcome.OK,
				Message:    st.Outcome.Message,
			}
		}
		if err := printJSON(out, lines); err != nil {
			return err
		}
	} else {
		for _, st := range statuses {
			_, _ = fmt.Fprintln(out, st.Line())
		}
	}

	if strict && anyFailed(statuses) {
		return errChecksFailed
	}
	return nil
}

func anyFailed(statuses []suite.AppStatus) bool {
	for _, st := range statuses {
		if st.Configured && !st.Outcome.OK {
			return true
		}
	}
	return false
}
