package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/clawarr/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "clawarr %s\n", version.Version)
			_, _ = fmt.Fprintf(out, "  commit:  %s\n", version.Commit)
			_, _ = fmt.Fprintf(out, "  built:   %s\n", version.BuildDate)
			_, _ = fmt.Fprintf(out, "  go:      %s\n", version.GoVersion)
		},
	}
}
