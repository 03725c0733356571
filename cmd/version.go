package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qgrepcode/qgrepcode/regexp"
	"github.com/qgrepcode/qgrepcode/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "display qgrepcode version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (regex engine: %s)\n", version.Version, regexp.Version())
		},
	}
}
