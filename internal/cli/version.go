package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/witch-agent/vibe-coder/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "vibe-coder %s\n", version.Version)
			return nil
		},
	}
}
