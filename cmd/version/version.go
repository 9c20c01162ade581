package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/savelocker/steamufs/pkg/version"
)

// New creates a new `version` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of steamufs.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("steamufs version: %s\n", version.Version)
		},
	}
}
