package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Elandig/tabscribe/internal/api/server"
)

var version = "v0.1.0"

func init() {
	server.Version = version
}

// Cmd represents the version command
var Cmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tabscribe",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
		return err
	},
}
