package export

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/shared"
	exporter "github.com/Elandig/tabscribe/internal/app/converter/export"
)

var (
	format     string
	outputPath string
)

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", exporter.FormatXLSX, "output format (xlsx or txt)")
	Cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default recordings.xlsx, or stdout for txt)")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export recordings and their transcripts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if format != exporter.FormatXLSX && format != exporter.FormatText {
			return fmt.Errorf("unsupported export format %q", format)
		}

		application, cleanup, err := shared.Bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		recordings, err := application.Store.GetAll(cmd.Context())
		if err != nil {
			return err
		}

		if format == exporter.FormatXLSX {
			path := outputPath
			if path == "" {
				path = "recordings.xlsx"
			}
			if err := exporter.ToExcel(recordings, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "exported %d recording(s) to %s\n", len(recordings), path)
			return nil
		}

		if outputPath == "" {
			return exporter.ToText(cmd.OutOrStdout(), recordings)
		}
		f, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		if err := exporter.ToText(f, recordings); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
}
