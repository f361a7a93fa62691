package importfile

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/shared"
	"github.com/Elandig/tabscribe/internal/app/converter"
	"github.com/Elandig/tabscribe/internal/app/model"
)

var (
	title      string
	source     string
	transcribe bool
)

func init() {
	Cmd.Flags().StringVarP(&title, "title", "t", "", "recording title (single file only; default is the file name)")
	Cmd.Flags().StringVarP(&source, "source", "s", string(model.SourceUpload), "how the media was captured: screen, tab or upload")
	Cmd.Flags().BoolVar(&transcribe, "transcribe", false, "submit every imported recording for transcription")
}

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import <file|dir>...",
	Short: "Add media files to the recording library",
	Long: `Add media files to the recording library

- A directory imports every media file directly inside it, oldest first
- The duration is read with ffprobe when it is installed`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch model.RecordingSource(source) {
		case model.SourceScreen, model.SourceTab, model.SourceUpload:
		default:
			return fmt.Errorf("invalid --source %q", source)
		}

		application, cleanup, err := shared.Bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := shared.SignalContext(cmd.Context())
		defer stop()

		out := cmd.OutOrStdout()
		pm := converter.NewProgressManager(converter.ProgressConfig{
			Enabled: converter.ShouldShowProgress(false),
			Writer:  cmd.ErrOrStderr(),
		})
		defer pm.Shutdown()

		var imported []*model.Recording
		var failures []error
		for _, path := range args {
			info, err := os.Stat(path)
			if err != nil {
				failures = append(failures, err)
				continue
			}
			if info.IsDir() {
				recs, errs := application.Importer.ImportDir(ctx, path, nil, pm.CreateBar(0, "Importing "+path))
				imported = append(imported, recs...)
				failures = append(failures, errs...)
				continue
			}
			opts := converter.ImportOptions{Source: model.RecordingSource(source)}
			if len(args) == 1 {
				opts.Title = title
			}
			rec, err := application.Importer.ImportFile(ctx, path, opts)
			if err != nil {
				failures = append(failures, err)
				continue
			}
			imported = append(imported, rec)
		}
		pm.Wait()

		for _, rec := range imported {
			fmt.Fprintf(out, "%s\t%s\n", rec.ID, rec.Title)
			if transcribe {
				if err := application.Manager.Transcribe(ctx, rec.ID, nil); err != nil {
					failures = append(failures, err)
				}
			}
		}
		for _, err := range failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "import failed: %v\n", err)
		}
		if transcribe && len(imported) > 0 {
			fmt.Fprintln(out, "submitted; run `tabscribe resume --wait` or `tabscribe serve` to follow the jobs")
		}
		if len(failures) > 0 {
			return fmt.Errorf("%d failure(s), %d recording(s) imported", len(failures), len(imported))
		}
		return nil
	},
}
