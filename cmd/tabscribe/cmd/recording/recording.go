package recording

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/shared"
	"github.com/Elandig/tabscribe/internal/app/model"
)

var statusFilter string

func init() {
	ListCmd.Flags().StringVar(&statusFilter, "status", "", "only show jobs in this state (none, pending, processing, completed, error)")
}

// ListCmd represents the list command
var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recordings, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := shared.Bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		all, err := application.Store.GetAll(cmd.Context())
		if err != nil {
			return err
		}
		recordings := lo.Filter(all, func(rec *model.Recording, _ int) bool {
			switch statusFilter {
			case "":
				return true
			case "none":
				return rec.Transcription == nil
			default:
				return string(rec.TranscriptionStatus()) == statusFilter
			}
		})

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSOURCE\tDURATION\tCREATED\tTRANSCRIPTION")
		for _, rec := range recordings {
			status := string(rec.TranscriptionStatus())
			if status == "" {
				status = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				rec.ID, rec.Title, rec.Source,
				rec.Duration.Round(time.Second),
				rec.CreatedAt.Local().Format("2006-01-02 15:04"),
				status)
		}
		return w.Flush()
	},
}

// ShowCmd represents the show command
var ShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a recording and its transcription as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := shared.Bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		rec, err := application.Store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return shared.PrintJSON(cmd.OutOrStdout(), rec)
	},
}

// DeleteCmd represents the delete command
var DeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Remove recordings and their media",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := shared.Bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx := cmd.Context()
		for _, id := range args {
			rec, err := application.Store.Get(ctx, id)
			if err != nil {
				return err
			}
			if err := application.Store.Delete(ctx, id); err != nil {
				return err
			}
			if err := application.Media.Delete(ctx, rec.MediaKey); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "media of %s not removed: %v\n", id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
		}
		return nil
	},
}
