package transcribe

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/shared"
	"github.com/Elandig/tabscribe/internal/app/model"
)

var (
	resumeWait bool
	timedOut   bool
)

func init() {
	ResumeCmd.Flags().BoolVarP(&resumeWait, "wait", "w", false, "poll in this process until every resumed job finishes")
	ClearCmd.Flags().BoolVar(&timedOut, "timed-out", false, "only fail jobs older than the transcription timeout")
}

// StatusCmd represents the status command
var StatusCmd = &cobra.Command{
	Use:   "status <id>",
	Short: "Ask the provider once for the state of a recording's job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := shared.Bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		id := args[0]
		job, err := application.Manager.CheckStatus(cmd.Context(), id)
		if err != nil {
			return err
		}
		shared.PrintJob(cmd.OutOrStdout(), &model.Recording{ID: id, Transcription: job})
		return nil
	},
}

// ResumeCmd represents the resume command
var ResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Pick up jobs left in flight by an earlier process",
	Long: `Pick up jobs left in flight by an earlier process

- Jobs older than the transcription timeout are failed without contacting the provider
- Without --wait the command only reports what it would follow`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := shared.Bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := shared.SignalContext(cmd.Context())
		defer stop()

		n, err := application.Manager.ResumeAll(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d job(s) polling\n", n)
		if !resumeWait {
			return nil
		}

		for _, id := range application.Manager.ActivePolls() {
			rec, err := shared.WaitForJob(ctx, cmd, application, id)
			if err != nil {
				return err
			}
			shared.PrintJob(out, rec)
		}
		return nil
	},
}

// ClearCmd represents the clear command
var ClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Fail every unfinished transcription job",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := shared.Bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		var n int
		if timedOut {
			n, err = application.Manager.ClearTimedOutTranscriptions(cmd.Context())
		} else {
			n, err = application.Manager.ClearAllInProgressTranscriptions(cmd.Context())
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %d job(s)\n", n)
		return nil
	},
}
