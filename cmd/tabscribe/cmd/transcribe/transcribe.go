package transcribe

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/shared"
	"github.com/Elandig/tabscribe/internal/app"
	"github.com/Elandig/tabscribe/internal/app/model"
)

type submitOptions struct {
	wait             bool
	language         string
	speakerLabels    bool
	speakersExpected int
}

var (
	transcribeOpts submitOptions
	retryOpts      submitOptions
)

func init() {
	bindSubmitFlags(Cmd, &transcribeOpts)
	bindSubmitFlags(RetryCmd, &retryOpts)
}

func bindSubmitFlags(cmd *cobra.Command, o *submitOptions) {
	cmd.Flags().BoolVarP(&o.wait, "wait", "w", false, "poll in this process until the job finishes")
	cmd.Flags().StringVarP(&o.language, "language", "l", "", "language code, or auto to detect (default from settings)")
	cmd.Flags().BoolVar(&o.speakerLabels, "speaker-labels", false, "attribute text to speakers")
	cmd.Flags().IntVar(&o.speakersExpected, "speakers", 0, "expected number of speakers (with --speaker-labels)")
}

// capture returns nil when no capture flag was set, so the settings apply
func (o *submitOptions) capture(cmd *cobra.Command) *model.CaptureConfiguration {
	flags := cmd.Flags()
	if !flags.Changed("language") && !flags.Changed("speaker-labels") && !flags.Changed("speakers") {
		return nil
	}
	return &model.CaptureConfiguration{
		Language:         o.language,
		SpeakerLabels:    o.speakerLabels,
		SpeakersExpected: o.speakersExpected,
	}
}

// Cmd represents the transcribe command
var Cmd = &cobra.Command{
	Use:   "transcribe <id>",
	Short: "Submit a recording to the configured speech-to-text provider",
	Long: `Submit a recording to the configured speech-to-text provider

- Without --wait the command returns after submission; the job is followed by
  a running "tabscribe serve" or picked up later with "tabscribe resume"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submit(cmd, args[0], &transcribeOpts, false)
	},
}

// RetryCmd represents the retry command
var RetryCmd = &cobra.Command{
	Use:   "retry <id>",
	Short: "Discard a recording's job and submit it again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return submit(cmd, args[0], &retryOpts, true)
	},
}

func submit(cmd *cobra.Command, id string, o *submitOptions, retry bool) error {
	application, cleanup, err := shared.Bootstrap()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := shared.SignalContext(cmd.Context())
	defer stop()

	capture := o.capture(cmd)
	if retry {
		err = application.Manager.RetryTranscription(ctx, id, capture)
	} else {
		err = application.Manager.Transcribe(ctx, id, capture)
	}
	if err != nil {
		return err
	}

	return report(cmd, application, id, o.wait)
}

func report(cmd *cobra.Command, application *app.Application, id string, wait bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if wait {
		waitCtx, stop := shared.SignalContext(ctx)
		defer stop()
		rec, err := shared.WaitForJob(waitCtx, cmd, application, id)
		if err != nil {
			return err
		}
		shared.PrintJob(out, rec)
		if rec.TranscriptionStatus() == model.JobStatusCompleted {
			fmt.Fprintln(out)
			fmt.Fprintln(out, rec.Transcription.Text)
		}
		return nil
	}

	rec, err := application.Store.Get(ctx, id)
	if err != nil {
		return err
	}
	shared.PrintJob(out, rec)
	if rec.TranscriptionStatus().InFlight() {
		fmt.Fprintln(cmd.ErrOrStderr(), `job in flight: keep "tabscribe serve" running or run "tabscribe resume --wait" to follow it`)
	}
	return nil
}
