// Package shared holds the state and helpers every tabscribe command uses.
package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Elandig/tabscribe/internal/app"
	"github.com/Elandig/tabscribe/internal/app/converter"
	"github.com/Elandig/tabscribe/internal/app/model"
	"github.com/Elandig/tabscribe/internal/config"
)

// ConfigPath is bound to the persistent --config flag
var ConfigPath string

// Verbose is bound to the persistent --verbose flag
var Verbose bool

// Bootstrap builds the application from the selected settings file
func Bootstrap() (*app.Application, func(), error) {
	application, cleanup, err := app.InitializeApplication(app.SettingsPath(ConfigPath))
	if err != nil {
		return nil, nil, fmt.Errorf("initialize: %w", err)
	}
	return application, cleanup, nil
}

// SettingsStore opens the selected settings file without starting anything else
func SettingsStore() *config.YAMLStore {
	return app.NewSettingsStore(app.SettingsPath(ConfigPath))
}

// SignalContext is cancelled on SIGINT or SIGTERM
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// PrintJSON writes v as indented JSON
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WaitForJob drives the recording's polling loop in this process until the job is
// terminal or ctx is done, showing a spinner on terminals.
func WaitForJob(ctx context.Context, cmd *cobra.Command, application *app.Application, id string) (*model.Recording, error) {
	pm := converter.NewProgressManager(converter.ProgressConfig{
		Enabled: converter.ShouldShowProgress(false),
		Writer:  cmd.ErrOrStderr(),
	})
	spinner := pm.CreateSpinner("Transcribing " + id)

	done := make(chan error, 1)
	go func() { done <- application.Manager.WaitFor(ctx, id) }()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var err error
wait:
	for {
		select {
		case err = <-done:
			break wait
		case <-ticker.C:
			if rec, gerr := application.Store.Get(ctx, id); gerr == nil {
				spinner.SetStatus(string(rec.TranscriptionStatus()))
			}
		}
	}
	spinner.Stop()
	pm.Wait()
	if err != nil {
		return nil, err
	}

	return application.Store.Get(context.WithoutCancel(ctx), id)
}

// PrintJob writes a one-line summary of a recording's job
func PrintJob(w io.Writer, rec *model.Recording) {
	job := rec.Transcription
	if job == nil {
		fmt.Fprintf(w, "%s: not transcribed\n", rec.ID)
		return
	}
	line := fmt.Sprintf("%s: %s", rec.ID, job.Status)
	if job.Service != "" {
		line += " via " + job.Service
	}
	if job.JobID != "" {
		line += " (job " + job.JobID + ")"
	}
	if job.Error != "" {
		line += ": " + job.Error
	}
	fmt.Fprintln(w, line)
}
