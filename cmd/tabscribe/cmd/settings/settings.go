package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/shared"
	"github.com/Elandig/tabscribe/internal/config"
)

// Cmd represents the config command
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the settings file",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := shared.SettingsStore()
		s, err := store.Load()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", store.Path())
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	},
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting

Keys:
  transcription.enabled       true|false
  provider                    assemblyai|openai
  language                    language code, or auto
  speaker_labels              true|false
  speakers_expected           0-50
  api_key.<provider>          provider API key
  storage.driver              sqlite|postgres|redis|memory
  server.port                 listen port
  log.level                   debug|info|warn|error`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := shared.SettingsStore()
		s, err := store.Load()
		if err != nil {
			return err
		}
		if err := Set(&s, args[0], args[1]); err != nil {
			return err
		}
		if err := s.Validate(); err != nil {
			return err
		}
		if err := store.Save(s); err != nil {
			return err
		}
		if name, ok := strings.CutPrefix(args[0], "api_key."); ok {
			if err := config.ValidateAPIKey(name, args[1]); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s updated in %s\n", args[0], store.Path())
		return nil
	},
}

func init() {
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(setCmd)
}

// Set applies one key=value change to s
func Set(s *config.Settings, key, value string) error {
	t := &s.Transcription
	switch key {
	case "transcription.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		t.Enabled = b
	case "provider":
		t.Provider = value
	case "language":
		t.Capture.Language = value
	case "speaker_labels":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		t.Capture.SpeakerLabels = b
	case "speakers_expected":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		t.Capture.SpeakersExpected = n
	case "storage.driver":
		s.Storage.Driver = value
	case "server.port":
		s.Server.Port = value
	case "log.level":
		s.Log.Level = value
	default:
		name, ok := strings.CutPrefix(key, "api_key.")
		if !ok || name == "" {
			return fmt.Errorf("unknown setting %q", key)
		}
		if t.Providers == nil {
			t.Providers = make(map[string]config.ProviderSettings)
		}
		ps := t.Providers[name]
		ps.APIKey = value
		t.Providers[name] = ps
	}
	return nil
}
