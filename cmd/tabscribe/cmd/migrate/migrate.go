package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Elandig/tabscribe/cmd/tabscribe/cmd/shared"
	"github.com/Elandig/tabscribe/internal/app"
	storemigrate "github.com/Elandig/tabscribe/internal/app/repository/migrate"
	"github.com/Elandig/tabscribe/internal/config"
)

var (
	toDriver string
	to       string
)

func init() {
	Cmd.Flags().StringVar(&toDriver, "to-driver", "", "destination store (sqlite, postgres or redis)")
	Cmd.Flags().StringVar(&to, "to", "", "destination sqlite path, postgres DSN or redis URL")
	Cmd.MarkFlagRequired("to-driver")
	Cmd.MarkFlagRequired("to")
}

// Cmd represents the migrate command
var Cmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy every recording from the configured store into another one",
	Long: `Copy every recording from the configured store into another one

- Records with the same id in the destination are overwritten
- Media is not moved; point storage.media at the same location afterwards`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dstSettings, err := Destination(toDriver, to)
		if err != nil {
			return err
		}

		application, cleanup, err := shared.Bootstrap()
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := shared.SignalContext(cmd.Context())
		defer stop()

		dst, err := app.OpenRecordingStore(ctx, dstSettings)
		if err != nil {
			return err
		}
		defer dst.Close()

		n, err := storemigrate.Copy(ctx, application.Store, dst, application.Logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "copied %d recording(s) to %s\n", n, toDriver)
		return nil
	},
}

// Destination builds storage settings for the target store
func Destination(driver, target string) (config.StorageSettings, error) {
	s := config.StorageSettings{Driver: driver}
	switch driver {
	case "sqlite":
		s.SQLitePath = target
	case "postgres":
		s.PostgresDSN = target
	case "redis":
		s.RedisURL = target
	default:
		return s, fmt.Errorf("unsupported destination driver %q", driver)
	}
	return s, nil
}
