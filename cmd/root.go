package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/duelcraft/cardpress/internal/config"
	"github.com/duelcraft/cardpress/internal/logging"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "cardpress",
	Short: "Tool for validating and exporting fighting style card catalogs",
	Long: `Cardpress loads a catalog of fighting style trading cards from JSON,
validates it, shows individual cards in the terminal, and batch-exports every
card as a fixed-size PNG image.`,
	SilenceUsage: true,
}

var configFlag string

func init() {
	RootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to a config file (default: XDG config dir)")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// loadConfig loads the application config honoring the --config flag.
func loadConfig() (*config.Config, error) {
	return config.Load(configFlag)
}

// newLogger builds the logger the commands hand to core packages.
func newLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
}

// shortID truncates a run id for table display. Stored ids are normally
// UUIDs, but a shorter one must not panic the listing.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
