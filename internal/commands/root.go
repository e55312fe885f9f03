package commands

import (
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/invoicer-dev/invoicer/internal/buildinfo"
	"github.com/invoicer-dev/invoicer/internal/config"
	"github.com/invoicer-dev/invoicer/internal/logging"
)

// Environment variables that provide flag defaults.
const (
	EnvConfig   = "INVOICER_CONFIG"
	EnvLogLevel = "INVOICER_LOG_LEVEL"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	logLevel   string
}

// load reads the config file (defaults when absent) and builds a logger
// writing to w.
func (o *globalOptions) load(w io.Writer) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	logger, err := logging.New(cfg.Log, w)
	if err != nil {
		return nil, nil, err
	}
	logger.WithField("config", o.configPath).Debug("config loaded")
	return cfg, logger, nil
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	// A missing .env is fine; values already in the environment win.
	_ = godotenv.Load()

	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:     "invoicer",
		Short:   "Build, review and export invoices",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", envOr(EnvConfig, config.FileName), "config file (env "+EnvConfig+")")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", os.Getenv(EnvLogLevel), "log level, overrides the config (env "+EnvLogLevel+")")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newQuoteCommand(opts))
	rootCmd.AddCommand(newEditCommand(opts))
	rootCmd.AddCommand(newCurrenciesCommand())

	return rootCmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
