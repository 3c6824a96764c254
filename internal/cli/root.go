package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nordkart/kvitt/internal/config"
	"github.com/nordkart/kvitt/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose     bool
	Format      string // "json" | "text"
	DBPath      string
	QueriesPath string
	Capitalize  bool

	Log zerolog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the kvitt CLI.
// Flag defaults come from the environment (see package config); flags
// override the environment.
func NewRootCommand() *cobra.Command {
	cfg, err := config.Load()
	if err != nil {
		// Broken environment: fall back to defaults, surface on first run.
		cfg = &config.Config{DBPath: "kvitt.db", QueriesPath: "queries.yaml", LogLevel: "warn"}
	}

	opts := &RootOptions{Capitalize: cfg.CapitalizeItemNames}

	cmd := &cobra.Command{
		Use:           "kvitt",
		Short:         "kvitt - a store receipt ledger",
		Long:          "Record store purchase receipts and their line items, and query them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			opts.Log = newLogger(cfg.LogLevel, opts.Verbose)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", cfg.DBPath, "path to the ledger database")
	cmd.PersistentFlags().StringVar(&opts.QueriesPath, "queries", cfg.QueriesPath, "path to the saved-query file")

	// Add subcommands
	cmd.AddCommand(NewStoreCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewItemCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewTotalCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))

	return cmd
}

// openStore opens the ledger database per the global flags.
func openStore(opts *RootOptions) (*store.Store, error) {
	var storeOpts []store.Option
	if opts.Capitalize {
		storeOpts = append(storeOpts, store.WithCapitalizedNames())
	}
	s, err := store.Open(opts.DBPath, storeOpts...)
	if err != nil {
		return nil, err
	}
	opts.Log.Debug().Str("db", opts.DBPath).Msg("opened ledger database")
	return s, nil
}

// formatter builds the output formatter for a command invocation.
func formatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
}

// newLogger builds the CLI logger. Diagnostics go to stderr so they never
// corrupt JSON output on stdout.
func newLogger(level string, verbose bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	if verbose {
		lvl = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl).With().Timestamp().Logger()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
