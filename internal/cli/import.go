package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nordkart/kvitt/internal/ledger"
)

// ImportOptions holds flags for the import command.
type ImportOptions struct {
	*RootOptions
	Force bool
}

// NewImportCommand creates the import command, which loads receipts from a
// YAML file in one atomic batch.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import receipts from a YAML file",
		Long: `Import receipts from a YAML file in one atomic batch.

Stores are created on demand by (name, location). Receipts whose
(store, date) pair already exists are skipped; pass --force to import
them anyway. A validation error anywhere aborts the whole batch.`,
		Example: `  kvitt import receipts.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "import receipts even when a (store, date) duplicate exists")

	log := &cobra.Command{
		Use:   "log",
		Short: "Show the import history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportLog(opts, cmd)
		},
	}
	cmd.AddCommand(log)

	return cmd
}

func runImportLog(opts *ImportOptions, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	s, err := openStore(opts.RootOptions)
	if err != nil {
		return f.ErrorResponse(err)
	}
	defer s.Close()

	batches, err := s.ListImportBatches(cmd.Context())
	if err != nil {
		return f.ErrorResponse(err)
	}

	return f.Success(batches, func(w io.Writer) {
		for _, b := range batches {
			fmt.Fprintf(w, "%s\t%s\t%d receipt(s)\t%s\n", b.Token, b.ImportedAt, b.ReceiptCount, b.Source)
		}
	})
}

func runImport(opts *ImportOptions, cmd *cobra.Command, path string) error {
	f := formatter(opts.RootOptions, cmd)

	data, err := os.ReadFile(path)
	if err != nil {
		return f.ErrorResponse(ledger.NewValidationError("import", "file", err.Error()))
	}

	var batch ledger.ImportBatch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return f.ErrorResponse(ledger.NewValidationError("import", "file", err.Error()))
	}
	batch.Token = ledger.NewBatchToken()
	batch.Source = path
	batch.Force = opts.Force

	s, err := openStore(opts.RootOptions)
	if err != nil {
		return f.ErrorResponse(err)
	}
	defer s.Close()

	result, err := s.ImportReceipts(cmd.Context(), batch)
	if err != nil {
		return f.ErrorResponse(err)
	}

	opts.Log.Info().
		Str("token", result.Token).
		Int("imported", len(result.Imported)).
		Int("skipped", result.Skipped).
		Msg("batch imported")
	return f.Success(result, func(w io.Writer) {
		fmt.Fprintf(w, "Imported %d receipt(s), skipped %d, created %d store(s)\n",
			len(result.Imported), result.Skipped, result.StoresMade)
		fmt.Fprintf(w, "Batch token: %s\n", result.Token)
	})
}
