package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nordkart/kvitt/internal/ledger"
)

// NewTotalCommand creates the total command, which sums a receipt's items.
func NewTotalCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "total <receipt-id>",
		Short: "Show a receipt's total per currency unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTotal(rootOpts, cmd, args[0])
		},
		Args: cobra.ExactArgs(1),
	}
	return cmd
}

func runTotal(opts *RootOptions, cmd *cobra.Command, arg string) error {
	f := formatter(opts, cmd)

	id, err := parseID(arg, "receipt")
	if err != nil {
		return f.ErrorResponse(err)
	}

	s, err := openStore(opts)
	if err != nil {
		return f.ErrorResponse(err)
	}
	defer s.Close()

	totals, err := s.ReceiptTotals(cmd.Context(), id)
	if err != nil {
		return f.ErrorResponse(err)
	}

	return f.Success(totals, func(w io.Writer) {
		if len(totals) == 0 {
			fmt.Fprintln(w, "0")
			return
		}
		for _, t := range totals {
			fmt.Fprintln(w, ledger.FormatAmount(t.Total, t.Unit))
		}
	})
}
