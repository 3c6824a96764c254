package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nordkart/kvitt/internal/ledger"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	StoreID  int64
	DateFrom string
	DateTo   string
}

// NewListCommand creates the list command, which lists receipts.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List receipts, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.StoreID, "store", 0, "only receipts from this store id")
	cmd.Flags().StringVar(&opts.DateFrom, "from", "", "only receipts on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.DateTo, "to", "", "only receipts on or before this date (YYYY-MM-DD)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	s, err := openStore(opts.RootOptions)
	if err != nil {
		return f.ErrorResponse(err)
	}
	defer s.Close()

	receipts, err := s.ListReceipts(cmd.Context(), ledger.ReceiptFilter{
		StoreID:  opts.StoreID,
		DateFrom: opts.DateFrom,
		DateTo:   opts.DateTo,
	})
	if err != nil {
		return f.ErrorResponse(err)
	}

	return f.Success(receipts, func(w io.Writer) {
		for _, r := range receipts {
			fmt.Fprintf(w, "%d\t%s\tstore %d\n", r.ID, r.Date, r.StoreID)
		}
	})
}
