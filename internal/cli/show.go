package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nordkart/kvitt/internal/ledger"
)

// receiptView is the JSON payload for the show command.
type receiptView struct {
	Receipt ledger.Receipt     `json:"receipt"`
	Store   ledger.Store       `json:"store"`
	Totals  []ledger.UnitTotal `json:"totals"`
}

// NewShowCommand creates the show command, which prints one receipt.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <receipt-id>",
		Short: "Show a receipt with its items and totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runShow(opts *RootOptions, cmd *cobra.Command, arg string) error {
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

	ctx := cmd.Context()
	receipt, err := s.GetReceipt(ctx, id)
	if err != nil {
		return f.ErrorResponse(err)
	}
	merchant, err := s.GetStore(ctx, receipt.StoreID)
	if err != nil {
		return f.ErrorResponse(err)
	}
	totals, err := s.ReceiptTotals(ctx, id)
	if err != nil {
		return f.ErrorResponse(err)
	}

	view := receiptView{Receipt: receipt, Store: merchant, Totals: totals}
	return f.Success(view, func(w io.Writer) {
		renderReceipt(w, view)
	})
}

func renderReceipt(w io.Writer, v receiptView) {
	if v.Store.Location != "" {
		fmt.Fprintf(w, "Receipt %d  %s  %s (%s)\n", v.Receipt.ID, v.Receipt.Date, v.Store.Name, v.Store.Location)
	} else {
		fmt.Fprintf(w, "Receipt %d  %s  %s\n", v.Receipt.ID, v.Receipt.Date, v.Store.Name)
	}
	for _, it := range v.Receipt.Items {
		fmt.Fprintf(w, "  %d\t%s\tx%d\t%s\n", it.ID, it.Name, it.Quantity, ledger.FormatAmount(it.Price, it.Unit))
	}
	for _, t := range v.Totals {
		fmt.Fprintf(w, "Total: %s\n", ledger.FormatAmount(t.Total, t.Unit))
	}
}
