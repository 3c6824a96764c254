package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nordkart/kvitt/internal/ledger"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	StoreID   int64
	StoreName string
	Location  string
	Date      string
	Items     []string
}

// NewAddCommand creates the add command, which records one receipt.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a receipt with its items",
		Long: `Record a receipt with its items in one atomic write.

The store is given either by id (--store-id) or by name and location
(--store/--location), in which case it is created if unknown. Items use
the form NAME:QUANTITY:PRICE:UNIT, with price in minor currency units;
the quantity may be omitted (NAME:PRICE:UNIT) and defaults to 1.`,
		Example: `  kvitt add --store "Rema 1000" --location Oslo --date 2024-01-05 \
    --item "Milk:2:150:NOK" --item "Bread:350:NOK"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.StoreID, "store-id", 0, "store id")
	cmd.Flags().StringVar(&opts.StoreName, "store", "", "store name")
	cmd.Flags().StringVar(&opts.Location, "location", "", "store location")
	cmd.Flags().StringVar(&opts.Date, "date", "", "receipt date, YYYY-MM-DD (required)")
	cmd.Flags().StringArrayVar(&opts.Items, "item", nil, "line item, NAME[:QUANTITY]:PRICE:UNIT (repeatable)")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	if opts.StoreID == 0 && opts.StoreName == "" {
		return fmt.Errorf("either --store-id or --store is required")
	}

	items := make([]ledger.ItemInput, 0, len(opts.Items))
	for _, spec := range opts.Items {
		in, err := parseItemSpec(spec)
		if err != nil {
			return f.ErrorResponse(err)
		}
		items = append(items, in)
	}

	s, err := openStore(opts.RootOptions)
	if err != nil {
		return f.ErrorResponse(err)
	}
	defer s.Close()

	ctx := cmd.Context()
	storeID := opts.StoreID
	if storeID == 0 {
		var created bool
		storeID, created, err = s.GetOrCreateStore(ctx, opts.StoreName, opts.Location)
		if err != nil {
			return f.ErrorResponse(err)
		}
		if created {
			opts.Log.Info().Int64("store", storeID).Str("name", opts.StoreName).Msg("store created")
		}
	}

	id, err := s.CreateReceipt(ctx, storeID, opts.Date, items)
	if err != nil {
		return f.ErrorResponse(err)
	}

	opts.Log.Info().Int64("receipt", id).Int("items", len(items)).Msg("receipt recorded")
	return f.Success(map[string]int64{"id": id, "store_id": storeID}, func(w io.Writer) {
		fmt.Fprintf(w, "Created receipt %d with %d item(s)\n", id, len(items))
	})
}

// parseItemSpec parses NAME:QUANTITY:PRICE:UNIT or NAME:PRICE:UNIT.
// Colons in the item name are allowed; fields are taken from the right.
func parseItemSpec(spec string) (ledger.ItemInput, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 3 {
		return ledger.ItemInput{}, ledger.NewValidationError("item", "spec",
			fmt.Sprintf("%q: want NAME[:QUANTITY]:PRICE:UNIT", spec))
	}

	unit := parts[len(parts)-1]
	price, err := strconv.ParseInt(parts[len(parts)-2], 10, 64)
	if err != nil {
		return ledger.ItemInput{}, ledger.NewValidationError("item", "price",
			fmt.Sprintf("%q is not an integer", parts[len(parts)-2]))
	}

	quantity := int64(0) // default applied by Normalize
	nameEnd := len(parts) - 2
	if len(parts) >= 4 {
		if q, err := strconv.ParseInt(parts[len(parts)-3], 10, 64); err == nil {
			quantity = q
			nameEnd = len(parts) - 3
		}
	}

	name := strings.Join(parts[:nameEnd], ":")
	return ledger.ItemInput{Name: name, Quantity: quantity, Price: price, Unit: unit}, nil
}
