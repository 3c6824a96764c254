package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nordkart/kvitt/internal/ledger"
)

// ItemOptions holds flags for the item subcommands.
type ItemOptions struct {
	*RootOptions
	Name     string
	Quantity int64
	Price    int64
	Unit     string
}

// NewItemCommand creates the item command group.
func NewItemCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ItemOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage receipt line items",
	}

	add := &cobra.Command{
		Use:   "add <receipt-id>",
		Short: "Append an item to a receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemAdd(opts, cmd, args[0])
		},
	}
	add.Flags().StringVar(&opts.Name, "name", "", "item name (required)")
	add.Flags().Int64Var(&opts.Quantity, "quantity", 0, "quantity (default 1)")
	add.Flags().Int64Var(&opts.Price, "price", 0, "unit price in minor currency units (required)")
	add.Flags().StringVar(&opts.Unit, "unit", "", "currency unit, e.g. NOK (required)")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("price")
	_ = add.MarkFlagRequired("unit")

	update := &cobra.Command{
		Use:   "update <item-id>",
		Short: "Update fields of an item",
		Long: `Update fields of an item. Only the flags given change; the merged
item is re-validated before anything is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemUpdate(opts, cmd, args[0])
		},
	}
	update.Flags().StringVar(&opts.Name, "name", "", "new item name")
	update.Flags().Int64Var(&opts.Quantity, "quantity", 0, "new quantity")
	update.Flags().Int64Var(&opts.Price, "price", 0, "new unit price")
	update.Flags().StringVar(&opts.Unit, "unit", "", "new currency unit")

	del := &cobra.Command{
		Use:   "delete <item-id>",
		Short: "Delete a single item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runItemDelete(opts, cmd, args[0])
		},
	}

	cmd.AddCommand(add)
	cmd.AddCommand(update)
	cmd.AddCommand(del)
	return cmd
}

func runItemAdd(opts *ItemOptions, cmd *cobra.Command, arg string) error {
	f := formatter(opts.RootOptions, cmd)

	receiptID, err := parseID(arg, "receipt")
	if err != nil {
		return f.ErrorResponse(err)
	}

	s, err := openStore(opts.RootOptions)
	if err != nil {
		return f.ErrorResponse(err)
	}
	defer s.Close()

	id, err := s.AddItem(cmd.Context(), receiptID, ledger.ItemInput{
		Name:     opts.Name,
		Quantity: opts.Quantity,
		Price:    opts.Price,
		Unit:     opts.Unit,
	})
	if err != nil {
		return f.ErrorResponse(err)
	}

	opts.Log.Info().Int64("item", id).Int64("receipt", receiptID).Msg("item added")
	return f.Success(map[string]int64{"id": id}, func(w io.Writer) {
		fmt.Fprintf(w, "Added item %d to receipt %d\n", id, receiptID)
	})
}

func runItemUpdate(opts *ItemOptions, cmd *cobra.Command, arg string) error {
	f := formatter(opts.RootOptions, cmd)

	itemID, err := parseID(arg, "item")
	if err != nil {
		return f.ErrorResponse(err)
	}

	// Only flags the caller actually set become part of the patch, so
	// "--quantity 0" is an explicit (and invalid) change rather than a
	// no-op.
	var patch ledger.ItemPatch
	if cmd.Flags().Changed("name") {
		patch.Name = &opts.Name
	}
	if cmd.Flags().Changed("quantity") {
		patch.Quantity = &opts.Quantity
	}
	if cmd.Flags().Changed("price") {
		patch.Price = &opts.Price
	}
	if cmd.Flags().Changed("unit") {
		patch.Unit = &opts.Unit
	}
	if patch.IsZero() {
		return fmt.Errorf("nothing to update: give at least one of --name, --quantity, --price, --unit")
	}

	s, err := openStore(opts.RootOptions)
	if err != nil {
		return f.ErrorResponse(err)
	}
	defer s.Close()

	if err := s.UpdateItem(cmd.Context(), itemID, patch); err != nil {
		return f.ErrorResponse(err)
	}

	opts.Log.Info().Int64("item", itemID).Msg("item updated")
	return f.Success(map[string]int64{"id": itemID}, func(w io.Writer) {
		fmt.Fprintf(w, "Updated item %d\n", itemID)
	})
}

func runItemDelete(opts *ItemOptions, cmd *cobra.Command, arg string) error {
	f := formatter(opts.RootOptions, cmd)

	itemID, err := parseID(arg, "item")
	if err != nil {
		return f.ErrorResponse(err)
	}

	s, err := openStore(opts.RootOptions)
	if err != nil {
		return f.ErrorResponse(err)
	}
	defer s.Close()

	if err := s.DeleteItem(cmd.Context(), itemID); err != nil {
		return f.ErrorResponse(err)
	}

	opts.Log.Info().Int64("item", itemID).Msg("item deleted")
	return f.Success(map[string]int64{"id": itemID}, func(w io.Writer) {
		fmt.Fprintf(w, "Deleted item %d\n", itemID)
	})
}

// parseID parses a positive integer id argument.
func parseID(arg, entity string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, ledger.NewValidationError(entity, "id", fmt.Sprintf("%q is not a valid id", arg))
	}
	return id, nil
}
