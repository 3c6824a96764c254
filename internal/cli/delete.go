package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command, which removes a receipt
// and all of its items.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <receipt-id>",
		Short: "Delete a receipt and its items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runDelete(opts *RootOptions, cmd *cobra.Command, arg string) error {
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

	if err := s.DeleteReceipt(cmd.Context(), id); err != nil {
		return f.ErrorResponse(err)
	}

	opts.Log.Info().Int64("receipt", id).Msg("receipt deleted")
	return f.Success(map[string]int64{"id": id}, func(w io.Writer) {
		fmt.Fprintf(w, "Deleted receipt %d\n", id)
	})
}
