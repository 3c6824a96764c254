package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// StoreOptions holds flags for the store subcommands.
type StoreOptions struct {
	*RootOptions
	Name     string
	Location string
}

// NewStoreCommand creates the store command group.
func NewStoreCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage merchant stores",
	}

	add := &cobra.Command{
		Use:     "add",
		Short:   "Add a merchant store",
		Example: `  kvitt store add --name "Rema 1000" --location Oslo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStoreAdd(opts, cmd)
		},
	}
	add.Flags().StringVar(&opts.Name, "name", "", "store name (required)")
	add.Flags().StringVar(&opts.Location, "location", "", "store location")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List merchant stores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStoreList(opts, cmd)
		},
	}

	cmd.AddCommand(add)
	cmd.AddCommand(list)
	return cmd
}

func runStoreAdd(opts *StoreOptions, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	s, err := openStore(opts.RootOptions)
	if err != nil {
		return f.ErrorResponse(err)
	}
	defer s.Close()

	id, err := s.CreateStore(cmd.Context(), opts.Name, opts.Location)
	if err != nil {
		return f.ErrorResponse(err)
	}

	opts.Log.Info().Int64("store", id).Msg("store created")
	return f.Success(map[string]int64{"id": id}, func(w io.Writer) {
		fmt.Fprintf(w, "Created store %d\n", id)
	})
}

func runStoreList(opts *StoreOptions, cmd *cobra.Command) error {
	f := formatter(opts.RootOptions, cmd)

	s, err := openStore(opts.RootOptions)
	if err != nil {
		return f.ErrorResponse(err)
	}
	defer s.Close()

	stores, err := s.ListStores(cmd.Context())
	if err != nil {
		return f.ErrorResponse(err)
	}

	return f.Success(stores, func(w io.Writer) {
		for _, st := range stores {
			if st.Location != "" {
				fmt.Fprintf(w, "%d\t%s (%s)\n", st.ID, st.Name, st.Location)
			} else {
				fmt.Fprintf(w, "%d\t%s\n", st.ID, st.Name)
			}
		}
	})
}
