package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nordkart/kvitt/internal/analysis"
)

// NewQueryCommand creates the query command, which lists or runs saved
// analysis queries from the query file.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [name]",
		Short: "List or run saved analysis queries",
		Long: `List or run saved analysis queries.

Without arguments the saved queries are listed. With a name the query is
run against the ledger and its rows printed. Saved queries are read-only;
only SELECT statements (with or without a leading WITH clause) are
accepted.`,
		Example: `  kvitt query
  kvitt query monthly-spend`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runQueryList(rootOpts, cmd)
			}
			return runQuery(rootOpts, cmd, args[0])
		},
	}
	return cmd
}

func runQueryList(opts *RootOptions, cmd *cobra.Command) error {
	f := formatter(opts, cmd)

	queries, err := analysis.Load(opts.QueriesPath)
	if err != nil {
		return f.ErrorResponse(err)
	}

	return f.Success(queries, func(w io.Writer) {
		for _, q := range queries {
			if q.Description != "" {
				fmt.Fprintf(w, "%s\t%s\n", q.Name, q.Description)
			} else {
				fmt.Fprintln(w, q.Name)
			}
		}
	})
}

func runQuery(opts *RootOptions, cmd *cobra.Command, name string) error {
	f := formatter(opts, cmd)

	queries, err := analysis.Load(opts.QueriesPath)
	if err != nil {
		return f.ErrorResponse(err)
	}
	q, err := analysis.Find(queries, name)
	if err != nil {
		return f.ErrorResponse(err)
	}

	s, err := openStore(opts)
	if err != nil {
		return f.ErrorResponse(err)
	}
	defer s.Close()

	opts.Log.Debug().Str("query", q.Name).Msg("running saved query")
	result, err := analysis.Run(cmd.Context(), s, q)
	if err != nil {
		return f.ErrorResponse(err)
	}

	return f.Success(result, func(w io.Writer) {
		fmt.Fprintln(w, strings.Join(result.Columns, "\t"))
		for _, row := range result.Rows {
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
	})
}
