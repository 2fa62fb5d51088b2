package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/docchat/internal/domain/search/request"
	searchuc "github.com/kailas-cloud/docchat/internal/usecase/search"
)

func newQueryCmd(env *string) *cobra.Command {
	var opts searchuc.Options

	cmd := &cobra.Command{
		Use:   "query <text>",
		Short: "Run one query and print the JSON result",
		Example: `  docchat query "What is Azure?"
  docchat query --titles-only --top 20 "storage pricing"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *env)
			if err != nil {
				return err
			}
			defer a.Close()

			return runQuery(cmd.Context(), a.search, strings.Join(args, " "), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&opts.TitlesOnly, "titles-only", false, "return document titles only")
	cmd.Flags().IntVar(&opts.TopN, "top", request.DefaultTop, "maximum number of results requested (capped at 100)")

	return cmd
}

type pipeline interface {
	Run(ctx context.Context, query string, opts searchuc.Options) (string, error)
}

func runQuery(ctx context.Context, p pipeline, query string, opts searchuc.Options, out io.Writer) error {
	res, err := p.Run(ctx, query, opts)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, res)
	return err
}
