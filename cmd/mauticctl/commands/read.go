package commands

import (
	"context"
	"fmt"

	"github.com/natserract/mautic/pkg/mautic"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const maxConcurrentGets = 4

func NewGetCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <endpoint> <id>...",
		Short: "Fetch one or more items by id",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args)-1)
			for _, arg := range args[1:] {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			api, err := app.api(args[0])
			if err != nil {
				return err
			}

			results := make([]*mautic.Response, len(ids))
			p := pool.New().WithMaxGoroutines(maxConcurrentGets).WithContext(cmd.Context()).WithCancelOnError()
			for i, id := range ids {
				p.Go(func(ctx context.Context) error {
					resp, err := api.Get(ctx, id)
					if err != nil {
						app.Logger.Error("Failed to get item", zap.Int("id", id), zap.Error(err))
						return fmt.Errorf("get %d: %w", id, err)
					}
					results[i] = resp
					return nil
				})
			}
			if err := p.Wait(); err != nil {
				return err
			}

			for _, resp := range results {
				if err := printResponse(app.Out, resp); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func NewListCommand(app *App) *cobra.Command {
	var (
		opts          mautic.ListOptions
		publishedOnly bool
	)

	cmd := &cobra.Command{
		Use:   "list <endpoint>",
		Short: "List items of an endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := app.api(args[0])
			if err != nil {
				return err
			}

			var resp *mautic.Response
			if publishedOnly {
				resp, err = api.GetPublishedList(cmd.Context(), opts)
			} else {
				resp, err = api.GetList(cmd.Context(), opts)
			}
			if err != nil {
				return err
			}
			return printResponse(app.Out, resp)
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "search filter")
	cmd.Flags().IntVar(&opts.Start, "start", 0, "offset of the first item")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of items")
	cmd.Flags().StringVar(&opts.OrderBy, "order-by", "", "column to sort by")
	cmd.Flags().StringVar(&opts.OrderByDir, "order-by-dir", "ASC", "sort direction")
	cmd.Flags().BoolVar(&publishedOnly, "published-only", false, "only published items")
	cmd.Flags().BoolVar(&opts.Minimal, "minimal", false, "omit item details")

	return cmd
}
