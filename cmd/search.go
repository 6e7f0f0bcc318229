package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/kissbridge/kissbridge/bridge"
	"github.com/kissbridge/kissbridge/color"
	"github.com/kissbridge/kissbridge/fetch"
	"github.com/kissbridge/kissbridge/icon"
	"github.com/kissbridge/kissbridge/log"
	"github.com/kissbridge/kissbridge/provider"
	"github.com/kissbridge/kissbridge/query"
	"github.com/kissbridge/kissbridge/source"
	"github.com/kissbridge/kissbridge/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func completionQueries(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func addCategoryFlag(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("category", "c", []string{}, "Restrict the search to these category slugs")
	lo.Must0(cmd.RegisterFlagCompletionFunc("category", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Map(provider.Default().Categories, func(c source.Category, _ int) string {
			return c.Slug
		}), cobra.ShellCompDirectiveNoFileComp
	}))
}

func categoriesOf(cmd *cobra.Command) []source.Category {
	known := provider.Default().Categories

	return lo.Map(lo.Must(cmd.Flags().GetStringSlice("category")), func(slug string, _ int) source.Category {
		c, ok := lo.Find(known, func(c source.Category) bool { return c.Slug == slug })
		if !ok {
			handleErr(fmt.Errorf("unknown category %s", style.Fg(color.Red)(slug)))
		}
		return c
	})
}

func init() {
	rootCmd.AddCommand(searchCmd)
	addCategoryFlag(searchCmd)
	addJsonFlag(searchCmd)
	searchCmd.Flags().IntP("limit", "n", 0, "Print at most this many results. 0 prints all")
	searchCmd.SetOut(os.Stdout)
}

// searchCmd searches the catalog and prints ids usable with the streams command.
var searchCmd = &cobra.Command{
	Use:               "search <query>",
	Short:             "Search the catalog",
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completionQueries,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		q := strings.Join(args, " ")
		if err := query.Remember(q, 1); err != nil {
			log.Warnf("Cannot remember query %q: %v", q, err)
		}

		src := provider.Default().CreateSource(fetch.FromConfig())
		items, err := src.Search(ctx, q, categoriesOf(cmd)...)
		handleErr(err)

		if limit := lo.Must(cmd.Flags().GetInt("limit")); limit > 0 && len(items) > limit {
			items = items[:limit]
		}

		if asJson(cmd) {
			printJson(cmd, lo.Ternary(items == nil, []*source.Item{}, items))
			return
		}

		if len(items) == 0 {
			cmd.Printf("%s nothing found for %s\n", icon.Get(icon.Warn), style.Fg(color.Yellow)(q))
			return
		}

		for _, item := range items {
			cmd.Printf(
				"%s %s %s\n",
				style.Fg(color.Purple)(bridge.ItemID(item.ID)),
				style.Bold(item.Title),
				style.Faint(strings.TrimSpace(string(item.Kind)+" "+item.Year())),
			)
		}
	},
}
