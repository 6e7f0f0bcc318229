package cmd

import (
	"io"
	"os"

	"github.com/kissbridge/kissbridge/bridge"
	"github.com/kissbridge/kissbridge/filesystem"
	"github.com/kissbridge/kissbridge/inline"
	"github.com/kissbridge/kissbridge/log"
	"github.com/kissbridge/kissbridge/query"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("query", "q", "", "The search query to run")
	inlineCmd.Flags().StringP("item", "i", "", "Criteria for selecting an item from the search results")
	inlineCmd.Flags().StringP("episodes", "e", "", "Criteria for selecting episodes of the chosen items")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().BoolP("include-streams", "S", false, "Resolve the streams of the selected episodes")
	inlineCmd.Flags().BoolP("include-subtitles", "T", false, "List every subtitle track of the selected episodes")
	inlineCmd.Flags().StringP("output", "o", "", "Write the command output to this file")
	addCategoryFlag(inlineCmd)

	lo.Must0(inlineCmd.MarkFlagRequired("query"))
	lo.Must0(inlineCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	}))
}

// inlineCmd runs a whole search-to-streams resolution without interaction.
var inlineCmd = &cobra.Command{
	Use:   "inline",
	Short: "Run a search-to-streams resolution in non-interactive, scriptable mode",
	Long: `Search the catalog, pick items and episodes, and print their streams.

Item selectors:
  first - first item in the list
  last - last item in the list
  [number] - select item by index (starting from 0)
  @[substring]@ - first item whose title contains the substring

Episode selectors:
  first - lowest numbered episode
  last - highest numbered episode
  all - all episodes
  [number] - the episode with that number, 1.5 included
  [from]-[to] - episodes numbered within the inclusive range

When using the json flag the item selector can be omitted to select every match.`,
	Example: `  kissbridge inline -q "moon lovers" -i first -e 1-3 -S`,
	PreRun: func(cmd *cobra.Command, args []string) {
		if !lo.Must(cmd.Flags().GetBool("json")) {
			lo.Must0(cmd.MarkFlagRequired("item"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		q := lo.Must(cmd.Flags().GetString("query"))
		if err := query.Remember(q, 1); err != nil {
			log.Warnf("Cannot remember query %q: %v", q, err)
		}

		var writer io.Writer = os.Stdout
		if output := lo.Must(cmd.Flags().GetString("output")); output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			writer = file
		}

		itemPicker := mo.None[inline.ItemPicker]()
		if flag := lo.Must(cmd.Flags().GetString("item")); flag != "" {
			fn, err := inline.ParseItemPicker(flag)
			handleErr(err)
			itemPicker = mo.Some(fn)
		}

		episodesFilter := mo.None[inline.EpisodesFilter]()
		if flag := lo.Must(cmd.Flags().GetString("episodes")); flag != "" {
			fn, err := inline.ParseEpisodesFilter(flag)
			handleErr(err)
			episodesFilter = mo.Some(fn)
		}

		options := &inline.Options{
			Out:            writer,
			Query:          q,
			Categories:     categoriesOf(cmd),
			Json:           lo.Must(cmd.Flags().GetBool("json")),
			ItemPicker:     itemPicker,
			EpisodesFilter: episodesFilter,
			Streams:        lo.Must(cmd.Flags().GetBool("include-streams")),
			Subtitles:      lo.Must(cmd.Flags().GetBool("include-subtitles")),
		}

		b := bridge.FromConfig()
		handleErr(inline.Run(ctx, b.Source(), b.Resolver(), options))
	},
}
