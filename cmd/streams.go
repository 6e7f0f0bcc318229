package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kissbridge/kissbridge/bridge"
	"github.com/kissbridge/kissbridge/color"
	"github.com/kissbridge/kissbridge/constant"
	"github.com/kissbridge/kissbridge/icon"
	"github.com/kissbridge/kissbridge/source"
	"github.com/kissbridge/kissbridge/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func addKindFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("type", "t", string(source.Series), "Content type the id refers to (movie or series)")
	lo.Must0(cmd.RegisterFlagCompletionFunc("type", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(source.Movie), string(source.Series)}, cobra.ShellCompDirectiveNoFileComp
	}))
}

func kindOf(cmd *cobra.Command) source.Kind {
	switch kind := source.Kind(lo.Must(cmd.Flags().GetString("type"))); kind {
	case source.Movie, source.Series:
		return kind
	default:
		handleErr(fmt.Errorf("unknown type %s, expected movie or series", style.Fg(color.Red)(string(kind))))
		return ""
	}
}

// publicID accepts a bare catalog id as shorthand for its "kisskh:" form.
func publicID(arg string) string {
	if strings.HasPrefix(arg, constant.IDPrefix) || strings.HasPrefix(arg, constant.ExternalIDPrefix) {
		return arg
	}
	return bridge.ItemID(arg)
}

func init() {
	rootCmd.AddCommand(streamsCmd)
	addKindFlag(streamsCmd)
	addJsonFlag(streamsCmd)
	streamsCmd.Flags().BoolP("full", "f", false, "Print URLs without shortening them")
	streamsCmd.SetOut(os.Stdout)
}

// streamsCmd resolves the streams of one episode.
var streamsCmd = &cobra.Command{
	Use:   "streams <id>",
	Short: "Resolve the playable streams of an episode",
	Long: `Resolve the playable streams of an episode.

The id is either kisskh:<series>[:<episode>] (a bare <series> works too, the first episode is
used when none is given) or an IMDb reference tt<digits>[:<season>:<episode>].`,
	Example: "  kissbridge streams kisskh:8123:152001\n  kissbridge streams tt13623148:1:3 --type series",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		streams := bridge.FromConfig().Streams(ctx, kindOf(cmd), publicID(args[0]))

		if asJson(cmd) {
			printJson(cmd, lo.Ternary(streams == nil, []*source.Stream{}, streams))
			return
		}

		if len(streams) == 0 {
			handleErr(errors.New("no streams found"))
		}

		for i, s := range streams {
			cmd.Printf("%s %s %s\n", icon.Get(icon.Stream), style.Bold(s.Name), style.Tag(color.New("0"), color.Yellow)(s.Quality))
			cmd.Println(style.Faint(strings.ReplaceAll(s.Title, "\n", " / ")))
			cmd.Println(shortURL(cmd, s.URL))
			names := lo.Keys(s.Headers)
			slices.Sort(names)
			for _, name := range names {
				cmd.Printf("%s %s\n", style.Fg(color.Purple)(name+":"), s.Headers[name])
			}
			for _, sub := range s.Subtitles {
				cmd.Printf("%s %s %s\n", icon.Get(icon.Subtitle), style.Fg(color.Blue)(sub.Lang), shortURL(cmd, sub.URL))
			}

			if i < len(streams)-1 {
				cmd.Println()
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(subtitlesCmd)
	addKindFlag(subtitlesCmd)
	addJsonFlag(subtitlesCmd)
	subtitlesCmd.Flags().BoolP("full", "f", false, "Print URLs without shortening them")
	subtitlesCmd.SetOut(os.Stdout)
}

// subtitlesCmd lists every subtitle track of one episode.
var subtitlesCmd = &cobra.Command{
	Use:   "subtitles <id>",
	Short: "List every subtitle track of an episode",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		subtitles := bridge.FromConfig().Subtitles(ctx, kindOf(cmd), publicID(args[0]))

		if asJson(cmd) {
			printJson(cmd, lo.Ternary(subtitles == nil, []*source.Subtitle{}, subtitles))
			return
		}

		if len(subtitles) == 0 {
			handleErr(errors.New("no subtitles found"))
		}

		for _, sub := range subtitles {
			cmd.Printf("%s %s %s\n", icon.Get(icon.Subtitle), style.Fg(color.Blue)(sub.Lang), shortURL(cmd, sub.URL))
		}
	},
}
