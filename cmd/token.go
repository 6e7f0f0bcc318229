package cmd

import (
	"errors"
	"os"

	"github.com/kissbridge/kissbridge/constant"
	"github.com/kissbridge/kissbridge/fetch"
	"github.com/kissbridge/kissbridge/token"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().BoolP("subtitle", "s", false, "Derive the subtitle token instead of the stream token")
	tokenCmd.Flags().String("uid", "", "Derive with a custom caller uid")
	tokenCmd.MarkFlagsMutuallyExclusive("subtitle", "uid")
	tokenCmd.SetOut(os.Stdout)
}

// tokenCmd derives one access token, useful to check the upstream script still evaluates.
var tokenCmd = &cobra.Command{
	Use:   "token <episodeId>",
	Short: "Derive the access token of an episode",
	Long: `Derive the access token the catalog expects for an episode.

The token script is scraped from the catalog landing page, unless token.override_script points
at a Lua script defining Token(episodeId, uid, appVersion, platformVersion, appName).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		uid := lo.Must(cmd.Flags().GetString("uid"))
		if uid == "" {
			uid = lo.Ternary(lo.Must(cmd.Flags().GetBool("subtitle")), constant.SubtitleUID, constant.StreamUID)
		}

		tok := token.FromConfig(fetch.FromConfig()).Derive(ctx, args[0], uid)
		if tok == "" {
			handleErr(errors.New("token derivation failed, run with logs.level=debug for details"))
		}

		cmd.Println(tok)
	},
}
