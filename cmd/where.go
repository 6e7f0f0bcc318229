package cmd

import (
	"os"

	"github.com/kissbridge/kissbridge/color"
	"github.com/kissbridge/kissbridge/style"
	"github.com/kissbridge/kissbridge/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// whereTarget is a filesystem location the application owns.
type whereTarget struct {
	name  string
	where func() string
	flag  string
	short string
}

var wherePaths = []whereTarget{
	{"Config", where.Config, "config", "c"},
	{"Scripts", where.Scripts, "scripts", "s"},
	{"Logs", where.Logs, "logs", "l"},
	{"Cache", where.Cache, "cache", ""},
	{"Queries", where.Queries, "queries", ""},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, t := range wherePaths {
		whereCmd.Flags().BoolP(t.flag, t.short, false, "Print only the "+t.name+" path")
	}

	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(wherePaths, func(t whereTarget, _ int) string {
		return t.flag
	})...)
	addJsonFlag(whereCmd)

	whereCmd.SetOut(os.Stdout)
}

// whereCmd displays the filesystem paths of application resources.
var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Display the filesystem paths of application resources",
	Long: `Display the filesystem paths of application resources.

Token override scripts referenced by token.override_script are usually kept in the scripts path.`,
	Run: func(cmd *cobra.Command, args []string) {
		if t, ok := lo.Find(wherePaths, func(t whereTarget) bool {
			return lo.Must(cmd.Flags().GetBool(t.flag))
		}); ok {
			cmd.Println(t.where())
			return
		}

		if asJson(cmd) {
			printJson(cmd, lo.SliceToMap(wherePaths, func(t whereTarget) (string, string) {
				return t.flag, t.where()
			}))
			return
		}

		headerStyle := style.New().Bold(true).Foreground(color.HiPurple).Render
		for i, t := range wherePaths {
			cmd.Printf("%s %s\n", headerStyle(t.name+"?"), style.Fg(color.Yellow)("--"+t.flag))
			cmd.Println(t.where())

			if i < len(wherePaths)-1 {
				cmd.Println()
			}
		}
	},
}
