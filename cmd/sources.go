package cmd

import (
	"os"

	"github.com/kissbridge/kissbridge/color"
	"github.com/kissbridge/kissbridge/provider"
	"github.com/kissbridge/kissbridge/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)

	sourcesCmd.Flags().BoolP("raw", "r", false, "Suppress headers and print provider ids only")
	sourcesCmd.SetOut(os.Stdout)
}

// sourcesCmd lists the catalog providers and their search categories.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Display the catalog providers and their search categories",
	Run: func(cmd *cobra.Command, args []string) {
		raw := lo.Must(cmd.Flags().GetBool("raw"))
		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render

		for i, p := range provider.Builtins() {
			if raw {
				cmd.Println(p.ID)
				continue
			}

			cmd.Printf("%s %s\n", headerStyle(p.Name), style.Faint("("+p.ID+")"))
			for _, c := range p.Categories {
				cmd.Printf("  %s %s %s\n", style.Fg(color.Yellow)(c.Slug), c.Name, style.Faint(string(c.Kind)))
			}

			if i < len(provider.Builtins())-1 {
				cmd.Println()
			}
		}
	},
}
