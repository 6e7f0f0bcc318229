package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kissbridge/kissbridge/addon"
	"github.com/kissbridge/kissbridge/color"
	"github.com/kissbridge/kissbridge/inline"
	"github.com/kissbridge/kissbridge/source"
	"github.com/kissbridge/kissbridge/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// schemaTargets maps each target to a value of the document it describes.
var schemaTargets = map[string]any{
	"manifest":  &addon.Manifest{},
	"catalog":   map[string][]addon.Meta{},
	"meta":      map[string]*addon.Meta{},
	"stream":    map[string][]addon.Stream{},
	"subtitles": map[string][]addon.Subtitle{},
	"streams":   []*source.Stream{},
	"inline":    &inline.Output{},
}

func init() {
	rootCmd.AddCommand(schemaCmd)

	schemaCmd.Flags().StringP("target", "t", "inline", "Document to describe: "+strings.Join(lo.Keys(schemaTargets), ", "))
	lo.Must0(schemaCmd.RegisterFlagCompletionFunc("target", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return lo.Keys(schemaTargets), cobra.ShellCompDirectiveNoFileComp
	}))
	schemaCmd.SetOut(os.Stdout)
}

// schemaCmd generates JSON schemas for the documents kissbridge emits.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schemas for addon responses and structured CLI output",
	Run: func(cmd *cobra.Command, args []string) {
		target := lo.Must(cmd.Flags().GetString("target"))
		value, ok := schemaTargets[target]
		if !ok {
			handleErr(fmt.Errorf("unknown schema target %s", style.Fg(color.Red)(target)))
		}

		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "item", "episode", "stream", "subtitle", "meta", "output":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		printJson(cmd, reflector.Reflect(value))
	},
}
