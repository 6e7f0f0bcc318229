package cmd

import (
	"net"
	"strconv"

	"github.com/kissbridge/kissbridge/addon"
	"github.com/kissbridge/kissbridge/bridge"
	"github.com/kissbridge/kissbridge/key"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 0, "Port the addon server listens on")
	lo.Must0(viper.BindPFlag(key.AddonPort, serveCmd.Flags().Lookup("port")))

	serveCmd.Flags().String("host", "", "Interface to bind. All interfaces when empty")
}

// serveCmd runs the addon HTTP server until interrupted.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the addon server",
	Long: `Run the addon server exposing the manifest, catalog, meta, stream and subtitle resources.

Install it in a player by pointing it at http://<host>:<port>/manifest.json`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signalContext()
		defer stop()

		addr := net.JoinHostPort(
			lo.Must(cmd.Flags().GetString("host")),
			strconv.Itoa(viper.GetInt(key.AddonPort)),
		)

		handleErr(addon.FromConfig(bridge.FromConfig()).ListenAndServe(ctx, addr))
	},
}
