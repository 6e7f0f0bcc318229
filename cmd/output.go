package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/kissbridge/kissbridge/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// urlWidth caps URLs in human-readable output.
const urlWidth = 96

func addJsonFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false, "Format the output as JSON. Implied when stdout is not a terminal")
}

// asJson reports whether cmd should print JSON rather than styled text.
func asJson(cmd *cobra.Command) bool {
	return lo.Must(cmd.Flags().GetBool("json")) || !term.IsTerminal(int(os.Stdout.Fd()))
}

func printJson(cmd *cobra.Command, v any) {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	handleErr(encoder.Encode(v))
}

func shortURL(cmd *cobra.Command, u string) string {
	if lo.Must(cmd.Flags().GetBool("full")) {
		return u
	}
	return util.Shorten(u, urlWidth)
}

// signalContext is cancelled on interrupt or termination.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
