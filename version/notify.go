package version

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kissbridge/kissbridge/color"
	"github.com/kissbridge/kissbridge/constant"
	"github.com/kissbridge/kissbridge/icon"
	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/style"
	"github.com/kissbridge/kissbridge/util"
	"github.com/spf13/viper"
)

// Notify prints an alert to stderr when a newer release is available.
// It is a no-op unless cli.version_check is enabled.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Fprintf(os.Stderr, `
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/"+constant.Repository+"/releases/tag/v"+latest),
	)
}
