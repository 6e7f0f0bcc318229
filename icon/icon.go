// Package icon renders the status symbols printed by CLI commands.
//
// Icons are displayed as emoji, nerd-font glyphs or plain ASCII depending on user preference.
package icon

import (
	"github.com/kissbridge/kissbridge/key"
	"github.com/spf13/viper"
)

const (
	emoji = "emoji"
	nerd  = "nerd"
	plain = "plain"
)

// AvailableVariants returns the supported icon styles.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain}
}

type iconDef struct {
	emoji string
	nerd  string
	plain string
}

func (d *iconDef) get() string {
	switch viper.GetString(key.CliIcons) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	default:
		return ""
	}
}

// Icon identifies a status symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Warn
	Progress
	Stream
	Subtitle
	Key
)

var icons = map[Icon]*iconDef{
	Success:  {emoji: "🎉", nerd: "", plain: "✓"},
	Fail:     {emoji: "💀", nerd: "", plain: "✖"},
	Warn:     {emoji: "⚠️", nerd: "", plain: "!"},
	Progress: {emoji: "⏳", nerd: "", plain: "…"},
	Stream:   {emoji: "🎬", nerd: "", plain: "▶"},
	Subtitle: {emoji: "💬", nerd: "", plain: "≡"},
	Key:      {emoji: "🔑", nerd: "", plain: "*"},
}

// Get returns the rendering of i for the configured variant.
func Get(i Icon) string {
	return icons[i].get()
}
