package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/kissbridge/kissbridge/color"
	"github.com/kissbridge/kissbridge/constant"
	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Kissbridge + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// secrets are masked by Current.
var secrets = map[string]bool{
	key.RelayPassword: true,
}

// Current returns the effective value. Non-empty secrets are masked unless reveal is set.
func (f *Field) Current(reveal bool) any {
	value := viper.Get(f.Key)
	if secrets[f.Key] && !reveal && viper.GetString(f.Key) != "" {
		return "********"
	}
	return value
}

// MarshalJSON includes the current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       f.Current(false),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.UpstreamBaseURL, "https://kisskh.ovh", "Base URL of the catalog site.\nThe token script and every API call are resolved against it")
	register(key.FetchRetries, 3, "Maximum attempts per upstream request.\nOnly 502, 503, 504 and network errors are retried")
	register(key.FetchTimeout, 20, "Per-attempt timeout in seconds")
	register(key.FetchAPIBackoff, 1000, "Base backoff in milliseconds for catalog API calls.\nThe n-th retry waits n times this value")
	register(key.FetchStreamBackoff, 1500, "Base backoff in milliseconds for stream endpoint calls")
	register(key.FetchTLSFingerprint, true, "Present a Chrome TLS fingerprint to https upstreams")
	register(key.TokenTimeout, 5000, "Wall-clock limit in milliseconds for one token script evaluation")
	register(key.TokenFunction, "_0x54b991", "Name of the global token function exposed by the upstream bundle")
	register(key.TokenOverrideScript, "", "Path to a Lua script defining Token(...).\nWhen set it replaces the upstream JavaScript bundle")
	register(key.TokenInvalidateAfter, 0, "Drop the cached token script after this many consecutive stream failures.\n0 never invalidates")
	register(key.SubtitlesLanguage, "fr", "Two-letter code of the subtitle language a stream must offer to be listed")
	register(key.RelayURL, "", "MediaFlow proxy base URL used for the relayed stream")
	register(key.RelayPassword, "", "MediaFlow api_password.\nThe system keyring entry set by \"kissbridge relay login\" takes precedence")
	register(key.AddonPort, 7000, "Port the addon server listens on")
	register(key.AddonCatalogLimit, 20, "Maximum metas returned by a catalog listing")
	register(key.MetadataCinemetaURL, "https://cinemeta-live.strem.io", "Cinemeta base URL used to turn IMDb ids into titles")
	register(key.SearchRememberQueries, true, "Remember CLI search queries for completion suggestions")
	register(key.LogsWrite, false, "Write logs to a dated file instead of stderr")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliIcons, "plain", "Icon variant for CLI output.\nAvailable options are: emoji, nerd, plain")
	register(key.CliVersionCheck, false, "Check GitHub for a newer release after help and version output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (.Current false) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
