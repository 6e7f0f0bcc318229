// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kissbridge/kissbridge/constant"
	"github.com/kissbridge/kissbridge/filesystem"
	"github.com/kissbridge/kissbridge/key"
	"github.com/kissbridge/kissbridge/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer normalizes configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// legacyEnv maps keys to the unprefixed variables older deployments exported.
// The prefixed variable is listed first so it wins when both are set.
var legacyEnv = map[string]string{
	key.AddonPort:     "PORT",
	key.RelayURL:      "MEDIAFLOW_PROXY_URL",
	key.RelayPassword: "MEDIAFLOW_API_PASSWORD",
}

// Setup initializes the global configuration state: defaults, an optional .env file,
// environment bindings and the TOML config file.
func Setup() error {
	// A missing .env is the common case.
	_ = godotenv.Load()

	viper.SetConfigName(constant.Kissbridge)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Kissbridge)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}
	for k, legacy := range legacyEnv {
		field := Field{Key: k}
		viper.MustBindEnv(k, field.Env(), legacy)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}
