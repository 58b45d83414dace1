package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gruhabuddy/gruha/pkg/dotdir"
)

const (
	// KeyGatewayAPIKey is the viper key for the gateway credential. It is
	// bound to the environment only and never written to config.toml.
	KeyGatewayAPIKey = "gateway.api_key"

	// EnvGatewayAPIKey is checked first for the gateway credential.
	EnvGatewayAPIKey = "GRUHA_GATEWAY_API_KEY"

	// EnvLovableAPIKey is the hosted gateway's own variable, used as a fallback.
	EnvLovableAPIKey = "LOVABLE_API_KEY"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the GRUHA_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (GRUHA_DISPATCHER_LISTEN, GRUHA_GATEWAY_MODEL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix("GRUHA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv(KeyGatewayAPIKey, EnvGatewayAPIKey, EnvLovableAPIKey); err != nil {
		return nil, fmt.Errorf("binding gateway credential: %w", err)
	}

	return v, nil
}

// Brokers returns events.brokers whether it was set as a TOML array or a
// comma separated string from a flag or the environment.
func Brokers(v *viper.Viper) []string {
	switch raw := v.Get("events.brokers").(type) {
	case string:
		return SplitList(raw)
	case nil:
		return nil
	default:
		return v.GetStringSlice("events.brokers")
	}
}

// GatewayTimeout returns gateway.timeout as a duration.
func GatewayTimeout(v *viper.Viper) (time.Duration, error) {
	d, err := ParseTimeout(v.GetString("gateway.timeout"))
	if err != nil {
		return 0, fmt.Errorf("invalid gateway.timeout: %w", err)
	}
	return d, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	v.SetDefault("dispatcher.listen", d.Dispatcher.Listen)
	v.SetDefault("api.listen", d.API.Listen)

	v.SetDefault("gateway.provider", d.Gateway.Provider)
	v.SetDefault("gateway.endpoint", d.Gateway.Endpoint)
	v.SetDefault("gateway.model", d.Gateway.Model)
	v.SetDefault("gateway.temperature", d.Gateway.Temperature)
	v.SetDefault("gateway.timeout", d.Gateway.Timeout)

	v.SetDefault("events.brokers", "")
	v.SetDefault("events.topic", d.Events.Topic)

	v.SetDefault("client.dispatcher_target", d.Client.DispatcherTarget)
	v.SetDefault("client.api_target", d.Client.APITarget)
}
