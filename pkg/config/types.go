package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Config represents the persistent gruha configuration stored as config.toml
// in the .gruha/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version    int              `toml:"version"`
	Dispatcher DispatcherConfig `toml:"dispatcher"`
	API        APIConfig        `toml:"api"`
	Gateway    GatewayConfig    `toml:"gateway"`
	Events     EventsConfig     `toml:"events"`
	Client     ClientConfig     `toml:"client"`
}

// DispatcherConfig holds dispatcher server settings.
type DispatcherConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// APIConfig holds API server settings.
type APIConfig struct {
	Listen string `toml:"listen,omitempty"`
}

// GatewayConfig holds the upstream AI gateway settings. The API key is never
// stored here; it is read from GRUHA_GATEWAY_API_KEY or LOVABLE_API_KEY.
type GatewayConfig struct {
	Provider    string  `toml:"provider,omitempty"`
	Endpoint    string  `toml:"endpoint,omitempty"`
	Model       string  `toml:"model,omitempty"`
	Temperature float64 `toml:"temperature"`

	// Timeout is a Go duration string. Empty means no client timeout.
	Timeout string `toml:"timeout,omitempty"`
}

// EventsConfig holds the Kafka design event settings. No brokers disables
// publishing.
type EventsConfig struct {
	Brokers []string `toml:"brokers,omitempty"`
	Topic   string   `toml:"topic,omitempty"`
}

// ClientConfig holds settings for CLI commands that connect to the running
// dispatcher and API servers (e.g. gruha design, gruha chat).
// Values are full URLs (scheme + host + port).
type ClientConfig struct {
	DispatcherTarget string `toml:"dispatcher_target,omitempty"`
	APITarget        string `toml:"api_target,omitempty"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"dispatcher.listen": {
		get: func(c *Config) string { return c.Dispatcher.Listen },
		set: func(c *Config, v string) error { c.Dispatcher.Listen = v; return nil },
	},
	"api.listen": {
		get: func(c *Config) string { return c.API.Listen },
		set: func(c *Config, v string) error { c.API.Listen = v; return nil },
	},
	"gateway.provider": {
		get: func(c *Config) string { return c.Gateway.Provider },
		set: func(c *Config, v string) error { c.Gateway.Provider = v; return nil },
	},
	"gateway.endpoint": {
		get: func(c *Config) string { return c.Gateway.Endpoint },
		set: func(c *Config, v string) error { c.Gateway.Endpoint = v; return nil },
	},
	"gateway.model": {
		get: func(c *Config) string { return c.Gateway.Model },
		set: func(c *Config, v string) error { c.Gateway.Model = v; return nil },
	},
	"gateway.temperature": {
		get: func(c *Config) string { return strconv.FormatFloat(c.Gateway.Temperature, 'f', -1, 64) },
		set: func(c *Config, v string) error {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid value for gateway.temperature: %w", err)
			}
			if f < 0 || f > 2 {
				return fmt.Errorf("invalid value for gateway.temperature: %v is outside 0-2", f)
			}
			c.Gateway.Temperature = f
			return nil
		},
	},
	"gateway.timeout": {
		get: func(c *Config) string { return c.Gateway.Timeout },
		set: func(c *Config, v string) error {
			if _, err := ParseTimeout(v); err != nil {
				return fmt.Errorf("invalid value for gateway.timeout: %w", err)
			}
			c.Gateway.Timeout = v
			return nil
		},
	},
	"events.brokers": {
		get: func(c *Config) string { return strings.Join(c.Events.Brokers, ",") },
		set: func(c *Config, v string) error { c.Events.Brokers = SplitList(v); return nil },
	},
	"events.topic": {
		get: func(c *Config) string { return c.Events.Topic },
		set: func(c *Config, v string) error { c.Events.Topic = v; return nil },
	},
	"client.dispatcher_target": {
		get: func(c *Config) string { return c.Client.DispatcherTarget },
		set: func(c *Config, v string) error { c.Client.DispatcherTarget = v; return nil },
	},
	"client.api_target": {
		get: func(c *Config) string { return c.Client.APITarget },
		set: func(c *Config, v string) error { c.Client.APITarget = v; return nil },
	},
}
