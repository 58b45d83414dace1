package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline, so the same logical flag
// cannot drift between "gruha serve" and "gruha serve dispatcher".
type Flag struct {
	// Name is the long flag name (e.g. "endpoint").
	Name string

	// Shorthand is the one-letter short flag (e.g. "e"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "gateway.endpoint").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling AddStringFlag, AddFloat64Flag,
// and BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagDispatcherListen = "dispatcher-listen"
	FlagAPIListen        = "api-listen"
	FlagProvider         = "provider"
	FlagEndpoint         = "endpoint"
	FlagModel            = "model"
	FlagTemperature      = "temperature"
	FlagTimeout          = "timeout"
	FlagKafkaBrokers     = "kafka-brokers"
	FlagKafkaTopic       = "kafka-topic"
	FlagDispatcherTarget = "dispatcher-target"
	FlagAPITarget        = "api-target"

	// Standalone subcommand variants use "listen" as the flag name
	// but bind to different viper keys depending on the service.
	FlagDispatcherListenStandalone = "dispatcher-listen-standalone"
	FlagAPIListenStandalone        = "api-listen-standalone"
)

// ServeFlags are shared by every serve command.
var ServeFlags = FlagSet{
	FlagDispatcherListen:           {Name: "dispatcher-listen", Shorthand: "p", ViperKey: "dispatcher.listen", Description: "Address for the dispatcher to listen on"},
	FlagAPIListen:                  {Name: "api-listen", Shorthand: "a", ViperKey: "api.listen", Description: "Address for the API server to listen on"},
	FlagDispatcherListenStandalone: {Name: "listen", Shorthand: "l", ViperKey: "dispatcher.listen", Description: "Address for the dispatcher to listen on"},
	FlagAPIListenStandalone:        {Name: "listen", Shorthand: "l", ViperKey: "api.listen", Description: "Address for the API server to listen on"},
	FlagProvider:                   {Name: "provider", ViperKey: "gateway.provider", Description: "Gateway wire format (openai, ollama)"},
	FlagEndpoint:                   {Name: "endpoint", Shorthand: "e", ViperKey: "gateway.endpoint", Description: "Gateway chat completions URL"},
	FlagModel:                      {Name: "model", Shorthand: "m", ViperKey: "gateway.model", Description: "Model requested from the gateway"},
	FlagTemperature:                {Name: "temperature", ViperKey: "gateway.temperature", Description: "Sampling temperature sent with every request"},
	FlagTimeout:                    {Name: "timeout", ViperKey: "gateway.timeout", Description: "Gateway call timeout, e.g. 60s (default: none)"},
	FlagKafkaBrokers:               {Name: "kafka-brokers", ViperKey: "events.brokers", Description: "Comma separated Kafka brokers for design events (default: disabled)"},
	FlagKafkaTopic:                 {Name: "kafka-topic", ViperKey: "events.topic", Description: "Kafka topic for design events"},
}

// ClientFlags are shared by commands that talk to running servers.
var ClientFlags = FlagSet{
	FlagDispatcherTarget: {Name: "dispatcher-target", Shorthand: "t", ViperKey: "client.dispatcher_target", Description: "Dispatcher URL"},
	FlagAPITarget:        {Name: "api-target", ViperKey: "client.api_target", Description: "API server URL"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddFloat64Flag registers a float64 flag on cmd from the given FlagSet.
func AddFloat64Flag(cmd *cobra.Command, fs FlagSet, key string, target *float64) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultFloat64(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().Float64VarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().Float64Var(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaultString returns the default string value for a viper key from NewDefaultConfig.
func defaultString(viperKey string) string {
	v := viper.New()
	setViperDefaults(v)
	return v.GetString(viperKey)
}

// defaultFloat64 returns the default float64 value for a viper key from NewDefaultConfig.
func defaultFloat64(viperKey string) float64 {
	v := viper.New()
	setViperDefaults(v)
	return v.GetFloat64(viperKey)
}
