package config

import (
	"strings"
	"time"

	"github.com/gruhabuddy/gruha/pkg/gateway"
	"github.com/gruhabuddy/gruha/pkg/llm/provider"
)

const (
	defaultDispatcherListen = ":8080"
	defaultAPIListen        = ":8081"

	defaultClientDispatcherTarget = "http://localhost:8080"
	defaultClientAPITarget        = "http://localhost:8081"

	defaultEventsTopic = "gruha.design.events"

	ollamaEndpoint = "http://localhost:11434/api/chat"
	ollamaModel    = "llama3.2"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Dispatcher: DispatcherConfig{
			Listen: defaultDispatcherListen,
		},
		API: APIConfig{
			Listen: defaultAPIListen,
		},
		Gateway: GatewayConfig{
			Provider:    provider.OpenAI,
			Endpoint:    gateway.DefaultEndpoint,
			Model:       gateway.DefaultModel,
			Temperature: gateway.DefaultTemperature,
		},
		Events: EventsConfig{
			Topic: defaultEventsTopic,
		},
		Client: ClientConfig{
			DispatcherTarget: defaultClientDispatcherTarget,
			APITarget:        defaultClientAPITarget,
		},
	}
}

// ParseTimeout parses a gateway timeout. The empty string means no timeout.
func ParseTimeout(v string) (time.Duration, error) {
	if strings.TrimSpace(v) == "" {
		return 0, nil
	}
	return time.ParseDuration(v)
}

// SplitList splits a comma separated value, dropping blanks.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
