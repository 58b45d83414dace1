// Package services builds the long running gruha servers from resolved
// configuration. It is shared by "gruha serve" and its subcommands.
package services

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/api"
	"github.com/gruhabuddy/gruha/dispatcher"
	"github.com/gruhabuddy/gruha/pkg/config"
	"github.com/gruhabuddy/gruha/pkg/eventstream"
	"github.com/gruhabuddy/gruha/pkg/eventstream/kafka"
	"github.com/gruhabuddy/gruha/pkg/gateway"
)

// LoadViper resolves config for a serve command and binds the given
// registered flags on top of it.
func LoadViper(cmd *cobra.Command, registryKeys []string) (*viper.Viper, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")
	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	config.BindRegisteredFlags(v, cmd, config.ServeFlags, registryKeys)
	return v, nil
}

// NewGateway creates the gateway client from gateway.* settings and the
// environment credential.
func NewGateway(v *viper.Viper, logger *zap.Logger) (*gateway.Client, error) {
	timeout, err := config.GatewayTimeout(v)
	if err != nil {
		return nil, err
	}

	gw, err := gateway.New(gateway.Config{
		Endpoint:     v.GetString("gateway.endpoint"),
		APIKey:       v.GetString(config.KeyGatewayAPIKey),
		Model:        v.GetString("gateway.model"),
		Temperature:  v.GetFloat64("gateway.temperature"),
		ProviderType: v.GetString("gateway.provider"),
		Timeout:      timeout,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating gateway client: %w", err)
	}

	if v.GetString(config.KeyGatewayAPIKey) == "" && gw.Provider().RequiresAPIKey() {
		logger.Warn("no gateway API key configured, design requests will fail",
			zap.String("env", config.EnvGatewayAPIKey),
		)
	}

	return gw, nil
}

// NewPublisher returns a Kafka publisher when brokers are configured and
// nil otherwise, which disables event publishing.
func NewPublisher(v *viper.Viper, logger *zap.Logger) (eventstream.Publisher, error) {
	brokers := config.Brokers(v)
	if len(brokers) == 0 {
		logger.Debug("no kafka brokers configured, design events disabled")
		return nil, nil
	}

	pub, err := kafka.NewPublisher(kafka.Config{
		Brokers: brokers,
		Topic:   v.GetString("events.topic"),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}

	logger.Info("publishing design events to kafka",
		zap.Strings("brokers", brokers),
		zap.String("topic", v.GetString("events.topic")),
	)
	return pub, nil
}

// Dispatcher is a dispatcher together with the event publisher it owns.
type Dispatcher struct {
	*dispatcher.Dispatcher
	publisher eventstream.Publisher
}

// NewDispatcher wires a gateway client and optional publisher into a
// dispatcher listening on dispatcher.listen.
func NewDispatcher(v *viper.Viper, logger *zap.Logger) (*Dispatcher, error) {
	gw, err := NewGateway(v, logger)
	if err != nil {
		return nil, err
	}

	pub, err := NewPublisher(v, logger)
	if err != nil {
		return nil, err
	}

	d, err := dispatcher.New(dispatcher.Config{
		ListenAddr: v.GetString("dispatcher.listen"),
		Publisher:  pub,
	}, gw, logger)
	if err != nil {
		if pub != nil {
			_ = pub.Close()
		}
		return nil, fmt.Errorf("creating dispatcher: %w", err)
	}

	return &Dispatcher{Dispatcher: d, publisher: pub}, nil
}

// Close stops the server, drains queued events and closes the publisher.
func (d *Dispatcher) Close() error {
	err := d.Dispatcher.Close()
	if d.publisher != nil {
		err = errors.Join(err, d.publisher.Close())
	}
	return err
}

// NewAPIServer creates the API server on api.listen. A nil dispatcher
// leaves the MCP design tools unregistered.
func NewAPIServer(v *viper.Viper, d *Dispatcher, logger *zap.Logger) (*api.Server, error) {
	cfg := api.Config{
		ListenAddr: v.GetString("api.listen"),
	}
	if d != nil {
		cfg.Dispatcher = d
	}

	server, err := api.NewServer(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("creating api server: %w", err)
	}
	return server, nil
}
