// Package servecmder provides the serve command with subcommands for running services.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	apicmder "github.com/gruhabuddy/gruha/cmd/gruha/serve/api"
	dispatchercmder "github.com/gruhabuddy/gruha/cmd/gruha/serve/dispatcher"
	"github.com/gruhabuddy/gruha/cmd/gruha/serve/services"
	"github.com/gruhabuddy/gruha/pkg/config"
	"github.com/gruhabuddy/gruha/pkg/logger"
)

type ServeCommander struct {
	flags config.FlagSet

	dispatcherListen string
	apiListen        string
	provider         string
	endpoint         string
	model            string
	temperature      float64
	timeout          string
	kafkaBrokers     string
	kafkaTopic       string

	debug  bool
	viper  *viper.Viper
	logger *zap.Logger
}

var serveFlags = []string{
	config.FlagDispatcherListen,
	config.FlagAPIListen,
	config.FlagProvider,
	config.FlagEndpoint,
	config.FlagModel,
	config.FlagTemperature,
	config.FlagTimeout,
	config.FlagKafkaBrokers,
	config.FlagKafkaTopic,
}

const serveLongDesc string = `Run GruhaBuddy services.

Use subcommands to run individual services or all services together:
  gruha serve              Run both the dispatcher and the API server together
  gruha serve dispatcher   Run just the AI request dispatcher
  gruha serve api          Run just the API server

The gateway API key is read from GRUHA_GATEWAY_API_KEY, falling back to
LOVABLE_API_KEY. A .env file in the working directory is loaded first.

When both servers run together the API server's MCP design tools answer
through the dispatcher.`

const serveShortDesc string = "Run GruhaBuddy services"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{
		flags: config.ServeFlags,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.viper, err = services.LoadViper(cmd, serveFlags)
			return err
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, cmder.flags, config.FlagDispatcherListen, &cmder.dispatcherListen)
	config.AddStringFlag(cmd, cmder.flags, config.FlagAPIListen, &cmder.apiListen)
	config.AddStringFlag(cmd, cmder.flags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, cmder.flags, config.FlagEndpoint, &cmder.endpoint)
	config.AddStringFlag(cmd, cmder.flags, config.FlagModel, &cmder.model)
	config.AddFloat64Flag(cmd, cmder.flags, config.FlagTemperature, &cmder.temperature)
	config.AddStringFlag(cmd, cmder.flags, config.FlagTimeout, &cmder.timeout)
	config.AddStringFlag(cmd, cmder.flags, config.FlagKafkaBrokers, &cmder.kafkaBrokers)
	config.AddStringFlag(cmd, cmder.flags, config.FlagKafkaTopic, &cmder.kafkaTopic)

	cmd.AddCommand(dispatchercmder.NewDispatcherCmd())
	cmd.AddCommand(apicmder.NewAPICmd())

	return cmd
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	d, err := services.NewDispatcher(c.viper, c.logger)
	if err != nil {
		return err
	}
	defer d.Close()

	apiServer, err := services.NewAPIServer(c.viper, d, c.logger)
	if err != nil {
		return err
	}
	defer apiServer.Shutdown()

	// Channel to capture errors from goroutines
	errChan := make(chan error, 2)

	go func() {
		if err := d.Run(); err != nil {
			errChan <- fmt.Errorf("dispatcher error: %w", err)
		}
	}()

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return nil
	}
}
