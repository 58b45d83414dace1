// Package dispatchercmder provides the command that runs the AI request dispatcher.
package dispatchercmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/cmd/gruha/serve/services"
	"github.com/gruhabuddy/gruha/pkg/config"
	"github.com/gruhabuddy/gruha/pkg/logger"
)

type dispatcherCommander struct {
	listen       string
	provider     string
	endpoint     string
	model        string
	temperature  float64
	timeout      string
	kafkaBrokers string
	kafkaTopic   string

	debug  bool
	viper  *viper.Viper
	logger *zap.Logger
}

var dispatcherFlags = []string{
	config.FlagDispatcherListenStandalone,
	config.FlagProvider,
	config.FlagEndpoint,
	config.FlagModel,
	config.FlagTemperature,
	config.FlagTimeout,
	config.FlagKafkaBrokers,
	config.FlagKafkaTopic,
}

const dispatcherLongDesc string = `Run the AI request dispatcher.

The dispatcher accepts design requests on POST / and POST /room-design-ai,
builds a prompt for the requested action, calls the AI gateway once and
returns the model's answer as {"result": ...} or {"error": ...}.

POST /chat streams assistant replies as server-sent events.

Supported gateway wire formats: openai, ollama`

const dispatcherShortDesc string = "Run the AI request dispatcher"

func NewDispatcherCmd() *cobra.Command {
	cmder := &dispatcherCommander{}

	cmd := &cobra.Command{
		Use:   "dispatcher",
		Short: dispatcherShortDesc,
		Long:  dispatcherLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.viper, err = services.LoadViper(cmd, dispatcherFlags)
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

	config.AddStringFlag(cmd, config.ServeFlags, config.FlagDispatcherListenStandalone, &cmder.listen)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagProvider, &cmder.provider)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagEndpoint, &cmder.endpoint)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagModel, &cmder.model)
	config.AddFloat64Flag(cmd, config.ServeFlags, config.FlagTemperature, &cmder.temperature)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagTimeout, &cmder.timeout)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagKafkaBrokers, &cmder.kafkaBrokers)
	config.AddStringFlag(cmd, config.ServeFlags, config.FlagKafkaTopic, &cmder.kafkaTopic)

	return cmd
}

func (c *dispatcherCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	d, err := services.NewDispatcher(c.viper, c.logger)
	if err != nil {
		return err
	}
	defer d.Close()

	errChan := make(chan error, 1)
	go func() {
		errChan <- d.Run()
	}()

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
