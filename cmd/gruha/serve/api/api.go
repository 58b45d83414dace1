// Package apicmder provides the API gruha server cobra command.
package apicmder

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/cmd/gruha/serve/services"
	"github.com/gruhabuddy/gruha/pkg/config"
	"github.com/gruhabuddy/gruha/pkg/logger"
)

type apiCommander struct {
	listen string

	debug  bool
	viper  *viper.Viper
	logger *zap.Logger
}

const apiLongDesc string = `Run the GruhaBuddy API server.

Serves the design catalog, the furniture layout checker, the budget
allocator, Prometheus metrics and an MCP endpoint. Run standalone, the MCP
endpoint lists no tools; use "gruha serve" to serve the design and layout
tools alongside the dispatcher.`

const apiShortDesc string = "Run the GruhaBuddy API server"

func NewAPICmd() *cobra.Command {
	cmder := &apiCommander{}

	cmd := &cobra.Command{
		Use:   "api",
		Short: apiShortDesc,
		Long:  apiLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.viper, err = services.LoadViper(cmd, []string{config.FlagAPIListenStandalone})
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

	config.AddStringFlag(cmd, config.ServeFlags, config.FlagAPIListenStandalone, &cmder.listen)

	return cmd
}

func (c *apiCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	server, err := services.NewAPIServer(c.viper, nil, c.logger)
	if err != nil {
		return err
	}

	defer server.Shutdown()

	return server.Run()
}
