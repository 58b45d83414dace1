// Package gruhacmder
package gruhacmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/gruhabuddy/gruha/cmd/gruha/chat"
	configcmder "github.com/gruhabuddy/gruha/cmd/gruha/config"
	designcmder "github.com/gruhabuddy/gruha/cmd/gruha/design"
	initcmder "github.com/gruhabuddy/gruha/cmd/gruha/init"
	servecmder "github.com/gruhabuddy/gruha/cmd/gruha/serve"
	statuscmder "github.com/gruhabuddy/gruha/cmd/gruha/status"
	versioncmder "github.com/gruhabuddy/gruha/cmd/version"
)

const gruhaLongDesc string = `GruhaBuddy is an AI interior design assistant for Indian homes.

Run services using:
  gruha serve dispatcher   Run the AI request dispatcher
  gruha serve api          Run the catalog, layout, budget and MCP API server
  gruha serve              Run both servers together

Talk to a running dispatcher using:
  gruha design <action>    Request a room analysis, theme plan, palette or budget
  gruha chat               Chat with the design assistant`

const gruhaShortDesc string = "GruhaBuddy - AI Interior Design"

func NewGruhaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gruha",
		Short:         gruhaShortDesc,
		Long:          gruhaLongDesc,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .gruha/ config directory")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(designcmder.NewDesignCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
