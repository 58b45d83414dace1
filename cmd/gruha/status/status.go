// Package statuscmder provides the status command for displaying the
// resolved gateway settings and the saved chat session.
package statuscmder

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gruhabuddy/gruha/pkg/cliui"
	"github.com/gruhabuddy/gruha/pkg/config"
	"github.com/gruhabuddy/gruha/pkg/dotdir"
	"github.com/gruhabuddy/gruha/pkg/utils"
)

const statusLongDesc string = `Show the current gruha state.

Displays the resolved gateway settings, whether a gateway API key is set in
the environment, and the conversation "gruha chat" will resume from.

Examples:
  gruha status`

const statusShortDesc string = "Show gateway settings and the saved chat"

func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: statusShortDesc,
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runStatus(cmd.OutOrStdout(), configDir)
		},
	}

	return cmd
}

func runStatus(w io.Writer, configDir string) error {
	v, err := config.InitViper(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	credential := cliui.SuccessMark + " set"
	if v.GetString(config.KeyGatewayAPIKey) == "" {
		credential = cliui.FailMark + " " + cliui.WarnStyle.Render("not set ("+config.EnvGatewayAPIKey+")")
	}

	fmt.Fprintf(w, "\n  %s  %s\n", cliui.KeyStyle.Render("Gateway: "), cliui.ValueStyle.Render(v.GetString("gateway.endpoint")))
	fmt.Fprintf(w, "  %s  %s %s\n", cliui.KeyStyle.Render("Model:   "),
		cliui.NameStyle.Render(v.GetString("gateway.model")),
		cliui.DimStyle.Render("("+v.GetString("gateway.provider")+")"),
	)
	fmt.Fprintf(w, "  %s  %s\n\n", cliui.KeyStyle.Render("API key: "), credential)

	session, err := dotdir.NewManager().LoadChatSession(configDir)
	if err != nil {
		return fmt.Errorf("loading chat session: %w", err)
	}

	if session == nil || len(session.Messages) == 0 {
		fmt.Fprintf(w, "  %s No saved chat. Next chat will start a new conversation.\n\n", cliui.DimStyle.Render("●"))
		return nil
	}

	fmt.Fprintf(w, "  %s  %s %s\n\n",
		cliui.KeyStyle.Render("Chat:    "),
		cliui.NameStyle.Render(strconv.Itoa(len(session.Messages))+" messages"),
		cliui.DimStyle.Render("updated "+session.UpdatedAt.Local().Format("2006-01-02 15:04")),
	)

	for i, msg := range session.Messages {
		preview := utils.Truncate(msg.Content, 72)
		fmt.Fprintf(w, "  %s %s %s\n",
			cliui.DimStyle.Render(fmt.Sprintf("%d.", i+1)),
			cliui.RoleStyle.Render("["+msg.Role+"]"),
			cliui.PreviewStyle.Render(preview),
		)
	}

	fmt.Fprintln(w)
	return nil
}
