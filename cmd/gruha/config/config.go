// Package configcmder provides the config command for managing persistent
// gruha configuration stored in the .gruha/ directory.
package configcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gruhabuddy/gruha/pkg/cliui"
	"github.com/gruhabuddy/gruha/pkg/config"
)

const configLongDesc string = `Manage persistent gruha configuration.

Configuration is stored as config.toml in the .gruha/ directory and provides
default values for command flags. CLI flags and GRUHA_ environment variables
always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  dispatcher.listen, api.listen,
  gateway.provider, gateway.endpoint, gateway.model,
  gateway.temperature, gateway.timeout,
  events.brokers, events.topic,
  client.dispatcher_target, client.api_target

The gateway API key is never stored in the config file. Set
GRUHA_GATEWAY_API_KEY or LOVABLE_API_KEY instead.

Use subcommands to get, set, or list configuration values:
  gruha config set <key> <value>    Set a configuration value
  gruha config get <key>            Get a configuration value
  gruha config list                 List all configuration values

Examples:
  gruha config set gateway.provider ollama
  gruha config set events.brokers localhost:9092
  gruha config get gateway.model
  gruha config list`

const configShortDesc string = "Manage persistent gruha configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

func checkKey(key string) error {
	if !config.IsValidConfigKey(key) {
		return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
			key, strings.Join(config.ValidConfigKeys(), ", "))
	}
	return nil
}

func printTarget(w io.Writer, cfger *config.Configer) {
	target := cfger.GetTarget()
	if target != "" {
		fmt.Fprintf(w, "\n  %s %s\n\n",
			cliui.KeyStyle.Render("Config file:"),
			cliui.DimStyle.Render(target),
		)
	} else {
		fmt.Fprintf(w, "\n  %s\n\n", cliui.DimStyle.Render("No config file found. Using defaults."))
	}
}
