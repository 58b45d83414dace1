// Package designcmder provides the design command, which sends one design
// action to a running dispatcher and renders the answer.
package designcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gruhabuddy/gruha/dispatcher"
	"github.com/gruhabuddy/gruha/pkg/cliui"
	"github.com/gruhabuddy/gruha/pkg/config"
	"github.com/gruhabuddy/gruha/pkg/design"
)

type designCommander struct {
	dispatcherTarget string
	data             string
	sets             []string
	rawJSON          bool

	out io.Writer
}

const designLongDesc string = `Request design advice from a running dispatcher.

Actions:
  analyze-room            Analyze a room and suggest furniture and colors
  theme-recommendations   Plan a room in a theme pack
  color-suggestions       Suggest paint palettes for a mood
  budget-optimize         Split a budget in INR across categories

Action data can be passed as a JSON object with --data, and individual
fields can be set with --set using dotted keys. Values that parse as JSON
are sent as JSON, everything else as a string. Unset fields take the
dispatcher's defaults.

Examples:
  gruha design analyze-room --set roomType=Kitchen --set dimensions.length=14
  gruha design color-suggestions --set mood=Energetic
  gruha design budget-optimize --data '{"totalBudget":250000}' --json`

const designShortDesc string = "Request AI design advice"

func NewDesignCmd() *cobra.Command {
	cmder := &designCommander{}

	cmd := &cobra.Command{
		Use:       "design <action>",
		Short:     designShortDesc,
		Long:      designLongDesc,
		Args:      cobra.ExactArgs(1),
		ValidArgs: actionNames(),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.ClientFlags, []string{config.FlagDispatcherTarget})
			cmder.dispatcherTarget = v.GetString("client.dispatcher_target")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.out = cmd.OutOrStdout()
			return cmder.run(args[0])
		},
	}

	config.AddStringFlag(cmd, config.ClientFlags, config.FlagDispatcherTarget, &cmder.dispatcherTarget)
	cmd.Flags().StringVar(&cmder.data, "data", "", "Action data as a JSON object")
	cmd.Flags().StringArrayVarP(&cmder.sets, "set", "s", nil, "Set one data field, e.g. roomType=Kitchen")
	cmd.Flags().BoolVar(&cmder.rawJSON, "json", false, "Print the result as JSON instead of rendering it")

	return cmd
}

func actionNames() []string {
	names := []string{}
	for _, a := range design.Actions() {
		names = append(names, a.String())
	}
	return names
}

func (c *designCommander) run(name string) error {
	action, err := design.ParseAction(name)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(actionNames(), ", "))
	}

	data, err := buildData(c.data, c.sets)
	if err != nil {
		return err
	}

	var envelope design.Envelope
	err = cliui.Step(os.Stderr, fmt.Sprintf("Asking GruhaBuddy (%s)", action), func() error {
		var err error
		envelope, err = c.send(design.Request{Action: action.String(), Data: data})
		return err
	})
	if err != nil {
		return err
	}

	if envelope.IsError() {
		return errors.New(envelope.Message())
	}

	if c.rawJSON {
		var buf bytes.Buffer
		if err := json.Indent(&buf, envelope.Result(), "", "  "); err != nil {
			return fmt.Errorf("formatting result: %w", err)
		}
		fmt.Fprintln(c.out, buf.String())
		return nil
	}

	res, err := renderResult(action, envelope.Result())
	if err != nil {
		return err
	}

	rendered, err := cliui.RenderMarkdown(res.markdown)
	if err != nil {
		// Fall back to the plain markdown
		fmt.Fprintln(c.out, res.markdown)
	} else {
		fmt.Fprint(c.out, rendered)
	}

	if len(res.colors) > 0 {
		fmt.Fprintf(c.out, "\n  %s\n", cliui.Palette(res.colors))
	}
	return nil
}

// send posts the request to the dispatcher and decodes the envelope from
// any status, since failures carry their message in the body.
func (c *designCommander) send(req design.Request) (design.Envelope, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return design.Envelope{}, fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.dispatcherTarget, "/") + dispatcher.RouteFunction
	httpReq, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return design.Envelope{}, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{
		// Model answers can be slow
		Timeout: 5 * time.Minute,
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return design.Envelope{}, fmt.Errorf("sending request to dispatcher: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return design.Envelope{}, fmt.Errorf("reading response: %w", err)
	}

	var envelope design.Envelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return design.Envelope{}, fmt.Errorf("dispatcher returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return envelope, nil
}

// buildData merges the --data object with --set assignments. Dotted keys
// create nested objects.
func buildData(raw string, sets []string) (json.RawMessage, error) {
	if raw == "" && len(sets) == 0 {
		return nil, nil
	}

	data := map[string]any{}
	if raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil || data == nil {
			return nil, fmt.Errorf("--data must be a JSON object")
		}
	}

	for _, set := range sets {
		key, value, ok := strings.Cut(set, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", set)
		}

		parts := strings.Split(key, ".")
		node := data
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[part] = child
			}
			node = child
		}
		node[parts[len(parts)-1]] = parseValue(value)
	}

	out, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshaling data: %w", err)
	}
	return out, nil
}

func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}
