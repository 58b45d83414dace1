// Package chatcmder provides the chat command for an interactive
// conversation with the design assistant through a running dispatcher.
package chatcmder

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gruhabuddy/gruha/dispatcher"
	"github.com/gruhabuddy/gruha/pkg/cliui"
	"github.com/gruhabuddy/gruha/pkg/config"
	"github.com/gruhabuddy/gruha/pkg/design"
	"github.com/gruhabuddy/gruha/pkg/dotdir"
	"github.com/gruhabuddy/gruha/pkg/logger"
	"github.com/gruhabuddy/gruha/pkg/sse"
)

var (
	userPrompt      = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true).Render("you> ")
	assistantPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Render("gruha> ")
)

type chatCommander struct {
	dispatcherTarget string
	configDir        string
	fresh            bool
	debug            bool

	in     io.Reader
	out    io.Writer
	errOut io.Writer
	logger *zap.Logger
}

// streamChunk is the part of an OpenAI style stream chunk the chat reads.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

const chatLongDesc string = `Start an interactive chat with the GruhaBuddy design assistant.

Messages are sent to the dispatcher's /chat endpoint and replies stream in
as they are generated. The conversation is saved in the .gruha/ directory
and resumed by the next "gruha chat"; pass --new to start over.

Type /exit or press Ctrl+D to quit.

Examples:
  gruha chat
  gruha chat --new --dispatcher-target http://localhost:8080`

const chatShortDesc string = "Chat with the design assistant"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.ClientFlags, []string{config.FlagDispatcherTarget})
			cmder.dispatcherTarget = v.GetString("client.dispatcher_target")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			cmder.in = cmd.InOrStdin()
			cmder.out = cmd.OutOrStdout()
			cmder.errOut = cmd.ErrOrStderr()
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.ClientFlags, config.FlagDispatcherTarget, &cmder.dispatcherTarget)
	cmd.Flags().BoolVar(&cmder.fresh, "new", false, "Discard the saved conversation and start a new one")

	return cmd
}

func (c *chatCommander) run() error {
	c.logger = logger.New(logger.WithDebug(c.debug), logger.WithWriters(c.errOut))
	defer func() { _ = c.logger.Sync() }()

	manager := dotdir.NewManager()
	if c.fresh {
		if err := manager.ClearChatSession(c.configDir); err != nil {
			return fmt.Errorf("clearing chat session: %w", err)
		}
	}

	session, err := manager.LoadChatSession(c.configDir)
	if err != nil {
		return fmt.Errorf("loading chat session: %w", err)
	}
	if session == nil {
		session = &dotdir.ChatSession{}
	}

	fmt.Fprintln(c.out)
	if len(session.Messages) > 0 {
		fmt.Fprintf(c.out, "  %s Resuming conversation %s\n",
			cliui.SuccessMark,
			cliui.DimStyle.Render("("+strconv.Itoa(len(session.Messages))+" messages)"),
		)
	} else {
		fmt.Fprintf(c.out, "  %s New conversation\n", cliui.DimStyle.Render("●"))
	}
	fmt.Fprintf(c.out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(c.in)

	for {
		fmt.Fprint(c.out, userPrompt)
		if !scanner.Scan() {
			// EOF or error
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/exit" {
			break
		}

		session.Messages = append(session.Messages, dotdir.ChatMessage{Role: "user", Content: input})

		reply, err := c.sendAndStream(session.Messages)
		if err != nil {
			fmt.Fprintf(c.errOut, "  %s %v\n", cliui.FailMark, err)
			// Drop the failed turn so it can be retried
			session.Messages = session.Messages[:len(session.Messages)-1]
			continue
		}

		session.Messages = append(session.Messages, dotdir.ChatMessage{Role: "assistant", Content: reply})
		session.UpdatedAt = time.Now().UTC()
		if err := manager.SaveChatSession(session, c.configDir); err != nil {
			c.logger.Warn("could not save chat session", zap.Error(err))
		}

		fmt.Fprintln(c.out)
		fmt.Fprintln(c.out)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(c.out)
	return nil
}

// sendAndStream posts the conversation to the dispatcher and prints the
// streamed reply. Returns the full assistant text.
func (c *chatCommander) sendAndStream(messages []dotdir.ChatMessage) (string, error) {
	body, err := json.Marshal(map[string]any{"messages": messages})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	c.logger.Debug("sending chat request",
		zap.String("dispatcher_target", c.dispatcherTarget),
		zap.Int("message_count", len(messages)),
	)

	url := strings.TrimRight(c.dispatcherTarget, "/") + dispatcher.RouteChat
	httpReq, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	client := &http.Client{
		// Replies stream for as long as the model writes
		Timeout: 5 * time.Minute,
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request to dispatcher: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		var envelope design.Envelope
		if json.Unmarshal(respBody, &envelope) == nil && envelope.IsError() {
			return "", errors.New(envelope.Message())
		}
		return "", fmt.Errorf("dispatcher returned status %d: %s", resp.StatusCode, string(respBody))
	}

	fmt.Fprint(c.out, assistantPrompt)
	return c.readStream(resp.Body)
}

// readStream prints each streamed delta and returns the accumulated text.
func (c *chatCommander) readStream(r io.Reader) (string, error) {
	var full strings.Builder
	reader := sse.NewReader(r)

	for {
		ev, err := reader.Next()
		if err != nil {
			return full.String(), fmt.Errorf("reading stream: %w", err)
		}
		if ev == nil || ev.Data == sse.DoneData {
			return full.String(), nil
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(ev.Data), &chunk); err != nil {
			c.logger.Debug("failed to parse stream chunk",
				zap.Error(err),
				zap.String("data", ev.Data),
			)
			continue
		}

		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				fmt.Fprint(c.out, choice.Delta.Content)
				full.WriteString(choice.Delta.Content)
			}
		}
	}
}
