// Package initcmder provides the init command for initializing a local .gruha
// directory in the current working directory.
package initcmder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gruhabuddy/gruha/pkg/cliui"
	"github.com/gruhabuddy/gruha/pkg/config"
)

const (
	dirName    = ".gruha"
	configFile = "config.toml"

	// maxRemoteConfig bounds a fetched config.toml.
	maxRemoteConfig = 1 << 20
)

const initLongDesc string = `Initialize a new .gruha/ directory in the current working directory.

Creates a local .gruha/ directory that takes precedence over the default
~/.gruha/ directory for configuration and the saved chat session, and writes
a config.toml with default values.

--preset selects a gateway preset (lovable, ollama) or fetches a config.toml
from an http(s) URL. An existing config.toml is never overwritten.

Examples:
  gruha init
  gruha init --preset ollama
  gruha init --preset https://example.com/gruha/config.toml`

const initShortDesc string = "Initialize a local .gruha/ directory"

type initCommander struct {
	preset string
	out    io.Writer
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.out = cmd.OutOrStdout()
			return cmder.run()
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "", "Gateway preset ("+strings.Join(config.ValidPresetNames(), ", ")+") or config.toml URL")

	return cmd
}

func (c *initCommander) run() error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating .gruha directory: %w", err)
	}

	path := filepath.Join(dir, configFile)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(c.out, "  %s Already initialized: %s\n", cliui.DimStyle.Render("●"), dir)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading config: %w", err)
	}

	cfg, err := c.resolveConfig()
	if err != nil {
		return err
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "  %s Initialized .gruha directory: %s\n", cliui.SuccessMark, dir)
	fmt.Fprintf(c.out, "  %s %s %s\n",
		cliui.KeyStyle.Render("Gateway:"),
		cliui.ValueStyle.Render(cfg.Gateway.Provider),
		cliui.DimStyle.Render(cfg.Gateway.Endpoint),
	)
	return nil
}

func (c *initCommander) resolveConfig() (*config.Config, error) {
	switch {
	case c.preset == "":
		return config.NewDefaultConfig(), nil
	case strings.HasPrefix(c.preset, "http://"), strings.HasPrefix(c.preset, "https://"):
		return fetchConfig(c.preset)
	default:
		return config.PresetConfig(c.preset)
	}
}

// fetchConfig downloads and validates a remote config.toml.
func fetchConfig(url string) (*config.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching config: %s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteConfig))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg, err := config.ParseConfigTOML(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
