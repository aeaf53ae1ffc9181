package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"fincopilot/config"
	"fincopilot/model"
	"fincopilot/theme"
	"fincopilot/transport"
	"fincopilot/ui"
)

const (
	Version = "v0.1.0"
	License = "Apache-2.0"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	rootCmd := &cobra.Command{
		Use:           "fincopilot",
		Short:         "Chat with your Finance Copilot from the terminal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, flags)
		},
	}

	flags.register(rootCmd)

	rootCmd.AddCommand(
		newHealthCmd(flags),
		newRememberCmd(flags),
		newMemoryCmd(flags),
		newConfigCmd(flags),
	)

	return rootCmd
}

func runChat(cmd *cobra.Command, flags *cliFlags) error {
	config.InitDebugLog(config.GetCacheDir())

	cfg, err := flags.loadConfig(cmd)
	if err != nil {
		return showStartupError("Configuration Error", err)
	}

	client, err := transport.NewClient(cfg.Endpoint, cfg.BaseURL())
	if err != nil {
		return showStartupError("Configuration Error", err)
	}

	mode, err := theme.ParseMode(cfg.Theme)
	if err != nil {
		return showStartupError("Configuration Error", err)
	}

	// Probe before the program owns the terminal
	themes := theme.NewDefaultSource(mode)
	lipgloss.SetHasDarkBackground(themes.Dark())

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sub := themes.Subscribe(ctx, cfg.ThemePollInterval.Duration)
	defer sub.Close()

	log.Debug().
		Str("endpoint", client.Endpoint()).
		Str("session_id", cfg.SessionID).
		Str("theme", string(mode)).
		Bool("dark", themes.Dark()).
		Msg("starting chat")

	dataModel := model.NewModel(ctx, cfg, client, themes.Dark(), Version, License)

	p := tea.NewProgram(
		ui.NewAppView(dataModel, themes, sub),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running fincopilot: %w", err)
	}
	return nil
}

// showStartupError shows err full screen until the user acknowledges it,
// then hands it back so the process exits non-zero.
func showStartupError(title string, err error) error {
	log.Error().Err(err).Msg(title)

	p := tea.NewProgram(
		ui.NewErrorModal(title, err.Error()),
		tea.WithAltScreen(),
	)
	if _, runErr := p.Run(); runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
	}
	return err
}
