package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"fincopilot/config"
	"fincopilot/transport"
)

// cliFlags are the overrides that win over the config file and environment
type cliFlags struct {
	configPath string
	endpoint   string
	sessionID  string
	name       string
	currency   string
	theme      string
	splash     bool
}

func (f *cliFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "path to config.toml (default "+config.GetConfigFilePath()+")")
	pf.StringVarP(&f.endpoint, "endpoint", "e", "", "chat endpoint URL")
	pf.StringVarP(&f.sessionID, "session-id", "s", "", `session identifier sent with every message ("auto" for a fresh one)`)

	fl := cmd.Flags()
	fl.StringVar(&f.name, "name", "", "your name, forwarded to the backend")
	fl.StringVar(&f.currency, "currency", "", "preferred currency, forwarded to the backend")
	fl.StringVar(&f.theme, "theme", "", "auto, dark or light")
	fl.BoolVar(&f.splash, "splash", false, "show the splash screen")
}

// overlayConfig layers defaults, file, environment and then the flags the
// user actually set. Nothing is resolved yet.
func (f *cliFlags) overlayConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(config.ExpandPath(f.configPath))
	if err != nil {
		return nil, err
	}

	changed := func(name string) bool {
		fl := cmd.Flags().Lookup(name)
		return fl != nil && fl.Changed
	}
	if changed("endpoint") {
		cfg.Endpoint = f.endpoint
	}
	if changed("session-id") {
		cfg.SessionID = f.sessionID
	}
	if changed("name") {
		cfg.Name = f.name
	}
	if changed("currency") {
		cfg.Currency = f.currency
	}
	if changed("theme") {
		cfg.Theme = f.theme
	}
	if changed("splash") {
		cfg.ShowSplash = f.splash
	}
	return cfg, nil
}

// loadConfig is overlayConfig plus validation and a resolved session id,
// ready for talking to the backend.
func (f *cliFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := f.overlayConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *cliFlags) client(cmd *cobra.Command) (*config.Config, *transport.Client, error) {
	cfg, err := f.loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	client, err := transport.NewClient(cfg.Endpoint, cfg.BaseURL())
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

func newHealthCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the backend is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := flags.client(cmd)
			if err != nil {
				return err
			}
			if err := client.Health(cmd.Context()); err != nil {
				return errors.Wrapf(err, "backend at %s is not healthy", cfg.BaseURL())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backend at %s is healthy\n", cfg.BaseURL())
			return nil
		},
	}
}

func newRememberCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "remember KEY VALUE",
		Short: "Store a preference in the session's memory",
		Long: "Store a preference in the session's memory. VALUE is parsed as JSON when\n" +
			"it is valid JSON (numbers, booleans, lists) and sent as a string otherwise.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := flags.client(cmd)
			if err != nil {
				return err
			}
			snap, err := client.Remember(cmd.Context(), cfg.SessionID, args[0], parseMemoryValue(args[1]))
			if err != nil {
				return err
			}
			return printMemory(cmd.OutOrStdout(), cfg.SessionID, snap)
		},
	}
}

func newMemoryCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "memory",
		Short: "Show what the backend remembers about the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := flags.client(cmd)
			if err != nil {
				return err
			}
			snap, err := client.Memory(cmd.Context(), cfg.SessionID)
			if err != nil {
				return err
			}
			return printMemory(cmd.OutOrStdout(), cfg.SessionID, snap)
		},
	}
}

func newConfigCmd(flags *cliFlags) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: "Print the effective configuration after the config file, FINCOPILOT_*\n" +
			"environment variables and flags are applied. With --save it is written\n" +
			"back to the config file.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// "auto" stays "auto" so every later run still gets a fresh session
			cfg, err := flags.overlayConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Check(); err != nil {
				return err
			}

			path := config.ExpandPath(flags.configPath)
			if path == "" {
				path = config.GetConfigFilePath()
			}

			if save {
				if err := config.SaveConfig(cfg, path); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved configuration to %s\n", path)
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", path)
			fmt.Fprintf(out, "endpoint    = %s\n", cfg.Endpoint)
			fmt.Fprintf(out, "session_id  = %s\n", cfg.SessionID)
			fmt.Fprintf(out, "theme       = %s\n", cfg.Theme)
			fmt.Fprintf(out, "reveal      = %s\n", cfg.RevealInterval.Duration)
			fmt.Fprintf(out, "send_delay  = %s\n", cfg.SendDelay.Duration)
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "write the effective configuration to the config file")
	return cmd
}

// parseMemoryValue keeps structured values structured: `3`, `true` and
// `["a","b"]` go out as JSON, anything else as a plain string.
func parseMemoryValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

func printMemory(w io.Writer, sessionID string, snap *transport.MemorySnapshot) error {
	fmt.Fprintf(w, "Session %s (%d messages in history)\n", sessionID, snap.HistorySize)
	if len(snap.Prefs) == 0 {
		fmt.Fprintln(w, "No preferences stored")
		return nil
	}

	keys := make([]string, 0, len(snap.Prefs))
	for k := range snap.Prefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v, err := json.Marshal(snap.Prefs[k])
		if err != nil {
			return errors.Wrapf(err, "encode preference %q", k)
		}
		fmt.Fprintf(w, "  %s = %s\n", k, v)
	}
	return nil
}
