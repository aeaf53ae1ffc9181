// Package theme tracks whether the UI should use its dark or light palette.
// In auto mode it follows the operating system's appearance setting and
// falls back to the terminal background when the OS cannot be asked.
package theme

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeDark  Mode = "dark"
	ModeLight Mode = "light"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeDark, ModeLight:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown theme mode %q", s)
	}
}

// Probe answers "is the system in dark mode right now". ok=false means
// the answer is unknown.
type Probe func() (dark bool, ok bool)

// Source is the process-wide, read-only view of the current theme.
type Source struct {
	mode     Mode
	probe    Probe
	fallback bool

	mu   sync.RWMutex
	dark bool
}

// NewSource reads the preference once. fallback is used whenever the
// probe cannot answer.
func NewSource(mode Mode, probe Probe, fallback bool) *Source {
	if probe == nil {
		probe = SystemProbe
	}
	s := &Source{mode: mode, probe: probe, fallback: fallback}
	s.dark = s.read()
	return s
}

// NewDefaultSource uses the OS probe with the terminal background as
// fallback. Call it before the program takes over the terminal.
func NewDefaultSource(mode Mode) *Source {
	fallback := true
	if mode == ModeAuto {
		fallback = lipgloss.HasDarkBackground()
	}
	return NewSource(mode, SystemProbe, fallback)
}

func (s *Source) Mode() Mode {
	return s.mode
}

func (s *Source) Dark() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

func (s *Source) read() bool {
	switch s.mode {
	case ModeDark:
		return true
	case ModeLight:
		return false
	}
	if dark, ok := s.probe(); ok {
		return dark
	}
	return s.fallback
}

// refresh re-reads the preference and reports whether it changed
func (s *Source) refresh() (bool, bool) {
	dark := s.read()
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := dark != s.dark
	s.dark = dark
	return dark, changed
}

// Subscription delivers theme changes until closed
type Subscription struct {
	C <-chan bool

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Close stops watching and waits for the watcher to exit. Safe to call
// more than once.
func (sub *Subscription) Close() {
	sub.once.Do(func() {
		sub.cancel()
		<-sub.done
	})
}

// Subscribe polls the preference every interval and sends the new value
// whenever it flips. Pinned modes never change, so their channel stays
// quiet. The channel is closed when the subscription ends.
func (s *Source) Subscribe(ctx context.Context, interval time.Duration) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	ch := make(chan bool, 1)
	sub := &Subscription{C: ch, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(sub.done)
		defer close(ch)

		if s.mode != ModeAuto {
			<-ctx.Done()
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				dark, changed := s.refresh()
				if !changed {
					continue
				}
				log.Debug().Bool("dark", dark).Msg("system theme changed")
				select {
				case ch <- dark:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return sub
}

// SystemProbe asks the desktop for its appearance setting: macOS through
// `defaults`, GNOME-style desktops through `gsettings`.
func SystemProbe() (bool, bool) {
	switch runtime.GOOS {
	case "darwin":
		out, err := exec.Command("defaults", "read", "-g", "AppleInterfaceStyle").Output()
		if err != nil {
			// The key is absent in light mode
			if _, isExit := err.(*exec.ExitError); isExit {
				return false, true
			}
			return false, false
		}
		return strings.EqualFold(strings.TrimSpace(string(out)), "dark"), true
	case "linux", "freebsd", "openbsd":
		out, err := exec.Command("gsettings", "get", "org.gnome.desktop.interface", "color-scheme").Output()
		if err != nil {
			return false, false
		}
		return parseColorScheme(string(out))
	default:
		return false, false
	}
}

// parseColorScheme reads gsettings output such as 'prefer-dark'
func parseColorScheme(out string) (bool, bool) {
	v := strings.Trim(strings.TrimSpace(out), "'\"")
	switch v {
	case "prefer-dark":
		return true, true
	case "prefer-light", "default":
		return false, true
	default:
		return false, false
	}
}
