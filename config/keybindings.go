package config

import (
	"strings"
)

// KeyBindingsConfig holds modifier customization and optional per-action overrides
type KeyBindingsConfig struct {
	Modifiers ModifierConfig    `toml:"modifiers"`
	Actions   map[string]string `toml:"actions"` // Optional overrides for specific actions
}

type ModifierConfig struct {
	Primary   string `toml:"primary"`   // e.g., "alt", "ctrl", "meta", "super"
	Secondary string `toml:"secondary"` // e.g., "alt+shift", "ctrl+shift"
}

// actionDef defines the default modifier and key for an action
type actionDef struct {
	modifier string // "primary", "secondary", or "none"
	key      string
}

// actionRegistry maps action names to their default keybindings
// Users can override any of these in [keybindings.actions]
var actionRegistry = map[string]actionDef{
	"help":        {"primary", "h"},
	"suggestions": {"primary", "p"},
	"quit":        {"primary", "q"},

	// Composer
	"newline":     {"primary", "enter"},
	"clear_input": {"primary", "u"},

	// Transcript scrolling
	"scroll_down":    {"primary", "j"},
	"scroll_up":      {"primary", "k"},
	"half_page_down": {"secondary", "j"},
	"half_page_up":   {"secondary", "k"},
	"page_down":      {"none", "pgdown"},
	"page_up":        {"none", "pgup"},
	"scroll_to_top":  {"primary", "g"},
	"jump_latest":    {"secondary", "g"},

	// Clipboard
	"yank_last_response": {"primary", "y"},
	"yank_conversation":  {"primary", "c"},
}

// DefaultKeybindings returns default configuration
func DefaultKeybindings() *KeyBindingsConfig {
	return &KeyBindingsConfig{
		Modifiers: ModifierConfig{
			Primary:   "alt",
			Secondary: "alt+shift",
		},
	}
}

// Primary returns the primary modifier
func (kb *KeyBindingsConfig) Primary() string {
	if kb.Modifiers.Primary == "" {
		return "alt"
	}
	return kb.Modifiers.Primary
}

// Secondary returns the secondary modifier
func (kb *KeyBindingsConfig) Secondary() string {
	if kb.Modifiers.Secondary == "" {
		return "alt+shift"
	}
	return kb.Modifiers.Secondary
}

// PrimaryKey builds a keybinding string with primary modifier
// Example: PrimaryKey("y") returns "alt+y" (or "ctrl+y" if primary is "ctrl")
func (kb *KeyBindingsConfig) PrimaryKey(key string) string {
	return kb.Primary() + "+" + key
}

// SecondaryKey builds a keybinding string with secondary modifier.
// Terminals report shift+letter as the uppercase letter, so
// SecondaryKey("g") is "alt+G", while SecondaryKey("f1") stays "alt+shift+f1".
func (kb *KeyBindingsConfig) SecondaryKey(key string) string {
	secondary := kb.Secondary()

	if strings.Contains(strings.ToLower(secondary), "shift") && len(key) == 1 && key[0] >= 'a' && key[0] <= 'z' {
		var mods []string
		for _, part := range strings.Split(secondary, "+") {
			if strings.ToLower(part) != "shift" {
				mods = append(mods, part)
			}
		}
		if len(mods) > 0 {
			return strings.Join(mods, "+") + "+" + strings.ToUpper(key)
		}
		return strings.ToUpper(key)
	}

	return secondary + "+" + key
}

// GetActionKey returns the keybinding for a specific action.
// User overrides win over registry defaults; unknown actions return "".
func (kb *KeyBindingsConfig) GetActionKey(action string) string {
	if override, exists := kb.Actions[action]; exists && override != "" {
		return override
	}

	def, exists := actionRegistry[action]
	if !exists {
		return ""
	}
	switch def.modifier {
	case "primary":
		return kb.PrimaryKey(def.key)
	case "secondary":
		return kb.SecondaryKey(def.key)
	default:
		return def.key
	}
}

// ActionKeys returns every key string that triggers action. Newline also
// answers to shift+enter for terminals that report it.
func (kb *KeyBindingsConfig) ActionKeys(action string) []string {
	k := kb.GetActionKey(action)
	if k == "" {
		return nil
	}
	keys := []string{k}
	if action == "newline" && k != "shift+enter" {
		keys = append(keys, "shift+enter")
	}
	return keys
}

// Matches reports whether the pressed key string triggers action
func (kb *KeyBindingsConfig) Matches(action, pressed string) bool {
	for _, k := range kb.ActionKeys(action) {
		if k == pressed {
			return true
		}
	}
	return false
}

// DisplayActionKey returns a display-friendly version of an action's keybinding
// Example: "ctrl+shift+j" -> "Ctrl+Shift+J", "alt+G" -> "Alt+Shift+G"
func (kb *KeyBindingsConfig) DisplayActionKey(action string) string {
	key := kb.GetActionKey(action)
	if key == "" {
		return ""
	}
	return capitalizeKeybinding(key)
}

func capitalizeKeybinding(key string) string {
	parts := strings.Split(key, "+")
	hasShift := false
	for _, p := range parts {
		if strings.ToLower(p) == "shift" {
			hasShift = true
		}
	}

	var result []string
	for i, part := range parts {
		if part == "" {
			continue
		}
		// A lone uppercase letter after a modifier means shift was held
		if len(part) == 1 && part[0] >= 'A' && part[0] <= 'Z' {
			if !hasShift && i > 0 {
				result = append(result, "Shift")
			}
			result = append(result, part)
			continue
		}
		result = append(result, strings.ToUpper(part[:1])+part[1:])
	}

	return strings.Join(result, "+")
}

// Validate checks if the configuration is valid
// Returns (isValid, warningMessage)
func (kb *KeyBindingsConfig) Validate() (bool, string) {
	primary := kb.Primary()
	secondary := kb.Secondary()

	if primary == "shift" || secondary == "shift" {
		return false, "Shift alone conflicts with typing"
	}

	for action, override := range kb.Actions {
		if _, known := actionRegistry[action]; !known {
			return false, "unknown action \"" + action + "\""
		}
		if override == "enter" {
			return false, "enter is reserved for sending (action \"" + action + "\")"
		}
	}

	if strings.Contains(primary, "ctrl") || strings.Contains(secondary, "ctrl") {
		return true, "Warning: Ctrl may conflict with terminal shortcuts (Ctrl+C, Ctrl+Z, Ctrl+D)"
	}

	return true, ""
}
