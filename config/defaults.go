package config

import "time"

const (
	DefaultEndpoint  = "http://localhost:8000/chat"
	DefaultSessionID = "web-user"
	DefaultGreeting  = "Hi — I'm Finance Copilot. Ask about budgets, expenses, or trends. Try: \"Show my top merchants this month\"."
)

func DefaultConfig() *Config {
	return &Config{
		Endpoint:          DefaultEndpoint,
		SessionID:         DefaultSessionID,
		RevealInterval:    Duration{18 * time.Millisecond},
		SendDelay:         Duration{30 * time.Millisecond},
		ScrollThreshold:   4,
		Theme:             "auto",
		ThemePollInterval: Duration{5 * time.Second},
		ShowSplash:        false,
		Greeting:          DefaultGreeting,
		Seed:              []string{"Show my top merchants this month"},
		Suggestions: []string{
			"Show my top merchants this month",
			"How much did I spend on Food this month?",
			"Compare my spending to last month",
			"Which categories are over budget?",
			"What are my recurring subscriptions?",
		},
		Keybindings: *DefaultKeybindings(),
	}
}

func GenerateConfigTemplate() string {
	return `# Finance Copilot Configuration
# Location: ~/.config/fincopilot/config.toml
# This file uses TOML format: https://toml.io
# Every key can also be set through FINCOPILOT_<KEY> environment variables.

# Chat backend endpoint (POST {session_id, message} -> {reply})
endpoint = "http://localhost:8000/chat"

# Session identifier sent with every message ("auto" = new UUID per run)
session_id = "web-user"

# Optional personalization forwarded to the backend
# name = "Asha"
# currency = "INR"

# Delay between revealed characters of a reply
reveal_interval = "18ms"

# Pause between showing your message and sending it
send_delay = "30ms"

# Rows scrolled away from the bottom before "↓ New" appears
scroll_threshold = 4

# auto follows the system appearance; dark or light pins it
theme = "auto"
theme_poll_interval = "5s"

# Show the start screen before the chat
show_splash = false

# First assistant message of every run
greeting = "Hi — I'm Finance Copilot. Ask about budgets, expenses, or trends. Try: \"Show my top merchants this month\"."

# Messages pre-seeded as user entries after the greeting
seed = ["Show my top merchants this month"]

# Prompts offered by the suggestions picker
suggestions = [
  "Show my top merchants this month",
  "How much did I spend on Food this month?",
  "Compare my spending to last month",
  "Which categories are over budget?",
  "What are my recurring subscriptions?",
]

[keybindings.modifiers]
primary = "alt"          # Options: alt, ctrl, meta, super
secondary = "alt+shift"

[keybindings.actions]
# Per-action overrides, e.g.:
#   jump_latest = "ctrl+g"
#   quit = "ctrl+shift+q"
`
}
