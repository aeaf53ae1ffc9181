package model

import (
	"context"

	"fincopilot/config"
	"fincopilot/transport"
)

// ChatClient is the slice of transport.Client the chat loop needs. It lives
// here so tests can swap in a fake backend.
type ChatClient interface {
	Chat(ctx context.Context, req transport.ChatRequest) (*transport.ChatResponse, error)
	Health(ctx context.Context) error
}

// Phase is where the current submission is in its lifecycle
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSending
	PhaseRevealing
)

func (p Phase) String() string {
	switch p {
	case PhaseSending:
		return "sending"
	case PhaseRevealing:
		return "revealing"
	default:
		return "idle"
	}
}

type BackendStatus int

const (
	BackendUnknown BackendStatus = iota
	BackendOnline
	BackendOffline
)

// Model holds the core application data and business logic state
type Model struct {
	Config *config.Config
	Client ChatClient

	Conversation *Conversation
	Composer     Composer
	Scroll       *ScrollController

	// In-flight reveal, nil unless Phase is PhaseRevealing
	Reveal *Reveal
	Phase  Phase

	Dark    bool
	Backend BackendStatus

	Version string
	License string

	ctx context.Context
}

// NewModel creates the model and seeds the transcript with the configured
// greeting and seed messages.
func NewModel(ctx context.Context, cfg *config.Config, client ChatClient, dark bool, version, license string) *Model {
	m := &Model{
		Config:       cfg,
		Client:       client,
		Conversation: NewConversation(),
		Scroll:       NewScrollController(cfg.ScrollThreshold),
		Dark:         dark,
		Version:      version,
		License:      license,
		ctx:          ctx,
	}

	if cfg.Greeting != "" {
		m.Conversation.Append(RoleAssistant, cfg.Greeting)
	}
	for _, seed := range cfg.Seed {
		m.Conversation.Append(RoleUser, seed)
	}

	return m
}

func (m *Model) Context() context.Context {
	if m.ctx == nil {
		return context.Background()
	}
	return m.ctx
}
