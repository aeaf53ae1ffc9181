package testutil

import (
	"context"
	"sync"

	"fincopilot/transport"
)

// MockClient stands in for transport.Client in tests
type MockClient struct {
	// Configurable responses
	ChatFunc   func(ctx context.Context, req transport.ChatRequest) (*transport.ChatResponse, error)
	HealthFunc func(ctx context.Context) error

	mu       sync.Mutex
	requests []transport.ChatRequest
}

// NewMockClient creates a mock that answers every message with reply
func NewMockClient(reply string) *MockClient {
	m := &MockClient{}
	m.ChatFunc = func(ctx context.Context, req transport.ChatRequest) (*transport.ChatResponse, error) {
		return &transport.ChatResponse{Reply: reply}, nil
	}
	m.HealthFunc = func(ctx context.Context) error { return nil }
	return m
}

// NewFailingClient creates a mock whose chat calls all fail with err
func NewFailingClient(err error) *MockClient {
	m := NewMockClient("")
	m.ChatFunc = func(ctx context.Context, req transport.ChatRequest) (*transport.ChatResponse, error) {
		return nil, err
	}
	return m
}

func (m *MockClient) Chat(ctx context.Context, req transport.ChatRequest) (*transport.ChatResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.ChatFunc(ctx, req)
}

func (m *MockClient) Health(ctx context.Context) error {
	return m.HealthFunc(ctx)
}

// Requests returns every chat request seen so far
func (m *MockClient) Requests() []transport.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]transport.ChatRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
