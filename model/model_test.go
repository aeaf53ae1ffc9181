package model

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fincopilot/config"
	"fincopilot/transport"
	"fincopilot/transport/testutil"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Greeting = ""
	cfg.Seed = nil
	cfg.SendDelay = config.Duration{}
	cfg.RevealInterval = config.Duration{Duration: time.Millisecond}
	return cfg
}

func newTestModel(client ChatClient) *Model {
	return NewModel(context.Background(), testConfig(), client, true, "test", "test")
}

// runReveal drives ticks until the reveal finishes and returns every
// content value the target entry passed through.
func runReveal(t *testing.T, m *Model, first tea.Cmd) []string {
	t.Helper()
	var frames []string
	if first == nil {
		return frames
	}
	target := m.Reveal.Target
	for i := 0; i < 10000; i++ {
		next := m.AdvanceReveal(target)
		msg, ok := m.Conversation.Get(target)
		require.True(t, ok)
		frames = append(frames, msg.Content)
		if next == nil {
			return frames
		}
	}
	t.Fatal("reveal did not finish")
	return nil
}

func TestNewModelSeedsTranscript(t *testing.T) {
	cfg := config.DefaultConfig()
	m := NewModel(context.Background(), cfg, testutil.NewMockClient("x"), false, "v", "l")

	entries := m.Conversation.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, RoleAssistant, entries[0].Role)
	assert.Equal(t, config.DefaultGreeting, entries[0].Content)
	assert.Equal(t, RoleUser, entries[1].Role)
	assert.Equal(t, "Show my top merchants this month", entries[1].Content)
	assert.Equal(t, PhaseIdle, m.Phase)
}

func TestSubmitAppendsUserEntryThenCallsOnce(t *testing.T) {
	client := testutil.NewMockClient("Groceries")
	m := newTestModel(client)
	m.Composer.SetDraft("Show my top merchants")

	cmd, ok := m.Submit()
	require.True(t, ok)
	require.NotNil(t, cmd)

	// user entry exists before the call runs
	entries := m.Conversation.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, RoleUser, entries[0].Role)
	assert.Equal(t, "Show my top merchants", entries[0].Content)
	assert.Empty(t, client.Requests())
	assert.Equal(t, PhaseSending, m.Phase)
	assert.True(t, m.Composer.AwaitingReply())

	msg := cmd()
	reply, ok := msg.(ReplyReceivedMsg)
	require.True(t, ok)
	assert.Equal(t, "Groceries", reply.Text)
	assert.NoError(t, reply.Err)

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, transport.ChatRequest{SessionID: config.DefaultSessionID, Message: "Show my top merchants"}, reqs[0])
}

func TestSubmitNoOps(t *testing.T) {
	client := testutil.NewMockClient("x")
	m := newTestModel(client)

	m.Composer.SetDraft("  ")
	cmd, ok := m.Submit()
	assert.False(t, ok)
	assert.Nil(t, cmd)
	assert.Equal(t, 0, m.Conversation.Len())

	m.Composer.SetDraft("first")
	_, ok = m.Submit()
	require.True(t, ok)

	m.Composer.SetDraft("second")
	cmd, ok = m.Submit()
	assert.False(t, ok, "no second submission while awaiting a reply")
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.Conversation.Len())
}

func TestFullSubmissionLifecycle(t *testing.T) {
	m := newTestModel(testutil.NewMockClient("Groceries"))
	m.Composer.SetDraft("Show my top merchants")

	cmd, _ := m.Submit()
	reply := cmd().(ReplyReceivedMsg)

	first := m.StartReveal(reply.Text)
	require.NotNil(t, first)
	assert.Equal(t, PhaseRevealing, m.Phase)
	assert.True(t, m.Composer.AwaitingReply(), "still gated while revealing")

	last, ok := m.Conversation.Last(RoleAssistant)
	require.True(t, ok)
	assert.Empty(t, last.Content, "assistant entry starts empty")

	frames := runReveal(t, m, first)
	assert.Equal(t, "Groceries", frames[len(frames)-1])
	assert.Len(t, frames, len("Groceries"))

	entries := m.Conversation.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Show my top merchants", entries[0].Content)
	assert.Equal(t, "Groceries", entries[1].Content)

	assert.Equal(t, PhaseIdle, m.Phase)
	assert.False(t, m.Composer.AwaitingReply())
	assert.Nil(t, m.Reveal)
}

func TestRevealHiPassesThroughExactFrames(t *testing.T) {
	m := newTestModel(testutil.NewMockClient(""))

	first := m.StartReveal("Hi")
	assert.Equal(t, []string{"H", "Hi"}, runReveal(t, m, first))
}

func TestRevealEmptyFinishesWithoutTicks(t *testing.T) {
	m := newTestModel(testutil.NewMockClient(""))
	m.Composer.SetDraft("x")
	m.Submit()
	before := m.Conversation.Len()

	cmd := m.StartReveal("")
	assert.Nil(t, cmd, "no timer for an empty reply")
	assert.Equal(t, before+1, m.Conversation.Len())

	last, _ := m.Conversation.Last(RoleAssistant)
	assert.Empty(t, last.Content)
	assert.False(t, m.Composer.AwaitingReply())
	assert.Equal(t, PhaseIdle, m.Phase)
}

func TestTransportFailureBecomesErrorReply(t *testing.T) {
	m := newTestModel(testutil.NewFailingClient(errors.New("connection refused")))
	m.Composer.SetDraft("hello")

	cmd, _ := m.Submit()
	reply := cmd().(ReplyReceivedMsg)
	require.Error(t, reply.Err)
	assert.Equal(t, "(Error) connection refused", reply.Text)

	runReveal(t, m, m.StartReveal(reply.Text))

	var assistant []Message
	for _, e := range m.Conversation.Entries() {
		if e.Role == RoleAssistant {
			assistant = append(assistant, e)
		}
	}
	require.Len(t, assistant, 1)
	assert.True(t, strings.HasPrefix(assistant[0].Content, transport.ErrorPrefix))
	assert.False(t, m.Composer.AwaitingReply())
}

func TestStaleTickIsIgnored(t *testing.T) {
	m := newTestModel(testutil.NewMockClient(""))
	m.StartReveal("abc")
	target := m.Reveal.Target
	version := m.Conversation.Version()

	assert.Nil(t, m.AdvanceReveal("some-other-entry"))
	assert.Equal(t, version, m.Conversation.Version())

	assert.NotNil(t, m.AdvanceReveal(target))
}

func TestSubmitRepinsScroll(t *testing.T) {
	m := newTestModel(testutil.NewMockClient("x"))
	m.Scroll.OnUserScroll(100)
	require.True(t, m.Scroll.ShowJump())

	m.Composer.SetDraft("hello")
	m.Submit()
	assert.False(t, m.Scroll.ShowJump())
}

func TestSendMessageForwardsPersonalization(t *testing.T) {
	client := testutil.NewMockClient("ok")
	cfg := testConfig()
	cfg.Name = "Asha"
	cfg.Currency = "INR"
	m := NewModel(context.Background(), cfg, client, true, "", "")

	m.SendMessage("hi")()

	reqs := client.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "Asha", reqs[0].Name)
	assert.Equal(t, "INR", reqs[0].Currency)
}

func TestCheckHealth(t *testing.T) {
	client := testutil.NewMockClient("")
	client.HealthFunc = func(ctx context.Context) error { return errors.New("down") }
	m := newTestModel(client)

	msg := m.CheckHealth()().(HealthCheckedMsg)
	assert.EqualError(t, msg.Err, "down")
}

func TestLastReplyTextDuringReveal(t *testing.T) {
	m := newTestModel(testutil.NewMockClient(""))
	_, ok := m.LastReplyText()
	assert.False(t, ok)

	m.Composer.SetDraft("x")
	m.Submit()
	first := m.StartReveal("Rent is due")
	require.NotNil(t, first)
	m.AdvanceReveal(m.Reveal.Target)

	shown, _ := m.Conversation.Last(RoleAssistant)
	assert.Equal(t, "R", shown.Content)

	text, ok := m.LastReplyText()
	require.True(t, ok)
	assert.Equal(t, "Rent is due", text)

	runReveal(t, m, first)
	text, ok = m.LastReplyText()
	require.True(t, ok)
	assert.Equal(t, "Rent is due", text)
}

func TestFormatTranscriptSkipsNotices(t *testing.T) {
	entries := []Message{
		{Role: RoleAssistant, Content: "Hi"},
		{Role: RoleSystem, Content: "Copied"},
		{Role: RoleUser, Content: "Spend?"},
	}
	assert.Equal(t, "Finance Copilot: Hi\n\nYou: Spend?", FormatTranscript(entries))
}
