package theme

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProbe struct {
	dark  atomic.Bool
	known atomic.Bool
}

func newFakeProbe(dark bool) *fakeProbe {
	p := &fakeProbe{}
	p.dark.Store(dark)
	p.known.Store(true)
	return p
}

func (p *fakeProbe) probe() (bool, bool) {
	return p.dark.Load(), p.known.Load()
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeAuto, "auto": ModeAuto, "Dark": ModeDark, " light ": ModeLight} {
		got, err := ParseMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("sepia")
	assert.Error(t, err)
}

func TestSourceReadsOnce(t *testing.T) {
	p := newFakeProbe(true)
	s := NewSource(ModeAuto, p.probe, false)
	assert.True(t, s.Dark())

	p.dark.Store(false)
	assert.True(t, s.Dark(), "no re-read without a subscription")
}

func TestSourcePinnedModesIgnoreProbe(t *testing.T) {
	p := newFakeProbe(true)
	assert.False(t, NewSource(ModeLight, p.probe, true).Dark())

	p.dark.Store(false)
	assert.True(t, NewSource(ModeDark, p.probe, false).Dark())
}

func TestSourceFallsBackWhenProbeUnknown(t *testing.T) {
	p := newFakeProbe(false)
	p.known.Store(false)

	assert.True(t, NewSource(ModeAuto, p.probe, true).Dark())
	assert.False(t, NewSource(ModeAuto, p.probe, false).Dark())
}

func TestSubscribeDeliversChanges(t *testing.T) {
	p := newFakeProbe(false)
	s := NewSource(ModeAuto, p.probe, false)

	sub := s.Subscribe(context.Background(), time.Millisecond)
	defer sub.Close()

	p.dark.Store(true)
	select {
	case dark := <-sub.C:
		assert.True(t, dark)
	case <-time.After(2 * time.Second):
		t.Fatal("no change delivered")
	}
	assert.True(t, s.Dark())
}

func TestSubscriptionCloseReleases(t *testing.T) {
	s := NewSource(ModeAuto, newFakeProbe(false).probe, false)
	sub := s.Subscribe(context.Background(), time.Millisecond)

	sub.Close()
	sub.Close()

	_, open := <-sub.C
	assert.False(t, open, "channel closed on teardown")
}

func TestSubscribePinnedStaysQuiet(t *testing.T) {
	s := NewSource(ModeDark, newFakeProbe(false).probe, false)
	ctx, cancel := context.WithCancel(context.Background())
	sub := s.Subscribe(ctx, time.Millisecond)

	select {
	case <-sub.C:
		t.Fatal("pinned theme must not emit")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	sub.Close()
}

func TestParseColorScheme(t *testing.T) {
	dark, ok := parseColorScheme("'prefer-dark'\n")
	assert.True(t, ok)
	assert.True(t, dark)

	dark, ok = parseColorScheme("'default'")
	assert.True(t, ok)
	assert.False(t, dark)

	_, ok = parseColorScheme("")
	assert.False(t, ok)
}
