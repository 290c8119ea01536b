package audio_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicassist/medicassist/internal/audio"
	"github.com/medicassist/medicassist/internal/cache"
)

type countingSynth struct {
	calls int
	err   error
}

func (c *countingSynth) SynthesizeSpeech(_ context.Context, text string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "data:audio/mpeg;base64,AAAA-" + text, nil
}

func TestSpeak_MemoizesByExactText(t *testing.T) {
	synth := &countingSynth{}
	bridge := audio.NewBridge(synth, cache.NewMemoryCache(), time.Hour)

	first, err := bridge.Speak(context.Background(), "Hello")
	require.NoError(t, err)

	second, err := bridge.Speak(context.Background(), "Hello")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, synth.calls)
}

func TestSpeak_DifferentTextSynthesizesAgain(t *testing.T) {
	synth := &countingSynth{}
	bridge := audio.NewBridge(synth, cache.NewMemoryCache(), time.Hour)

	_, err := bridge.Speak(context.Background(), "Hello")
	require.NoError(t, err)
	_, err = bridge.Speak(context.Background(), "Hello.")
	require.NoError(t, err)

	assert.Equal(t, 2, synth.calls)
}

func TestSpeak_FailureIsNotCached(t *testing.T) {
	boom := errors.New("synthesis backend down")
	synth := &countingSynth{err: boom}
	bridge := audio.NewBridge(synth, cache.NewMemoryCache(), time.Hour)

	_, err := bridge.Speak(context.Background(), "Hello")
	require.ErrorIs(t, err, boom)

	// Backend recovers; the earlier failure must not poison the slot.
	synth.err = nil
	got, err := bridge.Speak(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "data:audio/mpeg;base64,AAAA-Hello", got)
	assert.Equal(t, 2, synth.calls)
}

type brokenCache struct {
	cache.Cache
}

func (brokenCache) Get(_ context.Context, _ string) ([]byte, bool, error) {
	return nil, false, errors.New("cache offline")
}

func (brokenCache) Set(_ context.Context, _ string, _ []byte, _ time.Duration) error {
	return errors.New("cache offline")
}

func TestSpeak_CacheErrorsDoNotFailRequest(t *testing.T) {
	synth := &countingSynth{}
	bridge := audio.NewBridge(synth, brokenCache{}, time.Hour)

	got, err := bridge.Speak(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "data:audio/mpeg;base64,AAAA-Hello", got)
}
