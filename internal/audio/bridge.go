// Package audio provides on-demand speech synthesis with per-text
// memoization, so result widgets can replay identical content without
// repeated synthesis calls.
package audio

import (
	"context"
	"log/slog"
	"time"

	"github.com/medicassist/medicassist/internal/cache"
	"github.com/medicassist/medicassist/pkg/models"
)

// Synthesizer is the subset of the inference provider the bridge needs.
type Synthesizer interface {
	SynthesizeSpeech(ctx context.Context, text string) (string, error)
}

// Bridge memoizes successful synthesis results by exact text. Failures are
// not cached: the next request for the same text retries the remote call.
// Concurrent first requests for the same text are not deduplicated; each
// proceeds independently and the last writer wins the cache slot.
type Bridge struct {
	synth Synthesizer
	cache cache.Cache
	ttl   time.Duration
}

// NewBridge creates a Bridge caching results for ttl (zero means no expiry).
func NewBridge(synth Synthesizer, c cache.Cache, ttl time.Duration) *Bridge {
	return &Bridge{synth: synth, cache: c, ttl: ttl}
}

// Speak returns an audio data URI for text, reusing a previously synthesized
// result when the exact same text was already spoken.
func (b *Bridge) Speak(ctx context.Context, text string) (string, error) {
	key := cache.AudioKey(text)

	if cached, ok, err := b.cache.Get(ctx, key); err == nil && ok {
		return string(cached), nil
	} else if err != nil {
		slog.Warn("audio cache read failed", "error", err)
	}

	audioURI, err := b.synth.SynthesizeSpeech(ctx, text)
	if err != nil {
		return "", err
	}

	if err := b.cache.Set(ctx, key, []byte(audioURI), b.ttl); err != nil {
		// Cache misses are a cost, not a failure.
		slog.Warn("audio cache write failed", "error", err)
	}
	return audioURI, nil
}

var _ Synthesizer = (models.InferenceProvider)(nil)
