package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig tunes the circuit breakers guarding remote providers.
type BreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the breaker.
	MaxFailures uint32
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// OnFailure, if set, is called with the provider name after each failed call.
	OnFailure func(provider string)
}

// DefaultBreakerConfig returns the default breaker settings
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{MaxFailures: 3, Timeout: 30 * time.Second}
}

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = DefaultBreakerConfig().MaxFailures
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		IsSuccessful: func(err error) bool {
			// The provider answered; an empty recording is not an outage.
			return err == nil || errors.Is(err, ErrNoSpeech)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				"name", name, "from", from.String(), "to", to.String())
		},
	})
}

// rejected reports whether the breaker refused the call without reaching the provider.
func rejected(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}

// BreakerTranscriber guards a Transcriber with a circuit breaker
type BreakerTranscriber struct {
	next      Transcriber
	cb        *gobreaker.CircuitBreaker
	onFailure func(string)
}

// NewBreakerTranscriber wraps next
func NewBreakerTranscriber(next Transcriber, cfg BreakerConfig) *BreakerTranscriber {
	return &BreakerTranscriber{
		next:      next,
		cb:        newBreaker("transcriber:"+next.Name(), cfg),
		onFailure: cfg.OnFailure,
	}
}

// Transcribe forwards to the wrapped transcriber unless the breaker is open
func (b *BreakerTranscriber) Transcribe(ctx context.Context, audioFile string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Transcribe(ctx, audioFile)
	})
	if err != nil {
		if rejected(err) {
			return "", fmt.Errorf("transcriber %s unavailable: %w", b.next.Name(), err)
		}
		if b.onFailure != nil && !errors.Is(err, ErrNoSpeech) {
			b.onFailure(b.next.Name())
		}
		return "", err
	}
	return out.(string), nil
}

// Name returns the wrapped provider name
func (b *BreakerTranscriber) Name() string {
	return b.next.Name()
}

// State returns the current breaker state
func (b *BreakerTranscriber) State() gobreaker.State {
	return b.cb.State()
}

// BreakerSpeaker guards a Speaker with a circuit breaker
type BreakerSpeaker struct {
	next      Speaker
	cb        *gobreaker.CircuitBreaker
	onFailure func(string)
}

// NewBreakerSpeaker wraps next
func NewBreakerSpeaker(next Speaker, cfg BreakerConfig) *BreakerSpeaker {
	return &BreakerSpeaker{
		next:      next,
		cb:        newBreaker("speaker:"+next.Name(), cfg),
		onFailure: cfg.OnFailure,
	}
}

// Speak forwards to the wrapped speaker unless the breaker is open.
// Invalid text is rejected before the provider is called and does not count
// as a provider failure.
func (b *BreakerSpeaker) Speak(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return fmt.Errorf("invalid text: %w", err)
	}

	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.Speak(ctx, text, outputFile)
	})
	if err != nil {
		if rejected(err) {
			return fmt.Errorf("speaker %s unavailable: %w", b.next.Name(), err)
		}
		if b.onFailure != nil {
			b.onFailure(b.next.Name())
		}
		return err
	}
	return nil
}

// Name returns the wrapped provider name
func (b *BreakerSpeaker) Name() string {
	return b.next.Name()
}

// IsAvailable reports the wrapped speaker's availability, or an error while the breaker is open
func (b *BreakerSpeaker) IsAvailable() error {
	if b.cb.State() == gobreaker.StateOpen {
		return fmt.Errorf("speaker %s: %w", b.next.Name(), gobreaker.ErrOpenState)
	}
	return b.next.IsAvailable()
}

// State returns the current breaker state
func (b *BreakerSpeaker) State() gobreaker.State {
	return b.cb.State()
}
