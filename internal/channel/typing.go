package channel

import (
	"context"
	"time"

	"github.com/voltmesh/solarbot/pkg/message"
)

// TypingChannel is implemented by channels that can show typing indicators
// to the user while a flow step is processing (e.g. a Beckn search in flight).
type TypingChannel interface {
	Channel

	// SendTyping sends a single typing indicator to the platform.
	SendTyping(ctx context.Context, chat message.Chat) error
}

// StartTypingLoop launches a goroutine that sends typing indicators at the
// given interval until the context is cancelled. It is safe to call from
// multiple goroutines; the loop stops when ctx is done.
func StartTypingLoop(ctx context.Context, ch TypingChannel, chat message.Chat, interval time.Duration) {
	go func() {
		if interval <= 0 {
			interval = 4 * time.Second
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// Send an initial typing indicator immediately.
		_ = ch.SendTyping(ctx, chat)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = ch.SendTyping(ctx, chat)
			}
		}
	}()
}
