package router

import (
	"context"
	"time"

	"github.com/voltmesh/solarbot/internal/telemetry"
	"github.com/voltmesh/solarbot/pkg/message"
)

const handlerErrorText = "Sorry, something went wrong. Please try again."

// process runs one envelope through policy, the lane lock, and the handler.
// It is called from worker goroutines.
func (r *Router) process(ctx context.Context, env envelope) {
	msg := env.Message

	r.logger.Info("router: message received",
		"channel", msg.Channel,
		"chat_id", msg.Chat.ID,
		"sender", msg.Sender.ID,
	)

	if !r.config.GroupPolicy.ShouldProcess(msg) {
		r.logger.Debug("router: message filtered by group policy",
			"sender", msg.Sender.ID,
		)
		if m := r.config.Metrics; m != nil {
			m.MessagesProcessed.WithLabelValues(msg.Channel, telemetry.OutcomeFiltered).Inc()
		}
		return
	}

	r.laneLock.Acquire(env.Lane)
	defer r.laneLock.Release(env.Lane)

	start := time.Now()
	err := r.config.Handler.Handle(ctx, msg)

	if m := r.config.Metrics; m != nil {
		m.ProcessingSeconds.WithLabelValues(msg.Channel).Observe(time.Since(start).Seconds())
		outcome := telemetry.OutcomeOK
		if err != nil {
			outcome = telemetry.OutcomeError
		}
		m.MessagesProcessed.WithLabelValues(msg.Channel, outcome).Inc()
	}

	if err != nil {
		r.logger.Error("router: handler failed",
			"channel", msg.Channel,
			"chat_id", msg.Chat.ID,
			"sender", msg.Sender.ID,
			"error", err,
		)
		r.sendFallback(ctx, msg)
	}
}

// sendFallback delivers a short apology so a failed turn does not go
// silent. Never panics; a send failure is only logged.
func (r *Router) sendFallback(ctx context.Context, original message.InboundMessage) {
	if r.config.Fallback == nil {
		return
	}
	out := message.NewTextMessage(original.Chat, handlerErrorText)
	out.Channel = original.Channel
	out.ThreadID = original.ThreadID
	out.ReplyToID = original.ID
	if err := r.config.Fallback.Send(ctx, out); err != nil {
		r.logger.Error("router: failed to send error message", "error", err)
	}
}
