package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voltmesh/solarbot/internal/session"
	"github.com/voltmesh/solarbot/pkg/message"
)

// SessionPruner is the subset of session.Store needed by the cleanup job.
// Defined here so the job does not depend on a concrete store.
type SessionPruner interface {
	PruneOlderThan(ctx context.Context, maxAge time.Duration) (int, error)
}

// SessionCleanupJob removes sessions that have been idle longer than MaxAge.
type SessionCleanupJob struct {
	Store        SessionPruner
	MaxAge       time.Duration
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "*/5 * * * *"
}

// Compile-time interface check.
var _ Job = (*SessionCleanupJob)(nil)

// Name implements Job.
func (j *SessionCleanupJob) Name() string {
	return "session_cleanup"
}

// Schedule implements Job.
func (j *SessionCleanupJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "*/5 * * * *"
}

// Run prunes sessions idle longer than MaxAge.
func (j *SessionCleanupJob) Run(ctx context.Context) error {
	pruned, err := j.Store.PruneOlderThan(ctx, j.MaxAge)
	if err != nil {
		return fmt.Errorf("cron: session cleanup: %w", err)
	}
	if pruned > 0 {
		j.Logger.Info("cron: pruned idle sessions", "count", pruned)
	}
	return nil
}

// SessionLister is the subset of session.Store needed by the auto-trade job.
type SessionLister interface {
	All(ctx context.Context) ([]*session.Session, error)
	Put(ctx context.Context, sess *session.Session) error
}

// AutoTrader evaluates one scheduled trade for a session. Implemented by
// the prosumer flow. The returned text is the user notification; executed
// is false when nothing was done (outside trading hours, no excess).
type AutoTrader interface {
	AutoTrade(ctx context.Context, sess *session.Session) (text string, executed bool)
}

// Notifier pushes a message to a user. Implemented by channel.Dispatcher.
type Notifier interface {
	Send(ctx context.Context, msg message.OutboundMessage) error
}

// AutoTradeJob sweeps every session with auto-trading enabled, runs the
// trading evaluation, and notifies users of executed trades.
type AutoTradeJob struct {
	Sessions     SessionLister
	Trader       AutoTrader
	Notifier     Notifier
	Channel      string // channel name for notifications, e.g. "telegram"
	Logger       *slog.Logger
	ScheduleExpr string // empty = default "0 * * * *"
}

// Compile-time interface check.
var _ Job = (*AutoTradeJob)(nil)

// Name implements Job.
func (j *AutoTradeJob) Name() string {
	return "auto_trade"
}

// Schedule implements Job.
func (j *AutoTradeJob) Schedule() string {
	if j.ScheduleExpr != "" {
		return j.ScheduleExpr
	}
	return "0 * * * *"
}

// Run evaluates auto-trading for every opted-in session. Per-user failures
// are logged and skipped; one broken session must not stall the sweep.
func (j *AutoTradeJob) Run(ctx context.Context) error {
	sessions, err := j.Sessions.All(ctx)
	if err != nil {
		return fmt.Errorf("cron: auto trade: list sessions: %w", err)
	}

	var executed int
	for _, sess := range sessions {
		if ctx.Err() != nil {
			return fmt.Errorf("cron: auto trade cancelled: %w", ctx.Err())
		}
		if !sess.AutoTradingEnabled() {
			continue
		}

		text, ok := j.Trader.AutoTrade(ctx, sess)
		if !ok {
			continue
		}
		executed++

		// The evaluation mutates earnings and trading history.
		if err := j.Sessions.Put(ctx, sess); err != nil {
			j.Logger.Error("cron: auto trade: save session failed",
				"user_id", sess.UserID, "error", err)
			continue
		}

		j.notify(ctx, sess, text)
	}

	if executed > 0 {
		j.Logger.Info("cron: auto-trade sweep executed trades",
			"sessions", len(sessions), "trades", executed)
	}
	return nil
}

func (j *AutoTradeJob) notify(ctx context.Context, sess *session.Session, text string) {
	if j.Notifier == nil || sess.ChatID == "" {
		return
	}
	out := message.NewTextMessage(message.Chat{ID: sess.ChatID, Type: message.ChatDM}, text)
	out.Channel = j.Channel
	if err := j.Notifier.Send(ctx, out); err != nil {
		j.Logger.Warn("cron: auto trade: notification failed",
			"user_id", sess.UserID, "error", err)
	}
}
