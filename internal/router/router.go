package router

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/voltmesh/solarbot/internal/security"
	"github.com/voltmesh/solarbot/internal/telemetry"
	"github.com/voltmesh/solarbot/pkg/message"
)

const defaultInboxSize = 256

// Handler processes one inbound message end to end. Implemented by the
// conversation engine.
type Handler interface {
	Handle(ctx context.Context, msg message.InboundMessage) error
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, msg message.InboundMessage) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, msg message.InboundMessage) error {
	return f(ctx, msg)
}

// FallbackSender delivers the apology message when a handler fails.
// Implemented by channel.Dispatcher.
type FallbackSender interface {
	Send(ctx context.Context, msg message.OutboundMessage) error
}

// Config holds the configuration for a Router.
type Config struct {
	WorkerCount int
	InboxSize   int
	GroupPolicy GroupPolicy
	Handler     Handler
	Logger      *slog.Logger

	// Fallback, if non-nil, receives a short apology when the handler
	// returns an error. Handlers reply to the user themselves on the
	// happy path; without this, a failed turn would go silent.
	Fallback FallbackSender

	// RateLimiter, if non-nil, enforces message rate limits.
	RateLimiter *security.RateLimiter

	// MaxMessageSize is the maximum allowed message size in bytes.
	// Zero means use the default (1 MiB).
	MaxMessageSize int

	// Metrics, if non-nil, records received/processed counters and
	// handling latency.
	Metrics *telemetry.Metrics
}

// withDefaults returns a copy of the config with zero values replaced by defaults.
func (c Config) withDefaults() Config {
	if c.WorkerCount <= 0 {
		c.WorkerCount = DefaultWorkerCount
	}
	if c.InboxSize <= 0 {
		c.InboxSize = defaultInboxSize
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// Router is the central dispatch layer. It validates and enqueues inbound
// messages, and its workers hand them to the Handler with per-user
// ordering guaranteed by the lane lock.
type Router struct {
	config   Config
	inbox    chan envelope
	inboxMu  sync.RWMutex
	laneLock *LaneLock
	pool     *WorkerPool
	cancel   context.CancelFunc
	stopOnce sync.Once
	logger   *slog.Logger
	stopped  atomic.Bool
}

// NewRouter creates a new Router with the given configuration.
func NewRouter(cfg Config) (*Router, error) {
	cfg = cfg.withDefaults()

	if cfg.Handler == nil {
		return nil, ErrNoHandler
	}

	return &Router{
		config:   cfg,
		inbox:    make(chan envelope, cfg.InboxSize),
		laneLock: NewLaneLock(),
		pool:     NewWorkerPool(cfg.WorkerCount),
		logger:   cfg.Logger,
	}, nil
}

// Start launches the worker pool and begins processing messages.
func (r *Router) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	r.inboxMu.Lock()
	if r.stopped.Load() {
		r.inboxMu.Unlock()
		cancel()
		r.logger.Warn("router: start ignored, router already stopped")
		return
	}
	r.cancel = cancel
	r.inboxMu.Unlock()

	r.pool.Start(ctx, r.inbox, r.process)
	r.logger.Info("router: started", "workers", r.config.WorkerCount, "inbox_size", r.config.InboxSize)
}

// Submit enqueues an inbound message for processing. Size, depth, and rate
// checks happen here at the system boundary, before the message takes up
// inbox space. If the inbox is full, the message is dropped with a warning.
func (r *Router) Submit(msg message.InboundMessage) error {
	r.inboxMu.RLock()
	defer r.inboxMu.RUnlock()

	if r.stopped.Load() {
		return ErrRouterStopped
	}

	if len(msg.Raw) > 0 {
		if err := security.ValidateMessageSize(msg.Raw, r.config.MaxMessageSize); err != nil {
			r.logger.Warn("router: message too large, rejected",
				"size", len(msg.Raw),
				"channel", msg.Channel,
			)
			return err
		}
		if err := security.ValidateJSONDepth(msg.Raw, 0); err != nil {
			r.logger.Warn("router: message JSON too deep, rejected",
				"channel", msg.Channel,
			)
			return err
		}
	}

	if r.config.RateLimiter != nil {
		if err := r.config.RateLimiter.Allow("message"); err != nil {
			r.logger.Warn("router: message rate limited",
				"channel", msg.Channel,
				"chat_id", msg.Chat.ID,
			)
			return err
		}
	}

	if m := r.config.Metrics; m != nil {
		m.MessagesReceived.WithLabelValues(msg.Channel).Inc()
	}

	env := envelope{Message: msg, Lane: laneKey(msg)}

	// Non-blocking send, drop with warning if inbox is full.
	select {
	case r.inbox <- env:
		return nil
	default:
		r.logger.Warn("router: inbox full, message dropped",
			"channel", msg.Channel,
			"chat_id", msg.Chat.ID,
		)
		if m := r.config.Metrics; m != nil {
			m.MessagesProcessed.WithLabelValues(msg.Channel, telemetry.OutcomeDropped).Inc()
		}
		return ErrInboxFull
	}
}

// Stop gracefully shuts down the router: closes inbox, drains workers, cancels context.
func (r *Router) Stop(_ context.Context) {
	r.stopOnce.Do(func() {
		r.logger.Info("router: stopping")

		r.inboxMu.Lock()
		r.stopped.Store(true)
		close(r.inbox)
		cancel := r.cancel
		r.inboxMu.Unlock()

		// Cancel before waiting so in-flight handlers can terminate.
		if cancel != nil {
			cancel()
		}

		r.pool.Wait()
		r.logger.Info("router: stopped")
	})
}

// laneKey derives the serialization key for a message. Conversations are
// per user, so the sender wins; chat is the fallback for payloads that
// carry no sender.
func laneKey(msg message.InboundMessage) string {
	if msg.Sender.ID != "" {
		return msg.Sender.ID
	}
	return msg.Chat.ID
}
