package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voltmesh/solarbot/internal/channel"
	"github.com/voltmesh/solarbot/internal/core"
	"github.com/voltmesh/solarbot/internal/cron"
	"github.com/voltmesh/solarbot/internal/engine"
	"github.com/voltmesh/solarbot/internal/router"
	"github.com/voltmesh/solarbot/internal/security"
	"github.com/voltmesh/solarbot/internal/session"
	"github.com/voltmesh/solarbot/internal/telemetry"
)

// sessionMaxAge is how long an idle session survives before the cleanup
// job prunes it.
const sessionMaxAge = 30 * 24 * time.Hour

// routerModule wraps a *router.Router to satisfy core.Module, core.Starter,
// and core.Stopper, so the router participates in the App lifecycle.
type routerModule struct {
	router *router.Router
	ctx    context.Context
}

func (m *routerModule) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{ID: "router"}
}

func (m *routerModule) Start() error {
	m.router.Start(m.ctx)
	return nil
}

func (m *routerModule) Stop(ctx context.Context) error {
	m.router.Stop(ctx)
	return nil
}

// schedulerModule wraps the cron scheduler into the App lifecycle.
type schedulerModule struct {
	sched *cron.Scheduler
}

func (m *schedulerModule) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{ID: "cron"}
}

func (m *schedulerModule) Start() error {
	return m.sched.Start()
}

func (m *schedulerModule) Stop(ctx context.Context) error {
	return m.sched.Stop(ctx)
}

// wireBot connects the message path: channels push inbound messages to the
// router, the router dispatches to the conversation engine, and the engine
// replies through the channel dispatcher. It also registers the scheduled
// jobs (session cleanup, auto-trading sweep). Must be called after
// LoadModules and before Start.
func wireBot(
	app *core.App,
	appCtx *core.AppContext,
	ids []string,
	logger *slog.Logger,
	rateLimiter *security.RateLimiter,
	metrics *telemetry.Metrics,
) error {
	// Discover channels from loaded modules. Channels are registered under
	// their full module ID (e.g. "channel.telegram") because that is what
	// they set as msg.Channel on inbound messages.
	dispatcher := channel.NewDispatcher()
	var channels []channel.Channel
	for _, id := range ids {
		mod, ok := app.Module(id)
		if !ok {
			continue
		}
		ch, ok := mod.(channel.Channel)
		if !ok {
			continue
		}
		if err := dispatcher.Register(id, ch); err != nil {
			return fmt.Errorf("registering channel %s: %w", id, err)
		}
		channels = append(channels, ch)
		logger.Info("wiring: registered channel", "channel", id)
	}

	if len(channels) == 0 {
		logger.Info("wiring: no channels configured, message path disabled")
		return nil
	}

	// Session store: provided by the store.sessions module, with an
	// in-memory fallback when none is configured.
	var store session.Store
	if svc, ok := appCtx.Service("session.store"); ok {
		store, _ = svc.(session.Store)
	}
	if store == nil {
		store = session.NewMemoryStore()
		appCtx.RegisterService("session.store", store)
		logger.Warn("wiring: no session store module configured, sessions will not survive restarts")
	}

	// Build the engine and register every loaded flow module.
	eng := engine.New(store, dispatcher, logger)
	var flows int
	for _, id := range ids {
		mod, ok := app.Module(id)
		if !ok {
			continue
		}
		flow, ok := mod.(engine.Flow)
		if !ok {
			continue
		}
		if err := eng.Register(flow); err != nil {
			return fmt.Errorf("registering flow %s: %w", id, err)
		}
		flows++
		logger.Info("wiring: registered flow", "module", id)
	}
	if flows == 0 {
		return fmt.Errorf("wiring: at least one agent module is required")
	}

	r, err := router.NewRouter(router.Config{
		Handler:     router.HandlerFunc(eng.HandleMessage),
		Fallback:    dispatcher,
		GroupPolicy: router.GroupPolicy{Mode: router.GroupPolicyRequireMention},
		Logger:      logger,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
	})
	if err != nil {
		return fmt.Errorf("creating router: %w", err)
	}

	// Wire each channel's inbox to the router.
	for _, ch := range channels {
		ch.SetInbox(r.Submit)
	}

	app.AppendModule("router", &routerModule{
		router: r,
		ctx:    context.Background(),
	})

	// Scheduled jobs: prune idle sessions, and run the auto-trading sweep
	// when the prosumer agent is loaded.
	sched := cron.NewScheduler(logger)
	if err := sched.RegisterJob(&cron.SessionCleanupJob{
		Store:  store,
		MaxAge: sessionMaxAge,
		Logger: logger,
	}); err != nil {
		return fmt.Errorf("registering cleanup job: %w", err)
	}
	if svc, ok := appCtx.Service("agent.prosumer"); ok {
		if trader, ok := svc.(cron.AutoTrader); ok {
			if err := sched.RegisterJob(&cron.AutoTradeJob{
				Sessions: store,
				Trader:   trader,
				Notifier: dispatcher,
				Channel:  "channel.telegram",
				Logger:   logger,
			}); err != nil {
				return fmt.Errorf("registering auto-trade job: %w", err)
			}
			logger.Info("wiring: auto-trading sweep scheduled")
		}
	}
	app.AppendModule("cron", &schedulerModule{sched: sched})

	logger.Info("wiring: message path ready", "channels", len(channels), "flows", flows)
	return nil
}
