// Package engine routes inbound chat messages to conversation flows. It
// owns the top-level surface of the bot: /start and /help, callback-data
// dispatch by prefix, state-based routing of free text and photos, and the
// fallback responses for anything unrecognized. Flows mutate the session on
// the Turn; the engine persists it once the handler returns.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/voltmesh/solarbot/internal/session"
	"github.com/voltmesh/solarbot/pkg/message"
)

// Engine dispatches inbound messages to registered flows.
type Engine struct {
	store  session.Store
	sender Sender
	flows  map[string]Flow
	logger *slog.Logger
}

// New creates an engine backed by the given session store and sender.
func New(store session.Store, sender Sender, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:  store,
		sender: sender,
		flows:  make(map[string]Flow),
		logger: logger,
	}
}

// Register adds a flow. Registering two flows with the same prefix is a
// wiring bug.
func (e *Engine) Register(f Flow) error {
	prefix := f.Prefix()
	if prefix == "" {
		return fmt.Errorf("engine: flow has empty prefix")
	}
	if _, dup := e.flows[prefix]; dup {
		return fmt.Errorf("engine: flow %q already registered", prefix)
	}
	e.flows[prefix] = f
	return nil
}

// HandleMessage processes one inbound message end to end: load or create
// the session, dispatch to the right handler, persist the session.
func (e *Engine) HandleMessage(ctx context.Context, msg message.InboundMessage) error {
	userID := msg.Sender.ID
	if userID == "" {
		return nil
	}

	sess, existed, err := e.loadSession(ctx, msg)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	turn := &Turn{Session: sess, Msg: msg, sender: e.sender}

	handleErr := e.dispatch(ctx, turn, existed)

	if err := e.store.Put(ctx, sess); err != nil {
		e.logger.Error("session save failed", "user_id", userID, "error", err)
		if handleErr == nil {
			handleErr = fmt.Errorf("save session: %w", err)
		}
	}
	return handleErr
}

// loadSession fetches the user's session, creating one for commands and
// button presses. Plain text from an unknown user gets no session; the
// caller answers with the /start hint instead.
func (e *Engine) loadSession(ctx context.Context, msg message.InboundMessage) (*session.Session, bool, error) {
	userID := msg.Sender.ID

	sess, err := e.store.Get(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	existed := sess != nil
	if sess == nil {
		sess = session.New(userID)
	}

	sess.ChatID = msg.Chat.ID
	if name := firstName(msg.Sender); name != "" {
		sess.Name = name
	}
	return sess, existed, nil
}

func (e *Engine) dispatch(ctx context.Context, t *Turn, existed bool) error {
	switch {
	case t.Msg.IsCallback():
		return e.dispatchCallback(ctx, t)
	case firstPhoto(t.Msg.Blocks) != nil:
		return e.dispatchPhoto(ctx, t)
	default:
		return e.dispatchText(ctx, t, existed)
	}
}

func (e *Engine) dispatchCallback(ctx context.Context, t *Turn) error {
	data := t.Msg.Callback.Data
	parts := strings.Split(data, ":")
	if len(parts) < 2 {
		return e.unknownCallback(ctx, t, data)
	}

	flow, ok := e.flows[parts[0]]
	if !ok {
		return e.unknownCallback(ctx, t, data)
	}

	e.logger.Debug("callback dispatch",
		"user_id", t.Session.UserID, "flow", parts[0], "action", parts[1])
	return flow.HandleAction(ctx, t, parts[1], parts[2:])
}

func (e *Engine) unknownCallback(ctx context.Context, t *Turn, data string) error {
	e.logger.Warn("unknown callback", "user_id", t.Session.UserID, "data", data)
	return t.Edit(ctx, unknownCallbackText, returnToMainKeyboard())
}

func (e *Engine) dispatchPhoto(ctx context.Context, t *Turn) error {
	photo := firstPhoto(t.Msg.Blocks)

	if flow, ok := e.flowForState(t.Session.State); ok {
		if ph, ok := flow.(PhotoHandler); ok {
			handled, err := ph.HandlePhoto(ctx, t, *photo)
			if err != nil || handled {
				return err
			}
		}
	}
	return t.Reply(ctx, photoHintText)
}

func (e *Engine) dispatchText(ctx context.Context, t *Turn, existed bool) error {
	text := strings.TrimSpace(firstText(t.Msg.Blocks))

	if strings.HasPrefix(text, "/") {
		return e.dispatchCommand(ctx, t, text)
	}

	if !existed {
		return t.Reply(ctx, noSessionText)
	}

	if flow, ok := e.flowForState(t.Session.State); ok {
		handled, err := flow.HandleText(ctx, t, text)
		if err != nil || handled {
			return err
		}
	}
	return t.ReplyMenu(ctx, useMenuText, mainMenuKeyboard())
}

func (e *Engine) dispatchCommand(ctx context.Context, t *Turn, text string) error {
	cmd := strings.ToLower(strings.Fields(text)[0])
	// Group chats address commands as /start@BotName.
	if at := strings.Index(cmd, "@"); at > 0 {
		cmd = cmd[:at]
	}

	switch cmd {
	case "/start":
		return t.ReplyMenu(ctx, welcomeText(t.Session.Name), mainMenuKeyboard())
	case "/help":
		return t.Reply(ctx, helpText)
	default:
		e.logger.Debug("unknown command", "user_id", t.Session.UserID, "command", cmd)
		return t.ReplyMenu(ctx, useMenuText, mainMenuKeyboard())
	}
}

// flowForState finds the flow whose prefix the session state starts with.
func (e *Engine) flowForState(state string) (Flow, bool) {
	for prefix, flow := range e.flows {
		if strings.HasPrefix(state, prefix) {
			return flow, true
		}
	}
	return nil, false
}

func firstName(s message.Sender) string {
	if fields := strings.Fields(s.DisplayName); len(fields) > 0 {
		return fields[0]
	}
	return s.Username
}

func firstText(blocks []message.ContentBlock) string {
	for _, b := range blocks {
		if b.Type == message.BlockText {
			return b.Text
		}
	}
	return ""
}

func firstPhoto(blocks []message.ContentBlock) *message.ContentBlock {
	for i, b := range blocks {
		if b.Type == message.BlockImage {
			return &blocks[i]
		}
	}
	return nil
}
