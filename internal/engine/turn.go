package engine

import (
	"context"

	"github.com/voltmesh/solarbot/internal/session"
	"github.com/voltmesh/solarbot/pkg/message"
)

// Sender delivers outbound messages. The channel dispatcher satisfies it.
type Sender interface {
	Send(ctx context.Context, msg message.OutboundMessage) error
}

// Turn bundles everything a flow handler needs for one inbound message:
// the user's session (mutable; the engine persists it after the handler
// returns) and reply helpers bound to the originating chat and channel.
type Turn struct {
	Session *session.Session
	Msg     message.InboundMessage

	sender Sender
}

// NewTurn builds a turn outside the engine dispatch path. Flow tests and
// scheduled jobs use it; normal traffic gets turns from HandleMessage.
func NewTurn(sess *session.Session, msg message.InboundMessage, sender Sender) *Turn {
	return &Turn{Session: sess, Msg: msg, sender: sender}
}

// Reply sends a plain text message to the originating chat.
func (t *Turn) Reply(ctx context.Context, text string) error {
	return t.Send(ctx, message.NewTextMessage(t.Msg.Chat, text))
}

// ReplyMenu sends a text message with an inline keyboard.
func (t *Turn) ReplyMenu(ctx context.Context, text string, kb *message.Keyboard) error {
	return t.Send(ctx, message.NewMenuMessage(t.Msg.Chat, text, kb))
}

// Edit rewrites the message whose button triggered this turn. When the turn
// was not a button press it falls back to sending a new message, so menu
// handlers work for both entry points.
func (t *Turn) Edit(ctx context.Context, text string, kb *message.Keyboard) error {
	if t.Msg.Callback != nil && t.Msg.Callback.MessageID != "" {
		return t.Send(ctx, message.NewEditMessage(t.Msg.Chat, t.Msg.Callback.MessageID, text, kb))
	}
	return t.ReplyMenu(ctx, text, kb)
}

// MainMenu shows the welcome screen with the top-level menu, editing in
// place when the turn came from a button press.
func (t *Turn) MainMenu(ctx context.Context) error {
	t.Session.State = session.StateNewUser
	return t.Edit(ctx, welcomeText(t.Session.Name), mainMenuKeyboard())
}

// Unknown answers an action the owning flow does not recognize with the
// apology screen and a route back to the main menu.
func (t *Turn) Unknown(ctx context.Context) error {
	return t.Edit(ctx, unknownCallbackText, returnToMainKeyboard())
}

// Send delivers an outbound message, stamping the originating channel so
// the dispatcher can route it.
func (t *Turn) Send(ctx context.Context, msg message.OutboundMessage) error {
	if msg.Channel == "" {
		msg.Channel = t.Msg.Channel
	}
	return t.sender.Send(ctx, msg)
}
