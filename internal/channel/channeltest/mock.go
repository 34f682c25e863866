// Package channeltest provides test doubles for the channel package.
package channeltest

import (
	"context"
	"sync"

	"github.com/voltmesh/solarbot/internal/channel"
	"github.com/voltmesh/solarbot/internal/core"
	"github.com/voltmesh/solarbot/pkg/message"
)

// MockChannel is a test double that implements channel.Channel. It records
// sent messages and allows simulating inbound messages via SimulateMessage.
type MockChannel struct {
	name      string
	inbox     func(msg message.InboundMessage) error
	mu        sync.Mutex
	sent      []message.OutboundMessage
	allowList *channel.AllowList

	// SendFunc, if set, is called instead of the default recording behavior.
	SendFunc func(ctx context.Context, msg message.OutboundMessage) error
}

// Compile-time interface guards.
var _ channel.Channel = (*MockChannel)(nil)

// NewMockChannel creates a MockChannel with the given name and an optional
// allow-list. Pass nil for allowList to accept everyone.
func NewMockChannel(name string, allowList *channel.AllowList) *MockChannel {
	return &MockChannel{
		name:      name,
		allowList: allowList,
	}
}

// ModuleInfo implements core.Module.
func (m *MockChannel) ModuleInfo() core.ModuleInfo {
	return core.ModuleInfo{
		ID: core.ModuleID("channel." + m.name),
		New: func() core.Module {
			return NewMockChannel(m.name, m.allowList)
		},
	}
}

// Send records the outbound message. If SendFunc is set, it delegates to it.
func (m *MockChannel) Send(ctx context.Context, msg message.OutboundMessage) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

// SetInbox stores the inbox callback provided by the router.
func (m *MockChannel) SetInbox(fn func(msg message.InboundMessage) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inbox = fn
}

// SimulateMessage pushes an inbound message through the allow-list and into
// the inbox. It returns channel.ErrDenied if the sender is not allowed, and
// channel.ErrNoInbox if SetInbox has not been called.
func (m *MockChannel) SimulateMessage(msg message.InboundMessage) error {
	m.mu.Lock()
	al := m.allowList
	inbox := m.inbox
	m.mu.Unlock()

	if !al.IsAllowed(msg) {
		return channel.ErrDenied
	}
	if inbox == nil {
		return channel.ErrNoInbox
	}

	// Tag the message with this channel's name.
	msg.Channel = m.name
	return inbox(msg)
}

// SentMessages returns a copy of all outbound messages recorded by Send.
func (m *MockChannel) SentMessages() []message.OutboundMessage {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]message.OutboundMessage, len(m.sent))
	copy(cp, m.sent)
	return cp
}

// LastMessage returns the most recently sent message, or false when none.
func (m *MockChannel) LastMessage() (message.OutboundMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.sent) == 0 {
		return message.OutboundMessage{}, false
	}
	return m.sent[len(m.sent)-1], true
}

// Reset clears recorded sent messages.
func (m *MockChannel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

// MockTypingChannel extends MockChannel with typing indicator support.
type MockTypingChannel struct {
	*MockChannel

	mu          sync.Mutex
	typingChats []message.Chat
}

// Compile-time interface guard.
var _ channel.TypingChannel = (*MockTypingChannel)(nil)

// NewMockTypingChannel creates a MockTypingChannel.
func NewMockTypingChannel(name string, allowList *channel.AllowList) *MockTypingChannel {
	return &MockTypingChannel{
		MockChannel: NewMockChannel(name, allowList),
	}
}

// SendTyping implements channel.TypingChannel. It records the chat.
func (m *MockTypingChannel) SendTyping(_ context.Context, chat message.Chat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typingChats = append(m.typingChats, chat)
	return nil
}

// TypingChats returns a copy of all chats that received typing indicators.
func (m *MockTypingChannel) TypingChats() []message.Chat {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]message.Chat, len(m.typingChats))
	copy(cp, m.typingChats)
	return cp
}
