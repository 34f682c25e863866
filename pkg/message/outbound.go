package message

// OutboundMessage represents a message to be sent through a channel.
type OutboundMessage struct {
	// Channel names the module that should deliver the message
	// (e.g. "channel.telegram"). The dispatcher routes on it.
	Channel   string         `json:"channel,omitempty"`
	Chat      Chat           `json:"chat"`
	ThreadID  string         `json:"thread_id,omitempty"`
	ReplyToID string         `json:"reply_to_id,omitempty"`
	Blocks    []ContentBlock `json:"blocks"`

	// EditMessageID, when set, asks the channel to edit this existing
	// message in place instead of sending a new one. Menu flows use it to
	// rewrite the message whose button was pressed.
	EditMessageID string `json:"edit_message_id,omitempty"`

	// Keyboard optionally attaches an inline keyboard.
	Keyboard *Keyboard `json:"keyboard,omitempty"`

	Hints *OutboundHints `json:"hints,omitempty"`
}

// OutboundHints carries optional delivery hints for channels.
// Zero value means no hints are set.
type OutboundHints struct {
	DisablePreview      bool   `json:"disable_preview,omitempty"`
	DisableNotification bool   `json:"disable_notification,omitempty"`
	ParseMode           string `json:"parse_mode,omitempty"`
}

// NewTextMessage creates an outbound message with a single text block.
func NewTextMessage(chat Chat, text string) OutboundMessage {
	return OutboundMessage{
		Chat:   chat,
		Blocks: []ContentBlock{NewTextBlock(text)},
	}
}

// NewMenuMessage creates an outbound text message with an inline keyboard.
func NewMenuMessage(chat Chat, text string, kb *Keyboard) OutboundMessage {
	return OutboundMessage{
		Chat:     chat,
		Blocks:   []ContentBlock{NewTextBlock(text)},
		Keyboard: kb,
	}
}

// NewEditMessage creates an outbound message that rewrites messageID in place.
func NewEditMessage(chat Chat, messageID, text string, kb *Keyboard) OutboundMessage {
	return OutboundMessage{
		Chat:          chat,
		EditMessageID: messageID,
		Blocks:        []ContentBlock{NewTextBlock(text)},
		Keyboard:      kb,
	}
}

// IsEdit reports whether the message edits an existing one.
func (m *OutboundMessage) IsEdit() bool {
	return m.EditMessageID != ""
}

// TextContent returns the concatenated text of all text blocks.
func (m *OutboundMessage) TextContent() string {
	return textContent(m.Blocks)
}

// HasMedia reports whether the message contains media blocks.
func (m *OutboundMessage) HasMedia() bool {
	return hasMedia(m.Blocks)
}
