// Package telegram implements the Telegram Bot API channel for the DEG
// energy agent.
//
// It provides a bidirectional bridge between Telegram and the agent's
// platform-agnostic message model, supporting:
//
//   - Inbound message conversion (text, photo, audio, voice, document, location, sticker)
//   - Callback query handling for inline keyboard buttons
//   - Outbound message dispatch with automatic chunking via channel.SplitMessage
//   - Inline keyboards and message edits for menu-driven flows
//   - Two delivery modes: long-polling (default) and webhook
//   - Typing indicators via sendChatAction
//   - MarkdownV2 escaping and formatting utilities
//
// The module registers itself as "channel.telegram" via init() and implements
// the full module lifecycle: Configure → Provision → Validate → Start → Stop.
//
// No external Telegram library is used, the module communicates with the
// Bot API via raw net/http + encoding/json.
package telegram
