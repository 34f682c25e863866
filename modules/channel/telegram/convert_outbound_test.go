package telegram

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voltmesh/solarbot/pkg/message"
)

func TestSendChunk_TextAutoMarkdownV2(t *testing.T) {
	var captured SendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}
		writeJSON(t, w, APIResponse[Message]{
			OK:     true,
			Result: Message{MessageID: 1, Chat: Chat{ID: 42, Type: "private"}},
		})
	}))
	defer srv.Close()

	tg := &Telegram{
		client: NewClient("TOKEN", srv.URL),
		logger: discardLogger(),
	}

	msg := message.OutboundMessage{
		Chat: message.Chat{ID: "42", Type: message.ChatDM},
		Blocks: []message.ContentBlock{
			{Type: message.BlockText, Text: "Hello **world**!"},
		},
		// Hints is nil, should trigger auto MarkdownV2 conversion.
	}

	if err := tg.sendOutbound(context.Background(), msg); err != nil {
		t.Fatalf("sendOutbound() error: %v", err)
	}

	if captured.ParseMode != "MarkdownV2" {
		t.Errorf("ParseMode = %q, want %q", captured.ParseMode, "MarkdownV2")
	}

	// FormatMarkdownV2 converts **world** → *world* and escapes other chars.
	want := FormatMarkdownV2("Hello **world**!")
	if captured.Text != want {
		t.Errorf("Text = %q, want %q", captured.Text, want)
	}
}

func TestSendChunk_TextExplicitParseMode(t *testing.T) {
	var captured SendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}
		writeJSON(t, w, APIResponse[Message]{
			OK:     true,
			Result: Message{MessageID: 1, Chat: Chat{ID: 42, Type: "private"}},
		})
	}))
	defer srv.Close()

	tg := &Telegram{
		client: NewClient("TOKEN", srv.URL),
		logger: discardLogger(),
	}

	msg := message.OutboundMessage{
		Chat: message.Chat{ID: "42", Type: message.ChatDM},
		Blocks: []message.ContentBlock{
			{Type: message.BlockText, Text: "<b>bold</b>"},
		},
		Hints: &message.OutboundHints{ParseMode: "HTML"},
	}

	if err := tg.sendOutbound(context.Background(), msg); err != nil {
		t.Fatalf("sendOutbound() error: %v", err)
	}

	if captured.ParseMode != "HTML" {
		t.Errorf("ParseMode = %q, want %q", captured.ParseMode, "HTML")
	}
	if captured.Text != "<b>bold</b>" {
		t.Errorf("Text = %q, want %q", captured.Text, "<b>bold</b>")
	}
}

func TestSendOutbound_KeyboardOnTextBlock(t *testing.T) {
	var captured SendMessageRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}
		writeJSON(t, w, APIResponse[Message]{
			OK:     true,
			Result: Message{MessageID: 1, Chat: Chat{ID: 42, Type: "private"}},
		})
	}))
	defer srv.Close()

	tg := &Telegram{
		client: NewClient("TOKEN", srv.URL),
		logger: discardLogger(),
	}

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "Start Solar Onboarding", Data: "solar_onboarding:start"}).
		Row(message.Button{Text: "View on Marketplace", URL: "https://example.com/nft/1"})

	msg := message.NewMenuMessage(message.Chat{ID: "42", Type: message.ChatDM}, "Choose:", kb)

	if err := tg.sendOutbound(context.Background(), msg); err != nil {
		t.Fatalf("sendOutbound() error: %v", err)
	}

	if captured.ReplyMarkup == nil {
		t.Fatal("ReplyMarkup = nil, want keyboard")
	}
	rows := captured.ReplyMarkup.InlineKeyboard
	if len(rows) != 2 {
		t.Fatalf("len(InlineKeyboard) = %d, want 2", len(rows))
	}
	if rows[0][0].CallbackData != "solar_onboarding:start" {
		t.Errorf("rows[0][0].CallbackData = %q", rows[0][0].CallbackData)
	}
	if rows[1][0].URL != "https://example.com/nft/1" {
		t.Errorf("rows[1][0].URL = %q", rows[1][0].URL)
	}
	if rows[1][0].CallbackData != "" {
		t.Errorf("rows[1][0].CallbackData = %q, want empty for URL button", rows[1][0].CallbackData)
	}
}

func TestSendOutbound_Edit(t *testing.T) {
	var captured EditMessageTextRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/editMessageText") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}
		writeJSON(t, w, APIResponse[Message]{
			OK:     true,
			Result: Message{MessageID: 77, Chat: Chat{ID: 42, Type: "private"}},
		})
	}))
	defer srv.Close()

	tg := &Telegram{
		client: NewClient("TOKEN", srv.URL),
		logger: discardLogger(),
	}

	kb := (&message.Keyboard{}).Row(message.Button{Text: "Back", Data: "main_menu"})
	msg := message.NewEditMessage(message.Chat{ID: "42", Type: message.ChatDM}, "77", "Updated menu", kb)

	if err := tg.sendOutbound(context.Background(), msg); err != nil {
		t.Fatalf("sendOutbound() error: %v", err)
	}

	if captured.MessageID != 77 {
		t.Errorf("MessageID = %d, want 77", captured.MessageID)
	}
	if captured.ParseMode != "MarkdownV2" {
		t.Errorf("ParseMode = %q, want %q", captured.ParseMode, "MarkdownV2")
	}
	if captured.Text != FormatMarkdownV2("Updated menu") {
		t.Errorf("Text = %q", captured.Text)
	}
	if captured.ReplyMarkup == nil || captured.ReplyMarkup.InlineKeyboard[0][0].CallbackData != "main_menu" {
		t.Errorf("ReplyMarkup = %+v, want Back button", captured.ReplyMarkup)
	}
}

func TestSendOutbound_EditInvalidMessageID(t *testing.T) {
	tg := &Telegram{
		client: NewClient("TOKEN", "http://unused.invalid"),
		logger: discardLogger(),
	}

	msg := message.NewEditMessage(message.Chat{ID: "42", Type: message.ChatDM}, "not-a-number", "x", nil)
	if err := tg.sendOutbound(context.Background(), msg); err == nil {
		t.Error("expected error for non-numeric edit message ID")
	}
}

func TestToReplyMarkup_Empty(t *testing.T) {
	if m := toReplyMarkup(nil); m != nil {
		t.Errorf("toReplyMarkup(nil) = %+v, want nil", m)
	}
	if m := toReplyMarkup(&message.Keyboard{}); m != nil {
		t.Errorf("toReplyMarkup(empty) = %+v, want nil", m)
	}
}

func TestSendChunk_ImageCaptionAutoMarkdownV2(t *testing.T) {
	var captured SendPhotoRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendPhoto") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("unmarshal request: %v", err)
		}
		writeJSON(t, w, APIResponse[Message]{
			OK:     true,
			Result: Message{MessageID: 1, Chat: Chat{ID: 42, Type: "private"}},
		})
	}))
	defer srv.Close()

	tg := &Telegram{
		client: NewClient("TOKEN", srv.URL),
		logger: discardLogger(),
	}

	msg := message.OutboundMessage{
		Chat: message.Chat{ID: "42", Type: message.ChatDM},
		Blocks: []message.ContentBlock{
			{Type: message.BlockImage, URL: "https://example.com/img.png", Caption: "A **nice** photo"},
		},
	}

	if err := tg.sendOutbound(context.Background(), msg); err != nil {
		t.Fatalf("sendOutbound() error: %v", err)
	}

	if captured.ParseMode != "MarkdownV2" {
		t.Errorf("ParseMode = %q, want %q", captured.ParseMode, "MarkdownV2")
	}

	want := FormatMarkdownV2("A **nice** photo")
	if captured.Caption != want {
		t.Errorf("Caption = %q, want %q", captured.Caption, want)
	}
}
