package provider

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestLLMMessageJSONRoundTrip(t *testing.T) {
	t.Parallel()

	msg := LLMMessage{
		Role:    MessageRoleUser,
		Content: "hello",
		Images:  []ImagePart{{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8}}},
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got LLMMessage
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Role != msg.Role || got.Content != msg.Content {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, msg)
	}
	if len(got.Images) != 1 || got.Images[0].MIMEType != "image/jpeg" || !bytes.Equal(got.Images[0].Data, msg.Images[0].Data) {
		t.Errorf("images mismatch: got %+v", got.Images)
	}
}

func TestLLMMessageOmitempty(t *testing.T) {
	t.Parallel()

	msg := LLMMessage{Role: MessageRoleSystem, Content: "you are helpful"}
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}

	if _, ok := raw["images"]; ok {
		t.Error("expected images to be omitted when empty")
	}
}

func TestCompletionRequestOmitempty(t *testing.T) {
	t.Parallel()

	req := CompletionRequest{
		Messages: []LLMMessage{{Role: MessageRoleUser, Content: "hi"}},
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}

	for _, key := range []string{"max_tokens", "temperature", "top_p", "stop"} {
		if _, ok := raw[key]; ok {
			t.Errorf("expected %s to be omitted when zero/nil", key)
		}
	}
}

func TestCompletionRequestWithTemperature(t *testing.T) {
	t.Parallel()

	temp := 0.7
	req := CompletionRequest{
		Messages:    []LLMMessage{{Role: MessageRoleUser, Content: "hi"}},
		Temperature: &temp,
	}

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got CompletionRequest
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Temperature == nil {
		t.Fatal("expected temperature to be non-nil")
	}
	if *got.Temperature != temp {
		t.Errorf("temperature = %v, want %v", *got.Temperature, temp)
	}
}

func TestCompletionRequestHasImages(t *testing.T) {
	t.Parallel()

	textOnly := CompletionRequest{
		Messages: []LLMMessage{
			{Role: MessageRoleSystem, Content: "you are helpful"},
			{Role: MessageRoleUser, Content: "hi"},
		},
	}
	if textOnly.HasImages() {
		t.Error("HasImages() = true for text-only request")
	}

	withImage := CompletionRequest{
		Messages: []LLMMessage{
			{Role: MessageRoleSystem, Content: "you are helpful"},
			{Role: MessageRoleUser, Content: "analyze this", Images: []ImagePart{{MIMEType: "image/png", Data: []byte{1}}}},
		},
	}
	if !withImage.HasImages() {
		t.Error("HasImages() = false for request with an image part")
	}
}

func TestCompletionResponseRoundTrip(t *testing.T) {
	t.Parallel()

	resp := CompletionResponse{
		Content:      "The answer is 42.",
		FinishReason: FinishReasonStop,
		Usage: TokenUsage{
			PromptTokens:     10,
			CompletionTokens: 5,
			TotalTokens:      15,
		},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got CompletionResponse
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got != resp {
		t.Errorf("round-trip mismatch: got %+v, want %+v", got, resp)
	}
}

func TestRoleConstants(t *testing.T) {
	t.Parallel()

	roles := map[Role]string{
		RolePrimary:  "primary",
		RoleVision:   "vision",
		RoleFallback: "fallback",
	}
	for r, want := range roles {
		if string(r) != want {
			t.Errorf("Role %v = %q, want %q", r, string(r), want)
		}
	}
}

func TestFinishReasonConstants(t *testing.T) {
	t.Parallel()

	reasons := map[FinishReason]string{
		FinishReasonStop:      "stop",
		FinishReasonLength:    "length",
		FinishReasonFiltering: "filtering",
	}
	for r, want := range reasons {
		t.Run(want, func(t *testing.T) {
			if string(r) != want {
				t.Errorf("FinishReason = %q, want %q", string(r), want)
			}
		})
	}
}
