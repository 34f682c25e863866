package vertex

import (
	"testing"

	"github.com/voltmesh/solarbot/internal/provider"
)

func TestToContentsRoleMapping(t *testing.T) {
	msgs := []provider.LLMMessage{
		{Role: provider.MessageRoleSystem, Content: "be helpful"},
		{Role: provider.MessageRoleUser, Content: "hi"},
		{Role: provider.MessageRoleAssistant, Content: "hello"},
		{Role: provider.MessageRoleUser, Content: "bye"},
	}

	contents, instruction := toContents(msgs)

	if instruction == nil || instruction.Parts[0].Text != "be helpful" {
		t.Errorf("systemInstruction = %+v, want 'be helpful'", instruction)
	}
	if len(contents) != 3 {
		t.Fatalf("contents = %d, want 3 (system excluded)", len(contents))
	}
	wantRoles := []string{"user", "model", "user"}
	for i, c := range contents {
		if c.Role != wantRoles[i] {
			t.Errorf("contents[%d].Role = %q, want %q", i, c.Role, wantRoles[i])
		}
	}
}

func TestToContentsMergesSystemMessages(t *testing.T) {
	msgs := []provider.LLMMessage{
		{Role: provider.MessageRoleSystem, Content: "rule one"},
		{Role: provider.MessageRoleSystem, Content: "rule two"},
		{Role: provider.MessageRoleUser, Content: "hi"},
	}

	_, instruction := toContents(msgs)
	if instruction == nil {
		t.Fatal("systemInstruction missing")
	}
	want := "rule one\n\nrule two"
	if instruction.Parts[0].Text != want {
		t.Errorf("systemInstruction = %q, want %q", instruction.Parts[0].Text, want)
	}
}

func TestToContentsSkipsEmptyMessages(t *testing.T) {
	msgs := []provider.LLMMessage{
		{Role: provider.MessageRoleUser, Content: ""},
		{Role: provider.MessageRoleUser, Content: "hi"},
	}

	contents, _ := toContents(msgs)
	if len(contents) != 1 {
		t.Errorf("contents = %d, want empty message dropped", len(contents))
	}
}

func TestMapFinishReason(t *testing.T) {
	cases := map[string]provider.FinishReason{
		"STOP":       provider.FinishReasonStop,
		"MAX_TOKENS": provider.FinishReasonLength,
		"SAFETY":     provider.FinishReasonFiltering,
		"RECITATION": provider.FinishReasonFiltering,
		"":           provider.FinishReasonStop,
	}
	for in, want := range cases {
		if got := mapFinishReason(in); got != want {
			t.Errorf("mapFinishReason(%q) = %q, want %q", in, got, want)
		}
	}
}
