package vertex

import (
	"encoding/base64"
	"strings"

	"github.com/voltmesh/solarbot/internal/provider"
)

// --- Vertex AI generateContent request/response types (wire only) ---

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
	TopP            *float64 `json:"topP,omitempty"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

type generateResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// --- Converter functions ---

// toContents converts provider messages into Vertex contents. System
// messages are merged into a single systemInstruction; user and assistant
// messages map to the "user" and "model" roles.
func toContents(msgs []provider.LLMMessage) ([]content, *content) {
	var system []string
	contents := make([]content, 0, len(msgs))

	for _, m := range msgs {
		if m.Role == provider.MessageRoleSystem {
			system = append(system, m.Content)
			continue
		}

		role := "user"
		if m.Role == provider.MessageRoleAssistant {
			role = "model"
		}

		c := content{Role: role}
		if m.Content != "" {
			c.Parts = append(c.Parts, part{Text: m.Content})
		}
		for _, img := range m.Images {
			c.Parts = append(c.Parts, part{InlineData: &inlineData{
				MIMEType: img.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(img.Data),
			}})
		}
		if len(c.Parts) == 0 {
			continue
		}
		contents = append(contents, c)
	}

	var instruction *content
	if len(system) > 0 {
		instruction = &content{Parts: []part{{Text: strings.Join(system, "\n\n")}}}
	}
	return contents, instruction
}

// fromResponse converts a Vertex response to a provider CompletionResponse.
func fromResponse(resp *generateResponse) provider.CompletionResponse {
	out := provider.CompletionResponse{FinishReason: provider.FinishReasonStop}

	if resp.UsageMetadata != nil {
		out.Usage = provider.TokenUsage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	if len(resp.Candidates) == 0 {
		return out
	}
	cand := resp.Candidates[0]

	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		sb.WriteString(p.Text)
	}
	out.Content = sb.String()
	out.FinishReason = mapFinishReason(cand.FinishReason)

	return out
}

// mapFinishReason maps Vertex finish reasons to provider finish reasons.
func mapFinishReason(reason string) provider.FinishReason {
	switch reason {
	case "MAX_TOKENS":
		return provider.FinishReasonLength
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII":
		return provider.FinishReasonFiltering
	default:
		return provider.FinishReasonStop
	}
}
