package provider

// Role describes the purpose a provider serves in the system.
type Role string

// Role constants for provider chain configuration.
const (
	RolePrimary  Role = "primary"
	RoleVision   Role = "vision"
	RoleFallback Role = "fallback"
)

// MessageRole identifies the sender of a message in a conversation.
type MessageRole string

// MessageRole constants for conversation messages.
const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// FinishReason describes why the model stopped generating.
type FinishReason string

// FinishReason constants for model completion termination.
const (
	FinishReasonStop      FinishReason = "stop"
	FinishReasonLength    FinishReason = "length"
	FinishReasonFiltering FinishReason = "filtering"
)

// ImagePart is an inline image attached to a message, for vision models.
type ImagePart struct {
	// MIMEType is the image media type, e.g. "image/jpeg".
	MIMEType string `json:"mime_type"`
	// Data is the raw image bytes. Providers base64-encode on the wire.
	Data []byte `json:"data"`
}

// LLMMessage represents a single message in a conversation. A message may
// carry text, images, or both.
type LLMMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
	Images  []ImagePart `json:"images,omitempty"`
}

// CompletionRequest is the input to a Provider.Complete call.
type CompletionRequest struct {
	Messages    []LLMMessage `json:"messages"`
	MaxTokens   int          `json:"max_tokens,omitempty"`
	Temperature *float64     `json:"temperature,omitempty"`
	TopP        *float64     `json:"top_p,omitempty"`
	Stop        []string     `json:"stop,omitempty"`
}

// HasImages reports whether any message carries an image part.
func (r CompletionRequest) HasImages() bool {
	for _, m := range r.Messages {
		if len(m.Images) > 0 {
			return true
		}
	}
	return false
}

// CompletionResponse is the output of a Provider.Complete call.
type CompletionResponse struct {
	Content      string       `json:"content"`
	FinishReason FinishReason `json:"finish_reason"`
	Usage        TokenUsage   `json:"usage"`
}

// TokenUsage tracks token consumption for a completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}
