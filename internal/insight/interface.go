package insight

import "context"

// Provider is a chat backend the narrator can speak through.
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest holds one narration request. The narrator always asks for
// plain text, so there is no structured-output mode here.
type ChatRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float64
}

// Message is one chat turn; Role is "user" or "assistant".
type Message struct {
	Role    string
	Content string
}

// ChatResponse holds the backend's reply.
type ChatResponse struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage tracks token consumption per request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
