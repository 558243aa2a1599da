package llm

import "context"

// Message is one chat turn sent to the model.
type Message struct {
	Role    string
	Content string
}

// Response is the model's reply with token accounting.
type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client generates chat completions.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
