package fakes

import (
	"context"
	"errors"
	"sync"

	"github.com/punchlinehq/punchline/internal/llm"
)

// FakeLLM replays scripted replies in order and records every call.
type FakeLLM struct {
	mu      sync.Mutex
	Replies []string
	Err     error
	Calls   [][]llm.Message
}

func (f *FakeLLM) Generate(_ context.Context, messages []llm.Message) (llm.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, messages)
	if f.Err != nil {
		return llm.Response{}, f.Err
	}
	if len(f.Replies) == 0 {
		return llm.Response{}, errors.New("fake llm has no scripted reply")
	}
	reply := f.Replies[0]
	f.Replies = f.Replies[1:]
	return llm.Response{Content: reply, Model: "fake"}, nil
}

// LastPrompt returns the content of the final message of the last call, or
// empty when no call happened.
func (f *FakeLLM) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Calls) == 0 {
		return ""
	}
	last := f.Calls[len(f.Calls)-1]
	if len(last) == 0 {
		return ""
	}
	return last[len(last)-1].Content
}
