package llm

import (
	"context"
	"sync"
)

// scriptedProvider replays canned replies in order; the last one repeats
type scriptedProvider struct {
	mu      sync.Mutex
	name    string
	replies []scriptedReply
	calls   []CompletionRequest
}

type scriptedReply struct {
	text string
	err  error
}

func newScripted(replies ...scriptedReply) *scriptedProvider {
	return &scriptedProvider{name: "mock", replies: replies}
}

func (p *scriptedProvider) Name() string { return p.name }

func (p *scriptedProvider) IsAvailable(context.Context) bool { return true }

func (p *scriptedProvider) Complete(_ context.Context, req CompletionRequest) (*CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := len(p.calls)
	p.calls = append(p.calls, req)
	if idx >= len(p.replies) {
		idx = len(p.replies) - 1
	}
	r := p.replies[idx]
	if r.err != nil {
		return nil, r.err
	}
	return &CompletionResponse{Text: r.text, Model: "mock-1"}, nil
}

func (p *scriptedProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type countingLimiter struct {
	mu   sync.Mutex
	keys []string
}

func (l *countingLimiter) Wait(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.keys = append(l.keys, key)
	return nil
}
