// Package cancellation provides polled cancellation flags for translation jobs.
package cancellation

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Signal is a flag polled by a running translation.
type Signal interface {
	Cancelled() bool
}

// Token is an in-process cancellation flag. The zero value is ready to use.
type Token struct {
	flag atomic.Bool
}

func NewToken() *Token { return &Token{} }

func (t *Token) Cancel() { t.flag.Store(true) }

func (t *Token) Cancelled() bool {
	return t != nil && t.flag.Load()
}

type contextSignal struct {
	ctx context.Context
}

func (s contextSignal) Cancelled() bool { return s.ctx.Err() != nil }

// FromContext reports cancellation once ctx is done.
func FromContext(ctx context.Context) Signal {
	return contextSignal{ctx: ctx}
}

type anySignal []Signal

func (a anySignal) Cancelled() bool {
	for _, s := range a {
		if s != nil && s.Cancelled() {
			return true
		}
	}
	return false
}

// Any is cancelled as soon as one of signals is.
func Any(signals ...Signal) Signal {
	return anySignal(signals)
}

var ErrUnknownJob = errors.New("unknown translation job")

// Registry hands out per-job signals and cancels jobs by id.
type Registry interface {
	// Signal returns the signal for id, creating the job entry if needed.
	Signal(id string) Signal
	// Cancel flags id as cancelled. Unknown ids return ErrUnknownJob where the backend can tell.
	Cancel(ctx context.Context, id string) error
	// Release forgets id once its job has finished.
	Release(id string)
}

// MemoryRegistry keeps tokens in a map; jobs can only be cancelled from this process.
type MemoryRegistry struct {
	mu     sync.Mutex
	tokens map[string]*Token
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{tokens: make(map[string]*Token)}
}

func (r *MemoryRegistry) Signal(id string) Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	tok, ok := r.tokens[id]
	if !ok {
		tok = NewToken()
		r.tokens[id] = tok
	}
	return tok
}

func (r *MemoryRegistry) Cancel(_ context.Context, id string) error {
	r.mu.Lock()
	tok, ok := r.tokens[id]
	r.mu.Unlock()
	if !ok {
		return ErrUnknownJob
	}
	tok.Cancel()
	return nil
}

func (r *MemoryRegistry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tokens, id)
}
