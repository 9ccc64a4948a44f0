package cancellation

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestToken(t *testing.T) {
	t.Parallel()

	tok := NewToken()
	if tok.Cancelled() {
		t.Fatal("new token should not be cancelled")
	}
	tok.Cancel()
	tok.Cancel()
	if !tok.Cancelled() {
		t.Fatal("expected token to be cancelled")
	}

	var nilTok *Token
	if nilTok.Cancelled() {
		t.Error("nil token should report not cancelled")
	}
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	sig := FromContext(ctx)
	if sig.Cancelled() {
		t.Fatal("expected live context to be not cancelled")
	}
	cancel()
	if !sig.Cancelled() {
		t.Fatal("expected cancelled context to be reported")
	}
}

func TestAny(t *testing.T) {
	t.Parallel()

	a, b := NewToken(), NewToken()
	sig := Any(a, nil, b)
	if sig.Cancelled() {
		t.Fatal("expected not cancelled")
	}
	b.Cancel()
	if !sig.Cancelled() {
		t.Fatal("expected cancelled once any signal is")
	}
}

func TestMemoryRegistry(t *testing.T) {
	t.Parallel()

	reg := NewMemoryRegistry()
	ctx := context.Background()

	if err := reg.Cancel(ctx, "missing"); !errors.Is(err, ErrUnknownJob) {
		t.Fatalf("expected ErrUnknownJob, got %v", err)
	}

	sig := reg.Signal("job-1")
	if sig != reg.Signal("job-1") {
		t.Error("expected the same signal for the same id")
	}
	if sig.Cancelled() {
		t.Fatal("expected fresh job to be not cancelled")
	}
	if err := reg.Cancel(ctx, "job-1"); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if !sig.Cancelled() {
		t.Fatal("expected job to be cancelled")
	}

	reg.Release("job-1")
	if err := reg.Cancel(ctx, "job-1"); !errors.Is(err, ErrUnknownJob) {
		t.Fatalf("expected released job to be unknown, got %v", err)
	}
}

func TestMemoryRegistry_Concurrent(t *testing.T) {
	t.Parallel()

	reg := NewMemoryRegistry()
	sig := reg.Signal("job")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = reg.Cancel(context.Background(), "job")
			_ = sig.Cancelled()
		}()
	}
	wg.Wait()

	if !sig.Cancelled() {
		t.Fatal("expected job to be cancelled")
	}
}
