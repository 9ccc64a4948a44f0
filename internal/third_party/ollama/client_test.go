package ollama

import (
	"codeshift/pkg/types"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOllamaClient(types.OllamaConfig{BaseURL: srv.URL, Model: "test-model"}, zap.NewNop())
}

func testRequest() types.GenerationRequest {
	return types.GenerationRequest{Prompt: "translate", Config: types.DefaultGenerationConfig()}
}

func TestGenerateStream(t *testing.T) {
	t.Parallel()

	var got generateBody
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		fmt.Fprintln(w, `{"response":"def ","done":false}`)
		fmt.Fprintln(w, ``)
		fmt.Fprintln(w, `{"response":"add():","done":false}`)
		fmt.Fprintln(w, `{"response":"","done":true}`)
		fmt.Fprintln(w, `{"response":"ignored","done":false}`)
	})

	var parts []string
	for fragment, err := range client.GenerateStream(context.Background(), testRequest()) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		parts = append(parts, fragment)
	}

	if strings.Join(parts, "") != "def add():" {
		t.Errorf("unexpected stream %q", parts)
	}
	if !got.Stream || got.Model != "test-model" || got.Prompt != "translate" {
		t.Errorf("unexpected request body %+v", got)
	}
	if got.Options["num_predict"] != float64(8192) {
		t.Errorf("expected num_predict 8192, got %v", got.Options["num_predict"])
	}
}

func TestGenerateStream_HTTPError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"slow down"}`))
	})

	var gotErr error
	for _, err := range client.GenerateStream(context.Background(), testRequest()) {
		if err != nil {
			gotErr = err
		}
	}
	if gotErr == nil || !strings.Contains(gotErr.Error(), "429") {
		t.Fatalf("expected 429 error, got %v", gotErr)
	}
}

func TestGenerateStream_ErrorChunk(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response":"x","done":false}`)
		fmt.Fprintln(w, `{"error":"model not found"}`)
	})

	var parts []string
	var gotErr error
	for fragment, err := range client.GenerateStream(context.Background(), testRequest()) {
		if err != nil {
			gotErr = err
			break
		}
		parts = append(parts, fragment)
	}
	if len(parts) != 1 {
		t.Errorf("expected one fragment before the error, got %q", parts)
	}
	if gotErr == nil || !strings.Contains(gotErr.Error(), "model not found") {
		t.Fatalf("unexpected error %v", gotErr)
	}
}

func TestGenerateStream_ConsumerStops(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 5; i++ {
			fmt.Fprintf(w, "{\"response\":\"%d\",\"done\":false}\n", i)
		}
	})

	count := 0
	for _, err := range client.GenerateStream(context.Background(), testRequest()) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("expected to stop after 2 fragments, got %d", count)
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body generateBody
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Stream {
			t.Error("expected non-streaming request")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"print(1)","done":true}`))
	})

	text, err := client.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "print(1)" {
		t.Errorf("unexpected response %q", text)
	}
}

func TestGenerate_HTTPError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`boom`))
	})

	if _, err := client.Generate(context.Background(), testRequest()); err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected 500 error, got %v", err)
	}
}
