package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, num int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		Endpoint:   srv.URL,
		APIKey:     "test-key",
		NumResults: num,
		TimeoutMS:  2000,
	})
}

func TestSearchCondenseOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-API-KEY") != "test-key" {
			t.Errorf("missing api key header")
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		if body["q"] != "capital of france" {
			t.Errorf("q=%v", body["q"])
		}
		_, _ = w.Write([]byte(`{
  "answerBox": {"answer": "Paris"},
  "knowledgeGraph": {"title": "Paris", "description": "Capital of France"},
  "organic": [
    {"title": "Paris - Wikipedia", "snippet": "Paris is the capital"},
    {"title": "France", "snippet": "Its capital is Paris"},
    {"title": "Extra", "snippet": "Over limit"},
    {"title": "More", "snippet": "Also over"}
  ]
}`))
	}, 3)

	got, err := c.Search(context.Background(), "capital of france")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(got, "\n")
	if lines[0] != "Recent Web Results:" {
		t.Fatalf("header=%q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "AnswerBox: Paris") {
		t.Fatalf("line1=%q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "KnowledgeGraph: Paris - Capital of France") {
		t.Fatalf("line2=%q", lines[2])
	}
	// organic 截断到 num_results / organic truncated to num_results
	if len(lines) != 6 {
		t.Fatalf("lines=%d: %q", len(lines), got)
	}
}

func TestSearchZeroSnippetsYieldsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"organic": []}`))
	}, 3)

	got, err := c.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("got=%q", got)
	}
}

func TestSearchQuotaExhausted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, 3)

	_, err := c.Search(context.Background(), "q")
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("err=%v", err)
	}
}

func TestSearchServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, 3)

	_, err := c.Search(context.Background(), "q")
	if err == nil || errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("err=%v", err)
	}
}

func TestAvailable(t *testing.T) {
	if NewClient(Config{}).Available() {
		t.Fatalf("client without key should be unavailable")
	}
	if !NewClient(Config{APIKey: "k"}).Available() {
		t.Fatalf("client with key should be available")
	}
}
