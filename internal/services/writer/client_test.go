package writer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestStartWorkflowSendsAuthAndKeyword(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/workflows" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Fatalf("unexpected auth header %q", got)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(string(body), `"keyword":"coffee grinders"`) {
			t.Fatalf("unexpected body %s", body)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL})
	if err := client.StartWorkflow(context.Background(), "coffee grinders"); err != nil {
		t.Fatalf("StartWorkflow returned error: %v", err)
	}
}

func TestGenerateArticleParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/articles" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"id":    "art-42",
			"title": "The Best Coffee Grinders of 2026",
		})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	article, err := client.GenerateArticle(context.Background(), "coffee grinders")
	if err != nil {
		t.Fatalf("GenerateArticle returned error: %v", err)
	}
	if article.ID != "art-42" || article.Title != "The Best Coffee Grinders of 2026" {
		t.Fatalf("unexpected article: %#v", article)
	}
}

func TestGenerateArticleRequiresID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"title": "no id"})
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	if _, err := client.GenerateArticle(context.Background(), "keyword"); err == nil {
		t.Fatal("expected missing article id to fail")
	}
}

func TestGenerateFeaturedImageAndPublish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/images":
			_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example/img.png"})
		case "/v1/publish":
			body, _ := io.ReadAll(r.Body)
			if !strings.Contains(string(body), `"articleId":"art-42"`) {
				t.Fatalf("unexpected publish body %s", body)
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://blog.example/post"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test", BaseURL: server.URL})
	imageURL, err := client.GenerateFeaturedImage(context.Background(), "coffee grinders", "The Best Grinders")
	if err != nil {
		t.Fatalf("GenerateFeaturedImage returned error: %v", err)
	}
	if imageURL != "https://cdn.example/img.png" {
		t.Fatalf("unexpected image url %q", imageURL)
	}

	postURL, err := client.Publish(context.Background(), "art-42")
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if postURL != "https://blog.example/post" {
		t.Fatalf("unexpected post url %q", postURL)
	}
}

func TestPublishRequiresArticleID(t *testing.T) {
	client := NewClient(Config{APIKey: "test", BaseURL: "http://writer.test"})
	if _, err := client.Publish(context.Background(), "   "); err == nil {
		t.Fatal("expected empty article id to fail before any request")
	}
}

func TestRetriesOnHTTP429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limited"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "art-1", "title": "Recovered"})
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
		WithRetryBackoff(0, 10*time.Second),
		WithRetryMaxAttempts(5),
	)
	article, err := client.GenerateArticle(context.Background(), "keyword")
	if err != nil {
		t.Fatalf("GenerateArticle returned error: %v", err)
	}
	if article.ID != "art-1" {
		t.Fatalf("expected recovered article, got %#v", article)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(slept) != 1 || slept[0] != time.Second {
		t.Fatalf("expected single sleep of 1s, got %v", slept)
	}
}

func TestRetriesOnHTTP500ThenGivesUp(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL},
		WithSleeper(func(time.Duration) {}),
		WithRetryBackoff(0, 0),
		WithRetryMaxAttempts(3),
	)
	err := client.StartWorkflow(context.Background(), "keyword")
	if err == nil {
		t.Fatal("expected failure after retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if !strings.Contains(err.Error(), "failed after 3 attempts") {
		t.Fatalf("expected exhausted-retries error, got %v", err)
	}
}

func TestDoesNotRetryOnHTTP400(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "bad keyword"})
	}))
	defer server.Close()

	client := NewClient(
		Config{APIKey: "test", BaseURL: server.URL},
		WithSleeper(func(time.Duration) {}),
		WithRetryMaxAttempts(5),
	)
	err := client.StartWorkflow(context.Background(), "keyword")
	if err == nil {
		t.Fatal("expected bad request to fail")
	}
	if calls != 1 {
		t.Fatalf("expected single attempt, got %d", calls)
	}
	if !IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("expected status 400 error, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/health" || r.Method != http.MethodGet {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}
