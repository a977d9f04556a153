package serp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPClientSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("engine") != "google" {
			t.Errorf("expected engine google, got %s", q.Get("engine"))
		}
		if q.Get("q") != "dog food" {
			t.Errorf("expected q 'dog food', got %s", q.Get("q"))
		}
		if q.Get("api_key") != "secret" {
			t.Errorf("expected api key forwarded, got %s", q.Get("api_key"))
		}
		if q.Get("num") != "100" {
			t.Errorf("expected num default 100, got %s", q.Get("num"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"organic_results": [
				{"link": "https://example.com/a", "position": 1, "title": "A",
				 "sitelinks": {"expanded": [{"link": "https://example.com/sub"}]}},
				{"link": "https://example.com/b", "position": 2, "related_results": [{}, {}]}
			],
			"answer_box": {"type": "organic_result", "link": "https://example.com/answer"},
			"knowledge_graph": {"title": "Dog food"},
			"ads": [{"block_position": "top"}]
		}`))
	}))
	defer srv.Close()

	client, err := NewHTTPClient(HTTPConfig{Endpoint: srv.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewHTTPClient failed: %v", err)
	}

	payload, err := client.Search(context.Background(), Params{
		Engine: "google",
		Query:  "dog food",
		APIKey: "secret",
	})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if len(payload.OrganicResults) != 2 {
		t.Fatalf("expected 2 organic results, got %d", len(payload.OrganicResults))
	}
	if payload.OrganicResults[0].Sitelinks == nil || payload.OrganicResults[0].Sitelinks.Expanded == nil {
		t.Errorf("expected expanded sitelinks decoded")
	}
	if len(payload.OrganicResults[1].RelatedResults) != 2 {
		t.Errorf("expected 2 related results, got %d", len(payload.OrganicResults[1].RelatedResults))
	}
	if payload.AnswerBox == nil || payload.AnswerBox.Type != "organic_result" {
		t.Errorf("expected answer box decoded, got %+v", payload.AnswerBox)
	}
	if payload.KnowledgeGraph == nil {
		t.Errorf("expected knowledge graph block present")
	}
	if len(payload.Ads) != 1 || payload.Ads[0].BlockPosition != "top" {
		t.Errorf("unexpected ads: %+v", payload.Ads)
	}
	if payload.Misspelled() {
		t.Errorf("expected no spelling fix")
	}
}

func TestHTTPClientMisspelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"search_information": {"spelling_fix": "dog food"}, "organic_results": []}`))
	}))
	defer srv.Close()

	client, _ := NewHTTPClient(HTTPConfig{Endpoint: srv.URL})
	payload, err := client.Search(context.Background(), Params{Query: "dog fod", APIKey: "k"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if !payload.Misspelled() {
		t.Errorf("expected spelling fix detected")
	}
}

func TestHTTPClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": "Your searches for the month are exhausted"}`))
	}))
	defer srv.Close()

	client, _ := NewHTTPClient(HTTPConfig{Endpoint: srv.URL})
	if _, err := client.Search(context.Background(), Params{Query: "x", APIKey: "k"}); err == nil {
		t.Fatalf("expected error for API error payload")
	}
}

func TestHTTPClientBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, _ := NewHTTPClient(HTTPConfig{Endpoint: srv.URL})
	if _, err := client.Search(context.Background(), Params{Query: "x", APIKey: "k"}); err == nil {
		t.Fatalf("expected error for status 500")
	}
}

func TestHTTPClientMissingParams(t *testing.T) {
	client, _ := NewHTTPClient(HTTPConfig{Endpoint: "https://example.com"})

	_, err := client.Search(context.Background(), Params{Query: "x"})
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("expected ErrMissingField without api key, got %v", err)
	}

	_, err = client.Search(context.Background(), Params{APIKey: "k"})
	if !errors.Is(err, ErrMissingField) {
		t.Errorf("expected ErrMissingField without query, got %v", err)
	}
}
