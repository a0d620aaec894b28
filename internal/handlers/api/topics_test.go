package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"contentradar/internal/models"
)

func newTopicApp(store TopicStore, policy StoreFailurePolicy) *fiber.App {
	app := fiber.New()
	handler := NewTopicHandler(store, policy)
	app.Get("/api/topics", handler.List)
	app.Post("/api/topics", handler.Create)
	app.Put("/api/topics/:id", handler.Update)
	app.Delete("/api/topics", handler.Delete)
	return app
}

func TestTopicListAlwaysArrays(t *testing.T) {
	store := newFakeStore()
	store.addTopic("pollen pages", []string{"pollen forecast", "pollen count"}, models.TopicPlanned)
	// A topic whose stored queries decoded to empty still lists fine.
	store.addTopic("empty queries", []string{}, models.TopicPlanned)

	app := newTopicApp(store, FailLoud)
	req, _ := http.NewRequest("GET", "/api/topics", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		Data struct {
			Topics []struct {
				Label         string          `json:"label"`
				SearchQueries json.RawMessage `json:"search_queries"`
			} `json:"topics"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Data.Topics) != 2 {
		t.Fatalf("got %d topics, want 2", len(body.Data.Topics))
	}
	for _, topic := range body.Data.Topics {
		if strings.TrimSpace(string(topic.SearchQueries)) == "null" {
			t.Errorf("topic %q: search_queries is null, want array", topic.Label)
		}
	}
}

func TestTopicDeleteIdempotent(t *testing.T) {
	store := newFakeStore()
	topic := store.addTopic("doomed", nil, models.TopicPlanned)
	app := newTopicApp(store, FailLoud)

	del := func() (int, int64) {
		req, _ := http.NewRequest("DELETE", "/api/topics", strings.NewReader(`{"id": 1}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		var body struct {
			Data struct {
				Deleted int64 `json:"deleted"`
			} `json:"data"`
		}
		raw, _ := io.ReadAll(resp.Body)
		json.Unmarshal(raw, &body)
		return resp.StatusCode, body.Data.Deleted
	}

	// First delete removes the topic; second is a no-op but answers
	// identically.
	for i := 0; i < 2; i++ {
		status, deleted := del()
		if status != http.StatusOK {
			t.Errorf("delete %d: status = %d, want 200", i+1, status)
		}
		if deleted != topic.ID {
			t.Errorf("delete %d: deleted = %d, want %d", i+1, deleted, topic.ID)
		}
	}
	if len(store.topics) != 0 {
		t.Errorf("store still holds %d topics", len(store.topics))
	}
}

func TestTopicDeleteValidation(t *testing.T) {
	app := newTopicApp(newFakeStore(), FailLoud)

	tests := []struct {
		name string
		body string
	}{
		{"zero id", `{"id": 0}`},
		{"negative id", `{"id": -4}`},
		{"malformed body", `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("DELETE", "/api/topics", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestTopicCreate(t *testing.T) {
	store := newFakeStore()
	app := newTopicApp(store, FailLoud)

	payload := `{
		"label": "air quality hub",
		"searchQueries": ["air quality today", "aqi map"],
		"description": "landing page cluster",
		"status": "planned"
	}`
	req, _ := http.NewRequest("POST", "/api/topics", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(store.topics) != 1 {
		t.Fatalf("store holds %d topics, want 1", len(store.topics))
	}
}

func TestTopicCreateValidation(t *testing.T) {
	app := newTopicApp(newFakeStore(), FailLoud)

	tests := []struct {
		name string
		body string
	}{
		{"missing label", `{"searchQueries": ["x"]}`},
		{"unknown status", `{"label": "a", "status": "brewing"}`},
		{"bad standalone url", `{"label": "a", "standaloneUrl": "javascript:alert(1)"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("POST", "/api/topics", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestTopicUpdate(t *testing.T) {
	store := newFakeStore()
	store.addTopic("old label", []string{"q1"}, models.TopicPlanned)
	app := newTopicApp(store, FailLoud)

	payload := `{"label": "new label", "status": "published", "standaloneUrl": "https://example.com/new"}`
	req, _ := http.NewRequest("PUT", "/api/topics/1", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	updated := store.topics[1]
	if updated.Label != "new label" || updated.Status != models.TopicPublished {
		t.Errorf("topic not updated: %+v", updated)
	}
	if updated.StandaloneURL != "https://example.com/new" {
		t.Errorf("standalone url = %q", updated.StandaloneURL)
	}
}

func TestTopicUpdateKeepsOmittedFields(t *testing.T) {
	store := newFakeStore()
	store.addTopic("backups", []string{"backup software"}, models.TopicPublished)
	seeded := store.topics[1]
	seeded.Description = "comparison page"
	seeded.StandaloneURL = "https://example.com/backups"
	store.topics[1] = seeded

	app := newTopicApp(store, FailLoud)

	// A status-only update must not touch any other field.
	req, _ := http.NewRequest("PUT", "/api/topics/1", strings.NewReader(`{"status": "archived"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	updated := store.topics[1]
	if updated.Status != models.TopicArchived {
		t.Errorf("status = %q, want %q", updated.Status, models.TopicArchived)
	}
	if updated.Description != "comparison page" {
		t.Errorf("description = %q, want stored value kept", updated.Description)
	}
	if updated.StandaloneURL != "https://example.com/backups" {
		t.Errorf("standalone url = %q, want stored value kept", updated.StandaloneURL)
	}
	if updated.Label != "backups" || len(updated.SearchQueries) != 1 {
		t.Errorf("label/queries changed: %+v", updated)
	}

	// An explicit empty string still clears.
	req, _ = http.NewRequest("PUT", "/api/topics/1", strings.NewReader(`{"description": ""}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	cleared := store.topics[1]
	if cleared.Description != "" {
		t.Errorf("description = %q, want cleared", cleared.Description)
	}
	if cleared.StandaloneURL != "https://example.com/backups" {
		t.Errorf("standalone url = %q, want untouched by description clear", cleared.StandaloneURL)
	}
}

func TestTopicUpdateNotFound(t *testing.T) {
	app := newTopicApp(newFakeStore(), FailLoud)

	req, _ := http.NewRequest("PUT", "/api/topics/42", strings.NewReader(`{"label": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestTopicListFailSoft(t *testing.T) {
	store := newFakeStore()
	store.failing = true

	app := newTopicApp(store, FailSoft)
	req, _ := http.NewRequest("GET", "/api/topics", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 under fail-soft", resp.StatusCode)
	}
}
