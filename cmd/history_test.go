package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/huuquangg/dfscan/internal/session"
)

func newHistoryBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	handle(mux, http.MethodGet, "/api/history", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"history": []map[string]any{
				{
					"id":         7,
					"file_type":  "image",
					"filename":   "photo.jpg",
					"prediction": "FAKE",
					"confidence": 87.5,
					"timestamp":  "2026-08-30T12:00:00Z",
				},
			},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func loginAs(t *testing.T, token, email string) {
	t.Helper()
	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Save(&session.Session{Token: token, Email: email}); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestHistoryListsScans(t *testing.T) {
	isolate(t)
	srv := newHistoryBackend(t)
	loginAs(t, "tok-abc", "a@x.com")

	out, err := executeCommand(t, "", "history", "--api", srv.URL)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "FAKE • 87.50%") {
		t.Errorf("output missing verdict:\n%s", out)
	}
	if !strings.Contains(out, "photo.jpg") {
		t.Errorf("output missing filename:\n%s", out)
	}
}

func TestHistoryJSONFormat(t *testing.T) {
	isolate(t)
	srv := newHistoryBackend(t)
	loginAs(t, "tok-abc", "a@x.com")

	out, err := executeCommand(t, "", "history", "--api", srv.URL, "--format", "json")
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	var entries []struct {
		ID         int     `json:"id"`
		Filename   string  `json:"filename"`
		Prediction string  `json:"prediction"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(entries) != 1 || entries[0].ID != 7 || entries[0].Prediction != "FAKE" {
		t.Errorf("entries = %+v", entries)
	}
}

// TestHistoryHonorsConfiguredDefaultFormat verifies that the merged
// default_format setting applies when no --format flag is given.
func TestHistoryHonorsConfiguredDefaultFormat(t *testing.T) {
	isolate(t)
	srv := newHistoryBackend(t)
	loginAs(t, "tok-abc", "a@x.com")

	if err := os.WriteFile(".dfscanconfig", []byte(`{"default_format": "json"}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, err := executeCommand(t, "", "history", "--api", srv.URL)
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	var entries []struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("configured default_format json not honored: %v\n%s", err, out)
	}
	if len(entries) != 1 || entries[0].ID != 7 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestHistoryExpiredTokenFails(t *testing.T) {
	isolate(t)
	srv := newHistoryBackend(t)
	loginAs(t, "stale-token", "a@x.com")

	_, err := executeCommand(t, "", "history", "--api", srv.URL)
	if err == nil {
		t.Fatal("expected history to fail with a rejected token")
	}
	if !strings.Contains(err.Error(), "Not authenticated") {
		t.Errorf("error = %q", err)
	}
}
