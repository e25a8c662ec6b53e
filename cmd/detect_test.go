package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huuquangg/dfscan/internal/session"
)

// newDetectBackend serves a canned verdict and records whether the request
// carried a bearer token.
func newDetectBackend(t *testing.T, sawAuth *bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	handler := func(w http.ResponseWriter, r *http.Request) {
		if sawAuth != nil {
			*sawAuth = r.Header.Get("Authorization") != ""
		}
		if _, _, err := r.FormFile("file"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"label":      "FAKE",
			"confidence": 87.5,
			"reasoning":  "Blending boundary near left ear.",
		})
	}
	handle(mux, http.MethodPost, "/api/detect/image", handler)
	handle(mux, http.MethodPost, "/api/detect/video", handler)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeTestMedia(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("media bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDetectPrintsVerdict(t *testing.T) {
	isolate(t)
	var sawAuth bool
	srv := newDetectBackend(t, &sawAuth)

	out, err := executeCommand(t, "", "detect", writeTestMedia(t, "photo.jpg"), "--api", srv.URL)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	for _, want := range []string{
		"File:       photo.jpg",
		"Kind:       image",
		"Verdict:    FAKE • 87.50%",
		"Blending boundary near left ear.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Anonymous scans go out without credentials.
	if sawAuth {
		t.Error("logged-out detect sent an Authorization header")
	}
}

func TestDetectSendsTokenWhenLoggedIn(t *testing.T) {
	isolate(t)
	var sawAuth bool
	srv := newDetectBackend(t, &sawAuth)

	store, err := session.NewStore()
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Save(&session.Session{Token: "tok-abc", Email: "a@x.com"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := executeCommand(t, "", "detect", writeTestMedia(t, "clip.mp4"), "--api", srv.URL); err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !sawAuth {
		t.Error("logged-in detect did not send the session token")
	}
}

func TestDetectWritesMarkdownReport(t *testing.T) {
	isolate(t)
	srv := newDetectBackend(t, nil)

	reportPath := filepath.Join(t.TempDir(), "report.md")
	out, err := executeCommand(t, "",
		"detect", writeTestMedia(t, "photo.png"), "--api", srv.URL, "-o", reportPath)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !strings.Contains(out, "Report written to "+reportPath) {
		t.Errorf("output = %q", out)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	md := string(data)
	if !strings.Contains(md, "**FAKE • 87.50%**") {
		t.Errorf("report missing verdict:\n%s", md)
	}
	if !strings.Contains(md, "Blending boundary near left ear.") {
		t.Errorf("report missing reasoning:\n%s", md)
	}
}

// TestDetectReportHonorsConfiguredDefaultFormat verifies that a report
// written without --format uses the merged default_format setting.
func TestDetectReportHonorsConfiguredDefaultFormat(t *testing.T) {
	isolate(t)
	srv := newDetectBackend(t, nil)

	if err := os.WriteFile(".dfscanconfig", []byte(`{"default_format": "json"}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	reportPath := filepath.Join(t.TempDir(), "report.json")
	if _, err := executeCommand(t, "",
		"detect", writeTestMedia(t, "photo.jpg"), "--api", srv.URL, "-o", reportPath); err != nil {
		t.Fatalf("detect: %v", err)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var rep struct {
		Filename string `json:"filename"`
		Result   struct {
			Label string `json:"label"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, data)
	}
	if rep.Filename != "photo.jpg" || rep.Result.Label != "FAKE" {
		t.Errorf("report = %+v", rep)
	}
}

func TestDetectBackendFailureSurfacesDetail(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Unsupported media"})
	}))
	t.Cleanup(srv.Close)

	_, err := executeCommand(t, "", "detect", writeTestMedia(t, "photo.jpg"), "--api", srv.URL)
	if err == nil {
		t.Fatal("expected detect to fail")
	}
	if !strings.Contains(err.Error(), "Unsupported media") {
		t.Errorf("error = %q", err)
	}
}
