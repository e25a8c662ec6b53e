package cmd

import (
	"bytes"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/huuquangg/dfscan/internal/config"
)

// isolate points HOME and XDG_DATA_HOME at temp dirs and moves the working
// directory away from any real project config, so commands never touch the
// developer's profile, config, or session.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("DFSCAN_API_BASE", "")
	t.Setenv("DFSCAN_FORMAT", "")
	t.Setenv("DFSCAN_WATCH_DIR", "")
	chdir(t, t.TempDir())
}

// chdir changes the working directory for the duration of the test,
// restoring the original directory on cleanup (t.Chdir needs Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

// handle registers a method-restricted route, emulating Go 1.22 method
// patterns ("POST /path") on toolchains that lack them.
func handle(mux *http.ServeMux, method, path string, h http.HandlerFunc) {
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		h(w, r)
	})
}

// executeCommand runs the root command with args and captured output,
// feeding input as stdin.
func executeCommand(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	// Flag variables outlive a single execution; reset them so one test's
	// flags never leak into the next.
	apiOverride = ""
	detectKindFlag = ""
	detectOut = ""
	detectFormat = ""
	historyFormat = ""
	activeProfile = nil
	cfg = config.Config{}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	_, err := rootCmd.ExecuteC()
	return buf.String(), err
}

func TestLogoutIsIdempotent(t *testing.T) {
	isolate(t)

	for i := 0; i < 2; i++ {
		out, err := executeCommand(t, "", "logout")
		if err != nil {
			t.Fatalf("logout #%d: %v", i+1, err)
		}
		if !strings.Contains(out, "Logged out.") {
			t.Errorf("logout #%d output = %q", i+1, out)
		}
	}
}

func TestWhoamiLoggedOut(t *testing.T) {
	isolate(t)

	out, err := executeCommand(t, "", "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "not logged in") {
		t.Errorf("output = %q", out)
	}
}

func TestHistoryRequiresLogin(t *testing.T) {
	isolate(t)

	_, err := executeCommand(t, "", "history")
	if err == nil {
		t.Fatal("expected an error when logged out")
	}
	if !strings.Contains(err.Error(), "not logged in") {
		t.Errorf("error = %q", err)
	}
}

func TestDetectUnknownExtensionNeedsKindFlag(t *testing.T) {
	isolate(t)

	_, err := executeCommand(t, "", "detect", "mystery.dat")
	if err == nil {
		t.Fatal("expected an error for an unclassifiable file")
	}
	if !strings.Contains(err.Error(), "--kind") {
		t.Errorf("error = %q", err)
	}
}
