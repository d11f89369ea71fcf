package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

// buildBinary returns BLOSSOM_BIN when set, otherwise compiles the CLI into a temp dir
func buildBinary(t *testing.T) string {
	t.Helper()
	if bin := os.Getenv("BLOSSOM_BIN"); bin != "" {
		return bin
	}
	bin := filepath.Join(t.TempDir(), "blossom")
	build := exec.Command("go", "build", "-o", bin, ".")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build blossom: %v\nOutput: %s", err, out)
	}
	return bin
}

func isolatedEnv(home string, extra ...string) []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") ||
			strings.HasPrefix(e, "BLOSSOM_") || strings.HasPrefix(e, "GEMINI_") || strings.HasPrefix(e, "ENV_FILE=") {
			continue
		}
		env = append(env, e)
	}
	env = append(env, "HOME="+home, "XDG_CONFIG_HOME="+filepath.Join(home, ".config"))
	return append(env, extra...)
}

func runCmd(t *testing.T, bin, dir string, env []string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Env = env
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command blossom %v failed: %v\nOutput: %s", args, err, out)
	}
	return string(out)
}

func TestEndToEndWorkflow(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	bin := buildBinary(t)

	var calls atomic.Int32
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("x-goog-api-key") != "e2e-key" {
			http.Error(w, "bad key", http.StatusUnauthorized)
			return
		}
		record := `{"quote":"花開有時","author":"測試者","fact":"櫻花約在四月盛開。"}`
		resp := map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{map[string]any{"text": record}}},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer gemini.Close()

	home := t.TempDir()
	workDir := t.TempDir()
	storePath := filepath.Join(home, "data", "blossom.db")
	env := isolatedEnv(home,
		"BLOSSOM_STORE="+storePath,
		"BLOSSOM_API_KEY=e2e-key",
		"BLOSSOM_BASE_URL="+gemini.URL,
	)

	t.Log("Initializing store...")
	out := runCmd(t, bin, workDir, env, "init")
	if !strings.Contains(out, "Initialized blossom storage at: "+storePath) {
		t.Errorf("unexpected init output: %s", out)
	}

	runCmd(t, bin, workDir, env, "settings", "--month=12", "--day=25")
	out = runCmd(t, bin, workDir, env, "countdown")
	if !strings.Contains(out, "until 12.25") && !strings.Contains(out, "12.25 is here") {
		t.Errorf("countdown should use the stored target: %s", out)
	}

	t.Log("Fetching insight...")
	out = runCmd(t, bin, workDir, env, "insight", "--json")
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("insight --json output is not JSON: %v\n%s", err, out)
	}
	if got["quote"] != "花開有時" || got["source"] != "network" {
		t.Errorf("unexpected insight: %v", got)
	}

	out = runCmd(t, bin, workDir, env, "insight")
	if !strings.Contains(out, "source: cache") {
		t.Errorf("second fetch should be served from cache: %s", out)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected 1 Gemini call, got %d", n)
	}

	out = runCmd(t, bin, workDir, env, "cache", "show")
	if !strings.Contains(out, "daily_insight_424") || !strings.Contains(out, "fresh") {
		t.Errorf("unexpected cache show output: %s", out)
	}

	runCmd(t, bin, workDir, env, "cache", "clear")
	out = runCmd(t, bin, workDir, env, "cache", "show")
	if !strings.Contains(out, "No insight cached") {
		t.Errorf("cache should be empty after clear: %s", out)
	}

	t.Log("Checking fallback...")
	offline := isolatedEnv(home,
		"BLOSSOM_STORE="+storePath,
		"BLOSSOM_API_KEY=wrong-key",
		"BLOSSOM_BASE_URL="+gemini.URL,
	)
	out = runCmd(t, bin, workDir, offline, "insight")
	if !strings.Contains(out, "source: fallback") || !strings.Contains(out, "春之詩人") {
		t.Errorf("expected fallback insight: %s", out)
	}

	out = runCmd(t, bin, workDir, env, "backup", "create")
	if !strings.Contains(out, "Backup created") {
		t.Errorf("unexpected backup output: %s", out)
	}
}

func TestUninitializedStoreFails(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	bin := buildBinary(t)
	home := t.TempDir()
	env := isolatedEnv(home, fmt.Sprintf("BLOSSOM_STORE=%s", filepath.Join(home, "missing.db")))

	cmd := exec.Command(bin, "cache", "show")
	cmd.Env = env
	cmd.Dir = home
	out, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected failure for an uninitialized store, got: %s", out)
	}
	if !strings.Contains(string(out), "blossom init") {
		t.Errorf("error should hint at init: %s", out)
	}
}
