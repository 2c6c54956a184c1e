package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/coral/internal/config"
	"github.com/dshills/coral/internal/review"
	"github.com/dshills/coral/internal/target"
)

// resetFlags resets all package-level flag variables to their defaults.
func resetFlags() {
	flagType = "auto"
	flagFormat = ""
	flagOut = ""
	flagFailUnder = -1
	flagNoProgress = false
	flagRemote = false
	flagPR = 0
	flagAddr = ""
	exitCode = ExitSuccess
}

// setupEnv isolates config and points the GitHub client at url.
func setupEnv(t *testing.T, apiURL string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{"CORAL_FORMAT", "CORAL_FAIL_UNDER", "CORAL_PROGRESS", "CORAL_GITHUB_TOKEN", "GITHUB_TOKEN", "CORAL_GITHUB_API_URL"} {
		t.Setenv(k, "")
	}
	t.Setenv("GITHUB_API_URL", apiURL)
	t.Setenv("CI", "true")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/octo/app", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"full_name":"octo/app","license":null,"open_issues_count":150}`)
	})
	mux.HandleFunc("GET /repos/octo/app/languages", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"TypeScript":100,"CSS":20}`)
	})
	mux.HandleFunc("GET /repos/octo/app/readme", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func readReport(t *testing.T, path string) review.Report {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	var r review.Report
	if err := json.Unmarshal(data, &r); err != nil {
		t.Fatalf("parsing report: %v", err)
	}
	return r
}

// --- buildOverrides tests ---

func TestBuildOverrides_NoFlags(t *testing.T) {
	resetFlags()
	m := buildOverrides()
	if len(m) != 0 {
		t.Errorf("buildOverrides() with no flags = %v, want empty map", m)
	}
}

func TestBuildOverrides_AllFlags(t *testing.T) {
	resetFlags()
	flagFormat = "json"
	flagFailUnder = 0
	flagNoProgress = true

	m := buildOverrides()
	want := map[string]string{"format": "json", "failUnder": "0", "progress": "false"}
	if len(m) != len(want) {
		t.Fatalf("buildOverrides() = %v, want %v", m, want)
	}
	for k, v := range want {
		if m[k] != v {
			t.Errorf("buildOverrides()[%q] = %q, want %q", k, m[k], v)
		}
	}
}

// --- resolveInput tests ---

func TestResolveInput(t *testing.T) {
	origInteractive, origPrompt, origDetect := isInteractive, promptTarget, detectRepo
	t.Cleanup(func() { isInteractive, promptTarget, detectRepo = origInteractive, origPrompt, origDetect })

	detectRepo = func() (string, string, error) { return "octo", "app", nil }
	promptTarget = func() (string, target.AnalysisType, error) {
		return "https://github.com/prompted/repo", target.TypeRepository, nil
	}

	t.Run("argument", func(t *testing.T) {
		resetFlags()
		url, kind, err := resolveInput([]string{"https://github.com/a/b"}, target.TypePullRequest)
		if err != nil || url != "https://github.com/a/b" || kind != target.TypePullRequest {
			t.Errorf("got %q %q %v", url, kind, err)
		}
	})

	t.Run("remote", func(t *testing.T) {
		resetFlags()
		flagRemote = true
		url, _, err := resolveInput(nil, target.TypeAuto)
		if err != nil || url != "https://github.com/octo/app" {
			t.Errorf("got %q %v", url, err)
		}
	})

	t.Run("remote pull request", func(t *testing.T) {
		resetFlags()
		flagRemote = true
		flagPR = 12
		url, _, err := resolveInput(nil, target.TypeAuto)
		if err != nil || url != "https://github.com/octo/app/pull/12" {
			t.Errorf("got %q %v", url, err)
		}
	})

	t.Run("remote detection fails", func(t *testing.T) {
		resetFlags()
		flagRemote = true
		detectRepo = func() (string, string, error) { return "", "", errors.New("no origin") }
		defer func() { detectRepo = func() (string, string, error) { return "octo", "app", nil } }()
		if _, _, err := resolveInput(nil, target.TypeAuto); err == nil {
			t.Error("expected error")
		}
	})

	t.Run("prompt", func(t *testing.T) {
		resetFlags()
		isInteractive = func() bool { return true }
		url, kind, err := resolveInput(nil, target.TypeAuto)
		if err != nil || url != "https://github.com/prompted/repo" || kind != target.TypeRepository {
			t.Errorf("got %q %q %v", url, kind, err)
		}
	})

	t.Run("no input", func(t *testing.T) {
		resetFlags()
		isInteractive = func() bool { return false }
		if _, _, err := resolveInput(nil, target.TypeAuto); !errors.Is(err, errNoURL) {
			t.Errorf("err = %v, want errNoURL", err)
		}
	})
}

// --- command tests ---

func TestVersionCmd_Execute(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version command error: %v", err)
	}
	if !strings.Contains(out, "coral version "+version) {
		t.Errorf("version output = %q", out)
	}
}

func TestReviewCmd_Repository(t *testing.T) {
	srv := fakeGitHub(t)
	setupEnv(t, srv.URL)
	outPath := filepath.Join(t.TempDir(), "report.json")

	_, err := execute(t, "review", "https://github.com/octo/app", "--format", "json", "--out", outPath)
	if err != nil {
		t.Fatalf("review error: %v", err)
	}
	if exitCode != ExitSuccess {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitSuccess)
	}

	r := readReport(t, outPath)
	if r.Score != 70 {
		t.Errorf("Score = %d, want 70", r.Score)
	}
	if len(r.Findings) != 4 {
		t.Errorf("Findings = %d, want 4", len(r.Findings))
	}
	if r.AnalysisType != target.TypeRepository {
		t.Errorf("AnalysisType = %q", r.AnalysisType)
	}
	if len(r.Agents) != 5 {
		t.Errorf("Agents = %d, want 5", len(r.Agents))
	}
}

func TestReviewCmd_FailUnder(t *testing.T) {
	srv := fakeGitHub(t)
	setupEnv(t, srv.URL)
	outPath := filepath.Join(t.TempDir(), "report.txt")

	_, err := execute(t, "review", "https://github.com/octo/app", "--fail-under", "80", "--out", outPath)
	if err != nil {
		t.Fatalf("review error: %v", err)
	}
	if exitCode != ExitBelowThreshold {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitBelowThreshold)
	}
}

func TestReviewCmd_InvalidURLStillReports(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")
	outPath := filepath.Join(t.TempDir(), "summary.txt")

	_, err := execute(t, "review", "not a url", "--format", "summary", "--out", outPath)
	if err != nil {
		t.Fatalf("review error: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "Code Review Score: 60%\nRepo: not a url\nIssues: 1\n" {
		t.Errorf("summary = %q", got)
	}
}

func TestReviewCmd_OutputWriteFailure(t *testing.T) {
	srv := fakeGitHub(t)
	setupEnv(t, srv.URL)
	outPath := filepath.Join(t.TempDir(), "missing", "report.json")

	if _, err := execute(t, "review", "https://github.com/octo/app", "--out", outPath); err != nil {
		t.Fatalf("review error: %v", err)
	}
	if exitCode != ExitRuntimeError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitRuntimeError)
	}
}

func TestReviewCmd_UsageErrors(t *testing.T) {
	setupEnv(t, "http://127.0.0.1:1")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown type", []string{"review", "https://github.com/o/r", "--type", "branch"}},
		{"bad format", []string{"review", "https://github.com/o/r", "--format", "xml"}},
		{"fail under out of range", []string{"review", "https://github.com/o/r", "--fail-under", "200"}},
		{"too many args", []string{"review", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Error("expected usage error")
			}
		})
	}
}

func TestConfigInit_CreatesFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	out, err := execute(t, "config", "init")
	if err != nil {
		t.Fatalf("config init error: %v", err)
	}

	path := filepath.Join(tmpDir, "coral", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output should mention path, got %q", out)
	}

	cfg, err := config.LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg != config.Default() {
		t.Errorf("init wrote %+v, want defaults", cfg)
	}
}

func TestConfigInit_AlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	path := filepath.Join(tmpDir, "coral", "config.yaml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("format: json\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "config", "init"); err != nil {
		t.Fatalf("config init error: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "format: json\n" {
		t.Errorf("existing config was overwritten: %q", data)
	}
}

func TestConfigSet_UpdatesFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := execute(t, "config", "set", "thresholds.largePr", "1200"); err != nil {
		t.Fatalf("config set error: %v", err)
	}

	cfg, err := config.LoadFile()
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if cfg.Thresholds.LargePR != 1200 {
		t.Errorf("LargePR = %d, want 1200", cfg.Thresholds.LargePR)
	}
	if !cfg.Progress {
		t.Error("setting one key should keep the other defaults")
	}
}

func TestConfigSet_MasksToken(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	out, err := execute(t, "config", "set", "github.token", "ghp_supersecretvalue")
	if err != nil {
		t.Fatalf("config set error: %v", err)
	}
	if strings.Contains(out, "supersecret") {
		t.Errorf("token echoed in output: %q", out)
	}
}

func TestConfigSet_InvalidKey(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := execute(t, "config", "set", "unknownKey", "value"); err == nil {
		t.Error("Expected error for unknown key")
	}
}

func TestConfigSet_MissingArgs(t *testing.T) {
	if _, err := execute(t, "config", "set", "format"); err == nil {
		t.Error("Expected error for missing value arg")
	}
}

func TestConfigShow_MasksToken(t *testing.T) {
	setupEnv(t, "https://api.github.com")
	t.Setenv("GITHUB_TOKEN", "ghp_supersecretvalue")

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show error: %v", err)
	}
	if strings.Contains(out, "supersecret") {
		t.Errorf("token shown in output: %q", out)
	}
	if !strings.Contains(out, "ghp_[REDACTED]") {
		t.Errorf("masked token missing from output: %q", out)
	}
	if !strings.Contains(out, "largePr: 800") {
		t.Errorf("thresholds missing from output: %q", out)
	}
}

func TestServeCmd_BadAddr(t *testing.T) {
	setupEnv(t, "https://api.github.com")

	if _, err := execute(t, "serve", "--addr", "256.0.0.1:bad"); err != nil {
		t.Fatalf("serve error: %v", err)
	}
	if exitCode != ExitRuntimeError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitRuntimeError)
	}
}
