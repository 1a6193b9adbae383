package main

// Notes:
// - checkChrome depends on the host browser install and is not asserted.
// - checkCache is tested without a configured cache; a live Redis is covered
//   by the library store tests.
// - Tests touching the environment use t.Setenv and cannot run in parallel.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-rab2html/internal/config"
)

// ---------------------------------------------------------------------------
// TestPrintDoctorResult - Human-readable output
// ---------------------------------------------------------------------------

func TestPrintDoctorResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		result  *doctorResult
		want    []string
		notWant []string
	}{
		{
			name: "ready",
			result: &doctorResult{
				Platform: "linux/amd64",
				Browser:  []checkResult{{Name: "Chrome", Status: checkPass, Message: "/usr/bin/chromium"}},
				Site:     []checkResult{{Name: "Cache", Status: checkPass, Message: "memory only"}},
				System:   []checkResult{{Name: "Temp directory", Status: checkPass, Message: "/tmp"}},
			},
			want: []string{
				"rab2html doctor (linux/amd64)",
				"BROWSER",
				"ok  Chrome: /usr/bin/chromium",
				"ok  Cache: memory only",
				"3 passed  0 warnings  0 failed",
				"Ready to render",
			},
		},
		{
			name: "failures and hints",
			result: &doctorResult{
				Platform: "linux/arm64",
				Browser: []checkResult{
					{Name: "Chrome", Status: checkFail, Message: "Chrome/Chromium not found", Hint: "install Chrome"},
					{Name: "Sandbox", Status: checkWarn, Message: "enabled inside a container (/.dockerenv)"},
				},
			},
			want: []string{
				"XX  Chrome: Chrome/Chromium not found",
				"      -> install Chrome",
				"!!  Sandbox: enabled inside a container (/.dockerenv)",
				"0 passed  1 warnings  1 failed",
			},
			notWant: []string{"Ready to render", "SITE", "SYSTEM"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			printDoctorResult(&buf, tt.result)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("output should not contain %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestDoctorResult_Failed(t *testing.T) {
	t.Parallel()

	warnOnly := &doctorResult{System: []checkResult{{Status: checkWarn}}}
	if warnOnly.failed() {
		t.Error("warnings alone should not fail")
	}
	withFail := &doctorResult{Site: []checkResult{{Status: checkPass}, {Status: checkFail}}}
	if !withFail.failed() {
		t.Error("a failing check should fail")
	}
}

// ---------------------------------------------------------------------------
// TestIsContainer / TestCheckSandbox - Environment detection
// ---------------------------------------------------------------------------

func TestIsContainer_Override(t *testing.T) {
	t.Setenv("RAB2HTML_CONTAINER", "1")

	ok, hint := isContainer()
	if !ok || hint != "RAB2HTML_CONTAINER=1" {
		t.Errorf("isContainer() = %v, %q", ok, hint)
	}
}

func TestCheckSandbox(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		t.Setenv("ROD_NO_SANDBOX", "1")
		if got := checkSandbox(); got.Status != checkPass {
			t.Errorf("status = %q, want pass", got.Status)
		}
	})

	t.Run("container", func(t *testing.T) {
		t.Setenv("ROD_NO_SANDBOX", "")
		t.Setenv("RAB2HTML_CONTAINER", "1")
		got := checkSandbox()
		if got.Status != checkWarn || got.Hint == "" {
			t.Errorf("checkSandbox() = %+v, want warning with hint", got)
		}
	})
}

// ---------------------------------------------------------------------------
// TestCheckConfig / TestCheckTemplate / TestCheckCache - Site checks
// ---------------------------------------------------------------------------

func TestCheckConfig(t *testing.T) {
	t.Setenv("RAB2HTML_CONFIG", "")
	t.Setenv("RAB2HTML_REDIS_ADDR", "")

	t.Run("defaults", func(t *testing.T) {
		env := &Environment{LoadConfig: func(string) (*config.Config, error) {
			return nil, config.ErrConfigNotFound
		}}
		cfg, got := checkConfig(env, "")
		if cfg == nil || got.Status != checkPass {
			t.Errorf("checkConfig() = %v, %+v", cfg, got)
		}
	})

	t.Run("explicit missing", func(t *testing.T) {
		env := &Environment{LoadConfig: func(string) (*config.Config, error) {
			return nil, config.ErrConfigNotFound
		}}
		cfg, got := checkConfig(env, "missing.yaml")
		if cfg != nil || got.Status != checkFail {
			t.Errorf("checkConfig() = %v, %+v", cfg, got)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		env := &Environment{LoadConfig: func(string) (*config.Config, error) {
			cfg := config.DefaultConfig()
			cfg.Rabbit.Width = -1
			return cfg, nil
		}}
		if _, got := checkConfig(env, "site.yaml"); got.Status != checkFail {
			t.Errorf("status = %q, want fail", got.Status)
		}
	})
}

func TestCheckTemplate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.html")
	bad := filepath.Join(dir, "bad.html")
	if err := os.WriteFile(good, []byte(`{{range .Images}}<img src="{{.URL}}">{{end}}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte(`{{range .Images}`), 0o600); err != nil {
		t.Fatal(err)
	}

	custom := filepath.Join(dir, "assets")
	if err := os.MkdirAll(filepath.Join(custom, "templates"), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(custom, "templates", "mine.html"), []byte(`{{.Digest}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		template string
		basePath string
		want     checkStatus
		origin   string
	}{
		{"default", "", "", checkPass, "(embedded)"},
		{"embedded", "image_list", "", checkPass, "(embedded)"},
		{"file", good, "", checkPass, "(file)"},
		{"custom directory", "mine", custom, checkPass, "(" + custom + ", embedded fallback)"},
		{"embedded through custom directory", "image_list", custom, checkPass, "embedded fallback"},
		{"unparsable file", bad, "", checkFail, ""},
		{"unknown name", "nope", "", checkFail, ""},
		{"missing file", filepath.Join(dir, "missing.html"), "", checkFail, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Rabbit.Template = tt.template
			cfg.Assets.BasePath = tt.basePath
			got := checkTemplate(cfg)
			if got.Status != tt.want {
				t.Errorf("checkTemplate(%q) = %+v, want %q", tt.template, got, tt.want)
			}
			if !strings.Contains(got.Message, tt.origin) {
				t.Errorf("checkTemplate(%q) message = %q, want it to contain %q", tt.template, got.Message, tt.origin)
			}
			if got.Status == checkFail && got.Hint == "" {
				t.Error("failing template check should carry a hint")
			}
		})
	}
}

func TestCheckCache_NotConfigured(t *testing.T) {
	t.Parallel()

	got := checkCache(context.Background(), config.DefaultConfig())
	if got.Status != checkPass || got.Message != "memory only" {
		t.Errorf("checkCache() = %+v", got)
	}
}

// ---------------------------------------------------------------------------
// TestCheckTempDir - System checks
// ---------------------------------------------------------------------------

func TestCheckTempDir(t *testing.T) {
	t.Setenv("TMPDIR", t.TempDir())

	if got := checkTempDir(); got.Status != checkPass {
		t.Errorf("checkTempDir() = %+v", got)
	}
}

func TestErrDoctorFailed_ExitCode(t *testing.T) {
	t.Parallel()

	if code := exitCodeFor(errDoctorFailed); code != ExitGeneral {
		t.Errorf("exitCodeFor(errDoctorFailed) = %d, want %d", code, ExitGeneral)
	}
}
