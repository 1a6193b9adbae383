package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/cobra"

	rab2html "github.com/alnah/go-rab2html"
	"github.com/alnah/go-rab2html/internal/assets"
	"github.com/alnah/go-rab2html/internal/config"
	"github.com/alnah/go-rab2html/internal/fileutil"
	"github.com/alnah/go-rab2html/internal/hints"
)

// redisPingTimeout bounds the cache check.
const redisPingTimeout = 3 * time.Second

type checkStatus string

const (
	checkPass checkStatus = "pass"
	checkWarn checkStatus = "warn"
	checkFail checkStatus = "fail"
)

// checkResult is the outcome of one doctor check.
type checkResult struct {
	Name    string      `json:"name"`
	Status  checkStatus `json:"status"`
	Message string      `json:"message"`
	Hint    string      `json:"hint,omitempty"`
}

// doctorResult groups check results by what they cover.
type doctorResult struct {
	Platform string        `json:"platform"`
	Browser  []checkResult `json:"browser"`
	Site     []checkResult `json:"site"`
	System   []checkResult `json:"system"`
}

// failed reports whether any check failed. Warnings keep exit code 0.
func (r *doctorResult) failed() bool {
	for _, c := range r.all() {
		if c.Status == checkFail {
			return true
		}
	}
	return false
}

func (r *doctorResult) all() []checkResult {
	out := make([]checkResult, 0, len(r.Browser)+len(r.Site)+len(r.System))
	out = append(out, r.Browser...)
	out = append(out, r.Site...)
	return append(out, r.System...)
}

var errDoctorFailed = errors.New("doctor found failing checks")

func newDoctorCmd(env *Environment, g *globalFlags) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that decks can be rendered here",
		Long: `Check that decks can be rendered on this machine.

  BROWSER - Chrome/Chromium install and sandbox settings
  SITE    - configuration, template and Redis container cache
  SYSTEM  - temp directory used for slide pages

Examples:
  rab2html doctor
  rab2html doctor --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			result := runDoctor(cmd.Context(), env, g.config)

			if jsonOutput {
				enc := json.NewEncoder(env.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return fmt.Errorf("%w: %v", ErrWriteOutput, err)
				}
			} else {
				printDoctorResult(env.Stdout, result)
			}

			if result.failed() {
				return errDoctorFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func runDoctor(ctx context.Context, env *Environment, configName string) *doctorResult {
	result := &doctorResult{Platform: runtime.GOOS + "/" + runtime.GOARCH}

	result.Browser = append(result.Browser, checkChrome()...)
	result.Browser = append(result.Browser, checkSandbox())

	cfg, cfgCheck := checkConfig(env, configName)
	result.Site = append(result.Site, cfgCheck)
	if cfg != nil {
		result.Site = append(result.Site, checkTemplate(cfg), checkCache(ctx, cfg))
	}

	result.System = append(result.System, checkTempDir())
	return result
}

// checkChrome finds the browser and asks it for its version.
func checkChrome() []checkResult {
	bin := os.Getenv("ROD_BROWSER_BIN")
	if bin == "" {
		var found bool
		if bin, found = launcher.LookPath(); !found {
			return []checkResult{{
				Name:    "Chrome",
				Status:  checkFail,
				Message: "Chrome/Chromium not found",
				Hint:    "install Chrome or set ROD_BROWSER_BIN",
			}}
		}
	}
	if _, err := os.Stat(bin); err != nil {
		return []checkResult{{
			Name:    "Chrome",
			Status:  checkFail,
			Message: "not found at " + bin,
			Hint:    "fix ROD_BROWSER_BIN or unset it",
		}}
	}

	checks := []checkResult{{Name: "Chrome", Status: checkPass, Message: bin}}
	out, err := exec.Command(bin, "--version").Output() // #nosec G204 -- browser path from launcher or ROD_BROWSER_BIN
	if err != nil {
		return append(checks, checkResult{
			Name:    "Chrome version",
			Status:  checkWarn,
			Message: err.Error(),
		})
	}
	return append(checks, checkResult{
		Name:    "Chrome version",
		Status:  checkPass,
		Message: strings.TrimSpace(string(out)),
	})
}

// checkSandbox warns when Chrome would start sandboxed inside a container
// or CI runner, where the sandbox usually cannot be set up.
func checkSandbox() checkResult {
	noSandbox := os.Getenv("ROD_NO_SANDBOX") == "1"
	inContainer, hint := isContainer()
	inCI := hints.InCI()

	switch {
	case noSandbox:
		return checkResult{Name: "Sandbox", Status: checkPass, Message: "disabled (ROD_NO_SANDBOX=1)"}
	case inContainer:
		return checkResult{
			Name:    "Sandbox",
			Status:  checkWarn,
			Message: "enabled inside a container (" + hint + ")",
			Hint:    "set ROD_NO_SANDBOX=1",
		}
	case inCI:
		return checkResult{
			Name:    "Sandbox",
			Status:  checkWarn,
			Message: "enabled on a CI runner",
			Hint:    "set ROD_NO_SANDBOX=1",
		}
	default:
		return checkResult{Name: "Sandbox", Status: checkPass, Message: "enabled"}
	}
}

// isContainer returns whether we run in a container and which signal said so.
func isContainer() (bool, string) {
	if os.Getenv("RAB2HTML_CONTAINER") == "1" {
		return true, "RAB2HTML_CONTAINER=1"
	}
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	if v := os.Getenv("container"); v != "" {
		return true, "container=" + v
	}
	if os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkConfig loads and validates the site configuration the way build does.
func checkConfig(env *Environment, configName string) (*config.Config, checkResult) {
	envCfg := loadEnvConfig()
	cfg, err := loadConfigFile(env, configName, envCfg.ConfigPath)
	if err != nil {
		return nil, checkResult{
			Name:    "Config",
			Status:  checkFail,
			Message: err.Error(),
			Hint:    hints.Text(hintFor(err)),
		}
	}
	applyEnvConfig(envCfg, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, checkResult{Name: "Config", Status: checkFail, Message: err.Error()}
	}
	return cfg, checkResult{
		Name:    "Config",
		Status:  checkPass,
		Message: fmt.Sprintf("%s -> %s, %dx%d", cfg.Source, cfg.Destination, cfg.Rabbit.Width, cfg.Rabbit.Height),
	}
}

// checkTemplate parses the configured slide template.
func checkTemplate(cfg *config.Config) checkResult {
	name := cfg.Rabbit.Template
	if name == "" {
		name = rab2html.DefaultTemplate
	}
	fail := func(err error) checkResult {
		return checkResult{
			Name:    "Template",
			Status:  checkFail,
			Message: err.Error(),
			Hint:    hints.Text(hints.ForTemplateNotFound(assets.EmbeddedTemplateNames())),
		}
	}

	var src string
	origin := "file"
	if fileutil.IsFilePath(name) {
		data, err := os.ReadFile(filepath.Clean(name)) // #nosec G304 -- configured template path
		if err != nil {
			return fail(err)
		}
		src = string(data)
	} else {
		resolver, err := assets.NewAssetResolver(cfg.Assets.BasePath)
		if err != nil {
			return fail(err)
		}
		if src, err = resolver.LoadTemplate(strings.TrimSuffix(name, ".html")); err != nil {
			return fail(err)
		}
		origin = "embedded"
		if resolver.HasCustomLoader() {
			origin = cfg.Assets.BasePath + ", embedded fallback"
		}
	}
	if _, err := rab2html.ParseSlideTemplate(name, src); err != nil {
		return fail(err)
	}
	return checkResult{Name: "Template", Status: checkPass, Message: name + " (" + origin + ")"}
}

// checkCache pings the Redis container cache when one is configured.
func checkCache(ctx context.Context, cfg *config.Config) checkResult {
	r := cfg.Cache.Redis
	if !r.Enabled() {
		return checkResult{Name: "Cache", Status: checkPass, Message: "memory only"}
	}

	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	store, err := rab2html.NewRedisStore(ctx, rab2html.RedisOptions{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
	})
	if err != nil {
		return checkResult{
			Name:    "Cache",
			Status:  checkFail,
			Message: "Redis at " + r.Addr + " unreachable",
			Hint:    hints.Text(hints.ForRedisConnect(r.Addr)),
		}
	}
	_ = store.Close()
	return checkResult{Name: "Cache", Status: checkPass, Message: "Redis at " + r.Addr}
}

// checkTempDir verifies slide pages can be written to the temp directory.
func checkTempDir() checkResult {
	dir := os.TempDir()
	f, err := os.CreateTemp(dir, "rab2html-doctor-*")
	if err != nil {
		return checkResult{
			Name:    "Temp directory",
			Status:  checkFail,
			Message: dir + " not writable",
			Hint:    "set TMPDIR to a writable directory",
		}
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	return checkResult{Name: "Temp directory", Status: checkPass, Message: dir}
}

func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintf(w, "rab2html doctor (%s)\n", r.Platform)

	printCheckSection(w, "BROWSER", r.Browser)
	printCheckSection(w, "SITE", r.Site)
	printCheckSection(w, "SYSTEM", r.System)

	var passed, warned, failed int
	for _, c := range r.all() {
		switch c.Status {
		case checkPass:
			passed++
		case checkWarn:
			warned++
		case checkFail:
			failed++
		}
	}
	fmt.Fprintf(w, "\n%d passed  %d warnings  %d failed\n", passed, warned, failed)
	if failed == 0 {
		fmt.Fprintln(w, "Ready to render")
	}
}

func printCheckSection(w io.Writer, title string, checks []checkResult) {
	if len(checks) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	for _, c := range checks {
		fmt.Fprintf(w, "  %s  %s: %s\n", statusIcon(c.Status), c.Name, c.Message)
		if c.Hint != "" {
			fmt.Fprintf(w, "      -> %s\n", c.Hint)
		}
	}
}

func statusIcon(s checkStatus) string {
	switch s {
	case checkPass:
		return "ok"
	case checkWarn:
		return "!!"
	case checkFail:
		return "XX"
	default:
		return "??"
	}
}
