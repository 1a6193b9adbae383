// Package hints suggests fixes for the failures users hit most often.
// Every hint reads "\n  hint: <text>" so it can be appended to an error line.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-rab2html/internal/fileutil"
)

const prefix = "\n  hint: "

// ciVars are set by the CI runners we know of.
var ciVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}

// IsInContainer reports whether we run in Docker or a similar runtime.
// Tests replace it.
var IsInContainer = func() bool {
	return os.Getenv("RAB2HTML_CONTAINER") == "1" || fileutil.FileExists("/.dockerenv")
}

// InCI reports whether a CI runner variable is set.
func InCI() bool {
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// ForBrowserConnect suggests the rod variables that usually fix a browser
// that will not start.
func ForBrowserConnect() string {
	var hints []string
	if (InCI() || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}
	return formatHints(hints)
}

// ForTimeout suggests a longer page load timeout.
func ForTimeout() string {
	return format("for decks with many or heavy slides, use --timeout flag")
}

// ForConfigNotFound suggests --config, or creating the first per-user path
// among those searched.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/rab2html") {
			hint += " or create " + p
			break
		}
	}
	return format(hint)
}

// ForOutputDirectory covers destination and image directory errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForTemplateNotFound lists the bundled templates.
func ForTemplateNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", ") + "; or give a path to an html/template file")
}

// ForRedisConnect covers an unreachable container cache.
func ForRedisConnect(addr string) string {
	if addr == "" {
		return ""
	}
	return format("is Redis running at " + addr + "? remove cache.redis from the config to build without it")
}

// Text returns the hint without its line prefix.
func Text(hint string) string {
	return strings.TrimPrefix(hint, prefix)
}

func format(hint string) string {
	if hint == "" {
		return ""
	}
	return prefix + hint
}

func formatHints(hints []string) string {
	return format(strings.Join(hints, "; "))
}
