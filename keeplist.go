package rab2html

import (
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// KeepList is the ordered set of path patterns a site cleanup sweep must
// leave alone. Entries are paths relative to the site destination. An entry
// ending in "$" matches that exact path; any other entry also matches
// everything below it. It is safe for concurrent use.
type KeepList struct {
	mu      sync.Mutex
	entries []string
	seen    map[string]struct{}
	re      *regexp.Regexp
}

// NewKeepList returns a keep-list holding entries.
func NewKeepList(entries ...string) *KeepList {
	k := &KeepList{seen: make(map[string]struct{})}
	k.Add(entries...)
	return k
}

// Add appends the entries not already present.
func (k *KeepList) Add(entries ...string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, e := range entries {
		if e == "" {
			continue
		}
		if _, ok := k.seen[e]; ok {
			continue
		}
		k.seen[e] = struct{}{}
		k.entries = append(k.entries, e)
		k.re = nil
	}
}

// Entries returns a copy of the entries in insertion order.
func (k *KeepList) Entries() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return append([]string(nil), k.entries...)
}

// Len returns the number of entries.
func (k *KeepList) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.entries)
}

// Match reports whether path is protected. Path is relative to the site
// destination, with either separator; entries only match from its root.
func (k *KeepList) Match(path string) bool {
	re := k.regexp()
	if re == nil {
		return false
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return re.MatchString(p)
}

func (k *KeepList) regexp() *regexp.Regexp {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.re != nil || len(k.entries) == 0 {
		return k.re
	}
	alts := make([]string, len(k.entries))
	for i, e := range k.entries {
		if trimmed, anchored := strings.CutSuffix(e, "$"); anchored {
			alts[i] = regexp.QuoteMeta(trimmed) + "$"
		} else {
			alts[i] = regexp.QuoteMeta(e)
		}
	}
	k.re = regexp.MustCompile("^/(" + strings.Join(alts, "|") + ")")
	return k.re
}
