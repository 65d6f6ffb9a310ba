package names

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

// ReplacementMap is the session-scoped banned-name ledger. Keys are the
// lower-cased banned names; values are the stable replacements. A banned name
// maps to exactly one replacement for the life of a session, and no two
// banned names share a replacement.
type ReplacementMap map[string]string

// Resolver substitutes denylisted names deterministically. The zero value is
// unusable; construct with NewResolver.
type Resolver struct {
	denylist []string
	pool     []string
	markerRe *regexp.Regexp
	wordRes  map[string]*regexp.Regexp
}

// DefaultDenylist are names the narrator model must never use. The list is
// fixed per deployment.
var DefaultDenylist = []string{
	"Elara", "Kael", "Lyra", "Seraphina", "Thorne", "Aria", "Zephyr", "Nyx",
}

// DefaultPool is the vetted replacement pool replacements are drawn from.
var DefaultPool = []string{
	"Maren", "Edric", "Tamsin", "Oswin", "Brida", "Caldo", "Ines", "Rafel",
	"Sunniva", "Doran", "Petra", "Havel", "Yola", "Mirek", "Sable", "Quill",
}

func NewResolver(denylist, pool []string) *Resolver {
	if len(denylist) == 0 {
		denylist = DefaultDenylist
	}
	if len(pool) == 0 {
		pool = DefaultPool
	}
	r := &Resolver{
		denylist: denylist,
		pool:     pool,
		markerRe: regexp.MustCompile(`\{\{rename:([^}]+)\}\}`),
		wordRes:  make(map[string]*regexp.Regexp, len(denylist)),
	}
	for _, name := range denylist {
		r.wordRes[strings.ToLower(name)] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\b`)
	}
	return r
}

// GenerateReplacement picks the stable substitute for a banned name. The
// banned name is hashed into the pool; candidates are skipped if they share a
// four-character case-insensitive prefix with any denylisted name or are
// already in use as another replacement. An exhausted pool composes a novel
// name from two pool fragments; if even that fails the replacement table was
// misconfigured and we cannot continue.
func (r *Resolver) GenerateReplacement(name string, existing ReplacementMap) string {
	key := strings.ToLower(strings.TrimSpace(name))
	if got, ok := existing[key]; ok {
		return got
	}

	used := map[string]bool{}
	for _, v := range existing {
		used[strings.ToLower(v)] = true
	}

	h := fnv.New32a()
	h.Write([]byte(key))
	start := int(h.Sum32()) % len(r.pool)
	if start < 0 {
		start += len(r.pool)
	}
	for i := 0; i < len(r.pool); i++ {
		candidate := r.pool[(start+i)%len(r.pool)]
		if used[strings.ToLower(candidate)] || r.prefixCollides(candidate) {
			continue
		}
		return candidate
	}

	for i := 0; i < len(r.pool); i++ {
		for j := 0; j < len(r.pool); j++ {
			if i == j {
				continue
			}
			first := r.pool[(start+i)%len(r.pool)]
			second := r.pool[(start+j)%len(r.pool)]
			composed := composeName(first, second)
			if used[strings.ToLower(composed)] || r.prefixCollides(composed) {
				continue
			}
			return composed
		}
	}

	panic(fmt.Sprintf("names: replacement pool exhausted for %q", name))
}

func composeName(first, second string) string {
	head := first
	if len(head) > 3 {
		head = head[:3]
	}
	tail := strings.ToLower(second)
	if len(tail) > 3 {
		tail = tail[len(tail)-3:]
	}
	return head + tail
}

func (r *Resolver) prefixCollides(candidate string) bool {
	c := strings.ToLower(candidate)
	for _, banned := range r.denylist {
		b := strings.ToLower(banned)
		n := 4
		if len(c) < n || len(b) < n {
			n = min(len(c), len(b))
		}
		if n > 0 && c[:n] == b[:n] {
			return true
		}
	}
	return false
}

// Resolve substitutes banned names in text, minting replacements on first
// sighting so a given banned name always maps identically for the rest of the
// session. Rename markers are resolved first, then raw word-boundary
// occurrences. The map is extended in place.
func (r *Resolver) Resolve(text string, m ReplacementMap) string {
	text = r.markerRe.ReplaceAllStringFunc(text, func(match string) string {
		inner := strings.TrimSpace(r.markerRe.FindStringSubmatch(match)[1])
		if inner == "" {
			return ""
		}
		replacement := r.GenerateReplacement(inner, m)
		m[strings.ToLower(inner)] = replacement
		return replacement
	})
	for _, banned := range r.denylist {
		key := strings.ToLower(banned)
		re := r.wordRes[key]
		if !re.MatchString(text) {
			continue
		}
		replacement := r.GenerateReplacement(banned, m)
		m[key] = replacement
		text = re.ReplaceAllString(text, replacement)
	}
	return text
}

// ResolveKnown is the hot-path variant: it substitutes already-known
// mappings and never mints new ones.
func (r *Resolver) ResolveKnown(text string, m ReplacementMap) string {
	for key, replacement := range m {
		if re, ok := r.wordRes[key]; ok {
			text = re.ReplaceAllString(text, replacement)
		}
	}
	return text
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
