package tailor

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

const (
	maxIDLength = 120
	fallbackID  = "job"
)

var (
	disallowedRe  = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)
	underscoresRe = regexp.MustCompile(`_{2,}`)
)

// Sanitize turns a company name or job title into a file-name-safe identifier
// made of letters, digits, hyphens and single underscores.
func Sanitize(name string) string {
	id := disallowedRe.ReplaceAllString(strings.TrimSpace(name), "_")
	id = underscoresRe.ReplaceAllString(id, "_")
	id = strings.Trim(id, "_")

	if runes := []rune(id); len(runes) > maxIDLength {
		id = strings.Trim(string(runes[:maxIDLength]), "_")
	}

	if id == "" {
		return fallbackID
	}
	return id
}

// idRegistry hands out identifiers that are unique for the lifetime of a pipeline.
type idRegistry struct {
	mu   sync.Mutex
	used map[string]int
}

func newIDRegistry() *idRegistry {
	return &idRegistry{used: make(map[string]int)}
}

// reserve returns base the first time and base_2, base_3, ... afterwards.
func (r *idRegistry) reserve(base string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		r.used[base]++
		n := r.used[base]
		if n == 1 {
			return base
		}

		candidate := withSuffix(base, n)
		if _, taken := r.used[candidate]; taken {
			continue
		}
		r.used[candidate] = 1
		return candidate
	}
}

// withSuffix appends _n, cutting base so the result stays within maxIDLength runes.
func withSuffix(base string, n int) string {
	suffix := fmt.Sprintf("_%d", n)
	if runes := []rune(base); len(runes)+len(suffix) > maxIDLength {
		base = strings.TrimRight(string(runes[:maxIDLength-len(suffix)]), "_")
	}
	return base + suffix
}
