// Package assetmatch resolves free-text asset mentions against a canonical
// asset catalog. Resolution favors precision over recall: an ambiguous or
// weakly similar mention resolves to nothing rather than to the wrong asset.
package assetmatch

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// DefaultThreshold is the minimum normalized similarity a catalog entry
// must reach before a resolution is trusted.
const DefaultThreshold = 0.8

// Matcher resolves asset text against one catalog with one threshold.
// Construct per run; safe for concurrent use once built.
type Matcher struct {
	threshold float64
	entries   []entry
}

type entry struct {
	id   string
	name string // display form
	norm string // normalized form compared against mentions
}

// Resolution is a successful catalog lookup.
type Resolution struct {
	AssetID    string
	Name       string
	Similarity float64
}

func NewMatcher(catalog Catalog, threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultThreshold
	}
	m := &Matcher{threshold: threshold}
	for id, names := range catalog {
		// The canonical id is itself a matchable label.
		m.addEntry(id, id)
		for _, name := range names {
			m.addEntry(id, name)
		}
	}
	// Fixed scan order keeps resolution deterministic regardless of map
	// iteration order.
	sort.Slice(m.entries, func(i, j int) bool {
		if m.entries[i].id != m.entries[j].id {
			return m.entries[i].id < m.entries[j].id
		}
		return m.entries[i].name < m.entries[j].name
	})
	return m
}

func (m *Matcher) addEntry(id string, name string) {
	norm := normalize(name)
	if norm == "" {
		return
	}
	m.entries = append(m.entries, entry{id: id, name: name, norm: norm})
}

// Match reports whether generated asset text denotes the expected asset.
// Empty on both sides is a match ("no asset"); empty on one side is not.
// The detail string explains the outcome for per-case display.
func (m *Matcher) Match(generated string, expected string) (bool, string) {
	gen := strings.TrimSpace(generated)
	exp := strings.TrimSpace(expected)
	switch {
	case gen == "" && exp == "":
		return true, "both outputs carry no asset"
	case gen == "":
		return false, fmt.Sprintf("generated output carries no asset, expected %q", exp)
	case exp == "":
		return false, fmt.Sprintf("generated output names asset %q, expected none", gen)
	}

	if strings.EqualFold(gen, exp) {
		return true, fmt.Sprintf("asset id %q matched exactly", exp)
	}

	// A nil matcher means no catalog was loaded; only exact ids match then.
	if m == nil {
		return false, fmt.Sprintf("asset mismatch without catalog: got %q, want %q", gen, exp)
	}

	res, ok := m.Resolve(gen)
	if !ok {
		return false, fmt.Sprintf("%q did not resolve against the asset catalog", gen)
	}
	if !strings.EqualFold(res.AssetID, exp) {
		return false, fmt.Sprintf("%q resolved to %s via %q (similarity %.2f), expected %s", gen, res.AssetID, res.Name, res.Similarity, exp)
	}
	return true, fmt.Sprintf("%q resolved to %s via %q (similarity %.2f)", gen, res.AssetID, res.Name, res.Similarity)
}

// Resolve finds the catalog entry most similar to the mention. Ties go to
// the higher similarity, then the shorter catalog name (the more canonical
// label), then the smaller asset id.
func (m *Matcher) Resolve(text string) (Resolution, bool) {
	norm := normalize(text)
	if norm == "" {
		return Resolution{}, false
	}

	var (
		best      Resolution
		bestEntry entry
		found     bool
	)
	for _, en := range m.entries {
		sim := similarity(norm, en.norm)
		if sim < m.threshold {
			continue
		}
		if !found || sim > best.Similarity ||
			(sim == best.Similarity && len(en.name) < len(bestEntry.name)) ||
			(sim == best.Similarity && len(en.name) == len(bestEntry.name) && en.id < bestEntry.id) {
			best = Resolution{AssetID: en.id, Name: en.name, Similarity: sim}
			bestEntry = en
			found = true
		}
	}
	return best, found
}

// similarity scores two normalized strings in [0,1]. Exact is 1; substring
// containment scores by length ratio so short fragments cannot claim long
// names; otherwise normalized edit distance.
func similarity(a string, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longer := la
	if lb > longer {
		longer = lb
	}
	if longer == 0 {
		return 0
	}

	score := 0.0
	if strings.Contains(a, b) || strings.Contains(b, a) {
		shorter := la
		if lb < shorter {
			shorter = lb
		}
		score = float64(shorter) / float64(longer)
	}

	dist := levenshtein.ComputeDistance(a, b)
	if lev := 1 - float64(dist)/float64(longer); lev > score {
		score = lev
	}
	return score
}

// normalize lowercases and collapses every run of non-alphanumeric runes to
// a single space, so "Pump A-1", "pump a1" and "PUMP_A 1" compare close.
func normalize(s string) string {
	var b strings.Builder
	lastSpace := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			b.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}
