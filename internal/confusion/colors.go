package confusion

import "strings"

// ColorEntry pairs a color name with its display hex code
type ColorEntry struct {
	Name string
	Hex  string
}

// Registry is the immutable ordered color table the generator draws from.
// Iteration order is the order entries were registered in; the
// difficulty-scaled pool is always a prefix of that order.
type Registry struct {
	entries []ColorEntry
	byName  map[string]int
}

// fallbackWord is displayed when the pool is too small to pick a word
// different from the font color
const fallbackWord = "Black"

// fallbackHex is returned for color names not present in the registry
const fallbackHex = "#888"

// NewRegistry builds a registry from an ordered list of color entries
func NewRegistry(entries []ColorEntry) *Registry {
	r := &Registry{
		entries: make([]ColorEntry, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	copy(r.entries, entries)
	for i, e := range r.entries {
		r.byName[e.Name] = i
	}
	return r
}

// DefaultRegistry returns the standard color palette
func DefaultRegistry() *Registry {
	return NewRegistry([]ColorEntry{
		{"Red", "#ef4444"},
		{"Blue", "#3b82f6"},
		{"Green", "#22c55e"},
		{"Yellow", "#eab308"},
		{"Purple", "#8b5cf6"},
		{"Orange", "#f97316"},
		{"Pink", "#ff29ff"},
		{"Cyan", "#06b6d4"},
		{"Indigo", "#6366f1"},
		{"Violet", "#8b5cf6"},
		{"Black", "#1a1a1a"},
		{"Brown", "#78350f"},
		{"Lavender", "#a78bfa"},
		{"White", "#ffffff"},
		{"Beige", "#f5f5dc"},
	})
}

// Size returns the number of registered colors
func (r *Registry) Size() int {
	return len(r.entries)
}

// Names returns all color names in registration order
func (r *Registry) Names() []string {
	names := make([]string, len(r.entries))
	for i, e := range r.entries {
		names[i] = e.Name
	}
	return names
}

// Hex returns the display code for a color name, or a neutral
// fallback if the name is unknown
func (r *Registry) Hex(name string) string {
	if i, ok := r.byName[name]; ok {
		return r.entries[i].Hex
	}
	return fallbackHex
}

// Contains reports whether name is a registered color, ignoring case
func (r *Registry) Contains(name string) bool {
	if _, ok := r.byName[name]; ok {
		return true
	}
	for _, e := range r.entries {
		if strings.EqualFold(e.Name, name) {
			return true
		}
	}
	return false
}

// PoolForDifficulty returns the active color pool for a difficulty
// level: the first min(size, 4 + (difficulty-1)*2) names in
// registration order. Higher difficulty means more colors to confuse.
func (r *Registry) PoolForDifficulty(difficulty int) []string {
	if difficulty < 1 {
		difficulty = 1
	}
	count := 4 + (difficulty-1)*2
	if count > len(r.entries) {
		count = len(r.entries)
	}
	pool := make([]string, count)
	for i := 0; i < count; i++ {
		pool[i] = r.entries[i].Name
	}
	return pool
}
