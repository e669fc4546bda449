package dashboard

import (
	"sync"

	"coinwatch/internal/domain"
)

// ExpansionKind names one of the per-row auxiliary panels.
type ExpansionKind string

const (
	ExpandChart     ExpansionKind = "chart"
	ExpandHistory   ExpansionKind = "history"
	ExpandPurchases ExpansionKind = "purchases"
)

// Expansions tracks which symbols have which panels open. Membership is
// independent across kinds.
type Expansions struct {
	mu   sync.Mutex
	sets map[ExpansionKind]map[string]struct{}
}

// NewExpansions creates an empty expansion state.
func NewExpansions() *Expansions {
	return &Expansions{sets: map[ExpansionKind]map[string]struct{}{
		ExpandChart:     {},
		ExpandHistory:   {},
		ExpandPurchases: {},
	}}
}

// Toggle flips membership and returns the new state: true when the panel
// is now expanded.
func (e *Expansions) Toggle(kind ExpansionKind, symbol string) bool {
	key := domain.NormalizeSymbol(symbol)
	e.mu.Lock()
	defer e.mu.Unlock()
	set := e.sets[kind]
	if _, ok := set[key]; ok {
		delete(set, key)
		return false
	}
	set[key] = struct{}{}
	return true
}

// IsExpanded reports current membership.
func (e *Expansions) IsExpanded(kind ExpansionKind, symbol string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.sets[kind][domain.NormalizeSymbol(symbol)]
	return ok
}
