// Package resolve implements the hierarchical symbol table: a forest of
// scopes stored as elements of a vector, each holding its parent's
// index rather than a pointer, per the arena+integer-index design note
// (spec 9) used to avoid cyclic scope references — the same trick the
// MIR package uses for its block graph.
package resolve

import (
	"fmt"

	"github.com/axonlang/langcore/internal/token"
	"github.com/axonlang/langcore/internal/types"
)

// SymbolKind classifies what a Symbol names (spec 3).
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymFunction
	SymParameter
	SymStruct
	SymEffect
	SymAiModel
	SymPrompt
)

// Symbol is one binding in a scope.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Type    *types.Ty
	Span    token.Span
	Mutable bool
}

// ScopeID indexes into a Table's scope vector. The root scope has
// ScopeID 0 and no parent.
type ScopeID int

const noParent = ScopeID(-1)

type scope struct {
	parent  ScopeID
	symbols map[string]*Symbol
}

// Table owns every scope created during a checker run, addressed by
// index rather than pointer.
type Table struct {
	scopes []scope
}

// NewTable creates a Table with a single root scope.
func NewTable() *Table {
	t := &Table{}
	t.scopes = append(t.scopes, scope{parent: noParent, symbols: make(map[string]*Symbol)})
	return t
}

// Root is the ScopeID of the table's root scope.
func (t *Table) Root() ScopeID { return 0 }

// Push creates a new child scope of parent and returns its ID.
func (t *Table) Push(parent ScopeID) ScopeID {
	t.scopes = append(t.scopes, scope{parent: parent, symbols: make(map[string]*Symbol)})
	return ScopeID(len(t.scopes) - 1)
}

// Define inserts sym into scope id's own symbol map. It fails (returns
// false) if a symbol of that name already exists in THIS scope;
// shadowing across scopes is always allowed (spec 3).
func (t *Table) Define(id ScopeID, sym *Symbol) bool {
	s := &t.scopes[id]
	if _, exists := s.symbols[sym.Name]; exists {
		return false
	}
	s.symbols[sym.Name] = sym
	return true
}

// Lookup walks id -> parent -> ... -> root and returns the first symbol
// named name, or nil.
func (t *Table) Lookup(id ScopeID, name string) *Symbol {
	for cur := id; ; {
		s := &t.scopes[cur]
		if sym, ok := s.symbols[name]; ok {
			return sym
		}
		if s.parent == noParent {
			return nil
		}
		cur = s.parent
	}
}

// LookupLocal looks up name only within scope id, without walking to
// parents.
func (t *Table) LookupLocal(id ScopeID, name string) *Symbol {
	return t.scopes[id].symbols[name]
}

func (id ScopeID) String() string { return fmt.Sprintf("scope#%d", int(id)) }
