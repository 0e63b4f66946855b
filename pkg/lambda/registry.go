package lambda

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Registry maps atom names to atoms. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	atoms map[string]*Atom
}

// NewRegistry returns a registry holding atoms. Later duplicates are
// ignored.
func NewRegistry(atoms ...*Atom) *Registry {
	r := &Registry{atoms: make(map[string]*Atom, len(atoms))}
	for _, a := range atoms {
		_ = r.Register(a)
	}
	return r
}

// StandardRegistry returns a fresh registry with K, S, I, B, C and W.
func StandardRegistry() *Registry {
	return NewRegistry(K, S, I, B, C, W)
}

// Register adds a under its name.
func (r *Registry) Register(a *Atom) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.atoms[a.name]; ok {
		return errorf(ErrDuplicateAtom, "%s", a.name)
	}
	r.atoms[a.name] = a
	return nil
}

// Lookup returns the atom registered under name.
func (r *Registry) Lookup(name string) (*Atom, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.atoms[name]
	return a, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := lo.Keys(r.atoms)
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
