package corpus

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownCorpus is returned when an ID resolves to no registered corpus.
var ErrUnknownCorpus = errors.New("unknown corpus")

// Registry holds corpus metadata keyed by ID. A registry is mutable while
// definitions are being added and read-only afterwards; concurrent Resolve
// calls are safe once loading is done.
type Registry struct {
	metas map[string]Meta
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{metas: make(map[string]Meta)}
}

// Builtin returns a fresh registry holding the built-in corpora.
func Builtin() *Registry {
	r := NewRegistry()
	for _, m := range builtins {
		if err := r.Add(m); err != nil {
			panic(fmt.Sprintf("corpus: invalid builtin %q: %v", m.ID, err))
		}
	}
	return r
}

// Add registers metadata after deriving the speaker roster from the gender
// rosters and validating it. A corpus with the same ID is replaced, so
// definition files can override builtins.
func (r *Registry) Add(m Meta) error {
	m.ID = strings.ToLower(strings.TrimSpace(m.ID))
	m.derive()
	if err := m.validate(); err != nil {
		return fmt.Errorf("corpus %q: %w", m.ID, err)
	}
	r.metas[m.ID] = m
	return nil
}

// Resolve returns the metadata registered under id. IDs are matched case
// insensitively.
func (r *Registry) Resolve(id string) (Meta, error) {
	m, ok := r.metas[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Meta{}, fmt.Errorf("corpus %q: %w", id, ErrUnknownCorpus)
	}
	return m, nil
}

// IDs returns the registered corpus IDs in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.metas))
	for id := range r.metas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered corpora.
func (r *Registry) Len() int {
	return len(r.metas)
}
