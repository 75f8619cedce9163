package catalog

import (
	"maps"
	"slices"
	"sync"

	"itbudget/internal/apperr"
)

// Store is the shared, mutable catalog. Reads hand out copies; writes go
// through Update so concurrent admins serialize on one mutex.
type Store struct {
	mu       sync.RWMutex
	defaults *Catalog
	current  *Catalog
	version  uint64
}

// NewStore deep-copies defaults into mutable storage. Later edits never
// reach the defaults, so Reset always restores the original values.
func NewStore(defaults *Catalog) *Store {
	return &Store{
		defaults: defaults.Clone(),
		current:  defaults.Clone(),
	}
}

// NewDefaultStore returns a store seeded with the compiled-in catalog.
func NewDefaultStore() *Store {
	return NewStore(Defaults())
}

// Version increases by one after every successful mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot returns a deep copy of the current catalog.
func (s *Store) Snapshot() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Sections returns the current sections in display order.
func (s *Store) Sections() []Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.current.OrderedSections()
	for i := range out {
		out[i] = out[i].clone()
	}
	return out
}

// Services returns a copy of one section's services.
func (s *Store) Services(section string) (map[string]PricedService, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sec, ok := s.current.Sections[section]
	if !ok {
		return nil, apperr.NotFound("section", section)
	}
	return maps.Clone(sec.Services), nil
}

// Service looks up a priced service by section key and name.
func (s *Store) Service(section, name string) (PricedService, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Service(section, name)
}

// SupportTiers returns a copy of the current support tiers.
func (s *Store) SupportTiers() map[string]SupportTier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]SupportTier, len(s.current.SupportTiers))
	for k, t := range s.current.SupportTiers {
		t.Departments = slices.Clone(t.Departments)
		out[k] = t
	}
	return out
}

// SupportTier looks up a support tier by name.
func (s *Store) SupportTier(name string) (SupportTier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.current.SupportTier(name)
	t.Departments = slices.Clone(t.Departments)
	return t, ok
}

// ProjectCategories returns a copy of the category -> project types map.
func (s *Store) ProjectCategories() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]string, len(s.current.ProjectCategories))
	for k, v := range s.current.ProjectCategories {
		out[k] = slices.Clone(v)
	}
	return out
}

// AutomationPackages returns a copy of the current automation packages.
func (s *Store) AutomationPackages() map[string]AutomationPackage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.current.AutomationPackages)
}

// AutomationPackage looks up an automation package by name.
func (s *Store) AutomationPackage(name string) (AutomationPackage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.AutomationPackage(name)
}

// Companies returns the requesting company list.
func (s *Store) Companies() []Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.current.Companies)
}

// Update runs fn against the live catalog under the write lock. fn must
// validate everything before writing; the version only moves when fn
// returns nil.
func (s *Store) Update(fn func(c *Catalog) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.current); err != nil {
		return err
	}
	s.version++
	return nil
}

// Reset restores the defaults captured at construction.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = s.defaults.Clone()
	s.version++
}
