package selection

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"itbudget/internal/apperr"
)

// State is one session's mutable selections. Catalog references are not
// checked here; unknown names are costed at zero and reported by the budget
// aggregator.
type State struct {
	mu             sync.Mutex
	id             string
	company        CompanyInfo
	services       map[string]ServiceSelection
	customServices map[string]CustomService
	support        SupportSelection
	projects       []ProjectSelection
}

func New(id string) *State {
	return &State{
		id:             id,
		services:       make(map[string]ServiceSelection),
		customServices: make(map[string]CustomService),
	}
}

func (s *State) ID() string { return s.id }

// SetServiceSelection stores or replaces the selection under key. With
// included false the key is deleted, so re-including later starts fresh.
func (s *State) SetServiceSelection(key, section, service string, quantity int, newImplementation, included bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !included {
		delete(s.services, key)
		return
	}
	s.services[key] = ServiceSelection{
		Key:               key,
		Section:           section,
		Service:           service,
		Quantity:          max(quantity, 0),
		NewImplementation: newImplementation,
	}
}

// SetCustomService stores or removes an ad-hoc service under key.
func (s *State) SetCustomService(key string, cs CustomService, included bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !included {
		delete(s.customServices, key)
		return
	}
	cs.Key = key
	cs.Quantity = max(cs.Quantity, 0)
	s.customServices[key] = cs
}

// SetSupportTier selects a tier by name; "" clears it.
func (s *State) SetSupportTier(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.support.Tier = strings.TrimSpace(name)
}

// SetSupportExtras records extra request counts. Negatives become zero.
func (s *State) SetSupportExtras(support, training, reports int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.support.ExtraSupport = max(support, 0)
	s.support.ExtraTraining = max(training, 0)
	s.support.ExtraReports = max(reports, 0)
}

// AddProject appends p with a fresh ID and returns that ID.
func (s *State) AddProject(p ProjectSelection) (string, error) {
	id, err := newProjectID()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p = cloneProject(p)
	p.ID = id
	s.projects = append(s.projects, p)
	return id, nil
}

func (s *State) RemoveProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.projects, func(p ProjectSelection) bool { return p.ID == id })
	if i < 0 {
		return apperr.NotFound("project", id)
	}
	s.projects = slices.Delete(s.projects, i, i+1)
	return nil
}

func (s *State) SetCompanyInfo(info CompanyInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.company = info
}

// ImportFromTemplate replaces every selection with the contents of im.
// Nothing from the previous state survives.
func (s *State) ImportFromTemplate(im *Import) error {
	projects := make([]ProjectSelection, 0, len(im.Projects))
	for _, p := range im.Projects {
		p = cloneProject(p)
		if p.ID == "" {
			id, err := newProjectID()
			if err != nil {
				return err
			}
			p.ID = id
		}
		projects = append(projects, p)
	}

	services := make(map[string]ServiceSelection, len(im.Services))
	for _, sel := range im.Services {
		if sel.Key == "" {
			sel.Key = ServiceKey(sel.Section, sel.Service)
		}
		services[sel.Key] = sel
	}

	custom := make(map[string]CustomService, len(im.CustomServices))
	for i, cs := range im.CustomServices {
		if cs.Key == "" {
			cs.Key = customKey(i)
		}
		custom[cs.Key] = cs
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.company = im.Company
	s.services = services
	s.customServices = custom
	s.support = im.Support
	s.projects = projects
	return nil
}

// Snapshot returns a copy of the current selections with services ordered
// by key and projects in insertion order.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		SessionID: s.id,
		Company:   s.company,
		Support:   s.support,
	}
	for _, k := range slices.Sorted(maps.Keys(s.services)) {
		snap.Services = append(snap.Services, s.services[k])
	}
	for _, k := range slices.Sorted(maps.Keys(s.customServices)) {
		snap.CustomServices = append(snap.CustomServices, s.customServices[k])
	}
	for _, p := range s.projects {
		snap.Projects = append(snap.Projects, cloneProject(p))
	}
	return snap
}

func newProjectID() (string, error) {
	id, err := gonanoid.New(10)
	if err != nil {
		return "", fmt.Errorf("generate project id: %w", err)
	}
	return "PRJ-" + id, nil
}

func customKey(i int) string {
	return fmt.Sprintf("custom_%02d", i+1)
}
