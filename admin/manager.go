package admin

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"itbudget/catalog"
	"itbudget/internal/apperr"
	"itbudget/internal/logging"
)

// Manager applies admin edits to a catalog store. Every operation checks the
// caller's department claim and validates its input before anything is
// written; a rejected call leaves the store and its version untouched.
type Manager struct {
	store  *catalog.Store
	logger *zap.Logger
}

func NewManager(store *catalog.Store, logger *zap.Logger) *Manager {
	return &Manager{store: store, logger: logging.OrNop(logger)}
}

func (m *Manager) Store() *catalog.Store { return m.store }

func (m *Manager) logged(p Principal, action, entity, name string, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.String("user", p.Username),
		zap.String("claim", p.Claim.Name()),
		zap.String("entity", entity),
		zap.String("name", name),
	}, fields...)
	m.logger.Info("admin: "+entity+" "+action, fields...)
}

// AddService adds a priced service to section. The caller needs the section's
// department.
func (m *Manager) AddService(p Principal, section string, in ServiceInput) error {
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return invalid("service", err)
	}

	err := m.store.Update(func(c *catalog.Catalog) error {
		sec, ok := c.Sections[section]
		if !ok {
			return apperr.NotFound("section", section)
		}
		if err := CheckAccess(sec.Department, p.Claim); err != nil {
			return err
		}
		if _, exists := sec.Services[in.Name]; exists {
			return apperr.DuplicateName("service", in.Name)
		}
		sec.Services[in.Name] = catalog.PricedService{
			Name:        in.Name,
			Description: in.Description,
			UnitPrice:   in.UnitPrice,
			SetupCost:   in.SetupCost,
			Model:       in.Model,
			Department:  sec.Department,
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.logged(p, "added", "service", in.Name, zap.String("section", section))
	return nil
}

// UpdateService changes the set fields of an existing service.
func (m *Manager) UpdateService(p Principal, section, name string, up ServiceUpdate) error {
	if err := up.Validate(); err != nil {
		return invalid("service", err)
	}

	err := m.store.Update(func(c *catalog.Catalog) error {
		sec, ok := c.Sections[section]
		if !ok {
			return apperr.NotFound("section", section)
		}
		if err := CheckAccess(sec.Department, p.Claim); err != nil {
			return err
		}
		svc, ok := sec.Services[name]
		if !ok {
			return apperr.NotFound("service", name)
		}
		if up.Description != nil {
			svc.Description = *up.Description
		}
		if up.UnitPrice != nil {
			svc.UnitPrice = *up.UnitPrice
		}
		if up.SetupCost != nil {
			svc.SetupCost = *up.SetupCost
		}
		if up.Model != nil {
			svc.Model = *up.Model
		}
		sec.Services[name] = svc
		return nil
	})
	if err != nil {
		return err
	}
	m.logged(p, "updated", "service", name, zap.String("section", section))
	return nil
}

func (m *Manager) RemoveService(p Principal, section, name string) error {
	err := m.store.Update(func(c *catalog.Catalog) error {
		sec, ok := c.Sections[section]
		if !ok {
			return apperr.NotFound("section", section)
		}
		if err := CheckAccess(sec.Department, p.Claim); err != nil {
			return err
		}
		if _, ok := sec.Services[name]; !ok {
			return apperr.NotFound("service", name)
		}
		delete(sec.Services, name)
		return nil
	})
	if err != nil {
		return err
	}
	m.logged(p, "removed", "service", name, zap.String("section", section))
	return nil
}

// AddSupportTier adds a support tier. Tiers are owned by IT.
func (m *Manager) AddSupportTier(p Principal, in TierInput) error {
	if err := CheckAccess(catalog.DepartmentIT, p.Claim); err != nil {
		return err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperr.InvalidInput("support tier", "name: cannot be blank")
	}
	if err := in.Validate(); err != nil {
		return invalid("support tier", err)
	}

	err := m.store.Update(func(c *catalog.Catalog) error {
		if _, exists := c.SupportTiers[in.Name]; exists {
			return apperr.DuplicateName("support tier", in.Name)
		}
		c.SupportTiers[in.Name] = tierFromInput(in.Name, in)
		return nil
	})
	if err != nil {
		return err
	}
	m.logged(p, "added", "support tier", in.Name, zap.String("annual_price", in.AnnualPrice.String()))
	return nil
}

// UpdateSupportTier replaces the price, entitlements, description and
// departments of an existing tier.
func (m *Manager) UpdateSupportTier(p Principal, name string, in TierInput) error {
	if err := CheckAccess(catalog.DepartmentIT, p.Claim); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return invalid("support tier", err)
	}

	err := m.store.Update(func(c *catalog.Catalog) error {
		if _, ok := c.SupportTiers[name]; !ok {
			return apperr.NotFound("support tier", name)
		}
		c.SupportTiers[name] = tierFromInput(name, in)
		return nil
	})
	if err != nil {
		return err
	}
	m.logged(p, "updated", "support tier", name, zap.String("annual_price", in.AnnualPrice.String()))
	return nil
}

func (m *Manager) RemoveSupportTier(p Principal, name string) error {
	if err := CheckAccess(catalog.DepartmentIT, p.Claim); err != nil {
		return err
	}
	err := m.store.Update(func(c *catalog.Catalog) error {
		if _, ok := c.SupportTiers[name]; !ok {
			return apperr.NotFound("support tier", name)
		}
		delete(c.SupportTiers, name)
		return nil
	})
	if err != nil {
		return err
	}
	m.logged(p, "removed", "support tier", name)
	return nil
}

func tierFromInput(name string, in TierInput) catalog.SupportTier {
	return catalog.SupportTier{
		Name:         name,
		AnnualPrice:  in.AnnualPrice,
		Entitlements: in.Entitlements,
		Description:  in.Description,
		Departments:  slices.Clone(in.Departments),
	}
}

// AddProjectCategory creates a category whose project types are given one per
// line in text.
func (m *Manager) AddProjectCategory(p Principal, name, text string) error {
	if err := CheckAccess(catalog.DepartmentIT, p.Claim); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.InvalidInput("project category", "name: cannot be blank")
	}
	types := ParseProjectTypes(text)
	if len(types) == 0 {
		return apperr.InvalidInput("project category", "at least one project type is required")
	}

	err := m.store.Update(func(c *catalog.Catalog) error {
		if _, exists := c.ProjectCategories[name]; exists {
			return apperr.DuplicateName("project category", name)
		}
		c.ProjectCategories[name] = types
		return nil
	})
	if err != nil {
		return err
	}
	m.logged(p, "added", "project category", name, zap.Int("types", len(types)))
	return nil
}

// UpdateProjectCategory replaces the category's whole project type list.
func (m *Manager) UpdateProjectCategory(p Principal, name, text string) error {
	if err := CheckAccess(catalog.DepartmentIT, p.Claim); err != nil {
		return err
	}
	types := ParseProjectTypes(text)
	if len(types) == 0 {
		return apperr.InvalidInput("project category", "at least one project type is required")
	}

	err := m.store.Update(func(c *catalog.Catalog) error {
		if _, ok := c.ProjectCategories[name]; !ok {
			return apperr.NotFound("project category", name)
		}
		c.ProjectCategories[name] = types
		return nil
	})
	if err != nil {
		return err
	}
	m.logged(p, "updated", "project category", name, zap.Int("types", len(types)))
	return nil
}

func (m *Manager) RemoveProjectCategory(p Principal, name string) error {
	if err := CheckAccess(catalog.DepartmentIT, p.Claim); err != nil {
		return err
	}
	err := m.store.Update(func(c *catalog.Catalog) error {
		if _, ok := c.ProjectCategories[name]; !ok {
			return apperr.NotFound("project category", name)
		}
		delete(c.ProjectCategories, name)
		return nil
	})
	if err != nil {
		return err
	}
	m.logged(p, "removed", "project category", name)
	return nil
}

// AddAutomationPackage adds an RPA package. Packages are owned by IT.
func (m *Manager) AddAutomationPackage(p Principal, in PackageInput) error {
	if err := CheckAccess(catalog.DepartmentIT, p.Claim); err != nil {
		return err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperr.InvalidInput("automation package", "name: cannot be blank")
	}
	if err := in.Validate(); err != nil {
		return invalid("automation package", err)
	}

	err := m.store.Update(func(c *catalog.Catalog) error {
		if _, exists := c.AutomationPackages[in.Name]; exists {
			return apperr.DuplicateName("automation package", in.Name)
		}
		c.AutomationPackages[in.Name] = in.toPackage(in.Name)
		return nil
	})
	if err != nil {
		return err
	}
	pkg := in.toPackage(in.Name)
	m.logged(p, "added", "automation package", in.Name, zap.String("year1", pkg.Year1().String()))
	return nil
}

// UpdateAutomationPackage replaces every cost component of a package.
func (m *Manager) UpdateAutomationPackage(p Principal, name string, in PackageInput) error {
	if err := CheckAccess(catalog.DepartmentIT, p.Claim); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return invalid("automation package", err)
	}

	err := m.store.Update(func(c *catalog.Catalog) error {
		if _, ok := c.AutomationPackages[name]; !ok {
			return apperr.NotFound("automation package", name)
		}
		c.AutomationPackages[name] = in.toPackage(name)
		return nil
	})
	if err != nil {
		return err
	}
	pkg := in.toPackage(name)
	m.logged(p, "updated", "automation package", name, zap.String("year1", pkg.Year1().String()))
	return nil
}

func (m *Manager) RemoveAutomationPackage(p Principal, name string) error {
	if err := CheckAccess(catalog.DepartmentIT, p.Claim); err != nil {
		return err
	}
	err := m.store.Update(func(c *catalog.Catalog) error {
		if _, ok := c.AutomationPackages[name]; !ok {
			return apperr.NotFound("automation package", name)
		}
		delete(c.AutomationPackages, name)
		return nil
	})
	if err != nil {
		return err
	}
	m.logged(p, "removed", "automation package", name)
	return nil
}

// ResetCatalog restores the compiled-in catalog. Only an ALL claim may reset.
func (m *Manager) ResetCatalog(p Principal) error {
	if !p.Claim.All() {
		return apperr.AccessDenied(AllClaim, p.Claim.Name())
	}
	m.store.Reset()
	m.logged(p, "reset", "catalog", "*")
	return nil
}
