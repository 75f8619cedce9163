// Package admin implements department-scoped catalog administration: who may
// change which catalog entries, and the validated CRUD operations themselves.
package admin

import (
	"strings"

	"itbudget/internal/apperr"
)

// AllClaim is the legacy sentinel granting access to every department.
const AllClaim = "ALL"

// DepartmentClaim is either "all departments" or a single named department.
type DepartmentClaim struct {
	all  bool
	name string
}

// AllDepartments returns the super-admin claim.
func AllDepartments() DepartmentClaim {
	return DepartmentClaim{all: true}
}

// Department returns a claim scoped to one department.
func Department(name string) DepartmentClaim {
	return DepartmentClaim{name: strings.TrimSpace(name)}
}

// ParseClaim maps "ALL" to AllDepartments and anything else to Department.
func ParseClaim(s string) DepartmentClaim {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, AllClaim) {
		return AllDepartments()
	}
	return Department(s)
}

func (c DepartmentClaim) All() bool { return c.all }

// Name returns the department name, or "ALL" for the super-admin claim.
func (c DepartmentClaim) Name() string {
	if c.all {
		return AllClaim
	}
	return c.name
}

func (c DepartmentClaim) String() string { return c.Name() }

// CheckAccess reports whether claim may mutate entries owned by required.
// It has no side effects.
func CheckAccess(required string, claim DepartmentClaim) error {
	if claim.all {
		return nil
	}
	if claim.name != "" && claim.name == required {
		return nil
	}
	return apperr.AccessDenied(required, claim.Name())
}
