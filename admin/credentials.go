package admin

import "itbudget/internal/apperr"

// Credential is one admin login. Passwords are compared as plain strings.
type Credential struct {
	Username    string
	Password    string
	Claim       DepartmentClaim
	DisplayName string
}

// Principal is an authenticated admin.
type Principal struct {
	Username    string
	Claim       DepartmentClaim
	DisplayName string
}

// Credentials maps usernames to their login.
type Credentials map[string]Credential

// DefaultCredentials returns the built-in admin accounts.
func DefaultCredentials() Credentials {
	list := []Credential{
		{Username: "admin", Password: "admin123", Claim: AllDepartments(), DisplayName: "Super Admin"},
		{Username: "it_admin", Password: "it123", Claim: Department("IT"), DisplayName: "IT Administrator"},
		{Username: "procurement_admin", Password: "proc123", Claim: Department("Procurement"), DisplayName: "Procurement Administrator"},
		{Username: "hr_admin", Password: "hr123", Claim: Department("HR"), DisplayName: "HR Administrator"},
		{Username: "ops_admin", Password: "ops123", Claim: Department("Operations"), DisplayName: "Operations Administrator"},
	}
	creds := make(Credentials, len(list))
	for _, c := range list {
		creds[c.Username] = c
	}
	return creds
}

// Authenticate returns the principal for username when password matches.
func (cs Credentials) Authenticate(username, password string) (Principal, error) {
	c, ok := cs[username]
	if !ok || c.Password != password {
		return Principal{}, apperr.Unauthorized("invalid username or password")
	}
	return Principal{Username: c.Username, Claim: c.Claim, DisplayName: c.DisplayName}, nil
}
