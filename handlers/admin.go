package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"itbudget/admin"
	"itbudget/catalog"
	"itbudget/collections"
	"itbudget/internal/apperr"
)

// HandleAdminLogin checks the posted credentials and sets the admin cookie.
// Route: POST /admin/login
func HandleAdminLogin(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if isForm(e.Request) {
			body.Username = formString(e, "username")
			body.Password = e.Request.FormValue("password")
		} else if err := decodeJSON(e, &body); err != nil {
			return respondError(env, e, err)
		}

		p, err := env.Credentials.Authenticate(body.Username, body.Password)
		if err != nil {
			env.Logger.Info("admin: login failed", zap.String("user", body.Username))
			return respondError(env, e, err)
		}

		token := newAdminToken()
		env.signIn(token, p)
		http.SetCookie(e.Response, &http.Cookie{
			Name:     AdminCookie,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		env.Logger.Info("admin: login", zap.String("user", p.Username), zap.String("claim", p.Claim.Name()))

		SetToast(e, "success", "Signed in as "+p.DisplayName)
		return e.JSON(http.StatusOK, map[string]any{
			"username":     p.Username,
			"display_name": p.DisplayName,
			"claim":        p.Claim.Name(),
		})
	}
}

// HandleAdminLogout forgets the admin session.
// Route: POST /admin/logout
func HandleAdminLogout(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if cookie, err := e.Request.Cookie(AdminCookie); err == nil {
			env.signOut(cookie.Value)
		}
		http.SetCookie(e.Response, &http.Cookie{
			Name:   AdminCookie,
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})
		return e.NoContent(http.StatusNoContent)
	}
}

// adminMutation runs fn for the signed-in principal and reports the new
// catalog version.
func adminMutation(env *Env, status int, message string, fn func(e *core.RequestEvent, p admin.Principal) error) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, ok := GetPrincipal(e.Request)
		if !ok {
			return respondError(env, e, apperr.Unauthorized("admin sign-in required"))
		}
		if err := fn(e, p); err != nil {
			return respondError(env, e, err)
		}
		SetToast(e, "success", message)
		return e.JSON(status, map[string]any{"version": env.Store.Version()})
	}
}

// ── Services ─────────────────────────────────────────────────

// HandleServiceAdd adds a service to a catalog section.
// Route: POST /admin/sections/{section}/services
func HandleServiceAdd(env *Env) func(*core.RequestEvent) error {
	return adminMutation(env, http.StatusCreated, "Service added", func(e *core.RequestEvent, p admin.Principal) error {
		in, err := readServiceInput(e)
		if err != nil {
			return err
		}
		return env.Admin.AddService(p, e.Request.PathValue("section"), in)
	})
}

// HandleServiceUpdate edits the posted fields of a service.
// Route: PATCH /admin/sections/{section}/services/{name}
func HandleServiceUpdate(env *Env) func(*core.RequestEvent) error {
	return adminMutation(env, http.StatusOK, "Service updated", func(e *core.RequestEvent, p admin.Principal) error {
		up, err := readServiceUpdate(e)
		if err != nil {
			return err
		}
		return env.Admin.UpdateService(p, e.Request.PathValue("section"), e.Request.PathValue("name"), up)
	})
}

// HandleServiceRemove deletes a service.
// Route: DELETE /admin/sections/{section}/services/{name}
func HandleServiceRemove(env *Env) func(*core.RequestEvent) error {
	return adminMutation(env, http.StatusOK, "Service removed", func(e *core.RequestEvent, p admin.Principal) error {
		return env.Admin.RemoveService(p, e.Request.PathValue("section"), e.Request.PathValue("name"))
	})
}

func readServiceInput(e *core.RequestEvent) (admin.ServiceInput, error) {
	var in admin.ServiceInput
	if !isForm(e.Request) {
		return in, decodeJSON(e, &in)
	}
	var err error
	in.Name = formString(e, "name")
	in.Description = formString(e, "description")
	if in.UnitPrice, err = admin.ParseAmount("unit_price", e.Request.FormValue("unit_price")); err != nil {
		return in, err
	}
	if in.SetupCost, err = admin.ParseAmount("setup_cost", e.Request.FormValue("setup_cost")); err != nil {
		return in, err
	}
	in.Model = formModel(e)
	return in, nil
}

func readServiceUpdate(e *core.RequestEvent) (admin.ServiceUpdate, error) {
	var up admin.ServiceUpdate
	if !isForm(e.Request) {
		return up, decodeJSON(e, &up)
	}
	if formHas(e, "description") {
		d := formString(e, "description")
		up.Description = &d
	}
	for _, f := range []struct {
		field string
		dst   **decimal.Decimal
	}{
		{"unit_price", &up.UnitPrice},
		{"setup_cost", &up.SetupCost},
	} {
		if !formHas(e, f.field) {
			continue
		}
		d, err := admin.ParseAmount(f.field, e.Request.FormValue(f.field))
		if err != nil {
			return up, err
		}
		*f.dst = &d
	}
	if formHas(e, "pricing_model") {
		m := formModel(e)
		up.Model = &m
	}
	return up, nil
}

// formModel accepts either the model key or its display label. Unknown
// values pass through so validation can reject them.
func formModel(e *core.RequestEvent) catalog.PricingModel {
	raw := formString(e, "pricing_model")
	if m, ok := catalog.ParsePricingModel(raw); ok {
		return m
	}
	return catalog.PricingModel(raw)
}

// ── Support tiers ────────────────────────────────────────────

// Route: POST /admin/support-tiers
func HandleSupportTierAdd(env *Env) func(*core.RequestEvent) error {
	return adminMutation(env, http.StatusCreated, "Support tier added", func(e *core.RequestEvent, p admin.Principal) error {
		in, err := readTierInput(e)
		if err != nil {
			return err
		}
		return env.Admin.AddSupportTier(p, in)
	})
}

// Route: PATCH /admin/support-tiers/{name}
func HandleSupportTierUpdate(env *Env) func(*core.RequestEvent) error {
	return adminMutation(env, http.StatusOK, "Support tier updated", func(e *core.RequestEvent, p admin.Principal) error {
		in, err := readTierInput(e)
		if err != nil {
			return err
		}
		return env.Admin.UpdateSupportTier(p, e.Request.PathValue("name"), in)
	})
}

// Route: DELETE /admin/support-tiers/{name}
func HandleSupportTierRemove(env *Env) func(*core.RequestEvent) error {
	return adminMutation(env, http.StatusOK, "Support tier removed", func(e *core.RequestEvent, p admin.Principal) error {
		return env.Admin.RemoveSupportTier(p, e.Request.PathValue("name"))
	})
}

func readTierInput(e *core.RequestEvent) (admin.TierInput, error) {
	var in admin.TierInput
	if !isForm(e.Request) {
		return in, decodeJSON(e, &in)
	}
	var err error
	in.Name = formString(e, "name")
	in.Description = formString(e, "description")
	in.Departments = formList(e, "departments")
	if in.AnnualPrice, err = admin.ParseAmount("annual_price", e.Request.FormValue("annual_price")); err != nil {
		return in, err
	}
	ent := &in.Entitlements
	for _, f := range []struct {
		field string
		dst   *int
	}{
		{"standard_requests", &ent.StandardRequests},
		{"priority_requests", &ent.PriorityRequests},
		{"premium_requests", &ent.PremiumRequests},
		{"improvement_hours", &ent.ImprovementHours},
		{"training_requests", &ent.TrainingRequests},
		{"report_requests", &ent.ReportRequests},
	} {
		if *f.dst, err = formInt(e, f.field); err != nil {
			return in, err
		}
	}
	return in, nil
}

// ── Project categories ───────────────────────────────────────

type categoryBody struct {
	Name         string `json:"name"`
	ProjectTypes string `json:"project_types"`
}

func readCategory(e *core.RequestEvent) (categoryBody, error) {
	var body categoryBody
	if isForm(e.Request) {
		body.Name = formString(e, "name")
		body.ProjectTypes = e.Request.FormValue("project_types")
		return body, nil
	}
	return body, decodeJSON(e, &body)
}

// Route: POST /admin/project-categories
func HandleProjectCategoryAdd(env *Env) func(*core.RequestEvent) error {
	return adminMutation(env, http.StatusCreated, "Project category added", func(e *core.RequestEvent, p admin.Principal) error {
		body, err := readCategory(e)
		if err != nil {
			return err
		}
		return env.Admin.AddProjectCategory(p, body.Name, body.ProjectTypes)
	})
}

// Route: PATCH /admin/project-categories/{name}
func HandleProjectCategoryUpdate(env *Env) func(*core.RequestEvent) error {
	return adminMutation(env, http.StatusOK, "Project category updated", func(e *core.RequestEvent, p admin.Principal) error {
		body, err := readCategory(e)
		if err != nil {
			return err
		}
		return env.Admin.UpdateProjectCategory(p, e.Request.PathValue("name"), body.ProjectTypes)
	})
}

// Route: DELETE /admin/project-categories/{name}
func HandleProjectCategoryRemove(env *Env) func(*core.RequestEvent) error {
	return adminMutation(env, http.StatusOK, "Project category removed", func(e *core.RequestEvent, p admin.Principal) error {
		return env.Admin.RemoveProjectCategory(p, e.Request.PathValue("name"))
	})
}

// ── Automation packages ──────────────────────────────────────

// Route: POST /admin/automation-packages
func HandleAutomationPackageAdd(env *Env) func(*core.RequestEvent) error {
	return adminMutation(env, http.StatusCreated, "Automation package added", func(e *core.RequestEvent, p admin.Principal) error {
		in, err := readPackageInput(e)
		if err != nil {
			return err
		}
		return env.Admin.AddAutomationPackage(p, in)
	})
}

// Route: PATCH /admin/automation-packages/{name}
func HandleAutomationPackageUpdate(env *Env) func(*core.RequestEvent) error {
	return adminMutation(env, http.StatusOK, "Automation package updated", func(e *core.RequestEvent, p admin.Principal) error {
		in, err := readPackageInput(e)
		if err != nil {
			return err
		}
		return env.Admin.UpdateAutomationPackage(p, e.Request.PathValue("name"), in)
	})
}

// Route: DELETE /admin/automation-packages/{name}
func HandleAutomationPackageRemove(env *Env) func(*core.RequestEvent) error {
	return adminMutation(env, http.StatusOK, "Automation package removed", func(e *core.RequestEvent, p admin.Principal) error {
		return env.Admin.RemoveAutomationPackage(p, e.Request.PathValue("name"))
	})
}

func readPackageInput(e *core.RequestEvent) (admin.PackageInput, error) {
	var in admin.PackageInput
	if !isForm(e.Request) {
		return in, decodeJSON(e, &in)
	}
	in.Name = formString(e, "name")
	in.ProcessCoverage = formString(e, "process_coverage")
	in.ImplementationCoverage = formString(e, "implementation_coverage")
	for _, f := range []struct {
		field string
		dst   *decimal.Decimal
	}{
		{"discovery", &in.Discovery},
		{"build", &in.Build},
		{"project_management", &in.ProjectManagement},
		{"infrastructure", &in.Infrastructure},
		{"year2", &in.Year2},
		{"year3", &in.Year3},
	} {
		d, err := admin.ParseAmount(f.field, e.Request.FormValue(f.field))
		if err != nil {
			return in, err
		}
		*f.dst = d
	}
	return in, nil
}

// ── Catalog-wide ─────────────────────────────────────────────

// HandleCatalogReset restores the compiled-in catalog.
// Route: POST /admin/reset
func HandleCatalogReset(env *Env) func(*core.RequestEvent) error {
	return adminMutation(env, http.StatusOK, "Catalog reset to defaults", func(e *core.RequestEvent, p admin.Principal) error {
		return env.Admin.ResetCatalog(p)
	})
}

// HandleSubmissionList lists recorded submissions. Department admins only
// see their own department.
// Route: GET /admin/submissions
func HandleSubmissionList(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, ok := GetPrincipal(e.Request)
		if !ok {
			return respondError(env, e, apperr.Unauthorized("admin sign-in required"))
		}
		department := ""
		if !p.Claim.All() {
			department = p.Claim.Name()
		}
		limit, err := formInt(e, "limit")
		if err != nil {
			return respondError(env, e, err)
		}

		list, err := collections.ListSubmissions(env.App, department, limit)
		if err != nil {
			return respondError(env, e, err)
		}
		return e.JSON(http.StatusOK, list)
	}
}

// HandleSubmissionView returns one recorded submission. Submissions from
// another department read as not found for department admins.
// Route: GET /admin/submissions/{ref}
func HandleSubmissionView(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		p, ok := GetPrincipal(e.Request)
		if !ok {
			return respondError(env, e, apperr.Unauthorized("admin sign-in required"))
		}
		ref := e.Request.PathValue("ref")
		sub, err := collections.FindSubmission(env.App, ref)
		if err != nil {
			return respondError(env, e, err)
		}
		if !p.Claim.All() && sub.Department != p.Claim.Name() {
			return respondError(env, e, apperr.NotFound("submission", ref))
		}
		return e.JSON(http.StatusOK, sub)
	}
}
