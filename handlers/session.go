package handlers

import (
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"

	"itbudget/admin"
	"itbudget/budget"
	"itbudget/catalog"
	"itbudget/internal/apperr"
	"itbudget/selection"
)

// totalsResponse is the running total returned after every selection change.
type totalsResponse struct {
	Currency  string        `json:"currency"`
	Grand     string        `json:"grand_formatted"`
	Totals    budget.Totals `json:"totals"`
	ProjectID string        `json:"project_id,omitempty"`
}

// sessionMutation runs fn against the request's session and answers with
// the recomputed totals.
func sessionMutation(env *Env, fn func(e *core.RequestEvent, st *selection.State) error) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		st := GetSession(e.Request)
		if st == nil {
			return respondError(env, e, apperr.New(apperr.TypeNotFound, "no questionnaire session"))
		}
		if err := fn(e, st); err != nil {
			return respondError(env, e, err)
		}
		return e.JSON(http.StatusOK, newTotalsResponse(env, st))
	}
}

func newTotalsResponse(env *Env, st *selection.State) totalsResponse {
	t := env.totals(st)
	currency := env.Submitter.Currency()
	return totalsResponse{
		Currency: currency,
		Grand:    budget.FormatAmount(currency, t.Grand),
		Totals:   t,
	}
}

// HandleTotals returns the current totals and cash-flow curve. Without a
// session the totals are zero.
// Route: GET /session/totals
func HandleTotals(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, newTotalsResponse(env, sessionOrEmpty(e.Request)))
	}
}

// HandleCompanyInfo replaces the company details, including the current
// RPA utilization.
// Route: POST /session/company
func HandleCompanyInfo(env *Env) func(*core.RequestEvent) error {
	return sessionMutation(env, func(e *core.RequestEvent, st *selection.State) error {
		var info selection.CompanyInfo
		if isForm(e.Request) {
			info = selection.CompanyInfo{
				CompanyCode:  formString(e, "company_code"),
				CompanyName:  formString(e, "company_name"),
				Department:   formString(e, "department"),
				ContactName:  formString(e, "contact_name"),
				ContactEmail: formString(e, "contact_email"),
				BusinessUnit: formString(e, "business_unit"),
				Automation: selection.CurrentAutomation{
					Package:   formString(e, "current_package"),
					Processes: formString(e, "current_processes"),
				},
			}
			var err error
			if info.Automation.Utilization, err = formInt(e, "current_utilization"); err != nil {
				return err
			}
		} else if err := decodeJSON(e, &info); err != nil {
			return err
		}
		a := &info.Automation
		if err := validation.ValidateStruct(a,
			validation.Field(&a.Utilization, validation.Min(0), validation.Max(100)),
		); err != nil {
			return apperr.InvalidInput("current_automation", err.Error())
		}
		st.SetCompanyInfo(info)
		return nil
	})
}

type serviceBody struct {
	Section           string `json:"section"`
	Service           string `json:"service"`
	Quantity          int    `json:"quantity"`
	NewImplementation bool   `json:"new_implementation"`
	Included          bool   `json:"included"`
}

// HandleServiceSelection includes, edits or excludes one catalog service.
// Route: POST /session/services
func HandleServiceSelection(env *Env) func(*core.RequestEvent) error {
	return sessionMutation(env, func(e *core.RequestEvent, st *selection.State) error {
		var body serviceBody
		if isForm(e.Request) {
			var err error
			body.Section = formString(e, "section")
			body.Service = formString(e, "service")
			if body.Quantity, err = formInt(e, "quantity"); err != nil {
				return err
			}
			body.NewImplementation = formBool(e, "new_implementation")
			body.Included = formBool(e, "included")
		} else if err := decodeJSON(e, &body); err != nil {
			return err
		}

		if _, ok := env.Store.Service(body.Section, body.Service); !ok && body.Included {
			return apperr.NotFound("service", body.Section+"/"+body.Service)
		}
		key := selection.ServiceKey(body.Section, body.Service)
		st.SetServiceSelection(key, body.Section, body.Service, body.Quantity, body.NewImplementation, body.Included)
		return nil
	})
}

type customServiceBody struct {
	Key      string `json:"key"`
	Included bool   `json:"included"`
	selection.CustomService
}

// HandleCustomService adds, edits or removes an ad-hoc service. A blank key
// creates a new entry.
// Route: POST /session/custom-services
func HandleCustomService(env *Env) func(*core.RequestEvent) error {
	return sessionMutation(env, func(e *core.RequestEvent, st *selection.State) error {
		var body customServiceBody
		if isForm(e.Request) {
			var err error
			body.Key = formString(e, "key")
			body.Included = formBool(e, "included")
			body.Name = formString(e, "name")
			body.Description = formString(e, "description")
			body.Model = formModel(e)
			if body.UnitPrice, err = admin.ParseAmount("unit_price", e.Request.FormValue("unit_price")); err != nil {
				return err
			}
			if body.SetupCost, err = admin.ParseAmount("setup_cost", e.Request.FormValue("setup_cost")); err != nil {
				return err
			}
			if body.Quantity, err = formInt(e, "quantity"); err != nil {
				return err
			}
			body.NewImplementation = formBool(e, "new_implementation")
		} else if err := decodeJSON(e, &body); err != nil {
			return err
		}

		if body.Model == "" {
			body.Model = catalog.PerUnitAnnual
		}
		if body.Included {
			cs := body.CustomService
			err := validation.ValidateStruct(&cs,
				validation.Field(&cs.Name, validation.Required, validation.Length(1, 200)),
				validation.Field(&cs.Model, validation.By(validModel)),
				validation.Field(&cs.UnitPrice, validation.By(notNegative)),
				validation.Field(&cs.SetupCost, validation.By(notNegative)),
			)
			if err != nil {
				return apperr.InvalidInput("custom service", err.Error())
			}
		}

		key := strings.TrimSpace(body.Key)
		if key == "" {
			id, err := gonanoid.Generate("abcdefghijklmnopqrstuvwxyz0123456789", 8)
			if err != nil {
				return err
			}
			key = "custom_" + id
		}
		st.SetCustomService(key, body.CustomService, body.Included)
		return nil
	})
}

var (
	timelineValues = enumValues(selection.Timelines)
	priorityValues = enumValues(selection.Priorities)
)

func enumValues[T any](vals []T) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func validModel(value any) error {
	m, _ := value.(catalog.PricingModel)
	if m != "" && !m.Valid() {
		return validation.NewError("validation_pricing_model", "unknown pricing model")
	}
	return nil
}

func notNegative(value any) error {
	d, _ := value.(decimal.Decimal)
	if d.IsNegative() {
		return validation.NewError("validation_negative", "must not be negative")
	}
	return nil
}

// HandleSupport selects the support tier and extra request counts.
// Route: POST /session/support
func HandleSupport(env *Env) func(*core.RequestEvent) error {
	return sessionMutation(env, func(e *core.RequestEvent, st *selection.State) error {
		var body selection.SupportSelection
		if isForm(e.Request) {
			var err error
			body.Tier = formString(e, "tier")
			if body.ExtraSupport, err = formInt(e, "extra_support"); err != nil {
				return err
			}
			if body.ExtraTraining, err = formInt(e, "extra_training"); err != nil {
				return err
			}
			if body.ExtraReports, err = formInt(e, "extra_reports"); err != nil {
				return err
			}
		} else if err := decodeJSON(e, &body); err != nil {
			return err
		}
		if body.Tier != "" {
			if _, ok := env.Store.SupportTier(body.Tier); !ok {
				return apperr.NotFound("support tier", body.Tier)
			}
		}
		st.SetSupportTier(body.Tier)
		st.SetSupportExtras(body.ExtraSupport, body.ExtraTraining, body.ExtraReports)
		return nil
	})
}

// HandleProjectAdd appends an implementation project.
// Route: POST /session/projects
func HandleProjectAdd(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		st := GetSession(e.Request)
		if st == nil {
			return respondError(env, e, apperr.New(apperr.TypeNotFound, "no questionnaire session"))
		}

		var p selection.ProjectSelection
		if isForm(e.Request) {
			var err error
			p = selection.ProjectSelection{
				Name:              formString(e, "name"),
				Category:          formString(e, "category"),
				ProjectType:       formString(e, "project_type"),
				Timeline:          selection.Timeline(formString(e, "timeline")),
				Priority:          selection.Priority(formString(e, "priority")),
				Departments:       formList(e, "departments"),
				AutomationPackage: formString(e, "automation_package"),
				Description:       formString(e, "description"),
			}
			if p.Budget, err = admin.ParseAmount("budget", e.Request.FormValue("budget")); err != nil {
				return respondError(env, e, err)
			}
		} else if err := decodeJSON(e, &p); err != nil {
			return respondError(env, e, err)
		}

		err := validation.ValidateStruct(&p,
			validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
			validation.Field(&p.Budget, validation.By(notNegative)),
			validation.Field(&p.Timeline, validation.In(timelineValues...).Error("must be one of the listed timelines")),
			validation.Field(&p.Priority, validation.In(priorityValues...).Error("must be Low, Medium, High or Critical")),
		)
		if err != nil {
			return respondError(env, e, apperr.InvalidInput("project", err.Error()))
		}

		id, err := st.AddProject(p)
		if err != nil {
			return respondError(env, e, err)
		}
		SetToast(e, "success", "Project added")
		resp := newTotalsResponse(env, st)
		resp.ProjectID = id
		return e.JSON(http.StatusCreated, resp)
	}
}

// HandleProjectRemove drops a project by id.
// Route: DELETE /session/projects/{id}
func HandleProjectRemove(env *Env) func(*core.RequestEvent) error {
	return sessionMutation(env, func(e *core.RequestEvent, st *selection.State) error {
		return st.RemoveProject(e.Request.PathValue("id"))
	})
}
