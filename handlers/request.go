package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"itbudget/internal/apperr"
)

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// isForm reports whether the body is a form post rather than JSON.
func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

func decodeJSON(e *core.RequestEvent, v any) error {
	if err := json.NewDecoder(e.Request.Body).Decode(v); err != nil {
		return apperr.InvalidInput("body", "invalid JSON: "+err.Error())
	}
	return nil
}

func formString(e *core.RequestEvent, field string) string {
	return strings.TrimSpace(e.Request.FormValue(field))
}

// formHas reports whether field was posted at all, even empty.
func formHas(e *core.RequestEvent, field string) bool {
	_ = e.Request.ParseForm()
	_, ok := e.Request.PostForm[field]
	return ok
}

// formInt parses a non-negative base-10 count; blank is zero and thousands
// separators are ignored. Leading zeros do not switch the base.
func formInt(e *core.RequestEvent, field string) (int, error) {
	raw := formString(e, field)
	if raw == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil || !d.IsInteger() {
		return 0, apperr.InvalidInput(field, "not a whole number: "+raw)
	}
	if d.IsNegative() {
		return 0, apperr.InvalidInput(field, "must not be negative")
	}
	return int(d.IntPart()), nil
}

// formBool accepts checkbox "on" as well as the usual true/false spellings.
func formBool(e *core.RequestEvent, field string) bool {
	raw := strings.ToLower(formString(e, field))
	if raw == "on" || raw == "y" || raw == "yes" {
		return true
	}
	return cast.ToBool(raw)
}

// formList splits a comma-separated field, dropping blanks.
func formList(e *core.RequestEvent, field string) []string {
	var out []string
	for _, part := range strings.Split(formString(e, field), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
