package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"itbudget/internal/apperr"
)

// SetToast sets the HX-Trigger response header to show a toast notification
// on the client via HTMX, merging into any HX-Trigger payload already set.
// It also sets a flash cookie so toasts survive regular (non-HTMX) redirects.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	payload := map[string]string{"message": message, "type": toastType}

	trigger, err := mergeTrigger(e.Response.Header().Get("HX-Trigger"), "showToast", payload)
	if err == nil {
		e.Response.Header().Set("HX-Trigger", trigger)
	}

	if cookieVal, err := json.Marshal(payload); err == nil {
		http.SetCookie(e.Response, &http.Cookie{
			Name:     "flash_toast",
			Value:    url.QueryEscape(string(cookieVal)),
			Path:     "/",
			MaxAge:   10,
			HttpOnly: false, // JS needs to read it
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// mergeTrigger adds key to an HX-Trigger JSON object. A header that is not
// a JSON object is replaced.
func mergeTrigger(existing, key string, value any) (string, error) {
	merged := map[string]any{}
	if existing != "" {
		if err := json.Unmarshal([]byte(existing), &merged); err != nil {
			merged = map[string]any{}
		}
	}
	merged[key] = value
	data, err := json.Marshal(merged)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ErrorToast sets an error toast and prevents HTMX from swapping the error text into the DOM.
// It sets HX-Reswap: none so the response body is ignored by HTMX, while the HX-Trigger
// header still fires the toast event.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, "error", message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

// statusFor maps domain error types to HTTP status codes.
func statusFor(err error) int {
	switch apperr.TypeOf(err) {
	case apperr.TypeDuplicateName:
		return http.StatusConflict
	case apperr.TypeNotFound:
		return http.StatusNotFound
	case apperr.TypeAccessDenied:
		return http.StatusForbidden
	case apperr.TypeParse, apperr.TypeInvalidInput:
		return http.StatusBadRequest
	case apperr.TypeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an error toast. Domain errors show their
// message; anything else is logged and shown generically.
func respondError(env *Env, e *core.RequestEvent, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		env.Logger.Error("handlers: request failed",
			zap.String("method", e.Request.Method),
			zap.String("path", e.Request.URL.Path),
			zap.Error(err),
		)
		return ErrorToast(e, status, "Something went wrong. Please try again.")
	}

	var ae *apperr.Error
	msg := err.Error()
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	env.Logger.Debug("handlers: request rejected", zap.String("path", e.Request.URL.Path), zap.Error(err))
	return ErrorToast(e, status, msg)
}
