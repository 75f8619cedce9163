package handlers

import (
	"fmt"
	"net/http"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"itbudget/internal/apperr"
	"itbudget/submission"
	"itbudget/templates"
)

// HandleSaveDraft acknowledges a draft save. Nothing is persisted.
// Route: POST /draft
func HandleSaveDraft(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		st := GetSession(e.Request)
		if st == nil {
			return respondError(env, e, apperr.New(apperr.TypeNotFound, "no questionnaire session"))
		}
		res := env.Submitter.SaveDraft(st.Snapshot())
		SetToast(e, "success", res.Message)
		if isHTMX(e.Request) {
			return templates.DraftSaved(res.Message).Render(e.Request.Context(), e.Response)
		}
		return e.JSON(http.StatusOK, res)
	}
}

// HandleSubmit issues a receipt for the session's current selections.
// Route: POST /submit
func HandleSubmit(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		st := GetSession(e.Request)
		if st == nil {
			return respondError(env, e, apperr.New(apperr.TypeNotFound, "no questionnaire session"))
		}

		snap := st.Snapshot()
		receipt, err := env.Submitter.Submit(e.Request.Context(), snap, env.totals(st))
		if err != nil {
			return respondError(env, e, err)
		}
		env.storeReceipt(st.ID(), receipt)

		SetToast(e, "success", "Budget request "+receipt.ReferenceID+" submitted")
		if isHTMX(e.Request) {
			return templates.Receipt(receipt).Render(e.Request.Context(), e.Response)
		}
		return e.JSON(http.StatusCreated, receipt)
	}
}

// HandleReceiptPDF downloads the session's latest receipt as a PDF. A ref
// query parameter must match that receipt when given.
// Route: GET /submit/receipt.pdf
func HandleReceiptPDF(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		st := GetSession(e.Request)
		if st == nil {
			return respondError(env, e, apperr.New(apperr.TypeNotFound, "no questionnaire session"))
		}
		receipt, ok := env.lastReceipt(st.ID())
		ref := e.Request.URL.Query().Get("ref")
		if !ok || (ref != "" && ref != receipt.ReferenceID) {
			return respondError(env, e, apperr.NotFound("receipt", ref))
		}

		pdfBytes, err := submission.RenderPDF(receipt)
		if err != nil {
			env.Logger.Error("submit: failed to render receipt", zap.String("reference", receipt.ReferenceID), zap.Error(err))
			return respondError(env, e, fmt.Errorf("render receipt: %w", err))
		}
		return sendFile(e, "application/pdf", "Receipt_"+sanitizeFilename(receipt.ReferenceID)+".pdf", pdfBytes)
	}
}
