package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"itbudget/internal/apperr"
	"itbudget/spreadsheet"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// HandleCatalog returns the effective catalog with its version.
// Route: GET /api/catalog
func HandleCatalog(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		return e.JSON(http.StatusOK, map[string]any{
			"version": env.Store.Version(),
			"catalog": env.Store.Snapshot(),
		})
	}
}

// HandleTemplateDownload streams a blank questionnaire workbook built from
// the current catalog.
// Route: GET /template
func HandleTemplateDownload(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := spreadsheet.GenerateTemplate(env.Store.Snapshot())
		if err != nil {
			return respondError(env, e, fmt.Errorf("generate template: %w", err))
		}
		filename := fmt.Sprintf("Budget_Questionnaire_%d.xlsx", time.Now().Year())
		return sendFile(e, xlsxContentType, filename, data)
	}
}

// HandleImport replaces the session's selections with an uploaded workbook.
// Route: POST /import
func HandleImport(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		st := GetSession(e.Request)
		if st == nil {
			return respondError(env, e, apperr.New(apperr.TypeNotFound, "no questionnaire session"))
		}

		// Parse multipart form (max 10MB)
		if err := e.Request.ParseMultipartForm(10 << 20); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "File too large or invalid form data")
		}
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please select a file to upload")
		}
		defer file.Close()

		im, err := spreadsheet.ParseUpload(file)
		if err != nil {
			env.Logger.Info("import: rejected workbook", zap.String("file", header.Filename), zap.Error(err))
			return respondError(env, e, err)
		}
		if err := st.ImportFromTemplate(im); err != nil {
			return respondError(env, e, err)
		}

		snap := st.Snapshot()
		env.Logger.Info("import: workbook applied",
			zap.String("session", st.ID()),
			zap.String("file", header.Filename),
			zap.Int("services", len(snap.Services)),
			zap.Int("custom_services", len(snap.CustomServices)),
			zap.Int("projects", len(snap.Projects)),
		)

		if im.Empty() {
			SetToast(e, "warning", "The workbook had no selections")
		} else {
			SetToast(e, "success", "Questionnaire imported")
		}
		return e.JSON(http.StatusOK, newTotalsResponse(env, st))
	}
}

// HandleSummaryExport downloads the session's budget summary workbook.
// Route: GET /export/summary
func HandleSummaryExport(env *Env) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		st := sessionOrEmpty(e.Request)
		snap := st.Snapshot()
		now := time.Now()
		data, err := spreadsheet.ExportSummary(snap, env.totals(st), env.Submitter.Currency(), now)
		if err != nil {
			return respondError(env, e, fmt.Errorf("export summary: %w", err))
		}
		name := "Budget"
		if snap.Company.CompanyCode != "" {
			name += "_" + snap.Company.CompanyCode
		}
		filename := fmt.Sprintf("%s_Summary_%s.xlsx", sanitizeFilename(name), now.Format("2006-01-02"))
		return sendFile(e, xlsxContentType, filename, data)
	}
}

func sendFile(e *core.RequestEvent, contentType, filename string, data []byte) error {
	e.Response.Header().Set("Content-Type", contentType)
	e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	_, err := e.Response.Write(data)
	return err
}

// sanitizeFilename replaces characters that are problematic in filenames.
func sanitizeFilename(name string) string {
	r := strings.NewReplacer(" ", "-", "/", "-", "\\", "-", ":", "-", `"`, "")
	return r.Replace(name)
}
