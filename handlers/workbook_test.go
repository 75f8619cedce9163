package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"itbudget/catalog"
	"itbudget/selection"
	"itbudget/spreadsheet"
)

func uploadRequest(t *testing.T, filename string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestCatalogHandler(t *testing.T) {
	env := newTestEnv(t)
	rec := serve(t, env, HandleCatalog(env), httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Version uint64          `json:"version"`
		Catalog catalog.Catalog `json:"catalog"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint64(0), body.Version)
	assert.Contains(t, body.Catalog.SupportTiers, "Bronze Package")
	assert.Contains(t, body.Catalog.Sections, "oracle")
}

func TestTemplateDownloadHandler(t *testing.T) {
	env := newTestEnv(t)
	rec := serve(t, env, HandleTemplateDownload(env), httptest.NewRequest(http.MethodGet, "/template", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Budget_Questionnaire_")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), spreadsheet.SheetOperational)
}

func TestImportHandler(t *testing.T) {
	env := newTestEnv(t)
	tpl, err := spreadsheet.GenerateTemplate(env.Store.Snapshot())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(tpl))
	require.NoError(t, err)
	f.SetCellValue(spreadsheet.SheetInstructions, "B11", "AIC")
	f.SetCellValue(spreadsheet.SheetSupport, "B4", "Bronze Package")
	f.SetCellValue(spreadsheet.SheetProjects, "A2", "Invoice Bots")
	f.SetCellValue(spreadsheet.SheetProjects, "H2", "Bronze (1 Credit)")
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	f.Close()

	st := selection.New("s")
	st.SetServiceSelection("oracle_hcm_payroll", "oracle", "HCM - Payroll", 3, false, true)

	rec := serve(t, env, HandleImport(env), withSession(uploadRequest(t, "filled.xlsx", buf.Bytes()), st))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snap := st.Snapshot()
	assert.Empty(t, snap.Services, "import overwrites earlier selections")
	assert.Equal(t, "AIC", snap.Company.CompanyCode)
	assert.Equal(t, "Bronze Package", snap.Support.Tier)
	require.Len(t, snap.Projects, 1)

	// 96000 support + 45540 package year 1
	body := decodeTotals(t, rec)
	assert.Equal(t, "141540", body.Totals.Grand)
}

func TestImportHandler_Rejects(t *testing.T) {
	env := newTestEnv(t)
	st := selection.New("s")
	st.SetSupportTier("Gold Package")

	rec := serve(t, env, HandleImport(env), withSession(uploadRequest(t, "notes.txt", []byte("hello")), st))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Gold Package", st.Snapshot().Support.Tier, "failed import leaves state untouched")

	req := withSession(httptest.NewRequest(http.MethodPost, "/import", nil), st)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec = serve(t, env, HandleImport(env), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryExportHandler(t *testing.T) {
	env := newTestEnv(t)
	st := selection.New("s")
	st.SetCompanyInfo(selection.CompanyInfo{CompanyCode: "PS"})
	st.SetServiceSelection("oracle_hcm_payroll", "oracle", "HCM - Payroll", 3, false, true)

	rec := serve(t, env, HandleSummaryExport(env), withSession(httptest.NewRequest(http.MethodGet, "/export/summary", nil), st))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Budget_PS_Summary_")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), spreadsheet.SheetSummary)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"AIC-IT-20250314092653-DEADBEEF", "AIC-IT-20250314092653-DEADBEEF"},
		{"Budget_Power Systems", "Budget_Power-Systems"},
		{`a/b\c:d"e`, "a-b-c-de"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.input); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
