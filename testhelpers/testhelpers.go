// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"itbudget/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}
	t.Cleanup(func() { _ = app.ResetBootstrapState() })

	if err := collections.Setup(app, nil); err != nil {
		t.Fatalf("failed to set up collections: %v", err)
	}

	return app
}

// CreateTestSubmission stores a minimal submission record and returns it.
func CreateTestSubmission(t *testing.T, app core.App, referenceID, companyCode, department string, grandTotal float64, at time.Time) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId(collections.Submissions)
	if err != nil {
		t.Fatalf("failed to find submissions collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("reference_id", referenceID)
	record.Set("company_code", companyCode)
	record.Set("department", department)
	record.Set("contact_name", "Test Contact")
	record.Set("currency", "SAR")
	record.Set("grand_total", grandTotal)
	record.Set("submitted_at", at)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test submission: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
