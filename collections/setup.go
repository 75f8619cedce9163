// Package collections owns the PocketBase schema used for submission audit
// records and the recorder that writes them.
package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"itbudget/internal/logging"
)

// Submissions is the audit collection written by SubmissionRecorder.
const Submissions = "submissions"

// Setup creates the submissions collection if it does not exist yet.
// Safe to call on every startup.
func Setup(app core.App, logger *zap.Logger) error {
	logger = logging.OrNop(logger)

	_, err := ensureCollection(app, logger, Submissions, func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "reference_id", Required: true})
		c.Fields.Add(&core.TextField{Name: "session_id"})
		c.Fields.Add(&core.TextField{Name: "company_code", Required: true})
		c.Fields.Add(&core.TextField{Name: "company_name"})
		c.Fields.Add(&core.TextField{Name: "department"})
		c.Fields.Add(&core.TextField{Name: "business_unit"})
		c.Fields.Add(&core.TextField{Name: "contact_name", Required: true})
		c.Fields.Add(&core.EmailField{Name: "contact_email"})
		c.Fields.Add(&core.TextField{Name: "currency", Required: true})
		c.Fields.Add(&core.NumberField{Name: "operational"})
		c.Fields.Add(&core.NumberField{Name: "support"})
		c.Fields.Add(&core.NumberField{Name: "implementation"})
		c.Fields.Add(&core.NumberField{Name: "grand_total"})
		c.Fields.Add(&core.NumberField{Name: "service_count", OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "custom_service_count", OnlyInt: true})
		c.Fields.Add(&core.NumberField{Name: "project_count", OnlyInt: true})
		c.Fields.Add(&core.TextField{Name: "support_tier"})
		c.Fields.Add(&core.JSONField{Name: "monthly"})
		c.Fields.Add(&core.JSONField{Name: "warnings"})
		c.Fields.Add(&core.JSONField{Name: "selection"})
		c.Fields.Add(&core.DateField{Name: "submitted_at", Required: true})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.AddIndex("idx_submissions_reference_id", true, "reference_id", "")
	})
	return err
}

// ensureCollection returns the named collection, creating it with the fields
// added by addFields when it is missing.
func ensureCollection(app core.App, logger *zap.Logger, name string, addFields func(*core.Collection)) (*core.Collection, error) {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		logger.Debug("collections: already exists", zap.String("collection", name))
		return existing, nil
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	logger.Info("collections: created", zap.String("collection", name), zap.String("id", collection.Id))
	return collection, nil
}
