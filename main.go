package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"itbudget/budget"
	"itbudget/catalog"
	"itbudget/collections"
	"itbudget/handlers"
	"itbudget/internal/config"
	"itbudget/internal/logging"
	"itbudget/spreadsheet"
	"itbudget/submission"
)

func main() {
	cfg := config.Load()

	logger, closeLog, err := logging.New(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer closeLog()
	defer logger.Sync()

	store, err := loadCatalog(cfg, logger)
	if err != nil {
		logger.Fatal("catalog: failed to load", zap.Error(err))
	}

	app := pocketbase.New()

	opts := []submission.Option{submission.WithCurrency(cfg.Currency)}
	if cfg.RecordSubmissions {
		opts = append(opts, submission.WithRecorder(collections.NewSubmissionRecorder(app, logger)))
	}
	env := handlers.NewEnv(app, store, submission.NewSubmitter(logger, opts...), logger)
	env.Distribution = budget.ParseDistribution(cfg.CashflowDistribution)
	env.SessionCookie = cfg.SessionCookie
	env.Sessions.SetIdleTTL(cfg.SessionIdleTTL)

	app.RootCmd.AddCommand(templateCmd(store), catalogCmd(store))

	// Create collections on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Setup(app, logger); err != nil {
			return err
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.BindFunc(handlers.SessionMiddleware(env))

		// ── Catalog & workbook ───────────────────────────────────
		se.Router.GET("/api/catalog", handlers.HandleCatalog(env))
		se.Router.GET("/template", handlers.HandleTemplateDownload(env))
		se.Router.POST("/import", handlers.HandleImport(env))
		se.Router.GET("/export/summary", handlers.HandleSummaryExport(env))

		// ── Questionnaire session ────────────────────────────────
		se.Router.POST("/session/company", handlers.HandleCompanyInfo(env))
		se.Router.POST("/session/services", handlers.HandleServiceSelection(env))
		se.Router.POST("/session/custom-services", handlers.HandleCustomService(env))
		se.Router.POST("/session/support", handlers.HandleSupport(env))
		se.Router.POST("/session/projects", handlers.HandleProjectAdd(env))
		se.Router.DELETE("/session/projects/{id}", handlers.HandleProjectRemove(env))
		se.Router.GET("/session/totals", handlers.HandleTotals(env))

		// ── Draft & submit ───────────────────────────────────────
		se.Router.POST("/draft", handlers.HandleSaveDraft(env))
		se.Router.POST("/submit", handlers.HandleSubmit(env))
		se.Router.GET("/submit/receipt.pdf", handlers.HandleReceiptPDF(env))

		// ── Admin ────────────────────────────────────────────────
		se.Router.POST("/admin/login", handlers.HandleAdminLogin(env))
		se.Router.POST("/admin/logout", handlers.HandleAdminLogout(env))

		adm := se.Router.Group("/admin")
		adm.BindFunc(handlers.RequireAdmin(env))

		adm.POST("/sections/{section}/services", handlers.HandleServiceAdd(env))
		adm.PATCH("/sections/{section}/services/{name}", handlers.HandleServiceUpdate(env))
		adm.DELETE("/sections/{section}/services/{name}", handlers.HandleServiceRemove(env))

		adm.POST("/support-tiers", handlers.HandleSupportTierAdd(env))
		adm.PATCH("/support-tiers/{name}", handlers.HandleSupportTierUpdate(env))
		adm.DELETE("/support-tiers/{name}", handlers.HandleSupportTierRemove(env))

		adm.POST("/project-categories", handlers.HandleProjectCategoryAdd(env))
		adm.PATCH("/project-categories/{name}", handlers.HandleProjectCategoryUpdate(env))
		adm.DELETE("/project-categories/{name}", handlers.HandleProjectCategoryRemove(env))

		adm.POST("/automation-packages", handlers.HandleAutomationPackageAdd(env))
		adm.PATCH("/automation-packages/{name}", handlers.HandleAutomationPackageUpdate(env))
		adm.DELETE("/automation-packages/{name}", handlers.HandleAutomationPackageRemove(env))

		adm.POST("/reset", handlers.HandleCatalogReset(env))
		adm.GET("/submissions", handlers.HandleSubmissionList(env))
		adm.GET("/submissions/{ref}", handlers.HandleSubmissionView(env))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		logger.Fatal("app: stopped", zap.Error(err))
	}
}

// loadCatalog builds the store from the compiled-in defaults plus the
// optional YAML overlay.
func loadCatalog(cfg *config.Config, logger *zap.Logger) (*catalog.Store, error) {
	defaults := catalog.Defaults()
	if cfg.CatalogFile != "" {
		overlay, err := catalog.LoadOverlay(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		if err := defaults.ApplyOverlay(overlay); err != nil {
			return nil, fmt.Errorf("apply %s: %w", cfg.CatalogFile, err)
		}
		logger.Info("catalog: overlay applied", zap.String("file", cfg.CatalogFile))
	}
	return catalog.NewStore(defaults), nil
}

func templateCmd(store *catalog.Store) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a blank questionnaire workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := spreadsheet.GenerateTemplate(store.Snapshot())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "Budget_Questionnaire.xlsx", "output file")
	return cmd
}

func catalogCmd(store *catalog.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the effective catalog as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(store.Snapshot())
		},
	}
}
