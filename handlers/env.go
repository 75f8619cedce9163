package handlers

import (
	"sync"

	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"itbudget/admin"
	"itbudget/budget"
	"itbudget/catalog"
	"itbudget/internal/logging"
	"itbudget/selection"
	"itbudget/submission"
)

// Env carries the services shared by all handlers.
type Env struct {
	App           core.App
	Store         *catalog.Store
	Admin         *admin.Manager
	Credentials   admin.Credentials
	Sessions      *selection.Registry
	Submitter     *submission.Submitter
	Distribution  budget.Distribution
	SessionCookie string
	Logger        *zap.Logger

	mu       sync.Mutex
	admins   map[string]admin.Principal
	receipts map[string]*submission.Receipt
}

// NewEnv wires an Env around store. Sessions idle for
// selection.DefaultIdleTTL are evicted together with their last receipt.
func NewEnv(app core.App, store *catalog.Store, submitter *submission.Submitter, logger *zap.Logger) *Env {
	logger = logging.OrNop(logger)
	env := &Env{
		App:           app,
		Store:         store,
		Admin:         admin.NewManager(store, logger),
		Credentials:   admin.DefaultCredentials(),
		Submitter:     submitter,
		Distribution:  budget.YearEnd,
		SessionCookie: "budget_session",
		Logger:        logger,
		admins:        make(map[string]admin.Principal),
		receipts:      make(map[string]*submission.Receipt),
	}
	env.Sessions = selection.NewRegistry(selection.WithEvictHook(env.forgetSession))
	return env
}

func (env *Env) totals(st *selection.State) budget.Totals {
	return budget.Compute(st.Snapshot(), env.Store, budget.Options{Distribution: env.Distribution})
}

func (env *Env) signIn(token string, p admin.Principal) {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.admins[token] = p
}

func (env *Env) signOut(token string) {
	env.mu.Lock()
	defer env.mu.Unlock()
	delete(env.admins, token)
}

func (env *Env) principal(token string) (admin.Principal, bool) {
	env.mu.Lock()
	defer env.mu.Unlock()
	p, ok := env.admins[token]
	return p, ok
}

func (env *Env) storeReceipt(sessionID string, r *submission.Receipt) {
	env.mu.Lock()
	defer env.mu.Unlock()
	env.receipts[sessionID] = r
}

func (env *Env) lastReceipt(sessionID string) (*submission.Receipt, bool) {
	env.mu.Lock()
	defer env.mu.Unlock()
	r, ok := env.receipts[sessionID]
	return r, ok
}

// forgetSession drops what Env holds for an evicted session.
func (env *Env) forgetSession(sessionID string) {
	env.mu.Lock()
	defer env.mu.Unlock()
	delete(env.receipts, sessionID)
	env.Logger.Debug("session: evicted", zap.String("session", sessionID))
}
