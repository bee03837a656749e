package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-vault/audit"
	"github.com/marcelsud/webhook-vault/auth"
	"github.com/marcelsud/webhook-vault/customer"
	"github.com/marcelsud/webhook-vault/payload"
	"github.com/rs/zerolog"
)

// CustomerLister exposes the customer directory
type CustomerLister interface {
	List() []customer.Customer
}

// Dependencies are the collaborators of the HTTP surface. Payloads is
// required. Nil guards are treated as disabled and a nil Recorder discards
// audit entries.
type Dependencies struct {
	Payloads  payload.UseCase
	Customers CustomerLister
	Audit     audit.Reader
	Recorder  AuditRecorder
	IPs       *auth.IPAllowList
	Tokens    *auth.CustomerTokens
	S2S       *auth.ServiceToken
	Metrics   http.Handler
	Logger    zerolog.Logger
}

// Handlers sets up the vault routes
func Handlers(ctx context.Context, deps Dependencies) *chi.Mux {
	if deps.Recorder == nil {
		deps.Recorder = noopRecorder{}
	}

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(deps.Logger))
	r.Use(auditTrail(deps.Recorder))
	r.Use(recoverer(deps.Logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errRouteNotFound, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errMethodNotAllowed, nil)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Success: true, Status: "healthy"})
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.With(allowIPs(deps.IPs), requireCustomerToken(deps.Tokens)).
		Method(http.MethodPost, "/webhook/{type}/{customer_id}", postWebhook(deps.Payloads, deps.Logger))

	r.Route("/manage", func(r chi.Router) {
		r.Use(requireServiceToken(deps.S2S))
		r.Method(http.MethodGet, "/customers", getCustomers(deps.Customers))
		r.Method(http.MethodGet, "/webhooks", getWebhooks(deps.Payloads, deps.Logger))
		r.Method(http.MethodGet, "/webhooks/{webhook_id}", getWebhook(deps.Payloads, deps.Logger))
		r.Method(http.MethodDelete, "/webhooks/{webhook_id}", deleteWebhook(deps.Payloads, deps.Recorder, deps.Logger))
		r.Method(http.MethodGet, "/audit", getAudit(deps.Audit, deps.Logger))
	})

	return r
}

type healthResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
}
