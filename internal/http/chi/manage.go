package chi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-vault/audit"
	"github.com/marcelsud/webhook-vault/auth"
	"github.com/marcelsud/webhook-vault/customer"
	"github.com/marcelsud/webhook-vault/payload"
	"github.com/rs/zerolog"
)

/* HTTP layer DTOs for the management API
 * Separate from domain entities to avoid leaking internal structure
 */

type customerResponse struct {
	Format  string   `json:"format"`
	Outlets []string `json:"outlets"`
}

type customersResponse struct {
	Success   bool                        `json:"success"`
	Customers map[string]customerResponse `json:"customers"`
}

type webhookResponse struct {
	WebhookID   string    `json:"webhookId"`
	Type        string    `json:"type"`
	CustomerID  string    `json:"customerId"`
	ContentType string    `json:"contentType,omitempty"`
	Size        int64     `json:"size"`
	ReceivedAt  time.Time `json:"receivedAt"`
	Key         string    `json:"key"`
}

type webhooksResponse struct {
	Success   bool              `json:"success"`
	Webhooks  []webhookResponse `json:"webhooks"`
	Count     int               `json:"count"`
	Truncated bool              `json:"truncated"`
	Cursor    string            `json:"cursor,omitempty"`
}

type deleteResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	WebhookID  string `json:"webhookId"`
	DeletedKey string `json:"deletedKey"`
}

type auditResponse struct {
	Success bool          `json:"success"`
	Entries []audit.Entry `json:"entries"`
	Total   int           `json:"total"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

// getCustomers handles GET /manage/customers
func getCustomers(customers CustomerLister) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if customers == nil {
			writeError(w, r, errMisconfigured, nil)
			return
		}
		all := customers.List()
		resp := customersResponse{
			Success:   true,
			Customers: make(map[string]customerResponse, len(all)),
		}
		for _, c := range all {
			resp.Customers[c.ID] = toCustomerResponse(c)
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

func toCustomerResponse(c customer.Customer) customerResponse {
	outlets := c.Outlets
	if outlets == nil {
		outlets = []string{}
	}
	return customerResponse{Format: c.Format.String(), Outlets: outlets}
}

// getWebhooks handles GET /manage/webhooks
func getWebhooks(service payload.UseCase, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, err := intParam(q.Get("limit"), payload.DefaultLimit)
		if err != nil {
			writeError(w, r, errInvalidQuery, err)
			return
		}

		page, err := service.List(r.Context(), payload.Filter{
			Type:       q.Get("type"),
			CustomerID: q.Get("customer_id"),
			Date:       q.Get("date"),
			Limit:      limit,
			Cursor:     q.Get("cursor"),
		})
		if err != nil {
			apiErr := toAPIError(err)
			if apiErr == errStorage {
				logger.Error().Err(err).Msg("listing webhooks")
			}
			writeError(w, r, apiErr, err)
			return
		}

		resp := webhooksResponse{
			Success:   true,
			Webhooks:  make([]webhookResponse, 0, len(page.Webhooks)),
			Count:     len(page.Webhooks),
			Truncated: page.Truncated,
			Cursor:    page.Cursor,
		}
		for _, p := range page.Webhooks {
			resp.Webhooks = append(resp.Webhooks, webhookResponse{
				WebhookID:   p.ID,
				Type:        p.Type,
				CustomerID:  p.CustomerID,
				ContentType: p.ContentType,
				Size:        p.Size,
				ReceivedAt:  p.ReceivedAt,
				Key:         p.Key,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	})
}

// getWebhook handles GET /manage/webhooks/{webhook_id}
func getWebhook(service payload.UseCase, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "webhook_id")
		p, err := service.Download(r.Context(), id, r.URL.Query().Get("type"))
		if err != nil {
			apiErr := toAPIError(err)
			if apiErr == errStorage {
				logger.Error().Err(err).Str("webhook_id", id).Msg("downloading webhook")
			}
			writeError(w, r, apiErr, err)
			return
		}

		stateFrom(r.Context()).setWebhookID(p.ID)
		contentType := p.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(p.Body)))
		w.Header().Set("X-Webhook-Id", p.ID)
		if !p.ReceivedAt.IsZero() {
			w.Header().Set("X-Received-At", p.ReceivedAt.UTC().Format(time.RFC3339Nano))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(p.Body)
	})
}

// deleteWebhook handles DELETE /manage/webhooks/{webhook_id}
func deleteWebhook(service payload.UseCase, rec AuditRecorder, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.ToLower(chi.URLParam(r, "webhook_id"))
		key, err := service.Delete(r.Context(), id, r.URL.Query().Get("type"))
		if err != nil {
			apiErr := toAPIError(err)
			if apiErr == errStorage {
				logger.Error().Err(err).Str("webhook_id", id).Msg("deleting webhook")
			}
			writeError(w, r, apiErr, err)
			return
		}

		stateFrom(r.Context()).setWebhookID(id)
		rec.RecordDeletion(audit.DeleteEntry{
			WebhookID:  id,
			DeletedKey: key,
			SourceIP:   auth.SourceIP(r),
			UserAgent:  r.UserAgent(),
		})

		writeJSON(w, http.StatusOK, deleteResponse{
			Success:    true,
			Message:    "Webhook deleted",
			WebhookID:  id,
			DeletedKey: key,
		})
	})
}

// getAudit handles GET /manage/audit. Requests to it are never audited.
func getAudit(reader audit.Reader, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reader == nil {
			writeError(w, r, errMisconfigured, nil)
			return
		}

		q := r.URL.Query()
		limit, err := intParam(q.Get("limit"), audit.DefaultLimit)
		if err != nil {
			writeError(w, r, errInvalidQuery, err)
			return
		}
		statusCode, err := intParam(q.Get("status_code"), 0)
		if err != nil {
			writeError(w, r, errInvalidQuery, err)
			return
		}
		// cursor is accepted as an alias of offset
		rawOffset := q.Get("offset")
		if rawOffset == "" {
			rawOffset = q.Get("cursor")
		}
		offset, err := intParam(rawOffset, 0)
		if err != nil {
			writeError(w, r, errInvalidQuery, err)
			return
		}
		f := audit.Filter{
			CustomerID: q.Get("customer_id"),
			StatusCode: statusCode,
			From:       q.Get("from"),
			To:         q.Get("to"),
			Limit:      limit,
			Offset:     offset,
		}
		if err := f.Validate(); err != nil {
			writeError(w, r, errInvalidDate, err)
			return
		}

		page, err := reader.Query(r.Context(), f)
		if err != nil {
			logger.Error().Err(err).Msg("querying audit log")
			writeError(w, r, errAuditStore, err)
			return
		}

		writeJSON(w, http.StatusOK, auditResponse{
			Success: true,
			Entries: page.Entries,
			Total:   page.Total,
			Limit:   page.Limit,
			Offset:  page.Offset,
		})
	})
}

// intParam parses an optional integer query value
func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
