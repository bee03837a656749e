package chi

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-vault/auth"
	"github.com/marcelsud/webhook-vault/metrics"
	"github.com/marcelsud/webhook-vault/payload"
	"github.com/rs/zerolog"
)

/* HTTP layer DTOs for the ingestion path
 * Separate from domain entities to avoid leaking internal structure
 */

type ingestResponse struct {
	Success     bool   `json:"success"`
	WebhookID   string `json:"webhookId"`
	Message     string `json:"message"`
	StoragePath string `json:"storagePath"`
}

// postWebhook handles POST /webhook/{type}/{customer_id}
func postWebhook(service payload.UseCase, logger zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		typ := chi.URLParam(r, "type")
		customerID := chi.URLParam(r, "customer_id")
		if typ == "" || customerID == "" {
			writeError(w, r, errMissingParam, nil)
			return
		}

		defer r.Body.Close()
		body, err := io.ReadAll(r.Body)
		if err != nil {
			metrics.IncIngest(typ, "rejected")
			writeError(w, r, errUnreadableBody, err)
			return
		}

		p, err := service.Ingest(r.Context(), payload.Inbound{
			Type:        typ,
			CustomerID:  customerID,
			ContentType: r.Header.Get("Content-Type"),
			SourceIP:    auth.SourceIP(r),
			Body:        body,
		})
		if err != nil {
			apiErr := toAPIError(err)
			if apiErr == errStorage {
				metrics.IncIngest(typ, "failed")
				logger.Error().Err(err).Str("customer_id", customerID).Msg("storing webhook")
			} else {
				metrics.IncIngest(typ, "rejected")
			}
			writeError(w, r, apiErr, err)
			return
		}

		stateFrom(r.Context()).setWebhookID(p.ID)
		metrics.IncIngest(typ, "stored")
		metrics.ObservePayloadSize(typ, p.Size)

		writeJSON(w, http.StatusOK, ingestResponse{
			Success:     true,
			WebhookID:   p.ID,
			Message:     "Webhook received and stored",
			StoragePath: p.Key,
		})
	})
}
