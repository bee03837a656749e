package chi

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/marcelsud/webhook-vault/audit"
	"github.com/marcelsud/webhook-vault/auth"
	"github.com/rs/zerolog"
)

// AuditRecorder accepts entries without blocking the request
type AuditRecorder interface {
	Record(e audit.Entry)
	RecordDeletion(e audit.DeleteEntry)
}

// noopRecorder discards entries when no audit backend is wired
type noopRecorder struct{}

func (noopRecorder) Record(audit.Entry) {}
func (noopRecorder) RecordDeletion(audit.DeleteEntry) {}

// countingBody tallies the bytes handlers actually read. Chunked uploads
// carry no Content-Length.
type countingBody struct {
	io.ReadCloser
	n int64
}

func (b *countingBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	b.n += int64(n)
	return n, err
}

// unaudited paths are excluded from the audit trail. Reading the audit log
// would otherwise grow it on every query; metrics are scraped continuously.
var unaudited = map[string]bool{
	"/manage/audit": true,
	"/metrics":      true,
}

// auditTrail records one entry per request once the handler chain returns,
// whatever the outcome. Recording never blocks nor fails the response.
func auditTrail(rec AuditRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if unaudited[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ctx, st := withState(r.Context())
			r = r.WithContext(ctx)
			body := &countingBody{ReadCloser: http.NoBody}
			if r.Body != nil {
				body.ReadCloser = r.Body
			}
			r.Body = body
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			var customerID string
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				customerID = rctx.URLParam("customer_id")
			}
			rec.Record(audit.Entry{
				Timestamp:      start.UTC(),
				Method:         r.Method,
				Path:           r.URL.Path,
				StatusCode:     status,
				CustomerID:     customerID,
				SourceIP:       auth.SourceIP(r),
				UserAgent:      r.UserAgent(),
				ContentType:    r.Header.Get("Content-Type"),
				RequestSize:    max(body.n, r.ContentLength, 0),
				ResponseTimeMs: time.Since(start).Milliseconds(),
				ErrorMessage:   st.errorMessage,
				WebhookID:      st.webhookID,
			})
		})
	}
}

// recoverer converts a panic into the generic 500 envelope. It sits inside
// auditTrail so the entry still carries the failure.
func recoverer(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				logger.Error().
					Str("path", r.URL.Path).
					Interface("panic", rvr).
					Bytes("stack", debug.Stack()).
					Msg("unhandled fault")
				writeError(w, r, errInternal, fmt.Errorf("panic: %v", rvr))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// allowIPs rejects clients outside the allow-list
func allowIPs(list *auth.IPAllowList) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := list.Check(auth.ClientIP(r)); err != nil {
				writeError(w, r, toAPIError(err), err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireCustomerToken checks the token of the customer named in the path.
// Must be mounted on the route so the URL parameter is resolved.
func requireCustomerToken(tokens *auth.CustomerTokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := tokens.Check(chi.URLParam(r, "customer_id"), r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, r, toAPIError(err), err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireServiceToken guards the management surface
func requireServiceToken(token *auth.ServiceToken) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := token.Check(r.Header.Get("Authorization")); err != nil {
				writeError(w, r, toAPIError(err), err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
