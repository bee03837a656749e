package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/marcelsud/webhook-vault/audit"
	"github.com/marcelsud/webhook-vault/auth"
	"github.com/marcelsud/webhook-vault/payload"
)

/* apiError is the private error taxonomy exposed to callers.
 * Code is stable across releases; Status is the HTTP status it travels with.
 */
type apiError struct {
	Status  int
	Code    int
	Message string
}

var (
	errMissingParam      = apiError{http.StatusBadRequest, 4000, "Missing route parameter"}
	errInvalidType       = apiError{http.StatusBadRequest, 4001, "Invalid webhook type"}
	errInvalidCustomerID = apiError{http.StatusBadRequest, 4002, "Invalid customer id"}
	errEmptyBody         = apiError{http.StatusBadRequest, 4003, "Request body is empty"}
	errInvalidWebhookID  = apiError{http.StatusBadRequest, 4004, "Invalid webhook id, expected a UUID"}
	errInvalidDate       = apiError{http.StatusBadRequest, 4005, "Invalid date, expected YYYY-MM-DD"}
	errInvalidQuery      = apiError{http.StatusBadRequest, 4006, "Invalid query parameter"}
	errUnreadableBody    = apiError{http.StatusBadRequest, 4007, "Request body could not be read"}
	errMissingAuth       = apiError{http.StatusUnauthorized, 4011, "Missing Authorization header"}
	errInvalidToken      = apiError{http.StatusUnauthorized, 4012, "Invalid token"}
	errIPUndetermined    = apiError{http.StatusForbidden, 4031, "Unable to determine client IP"}
	errIPNotAllowed      = apiError{http.StatusForbidden, 4032, "Client IP is not allowed"}
	errUnknownCustomer   = apiError{http.StatusForbidden, 4033, "Unknown customer"}
	errRouteNotFound     = apiError{http.StatusNotFound, 4040, "Route not found"}
	errCustomerNotFound  = apiError{http.StatusNotFound, 4041, "Customer not found"}
	errWebhookNotFound   = apiError{http.StatusNotFound, 4042, "Webhook not found"}
	errMethodNotAllowed  = apiError{http.StatusMethodNotAllowed, 4050, "Method not allowed"}
	errUnsupportedFormat = apiError{http.StatusUnsupportedMediaType, 4151, "Content type does not match the customer format"}
	errStorage           = apiError{http.StatusInternalServerError, 5001, "Failed to access webhook storage"}
	errMisconfigured     = apiError{http.StatusInternalServerError, 5002, "Server misconfiguration"}
	errAuditStore        = apiError{http.StatusInternalServerError, 5003, "Failed to query audit log"}
	errInternal          = apiError{http.StatusInternalServerError, 7000, "Internal server error"}
)

// toAPIError maps domain errors; anything unrecognised is a storage failure
func toAPIError(err error) apiError {
	switch {
	case errors.Is(err, auth.ErrIPUndetermined):
		return errIPUndetermined
	case errors.Is(err, auth.ErrIPNotAllowed):
		return errIPNotAllowed
	case errors.Is(err, auth.ErrMissingCustomer):
		return errMissingParam
	case errors.Is(err, auth.ErrUnknownCustomer):
		return errUnknownCustomer
	case errors.Is(err, auth.ErrMissingAuthorization):
		return errMissingAuth
	case errors.Is(err, auth.ErrInvalidToken):
		return errInvalidToken
	case errors.Is(err, payload.ErrInvalidType):
		return errInvalidType
	case errors.Is(err, payload.ErrInvalidCustomerID):
		return errInvalidCustomerID
	case errors.Is(err, payload.ErrCustomerNotFound):
		return errCustomerNotFound
	case errors.Is(err, payload.ErrUnsupportedFormat):
		return errUnsupportedFormat
	case errors.Is(err, payload.ErrEmptyBody):
		return errEmptyBody
	case errors.Is(err, payload.ErrInvalidID):
		return errInvalidWebhookID
	case errors.Is(err, payload.ErrInvalidDate), errors.Is(err, audit.ErrInvalidDate):
		return errInvalidDate
	case errors.Is(err, payload.ErrNotFound):
		return errWebhookNotFound
	default:
		return errStorage
	}
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Success bool        `json:"success"`
	Errors  []errorBody `json:"errors"`
}

// writeError sends the failure envelope and annotates the audit entry with
// cause, or with the public message when there is no underlying error
func writeError(w http.ResponseWriter, r *http.Request, e apiError, cause error) {
	msg := e.Message
	if cause != nil {
		msg = cause.Error()
	}
	stateFrom(r.Context()).setError(msg)

	writeJSON(w, e.Status, errorResponse{
		Success: false,
		Errors:  []errorBody{{Code: e.Code, Message: e.Message}},
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
