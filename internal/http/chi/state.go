package chi

import "context"

type stateKey struct{}

/* requestState carries values discovered while handling a request back to
 * the audit middleware, which only writes the entry after the handler chain
 * has returned. One value per request; never shared.
 */
type requestState struct {
	webhookID    string
	errorMessage string
}

func withState(ctx context.Context) (context.Context, *requestState) {
	st := &requestState{}
	return context.WithValue(ctx, stateKey{}, st), st
}

// stateFrom returns nil outside the audit middleware; setters are nil-safe
func stateFrom(ctx context.Context) *requestState {
	st, _ := ctx.Value(stateKey{}).(*requestState)
	return st
}

func (s *requestState) setWebhookID(id string) {
	if s != nil {
		s.webhookID = id
	}
}

func (s *requestState) setError(msg string) {
	if s != nil {
		s.errorMessage = msg
	}
}
