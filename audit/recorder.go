package audit

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/webhook-vault/metrics"
	"github.com/rs/zerolog"
)

const writeTimeout = 5 * time.Second

// Recorder writes entries in the background. Callers never wait for, nor
// learn about, the outcome of a write; failures are logged and counted.
type Recorder struct {
	sink   Writer
	logger zerolog.Logger
	wg     sync.WaitGroup
	now    func() time.Time
}

func NewRecorder(sink Writer, logger zerolog.Logger) *Recorder {
	return &Recorder{
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

// Record stores e asynchronously
func (r *Recorder) Record(e Entry) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now().UTC()
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := r.sink.Record(ctx, e); err != nil {
			metrics.IncAuditWriteFailure("audit")
			r.logger.Error().Err(err).
				Str("method", e.Method).
				Str("path", e.Path).
				Int("status", e.StatusCode).
				Msg("audit write failed")
		}
	}()
}

// RecordDeletion stores e asynchronously
func (r *Recorder) RecordDeletion(e DeleteEntry) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = r.now().UTC()
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()
		if err := r.sink.RecordDeletion(ctx, e); err != nil {
			metrics.IncAuditWriteFailure("deletelog")
			r.logger.Error().Err(err).
				Str("webhook_id", e.WebhookID).
				Str("key", e.DeletedKey).
				Msg("delete-log write failed")
		}
	}()
}

// Wait blocks until every pending write has finished. Used on shutdown.
func (r *Recorder) Wait() {
	r.wg.Wait()
}
