package audit

import (
	"context"
	"time"

	"github.com/marcelsud/webhook-vault/metrics"
	"github.com/rs/zerolog"
)

/* Janitor runs the periodic maintenance of the audit store:
 * retention purge for sinks without native expiry and an optional
 * keep-warm ping. Both are no-ops for sinks that need neither.
 */
type Janitor struct {
	sink             Sink
	logger           zerolog.Logger
	purgeInterval    time.Duration
	keepWarmInterval time.Duration
	now              func() time.Time
}

func NewJanitor(sink Sink, logger zerolog.Logger, purgeInterval, keepWarmInterval time.Duration) *Janitor {
	return &Janitor{
		sink:             sink,
		logger:           logger,
		purgeInterval:    purgeInterval,
		keepWarmInterval: keepWarmInterval,
		now:              time.Now,
	}
}

// Run blocks until ctx is cancelled
func (j *Janitor) Run(ctx context.Context) error {
	purger, canPurge := j.sink.(Purger)
	pinger, canPing := j.sink.(Pinger)
	if !canPurge && !canPing {
		<-ctx.Done()
		return nil
	}

	var purgeC, pingC <-chan time.Time
	if canPurge && j.purgeInterval > 0 {
		t := time.NewTicker(j.purgeInterval)
		defer t.Stop()
		purgeC = t.C
		j.Purge(ctx, purger)
	}
	if canPing && j.keepWarmInterval > 0 {
		t := time.NewTicker(j.keepWarmInterval)
		defer t.Stop()
		pingC = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-purgeC:
			j.Purge(ctx, purger)
		case <-pingC:
			if err := pinger.Ping(ctx); err != nil {
				j.logger.Warn().Err(err).Msg("audit store keep-warm ping failed")
			}
		}
	}
}

// Purge runs one retention pass
func (j *Janitor) Purge(ctx context.Context, purger Purger) {
	audits, deletions, err := purger.Purge(ctx, j.now().UTC())
	if err != nil {
		j.logger.Error().Err(err).Msg("audit retention purge failed")
		return
	}
	metrics.AddRetentionPurged("audit", audits)
	metrics.AddRetentionPurged("deletelog", deletions)
	j.logger.Info().
		Int64("audit_removed", audits).
		Int64("deletelog_removed", deletions).
		Msg("audit retention purge finished")
}
