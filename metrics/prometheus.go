package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	IngestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_ingest_total",
			Help: "Total number of ingestion attempts by outcome (count)",
		},
		[]string{"type", "result"},
	)

	IngestPayloadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vault_ingest_payload_bytes",
			Help:    "Size of stored webhook payloads in bytes",
			Buckets: []float64{256, 1024, 4096, 16384, 65536, 262144, 1048576, 4194304},
		},
		[]string{"type"},
	)

	AuditWriteFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_audit_write_failures_total",
			Help: "Total number of audit or delete-log writes that failed (count)",
		},
		[]string{"log"},
	)

	RetentionPurgedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vault_retention_purged_total",
			Help: "Total number of entries removed by the retention janitor (count)",
		},
		[]string{"log"},
	)
)

// Register adds the vault collectors to reg
func Register(reg prometheus.Registerer) {
	reg.MustRegister(IngestTotal)
	reg.MustRegister(IngestPayloadBytes)
	reg.MustRegister(AuditWriteFailuresTotal)
	reg.MustRegister(RetentionPurgedTotal)
}

func IncIngest(typ, result string) {
	IngestTotal.WithLabelValues(typ, result).Inc()
}

func ObservePayloadSize(typ string, size int64) {
	IngestPayloadBytes.WithLabelValues(typ).Observe(float64(size))
}

func IncAuditWriteFailure(log string) {
	AuditWriteFailuresTotal.WithLabelValues(log).Inc()
}

func AddRetentionPurged(log string, n int64) {
	RetentionPurgedTotal.WithLabelValues(log).Add(float64(n))
}
