package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	collector     Collector

	// OTel meters and instruments
	meter            metric.Meter
	customersGauge   metric.Int64ObservableGauge
	outletsGauge     metric.Int64ObservableGauge
	statusClassGauge metric.Int64ObservableGauge
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	// Create Prometheus exporter
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	// Create meter provider
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"webhook-vault",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		collector:     collector,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.customersGauge, err = oe.meter.Int64ObservableGauge(
		"vault.customers.configured",
		metric.WithDescription("Number of customers in the directory"),
		metric.WithUnit("{customers}"),
		metric.WithInt64Callback(oe.observeCustomers),
	)
	if err != nil {
		return fmt.Errorf("creating customers gauge: %w", err)
	}

	oe.outletsGauge, err = oe.meter.Int64ObservableGauge(
		"vault.outlets.configured",
		metric.WithDescription("Number of outlet aliases in the directory"),
		metric.WithUnit("{outlets}"),
		metric.WithInt64Callback(oe.observeOutlets),
	)
	if err != nil {
		return fmt.Errorf("creating outlets gauge: %w", err)
	}

	// Audited requests today, per status class
	oe.statusClassGauge, err = oe.meter.Int64ObservableGauge(
		"vault.audit.requests.today",
		metric.WithDescription("Number of audited requests since UTC midnight by status class"),
		metric.WithUnit("{requests}"),
		metric.WithInt64Callback(oe.observeStatusClasses),
	)
	if err != nil {
		return fmt.Errorf("creating status class gauge: %w", err)
	}

	return nil
}

func (oe *OTelExporter) observeCustomers(ctx context.Context, observer metric.Int64Observer) error {
	counts, err := oe.collector.GetDirectoryCounts(ctx)
	if err != nil {
		return err
	}
	observer.Observe(counts.Customers)
	return nil
}

func (oe *OTelExporter) observeOutlets(ctx context.Context, observer metric.Int64Observer) error {
	counts, err := oe.collector.GetDirectoryCounts(ctx)
	if err != nil {
		return err
	}
	observer.Observe(counts.Outlets)
	return nil
}

// observeStatusClasses is a callback that reports audited requests by status class
func (oe *OTelExporter) observeStatusClasses(ctx context.Context, observer metric.Int64Observer) error {
	classes, err := oe.collector.GetStatusClasses(ctx)
	if err != nil {
		return err
	}

	for class, count := range classes {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("http.status_class", class),
		))
	}

	return nil
}

// ServeHTTP serves Prometheus-formatted metrics on the given HTTP handler
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.Handler()
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
