package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics bundles the counters the loan engine reports. The daemon only
// drives the delinquency sweep today, so only sweep counters exist; new
// counters belong here when a caller shows up to increment them.
type Metrics struct {
	SweepRuns         metric.Int64Counter
	SweepEntityErrors metric.Int64Counter
}

// InitMetrics initializes the Prometheus metrics exporter and registers the
// engine counters. Returns the MeterProvider, the counters, and an HTTP
// handler for the /metrics endpoint.
func InitMetrics(serviceName string) (*sdkmetric.MeterProvider, *Metrics, http.Handler, error) {
	exporter, err := promexporter.New()
	if err != nil {
		return nil, nil, nil, err
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	meter := provider.Meter(serviceName)

	m := &Metrics{}
	if m.SweepRuns, err = meter.Int64Counter("delinquency_sweep_runs_total"); err != nil {
		return nil, nil, nil, err
	}
	if m.SweepEntityErrors, err = meter.Int64Counter("delinquency_sweep_entity_errors_total"); err != nil {
		return nil, nil, nil, err
	}

	return provider, m, promhttp.Handler(), nil
}
