package observe

import (
	"context"
	"fmt"
	"io"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Provider owns the SDK meter provider of a swarsense run. A CLI invocation
// is short-lived, so a ManualReader collects the totals on demand instead of
// exporting them periodically.
type Provider struct {
	mp      *sdkmetric.MeterProvider
	reader  *sdkmetric.ManualReader
	metrics *Metrics
}

// NewProvider creates a meter provider with a manual reader and the swarsense
// instruments registered on it.
func NewProvider(serviceVersion string) (*Provider, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", "swarsense"),
		attribute.String("service.version", serviceVersion),
	)

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)

	m, err := NewMetrics(mp)
	if err != nil {
		_ = mp.Shutdown(context.Background())
		return nil, fmt.Errorf("create instruments: %w", err)
	}
	return &Provider{mp: mp, reader: reader, metrics: m}, nil
}

// Metrics returns the instruments backed by this provider.
func (p *Provider) Metrics() *Metrics {
	return p.metrics
}

// Collect gathers the current totals.
func (p *Provider) Collect(ctx context.Context) (metricdata.ResourceMetrics, error) {
	var rm metricdata.ResourceMetrics
	if err := p.reader.Collect(ctx, &rm); err != nil {
		return rm, fmt.Errorf("collect metrics: %w", err)
	}
	return rm, nil
}

// WriteTotals collects the current totals and writes one line per data point,
// sorted by metric name and attributes.
func (p *Provider) WriteTotals(ctx context.Context, w io.Writer) error {
	rm, err := p.Collect(ctx)
	if err != nil {
		return err
	}

	var lines []string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s%s %d", m.Name, labels(dp.Attributes), dp.Value))
				}
			case metricdata.Histogram[int64]:
				for _, dp := range data.DataPoints {
					lines = append(lines, fmt.Sprintf("%s%s count=%d sum=%d",
						m.Name, labels(dp.Attributes), dp.Count, dp.Sum))
				}
			}
		}
	}
	sort.Strings(lines)

	fmt.Fprintln(w, "Metrics:")
	if len(lines) == 0 {
		fmt.Fprintln(w, "  (none recorded)")
		return nil
	}
	for _, line := range lines {
		fmt.Fprintf(w, "  %s\n", line)
	}
	return nil
}

// Shutdown releases the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.mp.Shutdown(ctx)
}

func labels(set attribute.Set) string {
	if set.Len() == 0 {
		return ""
	}
	return "{" + set.Encoded(attribute.DefaultEncoder()) + "}"
}
