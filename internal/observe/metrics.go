// Package observe records OpenTelemetry metrics for dictionary lookups and
// pronunciation scores. Metrics are created from any metric.MeterProvider;
// Provider wires them to an SDK meter provider whose totals the CLI can print.
package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "codeberg.org/snonux/swarsense"

// Metrics holds the instruments. Safe for concurrent use.
type Metrics struct {
	// Lookups counts dictionary lookups. Attributes: result (hit|miss), cached (bool).
	Lookups metric.Int64Counter

	// Scores counts comparisons. Attribute: status (ok|error).
	Scores metric.Int64Counter

	// ScoreValue records the distribution of successful scores.
	ScoreValue metric.Int64Histogram

	// ProviderErrors counts speech provider failures. Attributes: provider, kind.
	ProviderErrors metric.Int64Counter
}

var scoreBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// NewMetrics creates all instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.Lookups, err = m.Int64Counter("swarsense.lookups",
		metric.WithDescription("Dictionary lookups by result."),
	); err != nil {
		return nil, err
	}
	if met.Scores, err = m.Int64Counter("swarsense.scores",
		metric.WithDescription("Pronunciation comparisons by status."),
	); err != nil {
		return nil, err
	}
	if met.ScoreValue, err = m.Int64Histogram("swarsense.score",
		metric.WithDescription("Pronunciation scores between 0 and 100."),
		metric.WithExplicitBucketBoundaries(scoreBuckets...),
	); err != nil {
		return nil, err
	}
	if met.ProviderErrors, err = m.Int64Counter("swarsense.provider.errors",
		metric.WithDescription("Speech provider errors by provider and kind."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// RecordLookup counts one dictionary lookup.
func (m *Metrics) RecordLookup(found, cached bool) {
	if m == nil {
		return
	}
	result := "miss"
	if found {
		result = "hit"
	}
	m.Lookups.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("result", result),
		attribute.Bool("cached", cached),
	))
}

// RecordScore counts one comparison and, when it succeeded, its score.
func (m *Metrics) RecordScore(ctx context.Context, score int, failed bool) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "error"
	}
	m.Scores.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	if !failed {
		m.ScoreValue.Record(ctx, int64(score))
	}
}

// RecordProviderError counts a failed call to an external speech provider.
func (m *Metrics) RecordProviderError(ctx context.Context, provider, kind string) {
	if m == nil {
		return
	}
	m.ProviderErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("kind", kind),
	))
}
