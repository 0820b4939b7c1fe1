package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Attribute keys for billing metrics.
var (
	AttrTargetStatus = attribute.Key("target_status")
)

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBillingMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// BillingMetrics tracks pay application activity: creation volume, status
// transitions labeled by target status, and certified net payment amounts.
// It satisfies the application layer's MetricsRecorder.
type BillingMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	payAppCreatedTotal    *Counter
	statusTransitionTotal *Counter
	netPaymentAmount      *Histogram
}

// BillingMetricsConfig holds configuration for billing metrics.
type BillingMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBillingMetrics creates a new BillingMetrics instance.
func NewBillingMetrics(cfg BillingMetricsConfig) (*BillingMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BillingMetrics{
		meter:  cfg.Meter,
		logger: logger,
	}

	var err error

	bm.payAppCreatedTotal, err = NewCounter(
		cfg.Meter,
		"billing_pay_application_created_total",
		"Total number of pay applications created",
		"{applications}",
	)
	if err != nil {
		return nil, err
	}

	bm.statusTransitionTotal, err = NewCounter(
		cfg.Meter,
		"billing_pay_application_transition_total",
		"Total number of pay application status transitions",
		"{transitions}",
	)
	if err != nil {
		return nil, err
	}

	bm.netPaymentAmount, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "billing_net_payment_amount",
		Description: "Net payment due per paid pay application",
		Unit:        "{usd}",
		Boundaries:  []float64{1000, 10000, 50000, 100000, 500000, 1000000, 5000000},
	})
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordPayAppCreated records a pay application creation.
func (bm *BillingMetrics) RecordPayAppCreated(ctx context.Context) {
	bm.payAppCreatedTotal.Inc(ctx)
}

// RecordTransition records a status transition labeled with the target status.
func (bm *BillingMetrics) RecordTransition(ctx context.Context, target string) {
	bm.statusTransitionTotal.Inc(ctx,
		AttrTargetStatus.String(target),
	)
}

// RecordNetPayment records the net payment amount of an application marked paid.
func (bm *BillingMetrics) RecordNetPayment(ctx context.Context, amount float64) {
	bm.netPaymentAmount.Record(ctx, amount)
}
