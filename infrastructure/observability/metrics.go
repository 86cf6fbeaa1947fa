package observability

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"pickem/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the pickem service
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	exporting     bool
	mu            sync.RWMutex

	ledgerGrantsCounter          metric.Int64Counter
	contestsSettledCounter       metric.Int64Counter
	contestsCancelledCounter     metric.Int64Counter
	ingestionPassesCounter       metric.Int64Counter
	feedRequestsCounter          metric.Int64Counter
	jobRunsCounter               metric.Int64Counter
	jobDurationHist              metric.Float64Histogram
	natsMessagesPublishedCounter metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	if !mp.config.OTelEnabled {
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.OTelServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdkmetric.Exporter
	switch mp.config.OTelExporterType {
	case "console":
		exporter, err = stdoutmetric.New()
		if err != nil {
			return fmt.Errorf("failed to create console exporter: %w", err)
		}
		log.Info("Using console metric exporter")

	case "otlp":
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err = otlpmetricgrpc.New(dialCtx,
			otlpmetricgrpc.WithEndpoint(mp.config.OTelOTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return fmt.Errorf("failed to create OTLP exporter: %w", err)
		}
		log.WithField("endpoint", mp.config.OTelOTLPEndpoint).Info("Using OTLP metric exporter")

	case "none":
		log.Info("Metrics export disabled (exporter_type='none')")
		mp.initialized = true
		return nil

	default:
		return fmt.Errorf("unknown exporter type: %s", mp.config.OTelExporterType)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(
				exporter,
				sdkmetric.WithInterval(time.Duration(mp.config.OTelExportIntervalMs)*time.Millisecond),
			),
		),
	)
	otel.SetMeterProvider(mp.meterProvider)
	mp.meter = mp.meterProvider.Meter("pickem")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.exporting = true
	log.Info("Metrics provider initialized successfully")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	counters := []struct {
		target      *metric.Int64Counter
		name        string
		description string
	}{
		{&mp.ledgerGrantsCounter, LedgerGrantsTotal, "Total number of ledger entries applied or skipped"},
		{&mp.contestsSettledCounter, ContestsSettledTotal, "Total number of contests settled"},
		{&mp.contestsCancelledCounter, ContestsCancelledTotal, "Total number of ghost contests cancelled"},
		{&mp.ingestionPassesCounter, IngestionPassesTotal, "Total number of per-contest ingestion passes"},
		{&mp.feedRequestsCounter, FeedRequestsTotal, "Total number of sports feed requests"},
		{&mp.jobRunsCounter, JobRunsTotal, "Total number of scheduled job runs"},
		{&mp.natsMessagesPublishedCounter, NATSMessagesPublishedTotal, "Total number of NATS messages published"},
	}
	for _, c := range counters {
		*c.target, err = mp.meter.Int64Counter(c.name,
			metric.WithDescription(c.description),
			metric.WithUnit("1"),
		)
		if err != nil {
			return fmt.Errorf("failed to create counter %s: %w", c.name, err)
		}
	}

	mp.jobDurationHist, err = mp.meter.Float64Histogram(
		JobDurationSeconds,
		metric.WithDescription("Duration of scheduled job runs"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("failed to create job duration histogram: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the meter provider
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider == nil {
		return nil
	}
	if err := mp.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown meter provider: %w", err)
	}
	mp.exporting = false
	return nil
}

// RecordLedgerGrant records a keyed ledger call
func (mp *MetricsProvider) RecordLedgerGrant(source string, applied bool) {
	if !mp.isEnabled() {
		return
	}

	mp.ledgerGrantsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelSource, source),
			attribute.String(LabelApplied, strconv.FormatBool(applied)),
		),
	)
}

// RecordContestSettled records a contest reaching completed
func (mp *MetricsProvider) RecordContestSettled() {
	if !mp.isEnabled() {
		return
	}
	mp.contestsSettledCounter.Add(context.Background(), 1)
}

// RecordContestCancelled records a ghost cancellation
func (mp *MetricsProvider) RecordContestCancelled() {
	if !mp.isEnabled() {
		return
	}
	mp.contestsCancelledCounter.Add(context.Background(), 1)
}

// RecordIngestionPass records the outcome of one contest's ingestion pass
func (mp *MetricsProvider) RecordIngestionPass(result string) {
	if !mp.isEnabled() {
		return
	}

	mp.ingestionPassesCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelResult, result)),
	)
}

// RecordFeedRequest records one call to the sports feed
func (mp *MetricsProvider) RecordFeedRequest(endpoint, result string) {
	if !mp.isEnabled() {
		return
	}

	mp.feedRequestsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelEndpoint, endpoint),
			attribute.String(LabelResult, result),
		),
	)
}

// RecordJobRun records a scheduled job run with its duration
func (mp *MetricsProvider) RecordJobRun(job string, success bool, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	result := ResultSuccess
	if !success {
		result = ResultFailure
	}
	mp.jobRunsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelJob, job),
			attribute.String(LabelResult, result),
		),
	)
	mp.jobDurationHist.Record(context.Background(), duration.Seconds(),
		metric.WithAttributes(attribute.String(LabelJob, job)),
	)
}

// RecordNATSMessagePublished records a NATS message being published
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsMessagesPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String(LabelEventType, eventType)),
	)
}

// isEnabled checks if metrics are being exported. A nil provider records nothing.
func (mp *MetricsProvider) isEnabled() bool {
	if mp == nil {
		return false
	}
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.exporting
}

// Global metrics provider instance
var (
	globalMetrics *MetricsProvider
	metricsOnce   sync.Once
)

// InitializeGlobalMetrics initializes the global metrics provider
func InitializeGlobalMetrics(ctx context.Context, cfg *config.Config) error {
	var err error
	metricsOnce.Do(func() {
		globalMetrics = NewMetricsProvider(cfg)
		err = globalMetrics.Initialize(ctx)
	})
	return err
}

// GetMetrics returns the global metrics provider, or nil before initialization
func GetMetrics() *MetricsProvider {
	return globalMetrics
}

// ShutdownGlobalMetrics shuts down the global metrics provider
func ShutdownGlobalMetrics(ctx context.Context) error {
	if globalMetrics != nil {
		return globalMetrics.Shutdown(ctx)
	}
	return nil
}
