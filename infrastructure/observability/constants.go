package observability

// Metric name prefixes
const (
	MetricPrefix = "pickem"
)

// Metric names
const (
	// Ledger metrics
	LedgerGrantsTotal = MetricPrefix + ".ledger.grants_total"

	// Contest metrics
	ContestsSettledTotal   = MetricPrefix + ".contests.settled_total"
	ContestsCancelledTotal = MetricPrefix + ".contests.cancelled_total"

	// Ingestion metrics
	IngestionPassesTotal = MetricPrefix + ".ingestion.passes_total"
	FeedRequestsTotal    = MetricPrefix + ".feed.requests_total"

	// Job metrics
	JobRunsTotal       = MetricPrefix + ".jobs.runs_total"
	JobDurationSeconds = MetricPrefix + ".jobs.duration_seconds"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelSource    = "source"
	LabelApplied   = "applied"
	LabelResult    = "result"
	LabelEndpoint  = "endpoint"
	LabelJob       = "job"
	LabelEventType = "event_type"
)

// Result values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
	ResultCached  = "cached"
)
