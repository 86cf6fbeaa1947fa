package observability

import (
	"context"
	"testing"
	"time"

	"pickem/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsProvider_DisabledRecordsNothing(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = false

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.False(t, mp.isEnabled())

	assert.NotPanics(t, func() {
		mp.RecordLedgerGrant("purchase", true)
		mp.RecordJobRun("settlement", true, time.Second)
	})
}

func TestMetricsProvider_NilIsSafe(t *testing.T) {
	var mp *MetricsProvider
	assert.NotPanics(t, func() {
		mp.RecordContestSettled()
		mp.RecordFeedRequest("schedule", ResultSuccess)
	})
}

func TestMetricsProvider_ConsoleExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "console"
	cfg.OTelExportIntervalMs = 60000

	mp := NewMetricsProvider(cfg)
	require.NoError(t, mp.Initialize(context.Background()))
	assert.True(t, mp.isEnabled())

	mp.RecordLedgerGrant("daily_bonus", false)
	mp.RecordJobRun("ghost", false, 10*time.Millisecond)

	require.NoError(t, mp.Shutdown(context.Background()))
	assert.False(t, mp.isEnabled())
}

func TestMetricsProvider_UnknownExporter(t *testing.T) {
	cfg := config.NewTestConfig()
	cfg.OTelEnabled = true
	cfg.OTelExporterType = "carrier-pigeon"

	err := NewMetricsProvider(cfg).Initialize(context.Background())
	assert.Error(t, err)
}
