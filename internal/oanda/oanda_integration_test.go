//go:build integration
// +build integration

package oanda

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchSeries_Integration(t *testing.T) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug},
	)))

	accountID := os.Getenv("OANDA_ACCOUNT_ID")
	if accountID == "" {
		t.Skip("OANDA_ACCOUNT_ID not set, skipping integration test")
	}

	apiKey := os.Getenv("OANDA_API_KEY")
	if apiKey == "" {
		t.Skip("OANDA_API_KEY not set, skipping integration test")
	}

	oanda := NewOandaService(accountID, apiKey, "")

	now := time.Now()
	yesterday := now.Add(-24 * time.Hour)

	req := CandleRequest{
		Instrument:  GBPUSD,
		Granularity: H1,
		From:        yesterday,
		To:          now,
	}

	series, err := oanda.FetchSeries(context.Background(), req)
	require.NoError(t, err, "integration test failed")

	// Note this *could* fail on a weekend etc, but this should be enough
	// to at least validate the integration works during normal
	// trading hours
	assert.True(t, len(series) > 0, "expected at least one entry")

	t.Logf("Fetched %d entries for %s", len(series), req.Instrument)
}
