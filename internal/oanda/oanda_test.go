package oanda

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jwtly10/tradesim/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc, now time.Time) *OandaService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s := NewOandaService("acc-1", "secret", server.URL)
	s.Client = server.Client()
	s.now = func() time.Time { return now }
	return s
}

func TestFetchSeries(t *testing.T) {
	start := time.Date(2025, 8, 4, 13, 30, 0, 0, time.UTC)
	now := start.Add(time.Hour)

	var calls atomic.Int32
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/accounts/acc-1/instruments/SPX500_USD/candles", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "M1", r.URL.Query().Get("granularity"))
		assert.Equal(t, "M", r.URL.Query().Get("price"))

		resp := CandlestickResponse{Instrument: SPX500, Granularity: M1}
		if calls.Add(1) == 1 {
			assert.Equal(t, strconv.FormatInt(start.Unix(), 10), r.URL.Query().Get("from"))
			resp.Candles = []Candlestick{
				{Time: "2025-08-04T13:30:00Z", Mid: CandleStickData{C: "6300.5"}, Volume: 12, Complete: true},
				{Time: "2025-08-04T13:31:00Z", Mid: CandleStickData{C: "6301.25"}, Volume: 7, Complete: true},
				{Time: "2025-08-04T13:32:00Z", Mid: CandleStickData{C: "6302"}, Volume: 3, Complete: false},
			}
		}
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}, now)

	series, err := s.FetchSeries(context.Background(), CandleRequest{
		Instrument:  SPX500,
		Granularity: M1,
		From:        start,
		To:          now.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, int32(2), calls.Load(), "Should stop after an empty batch")
	require.Len(t, series, 2, "Incomplete candles are dropped")
	assert.Equal(t, 6301.25, series[1].Price)
	assert.Equal(t, int64(12), series[0].Volume)
	assert.True(t, series[0].Timestamp.Equal(start))
}

func TestFetchSeries_ErrorStatus(t *testing.T) {
	now := time.Date(2025, 8, 4, 14, 0, 0, 0, time.UTC)
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessage":"Insufficient authorization"}`, http.StatusUnauthorized)
	}, now)

	_, err := s.FetchSeries(context.Background(), CandleRequest{
		Instrument:  GBPUSD,
		Granularity: H1,
		From:        now.Add(-24 * time.Hour),
		To:          now,
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeDataUnavailable))
	assert.Contains(t, err.Error(), "Insufficient authorization")
}

func TestFetchSeries_BadPayload(t *testing.T) {
	now := time.Date(2025, 8, 4, 14, 0, 0, 0, time.UTC)
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candles":[{"time":"2025-08-04T13:00:00Z","mid":{"c":"n/a"},"volume":1,"complete":true}]}`))
	}, now)

	_, err := s.FetchSeries(context.Background(), CandleRequest{
		Instrument:  GBPUSD,
		Granularity: H1,
		From:        now.Add(-2 * time.Hour),
		To:          now,
	})
	assert.True(t, errors.IsMalformed(err), "got %v", err)
}

func TestCandlestickGranularity_ToDuration(t *testing.T) {
	d, err := M15.ToDuration()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, d)

	_, err = CandlestickGranularity("S5").ToDuration()
	assert.True(t, errors.IsConfiguration(err))
}
