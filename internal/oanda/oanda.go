package oanda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jwtly10/tradesim/internal/errors"
	"github.com/jwtly10/tradesim/internal/types"
)

const (
	DefaultBaseUrl       = "https://api-fxpractice.oanda.com"
	MaxCandlesPerRequest = 4000 // Limit is 5000 but we maintain a buffer

	// Oanda granularities
	M1  CandlestickGranularity = "M1"
	M5  CandlestickGranularity = "M5"
	M15 CandlestickGranularity = "M15"
	M30 CandlestickGranularity = "M30"
	H1  CandlestickGranularity = "H1"
	H6  CandlestickGranularity = "H6"
	D   CandlestickGranularity = "D"
	W   CandlestickGranularity = "W"
	M   CandlestickGranularity = "M"

	// Oanda Instruments
	GBPUSD InstrumentName = "GBP_USD"
	NAS100 InstrumentName = "NAS100_USD"
	SPX500 InstrumentName = "SPX500_USD"
)

var granularityToDuration = map[CandlestickGranularity]time.Duration{
	M1:  1 * time.Minute,
	M5:  5 * time.Minute,
	M15: 15 * time.Minute,
	M30: 30 * time.Minute,
	H1:  1 * time.Hour,
	H6:  6 * time.Hour,
	D:   24 * time.Hour,
	W:   7 * 24 * time.Hour,
	M:   30 * 24 * time.Hour, // Approx
}

func (g CandlestickGranularity) ToDuration() (time.Duration, error) {
	duration, ok := granularityToDuration[g]
	if !ok {
		return 0, errors.Newf(errors.ErrCodeInvalidConfiguration, "invalid granularity: %s", g)
	}
	return duration, nil
}

func (g CandlestickGranularity) String() string {
	return string(g)
}

func NewOandaService(accountId, apiKey, apiUrl string) *OandaService {
	if apiUrl == "" {
		apiUrl = DefaultBaseUrl
	}

	return &OandaService{
		AccountId: accountId,
		ApiKey:    apiKey,
		ApiUrl:    apiUrl,
		Client:    http.DefaultClient,
		now:       time.Now,
	}
}

// FetchSeries iteratively fetches every candle between req.From and req.To
// and flattens them into a price series: mid close as price, tick count as
// volume. Incomplete candles are dropped.
//
// Note: the whole range is held in memory.
func (s *OandaService) FetchSeries(ctx context.Context, req CandleRequest) (types.Series, error) {
	slog.Info("Initiating batched Oanda fetch", "instrument", req.Instrument, "from", req.From, "to", req.To, "period", req.Granularity.String())
	period, err := req.Granularity.ToDuration()
	if err != nil {
		return nil, err
	}

	if now := s.now(); req.To.After(now) {
		req.To = now
		slog.Warn("Adjusted 'To' time to current time as it was in the future", "newTo", req.To)
	}

	var series types.Series
	currentFrom := req.From

	for currentFrom.Before(req.To) {
		batchTo := currentFrom.Add(period * time.Duration(MaxCandlesPerRequest))
		if batchTo.After(req.To) {
			batchTo = req.To
		}

		batch, err := s.fetchHistoricCandles(ctx, CandleRequest{
			Instrument:  req.Instrument,
			Granularity: req.Granularity,
			From:        currentFrom,
			To:          batchTo,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch candles between %s and %s: %w", currentFrom, batchTo, err)
		}

		slog.Info("Found candles in latest fetch", "count", len(batch.Candles), "from", currentFrom, "to", batchTo)

		if len(batch.Candles) == 0 {
			break // No more data available
		}

		entries, last, err := candlesToEntries(batch.Candles)
		if err != nil {
			return nil, err
		}
		series = append(series, entries...)

		// Move to next batch
		currentFrom = last.Add(period)
	}

	if row, err := series.Validate(); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeMalformedData, err, "candle %d", row)
	}

	slog.Info("Completed fetching oanda series", "entries", len(series))
	return series, nil
}

// candlesToEntries also returns the time of the last candle seen, complete
// or not, so the caller can advance past it.
func candlesToEntries(candles []Candlestick) (types.Series, time.Time, error) {
	entries := make(types.Series, 0, len(candles))
	var last time.Time

	for _, candle := range candles {
		timestamp, err := time.Parse(time.RFC3339, candle.Time)
		if err != nil {
			return nil, last, errors.Wrapf(errors.ErrCodeMalformedData, err, "failed to parse candle time %s", candle.Time)
		}
		last = timestamp

		if !candle.Complete {
			continue
		}

		c, err := strconv.ParseFloat(string(candle.Mid.C), 64)
		if err != nil {
			return nil, last, errors.Wrapf(errors.ErrCodeMalformedData, err, "failed to parse candle close price %s", candle.Mid.C)
		}

		entries = append(entries, types.Entry{
			Timestamp: timestamp,
			Price:     c,
			Volume:    int64(candle.Volume),
		})
	}
	return entries, last, nil
}

func (s *OandaService) fetchHistoricCandles(ctx context.Context, req CandleRequest) (*CandlestickResponse, error) {
	endpoint := s.ApiUrl + "/v3/accounts/" + s.AccountId + "/instruments/" + string(req.Instrument) + "/candles"

	params := url.Values{}
	if req.Granularity != "" {
		params.Add("granularity", string(req.Granularity))
	}
	if req.Count != 0 {
		params.Add("count", strconv.Itoa(req.Count))
	}

	params.Add("price", "M")
	params.Add("from", strconv.FormatInt(req.From.Unix(), 10))
	params.Add("to", strconv.FormatInt(req.To.Unix(), 10))
	params.Add("includeFirst", "true")

	fullURL := endpoint + "?" + params.Encode()

	slog.Info("Fetching historic candles", "instrument", req.Instrument, "from", req.From, "to", req.To)
	slog.Debug("Request URL", "url", fullURL)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Authorization", "Bearer "+s.ApiKey)
	httpReq.Header.Set("Accept-Datetime-Format", "RFC3339")

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataUnavailable, "candle request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			slog.Error("Failed to read error response body",
				"statusCode", resp.StatusCode,
				"error", err)
			return nil, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "status code %d, could not read error body", resp.StatusCode)
		}

		rawRespBody := string(bodyBytes)
		slog.Error("Failed to fetch candles: API returned an error status",
			"statusCode", resp.StatusCode,
			"rawResponse", rawRespBody)

		return nil, errors.Newf(errors.ErrCodeDataUnavailable, "status code %d, API Response: %s", resp.StatusCode, rawRespBody)
	}

	var candleResp CandlestickResponse
	if err := json.NewDecoder(resp.Body).Decode(&candleResp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedData, "failed to decode candle response", err)
	}

	return &candleResp, nil
}
