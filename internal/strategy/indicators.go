package strategy

import (
	"github.com/jwtly10/tradesim/internal/logging"
	"github.com/jwtly10/tradesim/internal/types"
)

var smaLog = logging.New(logging.TopicSMA)

// SMA - Simple Moving Average over the last period prices. Until period
// prices have been seen it averages what it has.
type SMA struct {
	period int
	values []float64
}

func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
		values: make([]float64, 0, period),
	}
}

func (s *SMA) Update(price float64) {
	s.values = append(s.values, price)
	if len(s.values) > s.period {
		s.values = s.values[1:]
	}
	smaLog.Debug("SMA updated", "period", s.period, "price", price, "value", s.Value(), "ready", s.Ready())
}

func (s *SMA) Value() float64 {
	if len(s.values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range s.values {
		sum += v
	}
	return sum / float64(len(s.values))
}

func (s *SMA) Ready() bool {
	return len(s.values) >= s.period
}

// AverageEnding returns the mean price of the n entries ending at index,
// clipped at the start of the series.
func AverageEnding(series types.Series, index, n int) float64 {
	start := index - n + 1
	if start < 0 {
		start = 0
	}

	sma := NewSMA(n)
	for i := start; i <= index; i++ {
		sma.Update(series[i].Price)
	}
	return sma.Value()
}
