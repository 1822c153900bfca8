package strategy

import (
	"github.com/jwtly10/tradesim/internal/errors"
	"github.com/jwtly10/tradesim/internal/logging"
	"github.com/jwtly10/tradesim/internal/types"
	"github.com/moznion/go-optional"
)

var (
	_ Strategy = (*MovingAverageTrend)(nil)

	trendLog = logging.New(logging.TopicTrend)
)

// MovingAverageTrend follows the direction of MA(n). When MA(t,n) < MA(t-1,n)
// it goes short, when MA(t,n) > MA(t-1,n) it goes long, and it holds on ties
// or when it is already positioned in that direction.
type MovingAverageTrend struct {
	book
	n int

	// last is the average computed by the most recent Decide. It is only a
	// valid "previous average" for the index right after it.
	last optional.Option[averageAt]
}

type averageAt struct {
	index int
	value float64
}

func NewMovingAverageTrend(n int) (*MovingAverageTrend, error) {
	if n < 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "moving average window must be >= 1, got %d", n)
	}
	return &MovingAverageTrend{
		n:    n,
		last: optional.None[averageAt](),
	}, nil
}

func (s *MovingAverageTrend) Name() string {
	return string(MovingAverageTrendKind)
}

func (s *MovingAverageTrend) N() int {
	return s.n
}

func (s *MovingAverageTrend) Bind(series types.Series) {
	s.bind(series)
	s.last = optional.None[averageAt]()
}

func (s *MovingAverageTrend) Decide(index int) (types.Position, error) {
	if err := s.checkIndex(index); err != nil {
		return types.OUT, err
	}

	// Sit out the first entry, there is nothing to compare against
	if index == 0 {
		s.positions[index] = types.OUT
		s.previousOpenIndex = 0
		s.last = optional.Some(averageAt{index: 0, value: s.average(0)})
		return types.OUT, nil
	}

	current := s.average(index)
	previous := s.previousAverage(index)
	s.last = optional.Some(averageAt{index: index, value: current})

	pos := types.HOLD
	prior := s.positions[index-1]

	if current < previous && prior != types.SHORT {
		pos = types.SHORT
		s.previousOpenIndex = index
	} else if current > previous && prior != types.LONG {
		pos = types.LONG
		s.previousOpenIndex = index
	}

	trendLog.Debug("Trend decision", "index", index, "n", s.n, "current", current, "previous", previous, "prior", prior, "position", pos)

	s.positions[index] = pos
	return pos, nil
}

// previousAverage returns MA(index-1), from the cache when the last decision
// was made for exactly index-1.
func (s *MovingAverageTrend) previousAverage(index int) float64 {
	if s.last.IsSome() {
		cached := s.last.Unwrap()
		if cached.index == index-1 {
			return cached.value
		}
	}
	trendLog.Debug("Recomputing previous average", "index", index)
	return s.average(index - 1)
}

func (s *MovingAverageTrend) average(index int) float64 {
	return AverageEnding(s.series, index, s.n)
}
