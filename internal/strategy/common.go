package strategy

import (
	"github.com/jwtly10/tradesim/internal/errors"
	"github.com/jwtly10/tradesim/internal/types"
)

const (
	BuyAndHoldKind         Kind = "buy_and_hold"
	MovingAverageTrendKind Kind = "moving_average_trend"

	DefaultN = 1
)

type Kind string

// Strategy decides a position for each entry of a bound series and keeps
// the decision history the simulator replays during testing.
//
// Decide must be called once per index, in strictly increasing order, within
// a pass. Implementations may read the decision recorded for index-1.
type Strategy interface {
	Name() string
	Bind(series types.Series)
	Decide(index int) (types.Position, error)
	RecordedPosition(index int) (types.Position, error)
	OpenTrade(index int, position types.Position) error
	PreviousOpenIndex() int
	NumberOfTrades() int
	// ResetTrades clears trade bookkeeping but keeps recorded decisions.
	ResetTrades()
}

// Kinds lists every strategy New can build.
func Kinds() []Kind {
	return []Kind{BuyAndHoldKind, MovingAverageTrendKind}
}

// New builds a fresh strategy of the given kind. n is only used by the
// moving average trend strategy.
func New(kind Kind, n int) (Strategy, error) {
	switch kind {
	case BuyAndHoldKind, "":
		return NewBuyAndHold(), nil
	case MovingAverageTrendKind:
		s, err := NewMovingAverageTrend(n)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.Newf(errors.ErrCodeUnknownStrategy, "unknown strategy %q", kind)
	}
}

// book holds the decision history and open-trade bookkeeping shared by the
// strategies in this package.
type book struct {
	series            types.Series
	positions         []types.Position
	previousOpenIndex int
	numberOfTrades    int
}

func (b *book) bind(series types.Series) {
	b.series = series
	// make zeroes the slice, and the zero Position is OUT
	b.positions = make([]types.Position, len(series))
	b.previousOpenIndex = 0
	b.numberOfTrades = 0
}

func (b *book) checkIndex(index int) error {
	if b.positions == nil {
		return errors.New(errors.ErrCodeUnboundStrategy, "strategy is not bound to a series")
	}
	if index < 0 || index >= len(b.positions) {
		return errors.Newf(errors.ErrCodeIndexOutOfRange, "index %d outside [0, %d)", index, len(b.positions))
	}
	return nil
}

func (b *book) RecordedPosition(index int) (types.Position, error) {
	if err := b.checkIndex(index); err != nil {
		return types.OUT, err
	}
	return b.positions[index], nil
}

func (b *book) OpenTrade(index int, position types.Position) error {
	if err := b.checkIndex(index); err != nil {
		return err
	}
	if !position.IsAction() {
		return errors.Newf(errors.ErrCodeInvalidPosition, "cannot open a trade with position %s", position)
	}
	b.positions[index] = position
	b.previousOpenIndex = index
	b.numberOfTrades++
	return nil
}

func (b *book) PreviousOpenIndex() int {
	return b.previousOpenIndex
}

func (b *book) NumberOfTrades() int {
	return b.numberOfTrades
}

func (b *book) ResetTrades() {
	b.previousOpenIndex = 0
	b.numberOfTrades = 0
}

// Positions returns a copy of the recorded decisions.
func (b *book) Positions() []types.Position {
	out := make([]types.Position, len(b.positions))
	copy(out, b.positions)
	return out
}
