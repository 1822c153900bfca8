package strategy

import (
	"github.com/jwtly10/tradesim/internal/types"
)

var _ Strategy = (*BuyAndHold)(nil)

// BuyAndHold goes long on the first entry and holds until the end of the
// period, so a pass costs exactly one round trip.
type BuyAndHold struct {
	book
}

func NewBuyAndHold() *BuyAndHold {
	return &BuyAndHold{}
}

func (s *BuyAndHold) Name() string {
	return string(BuyAndHoldKind)
}

func (s *BuyAndHold) Bind(series types.Series) {
	s.bind(series)
}

func (s *BuyAndHold) Decide(index int) (types.Position, error) {
	if err := s.checkIndex(index); err != nil {
		return types.OUT, err
	}

	if index == 0 {
		s.positions[index] = types.LONG
		s.previousOpenIndex = 0
	} else {
		s.positions[index] = types.HOLD
	}
	return s.positions[index], nil
}
