package account

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/jwtly10/tradesim/internal/errors"
	"github.com/jwtly10/tradesim/internal/logging"
	"github.com/jwtly10/tradesim/internal/types"
	"github.com/shopspring/decimal"
)

const (
	SIGNAL        ExitReason = "SIGNAL"
	END_OF_PERIOD ExitReason = "END_OF_PERIOD"
)

var (
	ledgerLog = logging.New(logging.TopicLedger)
	one       = decimal.NewFromInt(1)
)

type ExitReason string

// Ledger tracks capital across round trips. The whole of current capital is
// invested in every trade.
type Ledger struct {
	original      decimal.Decimal
	current       decimal.Decimal
	roundTripCost decimal.Decimal
}

// Trade is one closed round trip.
type Trade struct {
	ID         int
	Direction  types.Position
	OpenIndex  int
	CloseIndex int
	EntryTime  time.Time
	ExitTime   time.Time
	EntryPrice float64
	ExitPrice  float64
	PnL        float64 // net of Cost
	PnLPercent float64
	Cost       float64
	ExitReason ExitReason
}

func (t Trade) Fprint(w io.Writer) {
	fmt.Fprintf(w, "#%d | %s | Entry: %.5f @ %s | Exit: %.5f @ %s | P&L: $%.2f | %s\n",
		t.ID,
		t.Direction,
		t.EntryPrice,
		t.EntryTime.Format("2006-01-02 15:04"),
		t.ExitPrice,
		t.ExitTime.Format("2006-01-02 15:04"),
		t.PnL,
		t.ExitReason,
	)
}

func NewLedger(original, roundTripCost float64) *Ledger {
	o := decimal.NewFromFloat(original)
	return &Ledger{
		original:      o,
		current:       o,
		roundTripCost: decimal.NewFromFloat(roundTripCost),
	}
}

// Reset puts current capital back to the original investment.
func (l *Ledger) Reset() {
	l.current = l.original
}

func (l *Ledger) Current() float64 {
	return l.current.InexactFloat64()
}

func (l *Ledger) Original() float64 {
	return l.original.InexactFloat64()
}

func (l *Ledger) RoundTripCost() float64 {
	return l.roundTripCost.InexactFloat64()
}

// PriceChange returns close/open - 1.
func PriceChange(closePrice, openPrice float64) (decimal.Decimal, error) {
	if !finite(closePrice) || !finite(openPrice) {
		return decimal.Zero, errors.Newf(errors.ErrCodeMalformedData, "price change undefined for open price %v and close price %v", openPrice, closePrice)
	}
	if openPrice == 0 {
		return decimal.Zero, errors.Newf(errors.ErrCodeZeroPrice, "price change undefined for open price 0 (close %v)", closePrice)
	}
	return decimal.NewFromFloat(closePrice).Div(decimal.NewFromFloat(openPrice)).Sub(one), nil
}

// Settle closes a round trip opened with position. LONG gains when the price
// rises, SHORT gains when it falls, anything else leaves capital untouched.
// The round trip cost is always charged. Returns the net change in capital.
func (l *Ledger) Settle(position types.Position, openPrice, closePrice float64) (float64, error) {
	change, err := PriceChange(closePrice, openPrice)
	if err != nil {
		return 0, err
	}

	before := l.current
	amount := change.Mul(l.current)

	switch position {
	case types.LONG:
		l.current = l.current.Add(amount)
	case types.SHORT:
		l.current = l.current.Sub(amount)
	}
	l.current = l.current.Sub(l.roundTripCost)

	net := l.current.Sub(before)
	ledgerLog.Debug("Settled round trip", "position", position, "open_price", openPrice, "close_price", closePrice, "price_change", change.String(), "amount", amount.String(), "cost", l.roundTripCost.String(), "balance", l.current.String())

	return net.InexactFloat64(), nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
