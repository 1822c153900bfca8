package account

import (
	"math"
	"testing"

	"github.com/jwtly10/tradesim/internal/errors"
	"github.com/jwtly10/tradesim/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceChange(t *testing.T) {
	up, err := PriceChange(110, 100)
	require.NoError(t, err)
	assert.Equal(t, 0.10, up.InexactFloat64())

	down, err := PriceChange(90, 100)
	require.NoError(t, err)
	assert.Equal(t, -0.10, down.InexactFloat64())

	_, err = PriceChange(90, 0)
	assert.True(t, errors.HasCode(err, errors.ErrCodeZeroPrice), "Zero open price should be a domain error")

	for _, p := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err = PriceChange(p, 100)
		assert.True(t, errors.IsMalformed(err), "close price %v", p)
		_, err = PriceChange(100, p)
		assert.True(t, errors.IsMalformed(err), "open price %v", p)
	}
}

func TestLedger_SettleRejectsNonFinitePrice(t *testing.T) {
	l := NewLedger(100000, 10)

	for _, p := range []float64{math.NaN(), math.Inf(1)} {
		net, err := l.Settle(types.LONG, 100, p)
		assert.True(t, errors.IsMalformed(err), "close price %v", p)
		assert.Equal(t, 0.0, net)
	}
	assert.Equal(t, 100000.0, l.Current(), "Capital is untouched by a rejected settle")
}

func TestLedger_SettleLong(t *testing.T) {
	l := NewLedger(100000, 10)

	net, err := l.Settle(types.LONG, 100, 90)
	require.NoError(t, err)

	assert.Equal(t, 89990.0, l.Current(), "Long loses 10% then pays cost")
	assert.Equal(t, -10010.0, net)
}

func TestLedger_SettleShort(t *testing.T) {
	l := NewLedger(100000, 10)

	_, err := l.Settle(types.SHORT, 100, 90)
	require.NoError(t, err)

	assert.Equal(t, 109990.0, l.Current(), "Short gains 10% then pays cost")
}

func TestLedger_SettleNoExposureStillPaysCost(t *testing.T) {
	l := NewLedger(100000, 10)

	net, err := l.Settle(types.OUT, 100, 150)
	require.NoError(t, err)

	assert.Equal(t, 99990.0, l.Current())
	assert.Equal(t, -10.0, net)
}

func TestLedger_CompoundsOnCurrentCapital(t *testing.T) {
	l := NewLedger(1000, 0)

	_, err := l.Settle(types.LONG, 100, 110)
	require.NoError(t, err)
	_, err = l.Settle(types.LONG, 110, 121)
	require.NoError(t, err)

	assert.Equal(t, 1210.0, l.Current())
}

func TestLedger_ResetAndZeroPrice(t *testing.T) {
	l := NewLedger(5000, 2.5)
	assert.Equal(t, 5000.0, l.Original())
	assert.Equal(t, 2.5, l.RoundTripCost())

	_, err := l.Settle(types.LONG, 0, 10)
	assert.True(t, errors.IsDomain(err))
	assert.Equal(t, 5000.0, l.Current(), "Failed settle should not touch capital")

	_, err = l.Settle(types.LONG, 10, 20)
	require.NoError(t, err)
	l.Reset()
	assert.Equal(t, 5000.0, l.Current())
}
