package tradingview

import (
	"bytes"
	"testing"
	"time"

	"github.com/jwtly10/tradesim/internal/account"
	"github.com/jwtly10/tradesim/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleTrades = []account.Trade{
	{
		ID:         1,
		Direction:  types.LONG,
		EntryPrice: 23085.50,
		EntryTime:  time.Date(2025, 8, 4, 13, 45, 0, 0, time.UTC),
		ExitPrice:  23185.50,
		ExitTime:   time.Date(2025, 8, 4, 17, 0, 0, 0, time.UTC),
		PnL:        200.00,
		ExitReason: account.SIGNAL,
	},
	{
		ID:         2,
		Direction:  types.SHORT,
		EntryPrice: 23185.50,
		EntryTime:  time.Date(2025, 8, 4, 17, 0, 0, 0, time.UTC),
		ExitPrice:  23200.00,
		ExitTime:   time.Date(2025, 8, 4, 20, 59, 0, 0, time.UTC),
		PnL:        -22.51,
		ExitReason: account.END_OF_PERIOD,
	},
}

func TestGeneratePineScript(t *testing.T) {
	pineCode := GeneratePineScript(sampleTrades)

	expected := `// ============================================
// TRADE VALIDATION MARKERS
// ============================================

t1_entry = time == timestamp("UTC", 2025, 8, 4, 13, 45)
plotshape(t1_entry, title="#1 LONG Entry", location=location.bottom, color=color.blue, style=shape.labelup, size=size.small, text="#1 LONG\nEntry: 23085.50000", textcolor=color.white)

t1_exit = time == timestamp("UTC", 2025, 8, 4, 17, 0)
plotshape(t1_exit, title="#1 EXIT", location=location.top, color=color.green, style=shape.labeldown, size=size.small, text="#1 EXIT\nExit: 23185.50000\nP&L: 200.00\nSIGNAL", textcolor=color.white)

t2_entry = time == timestamp("UTC", 2025, 8, 4, 17, 0)
plotshape(t2_entry, title="#2 SHORT Entry", location=location.bottom, color=color.purple, style=shape.labelup, size=size.small, text="#2 SHORT\nEntry: 23185.50000", textcolor=color.white)

t2_exit = time == timestamp("UTC", 2025, 8, 4, 20, 59)
plotshape(t2_exit, title="#2 EXIT", location=location.top, color=color.red, style=shape.labeldown, size=size.small, text="#2 EXIT\nExit: 23200.00000\nP&L: -22.51\nEND_OF_PERIOD", textcolor=color.white)

`

	assert.Equal(t, expected, pineCode)
}

func TestDumpPineScript(t *testing.T) {
	t.Setenv("DEBUG_DUMP", "")

	var buf bytes.Buffer
	wrote, err := DumpPineScript(&buf, sampleTrades, false)
	require.NoError(t, err)
	assert.False(t, wrote)
	assert.Zero(t, buf.Len())

	wrote, err = DumpPineScript(&buf, sampleTrades, true)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Equal(t, GeneratePineScript(sampleTrades), buf.String())

	t.Setenv("DEBUG_DUMP", "1")
	buf.Reset()
	wrote, err = DumpPineScript(&buf, nil, false)
	require.NoError(t, err)
	assert.True(t, wrote)
	assert.Contains(t, buf.String(), "TRADE VALIDATION MARKERS")
}
