package tradingview

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jwtly10/tradesim/internal/account"
	"github.com/jwtly10/tradesim/internal/types"
)

func allowDump() bool {
	// Get OS Env for dump DEBUG_DUMP=1 etc
	if os.Getenv("DEBUG_DUMP") == "1" {
		slog.Info("DEBUG_DUMP=1, dumping pine script")
		return true
	}

	return false
}

// DumpPineScript writes the trade markers to w when force is set or
// DEBUG_DUMP=1. It reports whether anything was written.
func DumpPineScript(w io.Writer, trades []account.Trade, force bool) (bool, error) {
	if !force && !allowDump() {
		return false, nil
	}

	if _, err := io.WriteString(w, GeneratePineScript(trades)); err != nil {
		return false, fmt.Errorf("failed to write pine script: %w", err)
	}
	return true, nil
}

// GeneratePineScript generates Pine Script markers for each closed trade: a
// label below the entry bar and one above the exit bar, coloured by outcome.
func GeneratePineScript(trades []account.Trade) string {
	var sb strings.Builder

	sb.WriteString("// ============================================\n")
	sb.WriteString("// TRADE VALIDATION MARKERS\n")
	sb.WriteString("// ============================================\n\n")

	for _, trade := range trades {
		entryColor := "color.blue"
		if trade.Direction == types.SHORT {
			entryColor = "color.purple"
		}
		entryTimestamp := formatPineTimestamp(trade.EntryTime)
		entryText := fmt.Sprintf("#%d %s\\nEntry: %.5f", trade.ID, trade.Direction, trade.EntryPrice)

		sb.WriteString(fmt.Sprintf("t%d_entry = time == %s\n", trade.ID, entryTimestamp))
		sb.WriteString(fmt.Sprintf("plotshape(t%d_entry, title=\"#%d %s Entry\", location=location.bottom, color=%s, style=shape.labelup, size=size.small, text=\"%s\", textcolor=color.white)\n\n",
			trade.ID, trade.ID, trade.Direction, entryColor, entryText))

		exitColor := "color.green"
		if trade.PnL < 0 {
			exitColor = "color.red"
		}
		exitTimestamp := formatPineTimestamp(trade.ExitTime)
		exitText := fmt.Sprintf("#%d EXIT\\nExit: %.5f\\nP&L: %.2f\\n%s",
			trade.ID, trade.ExitPrice, trade.PnL, trade.ExitReason)

		sb.WriteString(fmt.Sprintf("t%d_exit = time == %s\n", trade.ID, exitTimestamp))
		sb.WriteString(fmt.Sprintf("plotshape(t%d_exit, title=\"#%d EXIT\", location=location.top, color=%s, style=shape.labeldown, size=size.small, text=\"%s\", textcolor=color.white)\n\n",
			trade.ID, trade.ID, exitColor, exitText))
	}

	return sb.String()
}

func formatPineTimestamp(t time.Time) string {
	utc := t.UTC()
	return fmt.Sprintf("timestamp(\"UTC\", %d, %d, %d, %d, %d)",
		utc.Year(), int(utc.Month()), utc.Day(), utc.Hour(), utc.Minute())
}
