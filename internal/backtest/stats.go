package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	faintStyle = lipgloss.NewStyle().Faint(true)
)

type Statistics struct {
	// Basic
	TotalTrades   int
	WinningTrades int
	LosingTrades  int
	WinRate       float64

	// P&L
	TotalPnL        float64
	TotalPnLPercent float64
	GrossProfit     float64
	GrossLoss       float64
	ProfitFactor    float64
	TotalCosts      float64

	// Averages
	AvgWin        float64
	AvgLoss       float64
	ExpectedValue float64

	// Risk
	MaxDrawdown        float64
	MaxDrawdownPercent float64

	// Duration
	AvgTradeDuration time.Duration
}

func (r *Results) Calculate() *Statistics {
	// Return cached if already calculated
	if r.stats != nil {
		return r.stats
	}

	stats := &Statistics{
		TotalTrades: len(r.Trades),
		TotalPnL:    r.FinalBalance - r.InitialBalance,
	}
	if r.InitialBalance != 0 {
		stats.TotalPnLPercent = (stats.TotalPnL / r.InitialBalance) * 100
	}

	if len(r.Trades) == 0 {
		r.stats = stats
		return stats
	}

	var totalWin, totalLoss float64
	var totalDuration time.Duration
	var peak float64 = r.InitialBalance
	var maxDD float64
	runningBalance := r.InitialBalance

	for _, trade := range r.Trades {
		// Win/Loss counting
		if trade.PnL > 0 {
			stats.WinningTrades++
			totalWin += trade.PnL
		} else if trade.PnL < 0 {
			stats.LosingTrades++
			totalLoss += trade.PnL // Already negative
		}
		stats.TotalCosts += trade.Cost

		// Drawdown calculation
		runningBalance += trade.PnL
		if runningBalance > peak {
			peak = runningBalance
		}
		dd := peak - runningBalance
		if dd > maxDD {
			maxDD = dd
		}

		totalDuration += trade.ExitTime.Sub(trade.EntryTime)
	}

	stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100

	stats.GrossProfit = totalWin
	stats.GrossLoss = totalLoss

	if totalLoss != 0 {
		stats.ProfitFactor = totalWin / -totalLoss
	}

	if stats.WinningTrades > 0 {
		stats.AvgWin = totalWin / float64(stats.WinningTrades)
	}
	if stats.LosingTrades > 0 {
		stats.AvgLoss = totalLoss / float64(stats.LosingTrades)
	}
	stats.ExpectedValue = stats.TotalPnL / float64(stats.TotalTrades)

	stats.MaxDrawdown = maxDD
	if peak > 0 {
		stats.MaxDrawdownPercent = (maxDD / peak) * 100
	}

	stats.AvgTradeDuration = totalDuration / time.Duration(stats.TotalTrades)

	r.stats = stats
	return stats
}

// Fprint writes the pass summary and its statistics to w.
func (r *Results) Fprint(w io.Writer) {
	s := r.Calculate()

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("=== %s results (%s) ===", r.Phase, r.Strategy)))
	fmt.Fprintln(w, faintStyle.Render("run "+r.RunID.String()))
	fmt.Fprintf(w, "Entries:          %d\n", r.Entries)
	fmt.Fprintf(w, "Initial Capital:  $%.2f\n", r.InitialBalance)
	fmt.Fprintf(w, "Final Capital:    $%.2f\n\n", r.FinalBalance)

	fmt.Fprintf(w, "Opened Trades:    %d\n", r.Opens)
	fmt.Fprintf(w, "Round Trips:      %d\n", s.TotalTrades)
	fmt.Fprintf(w, "Winning Trades:   %d (%.2f%%)\n", s.WinningTrades, s.WinRate)
	fmt.Fprintf(w, "Losing Trades:    %d\n\n", s.LosingTrades)

	fmt.Fprintf(w, "Total P&L:        $%.2f (%.2f%%)\n", s.TotalPnL, s.TotalPnLPercent)
	fmt.Fprintf(w, "Gross Profit:     $%.2f\n", s.GrossProfit)
	fmt.Fprintf(w, "Gross Loss:       $%.2f\n", s.GrossLoss)
	fmt.Fprintf(w, "Trading Costs:    $%.2f\n", s.TotalCosts)
	fmt.Fprintf(w, "Profit Factor:    %.2f\n\n", s.ProfitFactor)

	fmt.Fprintf(w, "Avg Win:          $%.2f\n", s.AvgWin)
	fmt.Fprintf(w, "Avg Loss:         $%.2f\n", s.AvgLoss)
	fmt.Fprintf(w, "Expected Value:   $%.2f per trade\n\n", s.ExpectedValue)

	fmt.Fprintf(w, "Max Drawdown:     $%.2f (%.2f%%)\n", s.MaxDrawdown, s.MaxDrawdownPercent)
	fmt.Fprintf(w, "Avg Duration:     %s\n", s.AvgTradeDuration.Round(time.Minute))
}

// FprintTradesBetween writes trades [from, to), clamped to the trade list.
func (r *Results) FprintTradesBetween(w io.Writer, from, to int) {
	if from < 0 {
		from = 0
	}
	if to > len(r.Trades) {
		to = len(r.Trades)
	}

	fmt.Fprintln(w, titleStyle.Render("=== Trade List ==="))
	for i := from; i < to; i++ {
		r.Trades[i].Fprint(w)
	}
}
