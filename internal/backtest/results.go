package backtest

import (
	"github.com/google/uuid"
	"github.com/jwtly10/tradesim/internal/account"
	"github.com/jwtly10/tradesim/internal/types"
)

type Results struct {
	RunID          uuid.UUID
	Phase          types.Phase
	Strategy       string
	Entries        int
	InitialBalance float64
	FinalBalance   float64
	// Opens is the number of trades the strategy opened during the pass.
	Opens  int
	Trades []account.Trade

	stats *Statistics
}
