package backtest

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jwtly10/tradesim/internal/account"
	"github.com/jwtly10/tradesim/internal/errors"
	"github.com/jwtly10/tradesim/internal/logging"
	"github.com/jwtly10/tradesim/internal/strategy"
	"github.com/jwtly10/tradesim/internal/types"
)

const (
	DefaultStartingInvestment = 100000.0
	DefaultRoundTripCost      = 10.0
)

var simLog = logging.New(logging.TopicSim)

// ProgressFunc is called after every step of a pass.
type ProgressFunc func(phase types.Phase, index, total int)

type Config struct {
	StartingInvestment float64 `validate:"gt=0"`
	RoundTripCost      float64 `validate:"gte=0"`
	// Strategy defaults to a fresh BuyAndHold when nil.
	Strategy strategy.Strategy `validate:"-"`
	Progress ProgressFunc      `validate:"-"`
}

func DefaultConfig() Config {
	return Config{
		StartingInvestment: DefaultStartingInvestment,
		RoundTripCost:      DefaultRoundTripCost,
	}
}

// Simulator replays a training series through a strategy, then replays the
// recorded decisions against a testing series.
type Simulator struct {
	ledger   *account.Ledger
	strategy strategy.Strategy
	progress ProgressFunc

	training types.Series
	testing  types.Series

	// trainedCount is the number of decisions recorded by the last Train.
	trainedCount int
	trained      bool

	// bound is the series prices are read from in the running pass.
	bound  types.Series
	phase  types.Phase
	trades []account.Trade
}

func NewSimulator(cfg Config) (*Simulator, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid simulator config", err)
	}
	// gt=0 lets +Inf through
	for _, v := range []float64{cfg.StartingInvestment, cfg.RoundTripCost} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "invalid simulator config: non-finite amount %v", v)
		}
	}

	strat := cfg.Strategy
	if strat == nil {
		strat = strategy.NewBuyAndHold()
	}

	return &Simulator{
		ledger:   account.NewLedger(cfg.StartingInvestment, cfg.RoundTripCost),
		strategy: strat,
		progress: cfg.Progress,
	}, nil
}

// LoadSeries stores series for the given phase. Nothing is stored if the
// series is empty or fails validation.
func (s *Simulator) LoadSeries(series types.Series, phase types.Phase) error {
	if len(series) == 0 {
		return errors.Newf(errors.ErrCodeMissingSeries, "no %s series supplied", phase)
	}
	if row, err := series.Validate(); err != nil {
		return errors.Wrapf(errors.ErrCodeMalformedData, err, "invalid %s entry at index %d", phase, row)
	}

	switch phase {
	case types.Training:
		s.training = series
	case types.Testing:
		s.testing = series
	default:
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown phase %q", phase)
	}

	simLog.Info("Loaded series", "phase", phase, "entries", len(series))
	return nil
}

// Train binds the strategy to the training series and lets it decide every
// entry, settling trades against training prices.
func (s *Simulator) Train() (*Results, error) {
	if len(s.training) == 0 {
		return nil, errors.New(errors.ErrCodeMissingSeries, "no training series loaded")
	}

	s.strategy.Bind(s.training)
	s.trainedCount = len(s.training)
	s.trained = true

	return s.run(types.Training, s.training, len(s.training), s.strategy.Decide)
}

// Test replays the decisions recorded by Train against the testing series.
// Only min(trained entries, testing entries) indices are replayed.
func (s *Simulator) Test() (*Results, error) {
	if len(s.testing) == 0 {
		return nil, errors.New(errors.ErrCodeMissingSeries, "no testing series loaded")
	}
	if !s.trained {
		return nil, errors.New(errors.ErrCodeNotTrained, "test requires a completed training pass")
	}

	length := s.trainedCount
	if len(s.testing) != length {
		simLog.Warn("Testing series length differs from training", "training_entries", s.trainedCount, "testing_entries", len(s.testing))
		if len(s.testing) < length {
			length = len(s.testing)
		}
	}

	s.strategy.ResetTrades()
	return s.run(types.Testing, s.testing, length, s.strategy.RecordedPosition)
}

// run is the pass shared by Train and Test. decide is either the strategy's
// Decide or its RecordedPosition.
func (s *Simulator) run(phase types.Phase, series types.Series, length int, decide func(int) (types.Position, error)) (*Results, error) {
	s.ledger.Reset()
	s.bound = series
	s.phase = phase
	s.trades = []account.Trade{}

	simLog.Debug("Starting pass", "phase", phase, "strategy", s.strategy.Name(), "initial_balance", s.ledger.Original(), "entries", length)

	for i := 0; i < length; i++ {
		if err := s.step(i, length, decide); err != nil {
			return nil, fmt.Errorf("%s pass failed at index %d: %w", phase, i, err)
		}
		if s.progress != nil {
			s.progress(phase, i, length)
		}
	}

	results := &Results{
		RunID:          uuid.New(),
		Phase:          phase,
		Strategy:       s.strategy.Name(),
		Entries:        length,
		InitialBalance: s.ledger.Original(),
		FinalBalance:   s.ledger.Current(),
		Opens:          s.strategy.NumberOfTrades(),
		Trades:         s.trades,
	}

	simLog.Info("Completed pass", "phase", phase, "final_balance", results.FinalBalance, "trades", len(results.Trades))
	return results, nil
}

func (s *Simulator) step(index, length int, decide func(int) (types.Position, error)) error {
	// Close anything at the end
	if index == length-1 {
		return s.close(index, s.strategy.PreviousOpenIndex(), account.END_OF_PERIOD)
	}

	// Decide may move the previous open index to index itself
	openIndex := s.strategy.PreviousOpenIndex()

	position, err := decide(index)
	if err != nil {
		return err
	}

	if !position.IsAction() {
		return nil
	}

	// Nothing can be open before the first entry
	if index != 0 {
		if err := s.close(index, openIndex, account.SIGNAL); err != nil {
			return err
		}
	}
	return s.Open(index, position)
}

// Open records a new trade at index.
func (s *Simulator) Open(index int, position types.Position) error {
	simLog.Debug("Opening trade", "phase", s.phase, "index", index, "position", position)
	return s.strategy.OpenTrade(index, position)
}

// Close settles the trade opened at openIndex against the price at
// closeIndex of the series bound by the running (or last) pass.
func (s *Simulator) Close(closeIndex, openIndex int) error {
	return s.close(closeIndex, openIndex, account.SIGNAL)
}

func (s *Simulator) close(closeIndex, openIndex int, reason account.ExitReason) error {
	if s.bound == nil {
		return errors.New(errors.ErrCodeMissingSeries, "no series bound, run Train or Test first")
	}

	closeEntry, ok := s.bound.At(closeIndex)
	if !ok {
		return errors.Newf(errors.ErrCodeIndexOutOfRange, "close index %d outside [0, %d)", closeIndex, len(s.bound))
	}
	openEntry, ok := s.bound.At(openIndex)
	if !ok {
		return errors.Newf(errors.ErrCodeIndexOutOfRange, "open index %d outside [0, %d)", openIndex, len(s.bound))
	}

	position, err := s.strategy.RecordedPosition(openIndex)
	if err != nil {
		return err
	}

	net, err := s.ledger.Settle(position, openEntry.Price, closeEntry.Price)
	if err != nil {
		return err
	}

	trade := account.Trade{
		ID:         len(s.trades) + 1,
		Direction:  position,
		OpenIndex:  openIndex,
		CloseIndex: closeIndex,
		EntryTime:  openEntry.Timestamp,
		ExitTime:   closeEntry.Timestamp,
		EntryPrice: openEntry.Price,
		ExitPrice:  closeEntry.Price,
		PnL:        net,
		Cost:       s.ledger.RoundTripCost(),
		ExitReason: reason,
	}
	if before := s.ledger.Current() - net; before != 0 {
		trade.PnLPercent = net / before * 100
	}
	s.trades = append(s.trades, trade)

	simLog.Debug("Closed trade", "phase", s.phase, "open_index", openIndex, "close_index", closeIndex, "position", position, "pnl", net, "reason", reason, "balance", s.ledger.Current())
	return nil
}

// CalcPriceChange returns closePrice/openPrice - 1.
func CalcPriceChange(closePrice, openPrice float64) (float64, error) {
	change, err := account.PriceChange(closePrice, openPrice)
	if err != nil {
		return 0, err
	}
	return change.InexactFloat64(), nil
}

func (s *Simulator) CurrentInvestment() float64 {
	return s.ledger.Current()
}

func (s *Simulator) OriginalInvestment() float64 {
	return s.ledger.Original()
}

func (s *Simulator) Strategy() strategy.Strategy {
	return s.strategy
}
