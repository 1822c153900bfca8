package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/jwtly10/tradesim/internal/backtest"
	"github.com/jwtly10/tradesim/internal/config"
	"github.com/jwtly10/tradesim/internal/feed"
	"github.com/jwtly10/tradesim/internal/logging"
	"github.com/jwtly10/tradesim/internal/oanda"
	"github.com/jwtly10/tradesim/internal/strategy"
	"github.com/jwtly10/tradesim/internal/tradingview"
	"github.com/jwtly10/tradesim/internal/types"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

var capitalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))

// resolveConfig layers command line flags over the file and environment.
func resolveConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}

	if v := cmd.String("training"); v != "" {
		cfg.Data.Training = v
	}
	if v := cmd.String("testing"); v != "" {
		cfg.Data.Testing = v
	}
	if v := cmd.String("format"); v != "" {
		cfg.Data.Format = v
	}
	if v := cmd.String("strategy"); v != "" {
		cfg.Strategy.Name = strategy.Kind(v)
	}
	if cmd.IsSet("n") {
		cfg.Strategy.N = cmd.Int("n")
	}

	return cfg, cfg.Validate()
}

// progressBars starts a fresh bar at the first step of each pass.
func progressBars() backtest.ProgressFunc {
	var bar *progressbar.ProgressBar
	return func(phase types.Phase, index, total int) {
		if index == 0 || bar == nil {
			bar = progressbar.Default(int64(total), string(phase))
		}
		_ = bar.Add(1)
	}
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	if topics := cmd.String("debug"); topics != "" {
		logging.Configure(topics)
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	simCfg, err := cfg.SimulatorConfig()
	if err != nil {
		return err
	}
	if !cmd.Bool("quiet") {
		simCfg.Progress = progressBars()
	}

	sim, err := backtest.NewSimulator(simCfg)
	if err != nil {
		return err
	}

	training, err := feed.Load(ctx, cfg.Data.Training, cfg.Data.Format)
	if err != nil {
		return fmt.Errorf("failed to load training data: %w", err)
	}
	if err := sim.LoadSeries(training, types.Training); err != nil {
		return err
	}

	trained, err := sim.Train()
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	out := cmd.Root().Writer
	if err := report(out, trained, cmd); err != nil {
		return err
	}

	if cfg.Data.Testing == "" {
		slog.Info("No testing data configured, skipping test pass")
		return nil
	}

	testing, err := feed.Load(ctx, cfg.Data.Testing, cfg.Data.Format)
	if err != nil {
		return fmt.Errorf("failed to load testing data: %w", err)
	}
	if err := sim.LoadSeries(testing, types.Testing); err != nil {
		return err
	}

	tested, err := sim.Test()
	if err != nil {
		return fmt.Errorf("testing failed: %w", err)
	}
	return report(out, tested, cmd)
}

func report(w io.Writer, results *backtest.Results, cmd *cli.Command) error {
	results.Fprint(w)
	fmt.Fprintln(w)

	if last := cmd.Int("trades"); last > 0 {
		results.FprintTradesBetween(w, len(results.Trades)-last, len(results.Trades))
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, capitalStyle.Render(fmt.Sprintf("Final %s capital: %.2f", results.Phase, results.FinalBalance)))

	if _, err := tradingview.DumpPineScript(w, results.Trades, cmd.Bool("pine")); err != nil {
		return err
	}
	return nil
}

func fetchAction(ctx context.Context, cmd *cli.Command) error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	accountId := os.Getenv("OANDA_ACCOUNT_ID")
	if accountId == "" {
		return fmt.Errorf("OANDA_ACCOUNT_ID not set")
	}
	apiKey := os.Getenv("OANDA_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("OANDA_API_KEY not set")
	}

	client := oanda.NewOandaService(accountId, apiKey, os.Getenv("OANDA_API_URL"))
	series, err := client.FetchSeries(ctx, oanda.CandleRequest{
		Instrument:  oanda.InstrumentName(cmd.String("instrument")),
		Granularity: oanda.CandlestickGranularity(cmd.String("granularity")),
		From:        cmd.Timestamp("from"),
		To:          cmd.Timestamp("to"),
	})
	if err != nil {
		return err
	}

	out := cmd.String("out")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	if err := feed.WriteCSV(f, series); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	slog.Info("Wrote series", "path", out, "entries", len(series))
	return nil
}

func schemaAction(_ context.Context, cmd *cli.Command) error {
	cfg := config.Default()
	schemaJSON, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, schemaJSON)
	return nil
}

func newApp(w io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "tradesim",
		Usage:  "Replay minute-bar series through a trading strategy",
		Writer: w,
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Train on one series, then replay the decisions on another",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to a YAML config file",
					},
					&cli.StringFlag{
						Name:  "training",
						Usage: "Training series (.csv or .parquet)",
					},
					&cli.StringFlag{
						Name:  "testing",
						Usage: "Testing series (.csv or .parquet)",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Force the data format (csv or parquet)",
					},
					&cli.StringFlag{
						Name:    "strategy",
						Aliases: []string{"s"},
						Usage:   fmt.Sprintf("Strategy to train, one of %v", strategy.Kinds()),
					},
					&cli.IntFlag{
						Name:  "n",
						Usage: "Moving average window length",
					},
					&cli.StringFlag{
						Name:  "debug",
						Usage: "Comma separated debug topics, or all",
					},
					&cli.IntFlag{
						Name:  "trades",
						Usage: "Print the last N trades of each pass",
					},
					&cli.BoolFlag{
						Name:  "pine",
						Usage: "Print Pine Script trade markers after each pass",
					},
					&cli.BoolFlag{
						Name:    "quiet",
						Aliases: []string{"q"},
						Usage:   "Hide progress bars",
					},
				},
				Action: runAction,
			},
			{
				Name:  "fetch",
				Usage: "Download candles from OANDA into a CSV series",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "instrument",
						Usage: "OANDA instrument name",
						Value: string(oanda.SPX500),
					},
					&cli.StringFlag{
						Name:  "granularity",
						Usage: "Candle granularity (M1, M5, M15, M30, H1, H6, D, W, M)",
						Value: oanda.M1.String(),
					},
					&cli.TimestampFlag{
						Name:     "from",
						Usage:    "Start date in `YYYY-MM-DD` format",
						Required: true,
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.TimestampFlag{
						Name:  "to",
						Usage: "End date in `YYYY-MM-DD` format. Defaults to now.",
						Value: time.Now(),
						Config: cli.TimestampConfig{
							Layouts: []string{"2006-01-02"},
						},
					},
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Output CSV path",
						Required: true,
					},
				},
				Action: fetchAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema of the config file",
				Action: schemaAction,
			},
		},
	}
}

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		slog.Error("tradesim failed", "error", err)
		os.Exit(1)
	}
}
