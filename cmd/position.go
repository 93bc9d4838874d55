package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// positionReport loads the position of the configured user in symbol and
// prints it with render.
func positionReport(ctx context.Context, symbol string, view func(portfolio.Position, string) *renderer.Position, render func(*renderer.Position) string) subcommands.ExitStatus {
	if symbol == "" {
		fmt.Fprintln(os.Stderr, "Error: -s is required")
		return subcommands.ExitUsageError
	}
	cfg := LoadConfig()
	tr, closeStore, err := openTracker(cfg, cfg.Logger(os.Stderr, zerolog.WarnLevel))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	pos, err := tr.Position(ctx, cfg.User, symbol)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(render(view(pos, cfg.Currency)))
	return subcommands.ExitSuccess
}

type breakdownCmd struct {
	symbol string
}

func (*breakdownCmd) Name() string     { return "breakdown" }
func (*breakdownCmd) Synopsis() string { return "display the quantity held on each platform" }
func (*breakdownCmd) Usage() string {
	return `folio breakdown -s <symbol>

  Displays, per platform, the quantity held and its value at the current price.
`
}

func (c *breakdownCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol of the position")
}

func (c *breakdownCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return positionReport(ctx, c.symbol, renderer.NewPosition, renderer.RenderBreakdown)
}

type lotsCmd struct {
	symbol string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "display the open lots of a position" }
func (*lotsCmd) Usage() string {
	return `folio lots -s <symbol>

  Displays the open lots of a position, oldest first: the order they are sold in.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol of the position")
}

func (c *lotsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return positionReport(ctx, c.symbol, renderer.NewPosition, renderer.RenderLots)
}

type txCmd struct {
	symbol string
	period string
	date   string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the transactions of a position" }
func (*txCmd) Usage() string {
	return `folio tx -s <symbol> [-p <period> [-d <date>]]

  Lists every buy and sell recorded for a position, in the order they happened.
  With -p, only the transactions of the period (day, week, month, quarter or
  year) containing the date are listed.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol of the position")
	f.StringVar(&c.period, "p", "", "Only list the transactions of this period: day, week, month, quarter or year")
	f.StringVar(&c.date, "d", "", "A date in the period, defaults to today")
}

func (c *txCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.period == "" {
		return positionReport(ctx, c.symbol, renderer.NewPosition, renderer.RenderTransactions)
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	on := date.Today()
	if c.date != "" {
		if on, err = date.Parse(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	r := date.NewRange(on, period)
	within := func(pos portfolio.Position, currency string) *renderer.Position {
		return renderer.NewPositionWithin(pos, r, currency)
	}
	return positionReport(ctx, c.symbol, within, renderer.RenderTransactions)
}

type platformsCmd struct{}

func (*platformsCmd) Name() string     { return "platforms" }
func (*platformsCmd) Synopsis() string { return "list the known platforms" }
func (*platformsCmd) Usage() string {
	return `folio platforms

  Lists the platforms offered when recording a trade.
`
}

func (*platformsCmd) SetFlags(*flag.FlagSet) {}

func (*platformsCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	printMarkdown(renderer.RenderPlatforms(portfolio.KnownPlatforms))
	return subcommands.ExitSuccess
}
