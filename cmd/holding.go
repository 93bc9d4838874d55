package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/etnz/folio"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	update bool
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the positions and their valuation" }
func (*holdingCmd) Usage() string {
	return `folio holding [-u]

  Displays every position grouped by asset type, valued at its current price.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.update, "u", false, "update with latest prices before calculating the report")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := LoadConfig()
	tr, closeStore, err := openTracker(cfg, cfg.Logger(os.Stderr, zerolog.WarnLevel))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	var p portfolio.Portfolio
	if c.update {
		p, err = tr.Refresh(ctx, cfg.User)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error updating prices: %v\n", err)
			return subcommands.ExitFailure
		}
	} else if p, err = tr.Portfolio(ctx, cfg.User); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderHolding(renderer.NewHolding(portfolio.Summarize(p), cfg.User, cfg.Currency)))
	return subcommands.ExitSuccess
}

// refreshCmd holds the flags for the 'refresh' subcommand.
type refreshCmd struct {
	all bool
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "update the current price of every position" }
func (*refreshCmd) Usage() string {
	return `folio refresh [-all]

  Fetches the latest prices and stores them. Positions without a quote keep
  their price.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "refresh the portfolio of every user")
}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := LoadConfig()
	tr, closeStore, err := openTracker(cfg, cfg.Logger(os.Stderr, zerolog.WarnLevel))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if c.all {
		if err := tr.RefreshAll(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating prices: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	p, err := tr.Refresh(ctx, cfg.User)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error updating prices: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderHolding(renderer.NewHolding(portfolio.Summarize(p), cfg.User, cfg.Currency)))
	return subcommands.ExitSuccess
}
