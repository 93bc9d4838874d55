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

// buyCmd holds the flags for the 'buy' subcommand.
type buyCmd struct {
	symbol    string
	name      string
	assetType string
	quantity  string
	price     string
	platform  string
	date      string
	dividend  string
	frequency string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record the purchase of an asset" }
func (*buyCmd) Usage() string {
	return `folio buy -s <symbol> -q <quantity> -p <price> [-platform <name>] [-d <date>] [-name <name>] [-type <type>] [-div <amount> -freq <frequency>]

  Records a purchase as a new lot of the position, created if needed.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol of the asset")
	f.StringVar(&c.quantity, "q", "", "Quantity bought")
	f.StringVar(&c.price, "p", "", "Unit price paid")
	f.StringVar(&c.platform, "platform", "", "Platform holding the lot")
	f.StringVar(&c.date, "d", "", "Date of the purchase, defaults to today")
	f.StringVar(&c.name, "name", "", "Name of the asset, for a new position")
	f.StringVar(&c.assetType, "type", "", "Asset type (stock, etf or crypto), for a new position")
	f.StringVar(&c.dividend, "div", "", "Yearly dividend per share")
	f.StringVar(&c.frequency, "freq", "", "Dividend frequency (monthly, quarterly, semi-annually, annually)")
}

func (c *buyCmd) request() (portfolio.BuyRequest, error) {
	req := portfolio.BuyRequest{Symbol: c.symbol, Name: c.name, Platform: c.platform}
	var err error
	if req.Quantity, err = portfolio.ParseQuantity(c.quantity); err != nil {
		return req, fmt.Errorf("invalid quantity: %w", err)
	}
	if req.Price, err = portfolio.ParseMoney(c.price); err != nil {
		return req, fmt.Errorf("invalid price: %w", err)
	}
	if c.date != "" {
		if req.Date, err = date.Parse(c.date); err != nil {
			return req, err
		}
	}
	if c.assetType != "" {
		if req.Type, err = portfolio.ParseAssetType(c.assetType); err != nil {
			return req, err
		}
	}
	if c.dividend != "" {
		if req.DividendAmount, err = portfolio.ParseMoney(c.dividend); err != nil {
			return req, fmt.Errorf("invalid dividend: %w", err)
		}
	}
	if c.frequency != "" {
		if req.DividendFrequency, err = portfolio.ParseDividendFrequency(c.frequency); err != nil {
			return req, err
		}
	}
	return req, nil
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" || c.price == "" {
		fmt.Fprintln(os.Stderr, "Error: -s, -q and -p are required")
		return subcommands.ExitUsageError
	}
	req, err := c.request()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing buy: %v\n", err)
		return subcommands.ExitUsageError
	}

	cfg := LoadConfig()
	tr, closeStore, err := openTracker(cfg, cfg.Logger(os.Stderr, zerolog.WarnLevel))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	p, err := tr.Buy(ctx, cfg.User, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording buy: %v\n", err)
		return subcommands.ExitFailure
	}
	pos, _ := p.Position(req.Symbol)
	printMarkdown(renderer.RenderLots(renderer.NewPosition(pos, cfg.Currency)))
	return subcommands.ExitSuccess
}

// sellCmd holds the flags for the 'sell' subcommand.
type sellCmd struct {
	symbol   string
	quantity string
	price    string
	platform string
	date     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record the sale of an asset, oldest lots first" }
func (*sellCmd) Usage() string {
	return `folio sell -s <symbol> -q <quantity> -p <price> [-platform <name>] [-d <date>]

  Records a sale. Lots are consumed oldest first, only from the given platform
  when -platform is set. Fails without any change when not enough is held.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol of the asset")
	f.StringVar(&c.quantity, "q", "", "Quantity sold")
	f.StringVar(&c.price, "p", "", "Unit price received")
	f.StringVar(&c.platform, "platform", "", "Only sell lots held on this platform")
	f.StringVar(&c.date, "d", "", "Date of the sale, defaults to today")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" || c.price == "" {
		fmt.Fprintln(os.Stderr, "Error: -s, -q and -p are required")
		return subcommands.ExitUsageError
	}
	req := portfolio.SellRequest{Symbol: c.symbol, Platform: c.platform}
	var err error
	if req.Quantity, err = portfolio.ParseQuantity(c.quantity); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	if req.Price, err = portfolio.ParseMoney(c.price); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.date != "" {
		if req.Date, err = date.Parse(c.date); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	cfg := LoadConfig()
	tr, closeStore, err := openTracker(cfg, cfg.Logger(os.Stderr, zerolog.WarnLevel))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	res, err := tr.Sell(ctx, cfg.User, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error recording sell: %v\n", err)
		return subcommands.ExitFailure
	}
	var remaining portfolio.Quantity
	if pos, ok := res.Portfolio.Position(req.Symbol); ok {
		remaining = pos.Quantity()
	}
	printMarkdown(renderer.RenderSell(renderer.NewSell(req.Symbol, req.Quantity, req.Price, res.Fills, remaining, cfg.Currency)))
	return subcommands.ExitSuccess
}
