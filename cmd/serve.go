package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/folio/api"
	"github.com/etnz/folio/tracker"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// serveCmd holds the flags for the 'serve' subcommand.
type serveCmd struct {
	addr     string
	schedule string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the portfolios over HTTP" }
func (*serveCmd) Usage() string {
	return `folio serve [-addr <host:port>] [-refresh <schedule>]

  Serves the JSON API and refreshes the prices of every portfolio in the
  background. Use -refresh "" to disable the background refresh.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", ":8080", "Address to listen on")
	f.StringVar(&c.schedule, "refresh", tracker.DefaultRefreshSchedule, "Cron schedule of the price refresh")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := LoadConfig()
	log := cfg.Logger(os.Stderr, zerolog.InfoLevel)

	tr, closeStore, err := openTracker(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Cannot open store")
		return subcommands.ExitFailure
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.schedule != "" && !cfg.Offline {
		scheduler := tracker.NewScheduler(time.Minute, log)
		if err := tr.ScheduleRefresh(scheduler, c.schedule); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing refresh schedule %q: %v\n", c.schedule, err)
			return subcommands.ExitUsageError
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	server := api.New(api.Config{Addr: c.addr, Tracker: tr, Currency: cfg.Currency, Log: log})
	errc := make(chan error, 1)
	go func() { errc <- server.Start() }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
			return subcommands.ExitFailure
		}
	}
	return subcommands.ExitSuccess
}
