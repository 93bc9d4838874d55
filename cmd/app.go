// Package cmd implements the CLI application to manage lot-based portfolios.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	portfolio "github.com/etnz/folio"
	"github.com/etnz/folio/quote"
	"github.com/etnz/folio/store"
	"github.com/etnz/folio/tracker"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// commands lists the subcommands with their group.
var commands = []struct {
	group string
	cmd   subcommands.Command
}{
	{"trades", &buyCmd{}},
	{"trades", &sellCmd{}},
	{"reports", &holdingCmd{}},
	{"reports", &breakdownCmd{}},
	{"reports", &lotsCmd{}},
	{"reports", &txCmd{}},
	{"reports", &platformsCmd{}},
	{"prices", &refreshCmd{}},
	{"server", &serveCmd{}},
	{"help", &topicCmd{}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, e := range commands {
		c.Register(e.cmd, e.group)
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	userFlag     = flag.String("user", "", "Portfolio owner (env FOLIO_USER, default \"default\")")
	storeFlag    = flag.String("store", "", "Storage kind: dir, sqlite or memory (env FOLIO_STORE, default \"dir\")")
	dataDirFlag  = flag.String("data-dir", "", "Folder holding the portfolios (env FOLIO_DATA_DIR, default \".folio\")")
	currencyFlag = flag.String("currency", "", "Currency used to display amounts (env FOLIO_CURRENCY, default \"USD\")")
	logLevelFlag = flag.String("log-level", "", "Log level: debug, info, warn or error (env FOLIO_LOG_LEVEL)")
	offlineFlag  = flag.Bool("offline", false, "Never fetch prices (env FOLIO_OFFLINE)")
)

// Config is the resolved application configuration: flags first, then
// environment variables (a .env file in the working directory is read), then
// defaults.
type Config struct {
	User       string
	Store      string
	DataDir    string
	Currency   string
	LogLevel   string
	Offline    bool
	FinnhubKey string
}

// LoadConfig resolves the configuration.
func LoadConfig() Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return Config{
		User:       setting(*userFlag, "FOLIO_USER", "default"),
		Store:      setting(*storeFlag, "FOLIO_STORE", "dir"),
		DataDir:    setting(*dataDirFlag, "FOLIO_DATA_DIR", ".folio"),
		Currency:   setting(*currencyFlag, "FOLIO_CURRENCY", "USD"),
		LogLevel:   setting(*logLevelFlag, "FOLIO_LOG_LEVEL", ""),
		Offline:    *offlineFlag || envBool("FOLIO_OFFLINE"),
		FinnhubKey: os.Getenv("FINNHUB_API_KEY"),
	}
}

func setting(flagValue, key, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envBool(key string) bool {
	b, _ := strconv.ParseBool(os.Getenv(key))
	return b
}

// StorePath is the location of the store of kind Store.
func (c Config) StorePath() string {
	if c.Store == "sqlite" {
		return filepath.Join(c.DataDir, "folio.db")
	}
	return c.DataDir
}

// Logger returns a console logger writing to w at the configured level, or
// at fallback when none is configured.
func (c Config) Logger(w io.Writer, fallback zerolog.Level) zerolog.Logger {
	level := fallback
	if c.LogLevel != "" {
		if l, err := zerolog.ParseLevel(c.LogLevel); err == nil {
			level = l
		}
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Quotes returns the price provider: Finnhub (when an API key is set) or Yahoo
// for stocks and ETFs, CoinGecko for crypto, behind a cache. It is nil offline.
func (c Config) Quotes(log zerolog.Logger) quote.Provider {
	if c.Offline {
		return nil
	}
	var stocks quote.Provider = &quote.Yahoo{}
	if c.FinnhubKey != "" {
		stocks = &quote.Finnhub{Token: c.FinnhubKey}
	}
	return quote.NewCached(quote.NewRouter(stocks, &quote.CoinGecko{}, log), time.Minute, quote.DefaultCooldown)
}

// openTracker opens the configured store and returns a tracker over it,
// with the function that releases the store.
func openTracker(cfg Config, log zerolog.Logger) (*tracker.Tracker, func(), error) {
	if cfg.Store == "sqlite" {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	s, err := store.Open(cfg.Store, cfg.StorePath())
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open %s store at %s: %w", cfg.Store, cfg.StorePath(), err)
	}
	closer := func() {}
	if c, ok := s.(io.Closer); ok {
		closer = func() {
			if err := c.Close(); err != nil {
				log.Warn().Err(err).Msg("Closing store failed")
			}
		}
	}
	return tracker.New(s, cfg.Quotes(log), portfolio.Engine{}, log), closer, nil
}
