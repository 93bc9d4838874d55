package portfolio

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AssetType is the class of a position.
type AssetType string

const (
	Stock  AssetType = "Stock"
	ETF    AssetType = "ETF"
	Crypto AssetType = "Crypto"
)

// AssetTypes lists the asset types in display order.
var AssetTypes = []AssetType{Stock, ETF, Crypto}

// ParseAssetType parses an asset type, ignoring case.
func ParseAssetType(s string) (AssetType, error) {
	for _, t := range AssetTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown asset type %q (use Stock, ETF or Crypto)", s)
}

// DividendFrequency is how often a position pays its dividend.
//
// The zero value is read as Quarterly.
type DividendFrequency string

const (
	Monthly      DividendFrequency = "Monthly"
	Quarterly    DividendFrequency = "Quarterly"
	SemiAnnually DividendFrequency = "Semi-Annually"
	Annually     DividendFrequency = "Annually"
)

// ParseDividendFrequency parses a frequency, ignoring case. The empty string is Quarterly.
func ParseDividendFrequency(s string) (DividendFrequency, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Quarterly, nil
	}
	for _, f := range []DividendFrequency{Monthly, Quarterly, SemiAnnually, Annually} {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown dividend frequency %q", s)
}

// PaymentsPerYear returns the number of dividend payments in a year.
func (f DividendFrequency) PaymentsPerYear() int {
	switch f {
	case Monthly:
		return 12
	case SemiAnnually:
		return 2
	case Annually:
		return 1
	default:
		return 4
	}
}

// UnmarshalJSON accepts any casing of the known frequencies; unknown values are kept as is.
func (f *DividendFrequency) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if parsed, err := ParseDividendFrequency(s); err == nil && s != "" {
		*f = parsed
		return nil
	}
	*f = DividendFrequency(s)
	return nil
}

// UnknownPlatform is the platform of lots whose custody venue was never recorded.
const UnknownPlatform = "Unknown"

// Platform is a custody venue known to the application.
type Platform struct {
	Name string
	URL  string
}

// KnownPlatforms lists the venues offered when recording a trade. Any other
// name is accepted as well.
var KnownPlatforms = []Platform{
	{Name: "Robinhood", URL: "https://robinhood.com"},
	{Name: "Fidelity", URL: "https://www.fidelity.com"},
	{Name: "E*TRADE", URL: "https://us.etrade.com/home"},
	{Name: "Charles Schwab", URL: "https://www.schwab.com"},
	{Name: "Vanguard", URL: "https://investor.vanguard.com"},
	{Name: "Coinbase", URL: "https://www.coinbase.com"},
	{Name: "Binance", URL: "https://www.binance.com"},
	{Name: "Kraken", URL: "https://www.kraken.com"},
	{Name: "Webull", URL: "https://www.webull.com"},
	{Name: "Interactive Brokers", URL: "https://www.interactivebrokers.com"},
	{Name: "Cash App", URL: "https://cash.app"},
	{Name: "Public", URL: "https://public.com"},
	{Name: "SoFi", URL: "https://www.sofi.com/invest"},
	{Name: "M1 Finance", URL: "https://m1.com"},
	{Name: "Other"},
}

// LookupPlatform returns the known platform with that name, ignoring case.
func LookupPlatform(name string) (Platform, bool) {
	for _, p := range KnownPlatforms {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Platform{}, false
}

// normalizePlatform trims name, spells known platforms the canonical way and
// replaces an empty name with UnknownPlatform.
func normalizePlatform(name string) string {
	name = canonicalPlatform(name)
	if name == "" {
		return UnknownPlatform
	}
	return name
}

// canonicalPlatform trims name and spells known platforms the canonical way.
func canonicalPlatform(name string) string {
	name = strings.TrimSpace(name)
	if p, ok := LookupPlatform(name); ok {
		return p.Name
	}
	if strings.EqualFold(name, UnknownPlatform) {
		return UnknownPlatform
	}
	return name
}

// normalizeSymbol returns the canonical, upper-case form of a ticker.
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
