// Package renderer renders portfolio reports as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	portfolio "github.com/etnz/folio"
)

//go:embed templates/*.md
var templates embed.FS

// DefaultCurrency is used to format amounts when none is set.
const DefaultCurrency = "USD"

// RenderHolding renders the holdings report.
func RenderHolding(h *Holding) string {
	partials := map[string]string{
		"holding_totals": "holding_totals.md",
		"holding_group":  "holding_group.md",
	}
	return renderTemplate("holding", "holding.md", partials, h.Currency, h)
}

// RenderBreakdown renders the per platform breakdown of a position.
func RenderBreakdown(p *Position) string {
	partials := map[string]string{"position_title": "position_title.md"}
	return renderTemplate("breakdown", "breakdown.md", partials, p.Currency, p)
}

// RenderLots renders the open lots of a position, oldest first.
func RenderLots(p *Position) string {
	partials := map[string]string{"position_title": "position_title.md"}
	return renderTemplate("lots", "lots.md", partials, p.Currency, p)
}

// RenderTransactions renders the transaction history of a position.
func RenderTransactions(p *Position) string {
	partials := map[string]string{"position_title": "position_title.md"}
	return renderTemplate("transactions", "transactions.md", partials, p.Currency, p)
}

// RenderSell renders the outcome of a sell.
func RenderSell(s *Sell) string {
	return renderTemplate("sell", "sell.md", nil, s.Currency, s)
}

// RenderPlatforms renders the list of known platforms.
func RenderPlatforms(platforms []portfolio.Platform) string {
	return renderTemplate("platforms", "platforms.md", nil, DefaultCurrency, platforms)
}

// funcs returns the template helpers formatting amounts in currency.
func funcs(currency string) template.FuncMap {
	if currency == "" {
		currency = DefaultCurrency
	}
	return template.FuncMap{
		"money":  func(m portfolio.Money) string { return m.Format(currency) },
		"signed": func(m portfolio.Money) string { return m.SignedFormat(currency) },
		"pct":    func(f float64) string { return fmt.Sprintf("%+.2f%%", f) },
		"share":  func(f float64) string { return fmt.Sprintf("%.1f%%", f) },
		"join":   func(s []string) string { return strings.Join(s, ", ") },
		"cell":   func(s string) string { return strings.ReplaceAll(s, "|", `\|`) },
	}
}

// renderTemplate renders a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, currency string, data any) string {
	mainContent, err := fs.ReadFile(templates, "templates/"+mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs(currency)).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, "templates/"+file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
