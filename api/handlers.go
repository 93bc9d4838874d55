package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	portfolio "github.com/etnz/folio"
	"github.com/etnz/folio/date"
	"github.com/etnz/folio/renderer"
	"github.com/etnz/folio/store"
	"github.com/etnz/folio/tracker"
	"github.com/go-chi/chi/v5"
)

// BuyBody is the request body of POST /api/users/{user}/buy.
type BuyBody struct {
	Symbol            string                      `json:"symbol"`
	Name              string                      `json:"name,omitempty"`
	Type              portfolio.AssetType         `json:"type,omitempty"`
	Quantity          portfolio.Quantity          `json:"quantity"`
	Price             portfolio.Money             `json:"price"`
	Platform          string                      `json:"platform,omitempty"`
	Date              date.Date                   `json:"date"`
	DividendAmount    portfolio.Money             `json:"dividendAmount"`
	DividendFrequency portfolio.DividendFrequency `json:"dividendFrequency,omitempty"`
}

// SellBody is the request body of POST /api/users/{user}/sell.
type SellBody struct {
	Symbol   string             `json:"symbol"`
	Quantity portfolio.Quantity `json:"quantity"`
	Price    portfolio.Money    `json:"price"`
	Platform string             `json:"platform,omitempty"`
	Date     date.Date          `json:"date"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	p, err := s.tracker.Portfolio(r.Context(), chi.URLParam(r, "user"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	summary, err := s.tracker.Summary(r.Context(), user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, renderer.NewHolding(summary, user, s.currency))
}

// position loads the position named in the request path.
func (s *Server) position(w http.ResponseWriter, r *http.Request) (*renderer.Position, bool) {
	pos, err := s.tracker.Position(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return renderer.NewPosition(pos, s.currency), true
}

func (s *Server) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	pos, err := s.tracker.Position(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pos)
}

func (s *Server) handleGetBreakdown(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.position(w, r); ok {
		s.writeJSON(w, http.StatusOK, map[string]any{"symbol": p.Symbol, "platforms": p.Platforms})
	}
}

func (s *Server) handleGetLots(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.position(w, r); ok {
		s.writeJSON(w, http.StatusOK, map[string]any{"symbol": p.Symbol, "lots": p.Lots})
	}
}

// handleGetTransactions lists the transactions of a position, only those of
// the period containing date when ?period= is set.
func (s *Server) handleGetTransactions(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		if p, ok := s.position(w, r); ok {
			s.writeJSON(w, http.StatusOK, map[string]any{"symbol": p.Symbol, "transactions": p.Transactions})
		}
		return
	}

	rng, err := queryRange(period, r.URL.Query().Get("date"))
	if err != nil {
		s.writeError(w, badBody(err))
		return
	}
	pos, err := s.tracker.Position(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "symbol"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	p := renderer.NewPositionWithin(pos, rng, s.currency)
	s.writeJSON(w, http.StatusOK, map[string]any{"symbol": p.Symbol, "range": p.Range, "transactions": p.Transactions})
}

func queryRange(period, on string) (date.Range, error) {
	p, err := date.ParsePeriod(period)
	if err != nil {
		return date.Range{}, err
	}
	day := date.Today()
	if on != "" {
		if day, err = date.Parse(on); err != nil {
			return date.Range{}, err
		}
	}
	return date.NewRange(day, p), nil
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	var body BuyBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, badBody(err))
		return
	}
	p, err := s.tracker.Buy(r.Context(), chi.URLParam(r, "user"), portfolio.BuyRequest{
		Symbol:            body.Symbol,
		Name:              body.Name,
		Type:              body.Type,
		Quantity:          body.Quantity,
		Price:             body.Price,
		Platform:          body.Platform,
		Date:              body.Date,
		DividendAmount:    body.DividendAmount,
		DividendFrequency: body.DividendFrequency,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	pos, _ := p.Position(body.Symbol)
	s.writeJSON(w, http.StatusOK, pos)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var body SellBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, badBody(err))
		return
	}
	req := portfolio.SellRequest{
		Symbol:   body.Symbol,
		Quantity: body.Quantity,
		Price:    body.Price,
		Platform: body.Platform,
		Date:     body.Date,
	}
	res, err := s.tracker.Sell(r.Context(), chi.URLParam(r, "user"), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var remaining portfolio.Quantity
	if pos, ok := res.Portfolio.Position(body.Symbol); ok {
		remaining = pos.Quantity()
	}
	s.writeJSON(w, http.StatusOK, renderer.NewSell(body.Symbol, req.Quantity, req.Price, res.Fills, remaining, s.currency))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	p, err := s.tracker.Refresh(r.Context(), user)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, renderer.NewHolding(portfolio.Summarize(p), user, s.currency))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// errorBody is the JSON form of a failed request.
type errorBody struct {
	Error     string              `json:"error"`
	Kind      string              `json:"kind"`
	Symbol    string              `json:"symbol,omitempty"`
	Platform  string              `json:"platform,omitempty"`
	Requested *portfolio.Quantity `json:"requested,omitempty"`
	Available *portfolio.Quantity `json:"available,omitempty"`
	Shortfall *portfolio.Quantity `json:"shortfall,omitempty"`
}

var errBadBody = errors.New("invalid request")

func badBody(err error) error { return errors.Join(errBadBody, err) }

// classify maps err to its HTTP status and JSON body.
func classify(err error) (int, errorBody) {
	body := errorBody{Error: err.Error(), Kind: "internal"}

	var notFound *portfolio.PositionNotFoundError
	if errors.As(err, &notFound) {
		body.Symbol = notFound.Symbol
	}
	var oversell *portfolio.OversellError
	if errors.As(err, &oversell) {
		shortfall := oversell.Shortfall()
		body.Symbol = oversell.Symbol
		body.Platform = oversell.Platform
		body.Requested = &oversell.Requested
		body.Available = &oversell.Available
		body.Shortfall = &shortfall
	}

	switch {
	case errors.Is(err, portfolio.ErrPositionNotFound):
		body.Kind = "position_not_found"
		return http.StatusNotFound, body
	case errors.Is(err, portfolio.ErrOversellGlobal):
		body.Kind = "oversell_global"
		return http.StatusConflict, body
	case errors.Is(err, portfolio.ErrOversellPlatform):
		body.Kind = "oversell_platform"
		return http.StatusConflict, body
	case errors.Is(err, portfolio.ErrInvalidLot):
		body.Kind = "invalid_lot"
		return http.StatusBadRequest, body
	case errors.Is(err, portfolio.ErrInvalidRequest), errors.Is(err, errBadBody):
		body.Kind = "invalid_request"
		return http.StatusBadRequest, body
	case errors.Is(err, store.ErrInvalidUser):
		body.Kind = "invalid_user"
		return http.StatusBadRequest, body
	case errors.Is(err, tracker.ErrNoQuotes):
		body.Kind = "no_quotes"
		return http.StatusServiceUnavailable, body
	}
	return http.StatusInternalServerError, body
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, body := classify(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("Request failed")
	}
	s.writeJSON(w, status, body)
}
