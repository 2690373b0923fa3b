// Package api provides the HTTP REST API server for fairvalue.
//
// It exposes endpoints for company profiles, financial statements, WACC and
// intrinsic value, plus an HTML valuation report.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/fairvalue/internal/analysis/valuation"
	"github.com/seenimoa/fairvalue/internal/app"
	"github.com/seenimoa/fairvalue/internal/provider"
	"github.com/seenimoa/fairvalue/internal/report"
	"github.com/seenimoa/fairvalue/pkg/models"
	"github.com/seenimoa/fairvalue/pkg/utils"
)

// Version is reported by /health. The CLI sets it from its build version.
var Version = "dev"

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	app    *app.App
	log    zerolog.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(a *app.App) *Server {
	srv := &Server{
		app: a,
		log: a.Logger.With().Str("component", "api").Logger(),
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and shuts it down gracefully on
// SIGINT/SIGTERM or when ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	s.log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	timeout := time.Duration(s.app.Config.API.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.correlationIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	// CORS
	origins := []string{"*"}
	if len(s.app.Config.API.CORSOrigins) > 0 {
		origins = s.app.Config.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID", CorrelationHeader},
		ExposedHeaders: []string{"X-Request-ID", CorrelationHeader},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", s.handleHealth)

	// HTML valuation report
	r.Get("/report/{ticker}", s.handleReport)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/config", s.handleGetConfig)

		// Company data
		r.Get("/profile/{ticker}", s.handleProfile)
		r.Get("/statements/{ticker}/{kind}", s.handleStatements)
		r.Get("/metrics/{ticker}", s.handleMetrics)
		r.Get("/recommendations/{ticker}", s.handleRecommendations)
		r.Get("/history/{ticker}", s.handleHistory)
		r.Get("/news/{ticker}", s.handleNews)

		// Valuation
		r.Get("/wacc/{ticker}", s.handleWACC)
		r.Get("/intrinsic/{ticker}", s.handleIntrinsic)
	})

	return r
}

// ════════════════════════════════════════════════════════════════════
// Request / Response Types
// ════════════════════════════════════════════════════════════════════

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// WACCResponse is the data of GET /api/v1/wacc/{ticker}.
type WACCResponse struct {
	*valuation.WACCReport
	RiskFreeSource string `json:"risk_free_source"`
}

// IntrinsicResponse is the data of GET /api/v1/intrinsic/{ticker}. WACC is
// omitted when the caller supplied one.
type IntrinsicResponse struct {
	Symbol         string                     `json:"symbol"`
	WACC           *valuation.WACCReport      `json:"wacc,omitempty"`
	RiskFreeSource string                     `json:"risk_free_source,omitempty"`
	Intrinsic      *valuation.IntrinsicReport `json:"intrinsic"`
}

// StatementKinds are the accepted {kind} values of the statements route.
var StatementKinds = []string{"income", "cashflow", "balance"}

// ════════════════════════════════════════════════════════════════════
// Handlers
// ════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]any{
			"status":   "ok",
			"version":  Version,
			"provider": s.app.Provider.Info().Name,
			"time":     time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}

	profile, err := s.app.Provider.Profile(r.Context(), ticker)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, APIResponse{Success: true, Data: profile})
}

func (s *Server) handleStatements(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	ctx := r.Context()

	var (
		data any
		err  error
	)
	switch kind := strings.ToLower(chi.URLParam(r, "kind")); kind {
	case "income":
		data, err = s.app.Provider.IncomeStatements(ctx, ticker)
	case "cashflow":
		data, err = s.app.Provider.CashFlowStatements(ctx, ticker)
	case "balance":
		data, err = s.app.Provider.BalanceSheets(ctx, ticker)
	default:
		writeError(w, http.StatusBadRequest, "unknown statement kind "+strconv.Quote(kind)+" (want "+strings.Join(StatementKinds, ", ")+")")
		return
	}
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, APIResponse{Success: true, Data: data})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	rows, err := s.app.Provider.ValuationMeasures(r.Context(), ticker)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, APIResponse{Success: true, Data: rows})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	rows, err := s.app.Provider.RecommendationTrend(r.Context(), ticker)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, APIResponse{Success: true, Data: rows})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	points, err := s.app.Provider.PriceHistory(r.Context(), ticker)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, APIResponse{Success: true, Data: points})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	items, err := s.app.Provider.Headlines(r.Context(), ticker, limit)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, APIResponse{Success: true, Data: items})
}

func (s *Server) handleWACC(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	q, err := parseRates(r, "risk_free", "market_return")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rf, source := s.app.RiskFreeRate(r.Context(), q["risk_free"])
	rep, err := s.app.Engine.WACC(r.Context(), ticker, rf, s.app.MarketReturn(q["market_return"]))
	if err != nil {
		writeErr(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, APIResponse{Success: true, Data: WACCResponse{WACCReport: rep, RiskFreeSource: source}})
}

func (s *Server) handleIntrinsic(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	out, err := s.value(r, ticker)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	// A report carrying a data error is still a displayable result.
	writeJSON(w, r, http.StatusOK, APIResponse{Success: true, Data: out})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ticker, ok := tickerParam(w, r)
	if !ok {
		return
	}
	var (
		out     *IntrinsicResponse
		history []models.PricePoint
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		out, err = s.value(r.WithContext(gctx), ticker)
		return err
	})
	g.Go(func() error {
		var err error
		// The chart is optional; the valuation is not.
		if history, err = s.app.Provider.PriceHistory(gctx, ticker); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Str("ticker", ticker).Msg("price history unavailable for report")
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		writeErr(w, r, err)
		return
	}

	v := &valuation.ValueReport{Symbol: out.Symbol, WACC: out.WACC, Intrinsic: out.Intrinsic}
	page, err := report.HTML(report.ValueDocument(v, s.app.Currency(), history))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}

// value resolves the query parameters of the intrinsic and report routes and
// runs the combined valuation.
func (s *Server) value(r *http.Request, ticker string) (*IntrinsicResponse, error) {
	q, err := parseRates(r, "risk_free", "market_return", "conservative", "moderate", "optimistic", "wacc")
	if err != nil {
		return nil, err
	}

	req := valuation.ValueRequest{
		Growth: s.app.Growth(app.GrowthOverrides{
			Conservative: q["conservative"],
			Moderate:     q["moderate"],
			Optimistic:   q["optimistic"],
		}),
		WACC: q["wacc"],
	}
	out := &IntrinsicResponse{}
	if req.WACC == nil {
		req.RiskFreeRate, out.RiskFreeSource = s.app.RiskFreeRate(r.Context(), q["risk_free"])
		req.MarketReturn = s.app.MarketReturn(q["market_return"])
	}

	v, err := s.app.Engine.Value(r.Context(), ticker, req)
	if err != nil {
		return nil, err
	}
	out.Symbol = v.Symbol
	out.WACC = v.WACC
	out.Intrinsic = v.Intrinsic
	return out, nil
}

// ════════════════════════════════════════════════════════════════════
// Helpers
// ════════════════════════════════════════════════════════════════════

type badRequestError struct{ err error }

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }

// tickerParam reads and validates the {ticker} URL parameter, writing a 400
// when it is unusable.
func tickerParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	ticker := chi.URLParam(r, "ticker")
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return "", false
	}
	if !utils.ValidTicker(ticker) {
		writeError(w, http.StatusBadRequest, "invalid ticker "+strconv.Quote(ticker))
		return "", false
	}
	return utils.NormalizeTicker(ticker), true
}

// parseRates parses the named optional float query parameters. Absent
// parameters are left out of the map.
func parseRates(r *http.Request, names ...string) (map[string]*float64, error) {
	out := make(map[string]*float64, len(names))
	q := r.URL.Query()
	for _, name := range names {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &badRequestError{fmt.Errorf("parameter %q must be a number, got %q", name, raw)}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &badRequestError{fmt.Errorf("parameter %q must be finite, got %q", name, raw)}
		}
		out[name] = &v
	}
	return out, nil
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var bad *badRequestError
	switch {
	case errors.As(err, &bad):
		return http.StatusBadRequest
	case errors.Is(err, valuation.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, provider.ErrDataUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
	}
	writeError(w, status, err.Error())
}

// writeJSON encodes v before sending any header, so an unencodable value
// becomes a 500 error envelope instead of an empty response.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg("failed to encode response")
		writeError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}
	writeBody(w, status, body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	// An envelope of strings always encodes.
	body, _ := json.Marshal(APIResponse{
		Success: false,
		Error:   msg,
	})
	writeBody(w, status, body)
}

func writeBody(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}
