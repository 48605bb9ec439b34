package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/kjannette/trade-dashboard/internal/analytics"
	"github.com/kjannette/trade-dashboard/internal/logger"
	"github.com/kjannette/trade-dashboard/internal/models"
)

const maxQueryLimit = 1000

// TradeLoader produces the trades for one request. Implementations read the
// whole source on every call.
type TradeLoader interface {
	Load(ctx context.Context) (*models.TradeBatch, error)
}

// Pinger reports database reachability for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Alerter forwards operational alerts, e.g. to a chat webhook.
type Alerter interface {
	Alert(ctx context.Context, msg string) bool
}

type Options struct {
	Port            int
	CORSAllowOrigin string
	StaticDir       string
	SourceKind      string
	StrictFormat    bool

	// Pinger is nil when no database is configured.
	Pinger  Pinger
	Alerter Alerter
}

type Server struct {
	loader     TradeLoader
	engine     *analytics.Engine
	opts       Options
	handler    http.Handler
	httpServer *http.Server
}

func NewServer(loader TradeLoader, engine *analytics.Engine, opts Options) *Server {
	s := &Server{
		loader: loader,
		engine: engine,
		opts:   opts,
	}

	mux := http.NewServeMux()

	// Analytics
	mux.HandleFunc("GET /api/trades", s.handleAnalytics)
	mux.HandleFunc("GET /v1/analytics", s.handleAnalytics)

	// Normalized trades
	mux.HandleFunc("GET /v1/trades", s.handleTrades)

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	if info, err := os.Stat(opts.StaticDir); opts.StaticDir != "" && err == nil && info.IsDir() {
		mux.Handle("GET /", http.FileServer(http.Dir(opts.StaticDir)))
	}

	s.handler = requestIDMiddleware(accessLogMiddleware(recoverMiddleware(corsMiddleware(mux, opts.CORSAllowOrigin))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", opts.Port),
		Handler:      s.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	ctx := context.Background()
	logger.Info(ctx, "dashboard API started",
		zap.String("addr", "http://localhost"+s.httpServer.Addr),
		zap.String("source", s.opts.SourceKind),
		zap.String("static_dir", s.opts.StaticDir))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- validation helpers ---

func parseLimit(r *http.Request, defaultLimit int) int {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultLimit
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return defaultLimit
	}
	if n > maxQueryLimit {
		return maxQueryLimit
	}
	return n
}

// --- response helpers ---

// writeJSON encodes before writing the status so an unencodable value
// becomes a 500 rather than an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error(context.Background(), "encode response", zap.Error(err))
		status = http.StatusInternalServerError
		body = []byte(`{"error":"failed to encode response"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
