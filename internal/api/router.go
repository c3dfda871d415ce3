package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/parityagent-go/internal/api/handler"
	"github.com/mcoot/parityagent-go/internal/api/rpc"
	"github.com/mcoot/parityagent-go/internal/middleware"
)

// RouterConfig holds configuration for the agent router
type RouterConfig struct {
	Logger *slog.Logger
	Tools  *handler.Tools
}

// NewRouter creates the agent's HTTP routes: the JSON-RPC tool endpoint
// plus the info, health, and stats endpoints.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, rpcPanicHandler)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	d := &dispatcher{tools: cfg.Tools, logger: cfg.Logger}

	r.Handle("/mcp", d).Methods(http.MethodPost)
	r.HandleFunc("/", infoHandler(cfg.Tools)).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/stats", statsHandler(cfg.Tools)).Methods(http.MethodGet)

	return r
}

// rpcPanicHandler answers a panicking request with a JSON-RPC internal
// error rather than a bare 500
func rpcPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	rpc.Write(w, http.StatusInternalServerError, rpc.NewErrorResponse(nil,
		rpc.NewError(rpc.CodeInternalError, "Internal server error")))
}

func infoHandler(tools *handler.Tools) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracker := tools.Tracker()
		writeJSON(w, map[string]any{
			"status":        "online",
			"service":       "Player Agent",
			"player_id":     tracker.PlayerID(),
			"display_name":  tracker.DisplayName(),
			"registered":    tracker.Registered(),
			"strategy_mode": tools.Engine().Mode(),
			"stats":         tracker.Stats(),
		})
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"status": "healthy"})
}

func statsHandler(tools *handler.Tools) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracker := tools.Tracker()
		stats := tracker.Stats()
		writeJSON(w, map[string]any{
			"player_id":     tracker.PlayerID(),
			"display_name":  tracker.DisplayName(),
			"stats":         stats,
			"win_rate":      tracker.WinRate(),
			"total_matches": stats.TotalMatches,
		})
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}
