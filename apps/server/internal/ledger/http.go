package ledger

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// SessionResolver extracts the caller's session id from a request.
type SessionResolver func(r *http.Request) (string, bool)

type HTTPHandler struct {
	ledger  Service
	resolve SessionResolver
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPHandler(ledgerService Service, resolve SessionResolver) *HTTPHandler {
	return &HTTPHandler{
		ledger:  ledgerService,
		resolve: resolve,
	}
}

func (h *HTTPHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/game/history", h.handleRecent).Methods(http.MethodGet, http.MethodOptions)
}

func (h *HTTPHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := h.resolve(r)
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"items": []Round{}})
		return
	}

	limit := parseLimit(r.URL.Query().Get("limit"))
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	items, err := h.ledger.ListRecent(ctx, sessionID, limit)
	if err != nil {
		log.Printf("[Ledger] list recent rounds failed: %v", err)
		writeError(w, http.StatusInternalServerError, "query recent rounds failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
	})
}

func parseLimit(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultListLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return defaultListLimit
	}
	if n > maxListLimit {
		return maxListLimit
	}
	return n
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
