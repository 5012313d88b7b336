package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"blackjack-lite/apps/server/internal/ledger"
	"blackjack-lite/apps/server/internal/telemetry"
	"blackjack-lite/blackjack"
	"blackjack-lite/gesture"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GestureSource is the detector surface the transport needs.
type GestureSource interface {
	Sample() gesture.Sample
	Reset()
	Statistics() gesture.Statistics
}

type Handler struct {
	engine  *blackjack.Engine
	gesture GestureSource
	maxBet  int64
	tracer  trace.Tracer
}

type errorResponse struct {
	Error string              `json:"error"`
	State *blackjack.Snapshot `json:"state,omitempty"`
}

type betRequest struct {
	Bet int64 `json:"bet"`
}

type gestureRequest struct {
	Gesture string `json:"gesture"`
}

func NewHandler(engine *blackjack.Engine, detector GestureSource, maxBet int64) *Handler {
	return &Handler{
		engine:  engine,
		gesture: detector,
		maxBet:  maxBet,
		tracer:  telemetry.Tracer(),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.handleRoot).Methods(http.MethodGet)
	r.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/game/state", h.handleState).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/game/bet", h.handleBet).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/game/hit", h.handleHit).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/game/stand", h.handleStand).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/game/new-round", h.handleNewRound).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/game/reset", h.handleReset).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/game/gesture", h.handleGestureAction).Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/api/gesture", h.handleGestureSample).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/gesture/reset", h.handleGestureReset).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/gesture/stats", h.handleGestureStats).Methods(http.MethodGet, http.MethodOptions)
}

// NewRouter wires the game routes, the round history and the middleware chain.
func NewRouter(h *Handler, history ledger.Service, origins []string) *mux.Router {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	ledger.NewHTTPHandler(history, SessionID).RegisterRoutes(r)
	r.Use(CORS(r, origins), AccessLog)
	return r
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"service": "blackjack-lite", "status": "ok"})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": h.engine.Store().Len(),
	})
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	id := ensureSession(w, r)
	_, span := h.startSpan(r.Context(), "blackjack.state", id)
	defer span.End()
	writeJSON(w, http.StatusOK, h.engine.Session(id))
}

func (h *Handler) handleBet(w http.ResponseWriter, r *http.Request) {
	id := ensureSession(w, r)
	_, span := h.startSpan(r.Context(), "blackjack.bet", id)
	defer span.End()

	var req betRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	span.SetAttributes(attribute.Int64("blackjack.bet", req.Bet))

	if h.maxBet > 0 && req.Bet > h.maxBet {
		h.writeEngineError(w, r, span, blackjack.Snapshot{}, &blackjack.InvalidBetError{
			Reason: blackjack.BetExceedsLimit,
			Amount: req.Bet,
			Limit:  h.maxBet,
		})
		return
	}
	snap, err := h.engine.PlaceBet(id, req.Bet)
	h.respond(w, r, span, snap, err)
}

func (h *Handler) handleHit(w http.ResponseWriter, r *http.Request) {
	id := ensureSession(w, r)
	_, span := h.startSpan(r.Context(), "blackjack.hit", id)
	defer span.End()
	snap, err := h.engine.Hit(id)
	h.respond(w, r, span, snap, err)
}

func (h *Handler) handleStand(w http.ResponseWriter, r *http.Request) {
	id := ensureSession(w, r)
	_, span := h.startSpan(r.Context(), "blackjack.stand", id)
	defer span.End()
	snap, err := h.engine.Stand(id)
	h.respond(w, r, span, snap, err)
}

func (h *Handler) handleNewRound(w http.ResponseWriter, r *http.Request) {
	id := ensureSession(w, r)
	_, span := h.startSpan(r.Context(), "blackjack.new_round", id)
	defer span.End()
	writeJSON(w, http.StatusOK, h.engine.NewRound(id))
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	id := ensureSession(w, r)
	_, span := h.startSpan(r.Context(), "blackjack.reset", id)
	defer span.End()
	writeJSON(w, http.StatusOK, h.engine.Reset(id))
}

func (h *Handler) handleGestureAction(w http.ResponseWriter, r *http.Request) {
	id := ensureSession(w, r)
	_, span := h.startSpan(r.Context(), "blackjack.gesture", id)
	defer span.End()

	var req gestureRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	label, err := gesture.ParseLabel(req.Gesture)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	span.SetAttributes(attribute.String("gesture.label", label.String()))
	snap, err := h.engine.ApplyAction(id, blackjack.ParseAction(label.String()))
	h.respond(w, r, span, snap, err)
}

func (h *Handler) handleGestureSample(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.gesture.Sample())
}

func (h *Handler) handleGestureReset(w http.ResponseWriter, _ *http.Request) {
	h.gesture.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleGestureStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.gesture.Statistics())
}

func (h *Handler) startSpan(ctx context.Context, name, sessionID string) (context.Context, trace.Span) {
	return h.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("session.key", ledger.SessionKey(sessionID)[:16]),
	))
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, span trace.Span, snap blackjack.Snapshot, err error) {
	if err != nil {
		h.writeEngineError(w, r, span, snap, err)
		return
	}
	span.SetAttributes(attribute.String("blackjack.phase", snap.Phase.String()))
	writeJSON(w, http.StatusOK, snap)
}

// writeEngineError maps engine errors to statuses. Rejections that leave a
// session behind echo its unchanged state.
func (h *Handler) writeEngineError(w http.ResponseWriter, r *http.Request, span trace.Span, snap blackjack.Snapshot, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	var status int
	switch {
	case errors.Is(err, blackjack.ErrInvalidBet), errors.Is(err, blackjack.ErrNotInitialized):
		status = http.StatusBadRequest
	case errors.Is(err, blackjack.ErrWrongPhase), errors.Is(err, blackjack.ErrDeckExhausted):
		status = http.StatusConflict
	default:
		log.Printf("[HTTP] %s %s failed: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := errorResponse{Error: err.Error()}
	if snap.ID != "" {
		resp.State = &snap
	}
	writeJSON(w, status, resp)
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
