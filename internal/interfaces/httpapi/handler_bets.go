package httpapi

import (
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/hoopstack/hoops-tracker/internal/domain/bet"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

func (h *Handler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PlaceBet")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req usecase.PlaceBetInput
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	placed, err := h.betService.PlaceBet(ctx, principal, req)
	if err != nil {
		h.logger.WarnContext(ctx, "place bet failed", "user_id", principal.ID, "game_id", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, betToDTO(*placed))
}

func (h *Handler) ListBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListBets")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	bets, err := h.betService.ListBets(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "list bets failed", "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]betDTO, 0, len(bets))
	for _, b := range bets {
		items = append(items, betToDTO(b))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBet")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	betID, err := pathID(r, "betID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	found, err := h.betService.GetBet(ctx, principal, betID)
	if err != nil {
		h.logger.WarnContext(ctx, "get bet failed", "bet_id", betID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, betToDTO(*found))
}

func (h *Handler) CancelBet(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelBet")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	betID, err := pathID(r, "betID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.betService.CancelBet(ctx, principal, betID); err != nil {
		h.logger.WarnContext(ctx, "cancel bet failed", "bet_id", betID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// SettleGameBets resolves all open bets for one final game. Internal
// job endpoint; schedulers call it after a stats sync completes.
func (h *Handler) SettleGameBets(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SettleGameBets")
	defer span.End()

	gameID, err := pathID(r, "gameID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.betService.SettleGame(ctx, gameID)
	if err != nil {
		h.logger.WarnContext(ctx, "settle game bets failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

type betDTO struct {
	ID        int64   `json:"id"`
	PlayerID  int64   `json:"player_id"`
	GameID    int64   `json:"game_id"`
	StatKey   string  `json:"stat_key"`
	Line      float64 `json:"line"`
	Side      string  `json:"side"`
	Amount    float64 `json:"amount"`
	Status    string  `json:"status"`
	SettledAt string  `json:"settled_at,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func betToDTO(v bet.Bet) betDTO {
	out := betDTO{
		ID:        v.ID,
		PlayerID:  v.PlayerID,
		GameID:    v.GameID,
		StatKey:   v.StatKey,
		Line:      v.Line,
		Side:      string(v.Side),
		Amount:    v.Amount,
		Status:    string(v.Status),
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
	if v.SettledAt != nil {
		out.SettledAt = v.SettledAt.UTC().Format(time.RFC3339)
	}
	return out
}
