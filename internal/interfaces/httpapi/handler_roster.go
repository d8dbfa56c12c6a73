package httpapi

import (
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/hoopstack/hoops-tracker/internal/domain/roster"
	"github.com/hoopstack/hoops-tracker/internal/domain/watchlist"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

func (h *Handler) CreateRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createRosterRequest
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

	created, err := h.rosterService.CreateRoster(ctx, principal, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "create roster failed", "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, rosterToDTO(*created))
}

func (h *Handler) ListRosters(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRosters")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	rosters, err := h.rosterService.ListRosters(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "list rosters failed", "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterDTO, 0, len(rosters))
	for _, ro := range rosters {
		items = append(items, rosterToDTO(ro))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	rosterID, err := pathID(r, "rosterID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.rosterService.GetRoster(ctx, principal, rosterID)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster failed", "roster_id", rosterID, "error", err)
		writeError(ctx, w, err)
		return
	}

	players := make([]playerDTO, 0, len(detail.Players))
	for _, p := range detail.Players {
		players = append(players, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, rosterDetailDTO{
		Roster:  rosterToDTO(detail.Roster),
		Players: players,
	})
}

func (h *Handler) DeleteRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteRoster")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	rosterID, err := pathID(r, "rosterID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.rosterService.DeleteRoster(ctx, principal, rosterID); err != nil {
		h.logger.WarnContext(ctx, "delete roster failed", "roster_id", rosterID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) AddRosterPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddRosterPlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	rosterID, err := pathID(r, "rosterID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req addRosterPlayerRequest
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

	entry, err := h.rosterService.AddPlayer(ctx, principal, rosterID, req.PlayerID)
	if err != nil {
		h.logger.WarnContext(ctx, "add roster player failed", "roster_id", rosterID, "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, rosterEntryToDTO(*entry))
}

func (h *Handler) RemoveRosterPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveRosterPlayer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	rosterID, err := pathID(r, "rosterID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.rosterService.RemovePlayer(ctx, principal, rosterID, playerID); err != nil {
		h.logger.WarnContext(ctx, "remove roster player failed", "roster_id", rosterID, "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "removed"})
}

func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWatchlist")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	entries, err := h.rosterService.Watchlist(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "get watchlist failed", "user_id", principal.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]watchlistEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, watchlistEntryToDTO(entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddToWatchlist")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req addWatchlistRequest
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

	item, err := h.rosterService.AddToWatchlist(ctx, principal, req.PlayerID, req.Note)
	if err != nil {
		h.logger.WarnContext(ctx, "add to watchlist failed", "player_id", req.PlayerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, watchlistItemToDTO(*item))
}

func (h *Handler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveFromWatchlist")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.rosterService.RemoveFromWatchlist(ctx, principal, playerID); err != nil {
		h.logger.WarnContext(ctx, "remove from watchlist failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "removed"})
}

type createRosterRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type addRosterPlayerRequest struct {
	PlayerID int64 `json:"player_id" validate:"required,gt=0"`
}

type addWatchlistRequest struct {
	PlayerID int64  `json:"player_id" validate:"required,gt=0"`
	Note     string `json:"note" validate:"max=500"`
}

type rosterDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type rosterDetailDTO struct {
	Roster  rosterDTO   `json:"roster"`
	Players []playerDTO `json:"players"`
}

type rosterEntryDTO struct {
	ID       int64  `json:"id"`
	RosterID int64  `json:"roster_id"`
	PlayerID int64  `json:"player_id"`
	AddedAt  string `json:"added_at"`
}

type watchlistItemDTO struct {
	ID       int64  `json:"id"`
	PlayerID int64  `json:"player_id"`
	Note     string `json:"note,omitempty"`
	AddedAt  string `json:"added_at"`
}

type watchlistEntryDTO struct {
	Item   watchlistItemDTO `json:"item"`
	Player playerDTO        `json:"player"`
}

func rosterToDTO(v roster.Roster) rosterDTO {
	return rosterDTO{
		ID:        v.ID,
		Name:      v.Name,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func rosterEntryToDTO(v roster.Entry) rosterEntryDTO {
	return rosterEntryDTO{
		ID:       v.ID,
		RosterID: v.RosterID,
		PlayerID: v.PlayerID,
		AddedAt:  v.AddedAt.UTC().Format(time.RFC3339),
	}
}

func watchlistItemToDTO(v watchlist.Item) watchlistItemDTO {
	return watchlistItemDTO{
		ID:       v.ID,
		PlayerID: v.PlayerID,
		Note:     v.Note,
		AddedAt:  v.AddedAt.UTC().Format(time.RFC3339),
	}
}

func watchlistEntryToDTO(v usecase.WatchlistEntry) watchlistEntryDTO {
	return watchlistEntryDTO{
		Item:   watchlistItemToDTO(v.Item),
		Player: playerToDTO(v.Player),
	}
}
