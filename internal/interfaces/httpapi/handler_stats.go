package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/hoopstack/hoops-tracker/internal/domain/player"
	"github.com/hoopstack/hoops-tracker/internal/domain/playerstat"
	"github.com/hoopstack/hoops-tracker/internal/domain/team"
	"github.com/hoopstack/hoops-tracker/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.statsService.ListTeams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	teamID, err := pathID(r, "teamID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	t, err := h.statsService.GetTeam(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(*t))
}

func (h *Handler) ListStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandings")
	defer span.End()

	seasonID, err := queryInt64(r, "season_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	conference := strings.TrimSpace(r.URL.Query().Get("conference"))

	rows, err := h.statsService.SeasonStandings(ctx, seasonID, conference)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, standingToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListLeagueLeaders(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueLeaders")
	defer span.End()

	seasonID, err := queryInt64(r, "season_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	statKey := strings.TrimSpace(r.PathValue("statKey"))

	leaders, err := h.statsService.LeagueLeaders(ctx, seasonID, statKey, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list leaders failed", "stat_key", statKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaders)
}

func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchPlayers")
	defer span.End()

	filter := player.SearchFilter{
		Query: strings.TrimSpace(r.URL.Query().Get("q")),
	}

	teamID, err := queryInt64(r, "team_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if teamID > 0 {
		filter.TeamID = &teamID
	}
	if filter.IncludeInactive, err = queryBool(r, "include_inactive"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if filter.Limit, err = queryInt(r, "limit"); err != nil {
		writeError(ctx, w, err)
		return
	}
	if filter.Offset, err = queryInt(r, "offset"); err != nil {
		writeError(ctx, w, err)
		return
	}

	players, total, err := h.statsService.SearchPlayers(ctx, filter)
	if err != nil {
		h.logger.WarnContext(ctx, "search players failed", "query", filter.Query, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, playerSearchDTO{
		Players: items,
		Total:   total,
	})
}

func (h *Handler) GetPlayerDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerDetail")
	defer span.End()

	playerID, err := pathID(r, "playerID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	seasonID, err := queryInt64(r, "season_id")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	detail, err := h.statsService.PlayerDetail(ctx, playerID, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player detail failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerDetailToDTO(detail))
}

type teamDTO struct {
	ID           int64  `json:"id"`
	NBATeamID    int64  `json:"nba_team_id"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	City         string `json:"city"`
	Conference   string `json:"conference"`
	Division     string `json:"division"`
}

type playerDTO struct {
	ID           int64  `json:"id"`
	NBAPlayerID  int64  `json:"nba_player_id"`
	Name         string `json:"name"`
	TeamID       *int64 `json:"team_id,omitempty"`
	Position     string `json:"position"`
	JerseyNumber string `json:"jersey_number"`
	HeightInches *int   `json:"height_inches,omitempty"`
	WeightPounds *int   `json:"weight_pounds,omitempty"`
	IsActive     bool   `json:"is_active"`
}

type playerSearchDTO struct {
	Players []playerDTO `json:"players"`
	Total   int         `json:"total"`
}

type standingDTO struct {
	TeamID       int64   `json:"team_id"`
	TeamName     string  `json:"team_name"`
	Abbreviation string  `json:"abbreviation"`
	Conference   string  `json:"conference"`
	Rank         int     `json:"rank"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Ties         int     `json:"ties"`
	GamesPlayed  int     `json:"games_played"`
	WinPct       float64 `json:"win_pct"`
	GamesBehind  float64 `json:"games_behind"`
}

type gameStatLineDTO struct {
	NBAGameID int64   `json:"nba_game_id"`
	GameDate  string  `json:"game_date"`
	StatKey   string  `json:"stat_key"`
	Value     float64 `json:"value"`
}

type playerDetailDTO struct {
	Player      playerDTO                  `json:"player"`
	Team        *teamDTO                   `json:"team,omitempty"`
	SeasonID    int64                      `json:"season_id"`
	SeasonLabel string                     `json:"season_label"`
	GamesPlayed int                        `json:"games_played"`
	Averages    map[playerstat.Key]float64 `json:"averages,omitempty"`
	RecentGames []gameStatLineDTO          `json:"recent_games"`
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:           v.ID,
		NBATeamID:    v.NBATeamID,
		Name:         v.Name,
		Abbreviation: v.Abbreviation,
		City:         v.City,
		Conference:   string(v.Conference),
		Division:     v.Division,
	}
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:           v.ID,
		NBAPlayerID:  v.NBAPlayerID,
		Name:         v.Name,
		TeamID:       v.TeamID,
		Position:     v.Position,
		JerseyNumber: v.JerseyNumber,
		HeightInches: v.HeightInches,
		WeightPounds: v.WeightPounds,
		IsActive:     v.IsActive,
	}
}

func standingToDTO(row usecase.StandingRow) standingDTO {
	return standingDTO{
		TeamID:       row.TeamID,
		TeamName:     row.TeamName,
		Abbreviation: row.Abbreviation,
		Conference:   string(row.Conference),
		Rank:         row.Rank,
		Wins:         row.Wins,
		Losses:       row.Losses,
		Ties:         row.Ties,
		GamesPlayed:  row.GamesPlayed,
		WinPct:       row.WinPct,
		GamesBehind:  row.GamesBehind,
	}
}

func playerDetailToDTO(detail *usecase.PlayerDetail) playerDetailDTO {
	out := playerDetailDTO{
		Player:      playerToDTO(detail.Player),
		SeasonID:    detail.Season.ID,
		SeasonLabel: detail.Season.Label(),
		RecentGames: make([]gameStatLineDTO, 0, len(detail.RecentGames)),
	}
	if detail.Team != nil {
		teamOut := teamToDTO(*detail.Team)
		out.Team = &teamOut
	}
	if detail.Averages != nil {
		out.GamesPlayed = detail.Averages.GamesPlayed
		out.Averages = detail.Averages.PerGame
	}
	for _, stat := range detail.RecentGames {
		out.RecentGames = append(out.RecentGames, gameStatLineDTO{
			NBAGameID: stat.NBAGameID,
			GameDate:  stat.GameDate.UTC().Format(time.DateOnly),
			StatKey:   string(stat.Key),
			Value:     stat.Value,
		})
	}
	return out
}
