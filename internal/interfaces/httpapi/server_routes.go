package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{teamID}", handler.GetTeam)
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/stats/leaders/{statKey}", handler.ListLeagueLeaders)
	mux.HandleFunc("GET /v1/players", handler.SearchPlayers)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayerDetail)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedRosterRoutes(mux, handler, verifier)
	registerAuthorizedWatchlistRoutes(mux, handler, verifier)
	registerAuthorizedBetRoutes(mux, handler, verifier)
	registerAdminSyncRoutes(mux, handler, verifier)
}

func registerAuthorizedRosterRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/rosters", RequireAuth(verifier, http.HandlerFunc(handler.CreateRoster)))
	mux.Handle("GET /v1/rosters", RequireAuth(verifier, http.HandlerFunc(handler.ListRosters)))
	mux.Handle("GET /v1/rosters/{rosterID}", RequireAuth(verifier, http.HandlerFunc(handler.GetRoster)))
	mux.Handle("DELETE /v1/rosters/{rosterID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteRoster)))
	mux.Handle("POST /v1/rosters/{rosterID}/players", RequireAuth(verifier, http.HandlerFunc(handler.AddRosterPlayer)))
	mux.Handle("DELETE /v1/rosters/{rosterID}/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.RemoveRosterPlayer)))
}

func registerAuthorizedWatchlistRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/watchlist", RequireAuth(verifier, http.HandlerFunc(handler.GetWatchlist)))
	mux.Handle("POST /v1/watchlist", RequireAuth(verifier, http.HandlerFunc(handler.AddToWatchlist)))
	mux.Handle("DELETE /v1/watchlist/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.RemoveFromWatchlist)))
}

func registerAuthorizedBetRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/bets", RequireAuth(verifier, http.HandlerFunc(handler.PlaceBet)))
	mux.Handle("GET /v1/bets", RequireAuth(verifier, http.HandlerFunc(handler.ListBets)))
	mux.Handle("GET /v1/bets/{betID}", RequireAuth(verifier, http.HandlerFunc(handler.GetBet)))
	mux.Handle("POST /v1/bets/{betID}/cancel", RequireAuth(verifier, http.HandlerFunc(handler.CancelBet)))
}

// Sync control is admin-only: starting, watching and cancelling jobs.
func registerAdminSyncRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/admin/sync", RequireAdmin(verifier, http.HandlerFunc(handler.StartSync)))
	mux.Handle("GET /v1/admin/sync/jobs", RequireAdmin(verifier, http.HandlerFunc(handler.ListSyncJobs)))
	mux.Handle("GET /v1/admin/sync/jobs/{jobID}", RequireAdmin(verifier, http.HandlerFunc(handler.GetSyncJob)))
	mux.Handle("POST /v1/admin/sync/jobs/{jobID}/cancel", RequireAdmin(verifier, http.HandlerFunc(handler.CancelSyncJob)))
	mux.Handle("GET /v1/admin/sync/logs", RequireAdmin(verifier, http.HandlerFunc(handler.ListSyncLogs)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/games/{gameID}/settle-bets", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.SettleGameBets)))
}
