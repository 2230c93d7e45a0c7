package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.HandleFunc("POST /v1/auth/logout", handler.Logout)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier SessionVerifier) {
	mux.Handle("GET /v1/competitions", RequireAuth(verifier, http.HandlerFunc(handler.ListCompetitions)))
	mux.Handle("GET /v1/competitions/{competitionID}/standings", RequireAuth(verifier, http.HandlerFunc(handler.GetStandings)))
	mux.Handle("GET /v1/competitions/{competitionID}/scorers", RequireAuth(verifier, http.HandlerFunc(handler.ListScorers)))
	mux.Handle("GET /v1/competitions/{competitionID}/teams", RequireAuth(verifier, http.HandlerFunc(handler.ListTeams)))
	mux.Handle("GET /v1/competitions/{competitionID}/teams/{teamRef}/squad", RequireAuth(verifier, http.HandlerFunc(handler.GetSquad)))
	mux.Handle("GET /v1/competitions/{competitionID}/overview", RequireAuth(verifier, http.HandlerFunc(handler.GetOverview)))
	mux.Handle("GET /v1/forwards", RequireAuth(verifier, http.HandlerFunc(handler.ListForwards)))
	mux.Handle("POST /v1/reports/{kind}", RequireAuth(verifier, http.HandlerFunc(handler.ExportReport)))
}
