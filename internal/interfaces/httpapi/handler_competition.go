package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	list := h.competitionService.List(ctx)
	writeSuccess(ctx, w, http.StatusOK, competitionListToDTO(list))
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandings")
	defer span.End()

	competitionID, err := competitionIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.standingService.Get(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get standings failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingsToDTO(view))
}

func (h *Handler) ListScorers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScorers")
	defer span.End()

	competitionID, err := competitionIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.scorerService.List(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list scorers failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scorersToDTO(view))
}

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	competitionID, err := competitionIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.teamService.List(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamsToDTO(view))
}

func (h *Handler) GetSquad(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSquad")
	defer span.End()

	competitionID, err := competitionIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamRef := strings.TrimSpace(r.PathValue("teamRef"))

	view, err := h.teamService.GetSquad(ctx, competitionID, teamRef)
	if err != nil {
		h.logger.WarnContext(ctx, "get squad failed", "competition_id", competitionID, "team", teamRef, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, squadToDTO(view))
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOverview")
	defer span.End()

	competitionID, err := competitionIDFromPath(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	view, err := h.overviewService.Get(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "get overview failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, overviewToDTO(view))
}

func (h *Handler) ListForwards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListForwards")
	defer span.End()

	view := h.forwardService.List(ctx, r.URL.Query().Get("league"))
	writeSuccess(ctx, w, http.StatusOK, forwardsToDTO(view))
}
