package handlers

import (
	"net/http"

	"github.com/Dosada05/pickup-scoreboard/middleware"
	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/Dosada05/pickup-scoreboard/services"
)

type ResultsHandler struct {
	resultsService services.ResultsService
	exportService  services.ExportService
}

func NewResultsHandler(rs services.ResultsService, es services.ExportService) *ResultsHandler {
	return &ResultsHandler{resultsService: rs, exportService: es}
}

func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	results, err := h.resultsService.Results(r.Context(), gameID, middleware.EntitlementFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultsHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	results, err := h.resultsService.ClearHistory(r.Context(), gameID, middleware.EntitlementFromContext(r.Context()))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"results": results}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultsHandler) SetPlayerStat(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	playerID, err := getUUIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input playerStatInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	kind, err := models.ParseStatKind(input.Kind)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	value, err := requireValue(input.Value)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	ent := middleware.EntitlementFromContext(r.Context())
	results, err := h.resultsService.SetHistoryPlayerStat(r.Context(), gameID, playerID, kind, value, ent)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"results": results,
		"effect":  services.Effect{Type: services.EffectSnackbar, Message: "saved"},
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultsHandler) ExportResults(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	location, err := h.exportService.ExportResults(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", location)
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"url": location}, headers); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ResultsHandler) DeleteExport(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.exportService.DeleteExport(r.Context(), gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
