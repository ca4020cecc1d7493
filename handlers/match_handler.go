package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Dosada05/pickup-scoreboard/models"
	"github.com/Dosada05/pickup-scoreboard/services"
	"github.com/google/uuid"
)

// MatchHandler serves the live scoreboard of one game.
type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

type sideInput struct {
	Side string `json:"side"`
}

type changeTeamInput struct {
	Side   string    `json:"side"`
	TeamID uuid.UUID `json:"team_id"`
}

type ownGoalInput struct {
	TeamID uuid.UUID `json:"team_id"`
}

type playerStatInput struct {
	Kind  string `json:"kind"`
	Value *int   `json:"value"`
}

type scoreInput struct {
	Side  string `json:"side"`
	Value *int   `json:"value"`
}

type stayInput struct {
	Side    string `json:"side,omitempty"`
	Dismiss bool   `json:"dismiss,omitempty"`
}

func parseSide(raw string) (models.Side, error) {
	side, ok := models.ParseSide(raw)
	if !ok {
		return "", fmt.Errorf("side must be %q or %q", models.SideLeft, models.SideRight)
	}
	return side, nil
}

func requireValue(v *int) (int, error) {
	if v == nil {
		return 0, errors.New("value is required")
	}
	return *v, nil
}

// action runs a scoreboard action for the game in the URL and writes the
// resulting board and effect.
func (h *MatchHandler) action(w http.ResponseWriter, r *http.Request, fn func(gameID uuid.UUID) (*services.Board, *services.Effect, error)) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	board, effect, err := fn(gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"board": board}
	if effect != nil {
		response["effect"] = effect
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(gameID uuid.UUID) (*services.Board, *services.Effect, error) {
		b, err := h.matchService.Board(r.Context(), gameID)
		return b, nil, err
	})
}

func (h *MatchHandler) ToggleStart(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(gameID uuid.UUID) (*services.Board, *services.Effect, error) {
		return h.matchService.ToggleStart(r.Context(), gameID)
	})
}

func (h *MatchHandler) ConfirmFinish(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(gameID uuid.UUID) (*services.Board, *services.Effect, error) {
		return h.matchService.ConfirmFinish(r.Context(), gameID)
	})
}

func (h *MatchHandler) ChangeTeam(w http.ResponseWriter, r *http.Request) {
	var input changeTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	side, err := parseSide(input.Side)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	h.action(w, r, func(gameID uuid.UUID) (*services.Board, *services.Effect, error) {
		return h.matchService.ChangeTeam(r.Context(), gameID, side, input.TeamID)
	})
}

func (h *MatchHandler) SwapSides(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(gameID uuid.UUID) (*services.Board, *services.Effect, error) {
		return h.matchService.SwapSides(r.Context(), gameID)
	})
}

func (h *MatchHandler) RecordStat(w http.ResponseWriter, r *http.Request) {
	var input services.StatInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if _, err := models.ParseStatKind(string(input.Kind)); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	h.action(w, r, func(gameID uuid.UUID) (*services.Board, *services.Effect, error) {
		return h.matchService.RecordStat(r.Context(), gameID, input)
	})
}

func (h *MatchHandler) OwnGoal(w http.ResponseWriter, r *http.Request) {
	var input ownGoalInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	h.action(w, r, func(gameID uuid.UUID) (*services.Board, *services.Effect, error) {
		return h.matchService.OwnGoal(r.Context(), gameID, input.TeamID)
	})
}

func (h *MatchHandler) SetPlayerStat(w http.ResponseWriter, r *http.Request) {
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

	h.action(w, r, func(gameID uuid.UUID) (*services.Board, *services.Effect, error) {
		return h.matchService.SetPlayerStat(r.Context(), gameID, playerID, kind, value)
	})
}

func (h *MatchHandler) SetScore(w http.ResponseWriter, r *http.Request) {
	var input scoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	side, err := parseSide(input.Side)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	value, err := requireValue(input.Value)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	h.action(w, r, func(gameID uuid.UUID) (*services.Board, *services.Effect, error) {
		return h.matchService.SetScore(r.Context(), gameID, side, value)
	})
}

// ChooseStayingTeam settles a drawn match. {"dismiss": true} closes the
// prompt, which keeps the left team.
func (h *MatchHandler) ChooseStayingTeam(w http.ResponseWriter, r *http.Request) {
	var input stayInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Dismiss {
		h.action(w, r, func(gameID uuid.UUID) (*services.Board, *services.Effect, error) {
			return h.matchService.DismissStayChoice(r.Context(), gameID)
		})
		return
	}
	side, err := parseSide(input.Side)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	h.action(w, r, func(gameID uuid.UUID) (*services.Board, *services.Effect, error) {
		return h.matchService.ChooseStayingTeam(r.Context(), gameID, side)
	})
}

func (h *MatchHandler) ClearResults(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, func(gameID uuid.UUID) (*services.Board, *services.Effect, error) {
		return h.matchService.ClearResults(r.Context(), gameID)
	})
}

func (h *MatchHandler) BestPlayers(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	effect, err := h.matchService.BestPlayers(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"effect": effect}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ToggleTimer(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	timer, err := h.matchService.ToggleTimer(r.Context(), gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"timer": timer}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) SaveTimer(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.matchService.SaveTimer(r.Context(), gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *MatchHandler) GetEffect(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	response := jsonResponse{"effect": nil}
	if effect, ok := h.matchService.PendingEffect(gameID); ok {
		response["effect"] = effect
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) AckEffect(w http.ResponseWriter, r *http.Request) {
	gameID, err := getUUIDFromURL(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if !h.matchService.AckEffect(gameID) {
		notFoundResponse(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
