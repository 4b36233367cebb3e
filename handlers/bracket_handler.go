package handlers

import (
	"net/http"

	"github.com/courtside-app/backend/services"
)

type BracketHandler struct {
	bracketService services.BracketService
}

func NewBracketHandler(bracketService services.BracketService) *BracketHandler {
	return &BracketHandler{bracketService: bracketService}
}

// GetRoundHandler returns one round of the bracket. Rounds past the persisted
// bracket come back as virtual pairings derived from the previous round.
func (h *BracketHandler) GetRoundHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	roundNumber, err := getIDFromURL(r, "roundNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	view, err := h.bracketService.GetRoundMatches(r.Context(), tournamentID, roundNumber)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"round": view}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GetBracketSummaryHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	totalRounds, err := h.bracketService.GetTotalRounds(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	rounds := make([]jsonResponse, 0, totalRounds)
	for round := 1; round <= totalRounds; round++ {
		rounds = append(rounds, jsonResponse{
			"round": round,
			"name":  h.bracketService.GetRoundName(round, totalRounds),
		})
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{
		"tournament_id": tournamentID,
		"total_rounds":  totalRounds,
		"rounds":        rounds,
	}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) CanAdvanceHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	roundNumber, err := getIDFromURL(r, "roundNumber")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	canAdvance, err := h.bracketService.CanAdvanceToNextRound(r.Context(), tournamentID, roundNumber)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"can_advance": canAdvance}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type submitResultRequest struct {
	Player1Score string `json:"player1_score"`
	Player2Score string `json:"player2_score"`
}

func (h *BracketHandler) SubmitResultHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input submitResultRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.bracketService.SubmitResult(r.Context(), matchID, input.Player1Score, input.Player2Score)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type submitResultManualRequest struct {
	WinnerID     int    `json:"winner_id"`
	Player1Score string `json:"player1_score,omitempty"`
	Player2Score string `json:"player2_score,omitempty"`
}

func (h *BracketHandler) SubmitResultManuallyHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input submitResultManualRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.bracketService.SubmitResultManually(r.Context(), matchID, input.WinnerID, input.Player1Score, input.Player2Score)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type disqualifyRequest struct {
	PlayerID int `json:"player_id"`
}

func (h *BracketHandler) DisqualifyPlayerHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input disqualifyRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	cancelled, err := h.bracketService.DisqualifyPlayer(r.Context(), tournamentID, input.PlayerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{
		"player_id":         input.PlayerID,
		"matches_cancelled": cancelled,
	}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
