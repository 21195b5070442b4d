package handlers

import (
	"net/http"

	"github.com/Dosada05/swiss-tournament/services"
)

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{tournamentService: ts}
}

type registerPlayerInput struct {
	Name string `json:"name"`
}

type reportMatchInput struct {
	WinnerID int `json:"winner_id"`
	LoserID  int `json:"loser_id"`
}

type reportByeInput struct {
	PlayerID int `json:"player_id"`
}

// RegisterPlayerHandler handles POST /players
func (h *TournamentHandler) RegisterPlayerHandler(w http.ResponseWriter, r *http.Request) {
	var input registerPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.tournamentService.RegisterPlayer(r.Context(), input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListPlayersHandler handles GET /players
func (h *TournamentHandler) ListPlayersHandler(w http.ResponseWriter, r *http.Request) {
	players, err := h.tournamentService.ListPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetPlayerHandler handles GET /players/{playerID}
func (h *TournamentHandler) GetPlayerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.tournamentService.GetPlayer(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CountPlayersHandler handles GET /players/count
func (h *TournamentHandler) CountPlayersHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.tournamentService.CountPlayers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"count": count}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeletePlayersHandler handles DELETE /players
func (h *TournamentHandler) DeletePlayersHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.tournamentService.DeletePlayers(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReportMatchHandler handles POST /matches
func (h *TournamentHandler) ReportMatchHandler(w http.ResponseWriter, r *http.Request) {
	var input reportMatchInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.tournamentService.ReportMatch(r.Context(), input.WinnerID, input.LoserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMatchesHandler handles GET /matches
func (h *TournamentHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	matches, err := h.tournamentService.ListMatches(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CountMatchesHandler handles GET /matches/count
func (h *TournamentHandler) CountMatchesHandler(w http.ResponseWriter, r *http.Request) {
	count, err := h.tournamentService.CountMatches(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"count": count}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteMatchesHandler handles DELETE /matches
func (h *TournamentHandler) DeleteMatchesHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.tournamentService.DeleteMatches(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReportByeHandler handles POST /byes
func (h *TournamentHandler) ReportByeHandler(w http.ResponseWriter, r *http.Request) {
	var input reportByeInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	bye, err := h.tournamentService.ReportBye(r.Context(), input.PlayerID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"bye": bye}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StandingsHandler handles GET /standings
func (h *TournamentHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	standings, err := h.tournamentService.PlayerStandings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PairingsHandler handles GET /pairings
func (h *TournamentHandler) PairingsHandler(w http.ResponseWriter, r *http.Request) {
	pairings, err := h.tournamentService.SwissPairings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"pairings": pairings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetHandler handles DELETE /tournament
func (h *TournamentHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.tournamentService.ResetTournament(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
