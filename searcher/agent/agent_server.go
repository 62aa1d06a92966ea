package agent

import (
	"encoding/json"
	"net/http"

	"chomp/game"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type findMoveRequest struct {
	Position game.Position `json:"position"`
}

type findMoveResponse struct {
	Move game.Move `json:"move"`
}

// NewServer exposes a POST /findmove endpoint backed by a, and the metrics of
// gatherer on GET /metrics when gatherer is non-nil.
func NewServer(a Agent, gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /findmove", func(w http.ResponseWriter, r *http.Request) {
		handleFindMove(a, w, r)
	})
	if gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return mux
}

func handleFindMove(a Agent, w http.ResponseWriter, r *http.Request) {
	var payload findMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.Position.Rows() == 0 {
		http.Error(w, "bad request: missing position", http.StatusBadRequest)
		return
	}
	if payload.Position.IsOver() {
		http.Error(w, "bad request: game is over", http.StatusBadRequest)
		return
	}

	move, err := a.FindMove(payload.Position)
	if err != nil {
		log.Error().Err(err).Msg("agent failed to find a move")
		http.Error(w, "failed to find move: "+err.Error(), http.StatusInternalServerError)
		return
	}
	log.Info().Str("move", move.String()).Ints("heights", payload.Position.Heights()).Msg("served move")

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(findMoveResponse{Move: move}); err != nil {
		http.Error(w, "failed to encode move: "+err.Error(), http.StatusInternalServerError)
	}
}
