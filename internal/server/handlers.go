package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rickgao/price-tracker/internal/model"
	"github.com/rickgao/price-tracker/internal/query"
	"github.com/rickgao/price-tracker/internal/version"
)

const (
	msgMissingID    = "Missing asset id"
	msgNotFound     = "Asset not found"
	msgInitializing = "Data initializing, please try again shortly"
)

type errorBody struct {
	Error string `json:"error"`
}

// handlePrice serves GET /api/price?id=<id>.
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	s.writeSnapshot(w, r.URL.Query().Get("id"))
}

// handleAsset serves GET /api/assets/{id}.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	s.writeSnapshot(w, chi.URLParam(r, "id"))
}

func (s *Server) writeSnapshot(w http.ResponseWriter, id string) {
	if id == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: msgMissingID})
		return
	}

	snap, err := s.deps.Queries.Resolve(id)
	switch {
	case errors.Is(err, query.ErrUnknownAsset):
		writeJSON(w, http.StatusNotFound, errorBody{Error: msgNotFound})
	case errors.Is(err, query.ErrNotReady):
		w.Header().Set("Retry-After", "5")
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: msgInitializing})
	case err != nil:
		s.logger.Error("failed to resolve asset", "asset", id, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: http.StatusText(http.StatusInternalServerError)})
	default:
		writeJSON(w, http.StatusOK, snap)
	}
}

// handleAssets serves GET /api/assets.
func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	assets := s.deps.Queries.Assets()
	writeJSON(w, http.StatusOK, struct {
		Count  int                 `json:"count"`
		Assets []model.AssetConfig `json:"assets"`
	}{
		Count:  len(assets),
		Assets: assets,
	})
}

type cycleView struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	Duration    string    `json:"duration"`
	Updated     []string  `json:"updated"`
	Failed      []string  `json:"failed"`
	Skipped     []string  `json:"skipped"`
	RateLimited bool      `json:"rate_limited"`
	NextDelay   string    `json:"next_delay"`
}

type schedulerView struct {
	State        string     `json:"state"`
	CurrentAsset string     `json:"current_asset,omitempty"`
	Cycles       int64      `json:"cycles"`
	NextCycleAt  *time.Time `json:"next_cycle_at,omitempty"`
	LastCycle    *cycleView `json:"last_cycle,omitempty"`
}

type assetHealth struct {
	Ready     bool       `json:"ready"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type healthBody struct {
	Status    string                 `json:"status"` // "ok", "initializing", "degraded"
	Version   string                 `json:"version"`
	Commit    string                 `json:"commit"`
	Scheduler schedulerView          `json:"scheduler"`
	Assets    map[string]assetHealth `json:"assets"`
}

// handleHealth serves GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.deps.Status.Status()

	health := healthBody{
		Status:  "ok",
		Version: version.Version,
		Commit:  version.Commit,
		Scheduler: schedulerView{
			State:        st.State.String(),
			CurrentAsset: st.CurrentAsset,
			Cycles:       st.Cycles,
		},
		Assets: make(map[string]assetHealth),
	}

	if !st.NextCycleAt.IsZero() {
		next := st.NextCycleAt
		health.Scheduler.NextCycleAt = &next
	}
	if c := st.LastCycle; c != nil {
		health.Scheduler.LastCycle = &cycleView{
			ID:          c.ID.String(),
			StartedAt:   c.StartedAt,
			Duration:    c.Duration.String(),
			Updated:     nonNil(c.Updated),
			Failed:      nonNil(c.Failed),
			Skipped:     nonNil(c.Skipped),
			RateLimited: c.RateLimited,
			NextDelay:   c.NextDelay.String(),
		}
		if c.RateLimited {
			health.Status = "degraded"
		}
	}

	ready := 0
	for _, a := range s.deps.Queries.Assets() {
		var ah assetHealth
		if t, ok := s.deps.Updates.UpdatedAt(a.ID); ok {
			ah.Ready = true
			ah.UpdatedAt = &t
			ready++
		}
		health.Assets[a.ID] = ah
	}
	if ready == 0 {
		health.Status = "initializing"
	}

	writeJSON(w, http.StatusOK, health)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
