package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ladder-quiz/internal/app"
	"ladder-quiz/internal/domain"
	"ladder-quiz/internal/security"
	"ladder-quiz/pkg/logger"
)

const defaultTopN = 10

// LeaderboardReader is the read side of the shared leaderboard.
type LeaderboardReader interface {
	Top(n int) []domain.LeaderboardEntry
	TotalGames() int
	TotalPrizePool() int64
	AverageLevel() float64
}

type ProfileReader interface {
	Get(name string) (domain.PlayerProfile, bool)
}

// API serves the JSON endpoints next to the websocket.
type API struct {
	leaderboard LeaderboardReader
	profiles    ProfileReader
	tokens      *security.Tokens
	registry    app.GameRegistry
}

func NewAPI(leaderboard LeaderboardReader, profiles ProfileReader, tokens *security.Tokens, registry app.GameRegistry) *API {
	return &API{leaderboard: leaderboard, profiles: profiles, tokens: tokens, registry: registry}
}

// Register mounts the endpoints on mux.
func (a *API) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", a.health)
	mux.HandleFunc("/api/leaderboard", a.topEntries)
	mux.HandleFunc("/api/profile", a.profile)
}

// liveCounter is implemented by registries shared between instances.
type liveCounter interface {
	LiveGames(ctx context.Context) (int, error)
}

type healthResponse struct {
	Status      string `json:"status"`
	ActiveGames int    `json:"activeGames"`
	LiveGames   *int   `json:"liveGames,omitempty"`
}

type leaderboardResponse struct {
	Entries        []domain.LeaderboardEntry `json:"entries"`
	TotalGames     int                       `json:"totalGames"`
	TotalPrizePool int64                     `json:"totalPrizePool"`
	AverageLevel   float64                   `json:"averageLevel"`
}

type profileResponse struct {
	domain.PlayerProfile
	WinRate float64 `json:"winRate"`
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if a.registry != nil {
		resp.ActiveGames = a.registry.Count()
	}
	if lc, ok := a.registry.(liveCounter); ok {
		if n, err := lc.LiveGames(r.Context()); err == nil {
			resp.LiveGames = &n
		} else {
			logger.Warn("count live games", "error", err.Error())
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) topEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	n := defaultTopN
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "n must be a non-negative integer")
			return
		}
		n = parsed
	}
	entries := a.leaderboard.Top(n)
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{
		Entries:        entries,
		TotalGames:     a.leaderboard.TotalGames(),
		TotalPrizePool: a.leaderboard.TotalPrizePool(),
		AverageLevel:   a.leaderboard.AverageLevel(),
	})
}

// profile returns the caller's own profile, identified by the bearer token
// handed out after setup.
func (a *API) profile(w http.ResponseWriter, r *http.Request) {
	if a.tokens == nil {
		writeError(w, http.StatusServiceUnavailable, "player tokens are disabled")
		return
	}
	raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || raw == "" {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	claims, err := a.tokens.Verify(raw)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidToken) {
			logger.Error("verify token", "error", err.Error())
		}
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	p, found := a.profiles.Get(claims.Player)
	if !found {
		writeError(w, http.StatusNotFound, domain.ErrProfileNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{PlayerProfile: p, WinRate: p.WinRate()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("write response", "error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorPayload{Message: msg})
}
