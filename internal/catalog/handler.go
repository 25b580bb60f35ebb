package catalog

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gamezilla/storefront/internal/cache"
)

type Handler struct {
	repo   *GameRepository
	cache  *cache.GameCache
	logger *slog.Logger
}

// NewHandler builds the catalog handler; gameCache may be nil when no redis
// instance is configured.
func NewHandler(repo *GameRepository, gameCache *cache.GameCache, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		cache:  gameCache,
		logger: logger,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{
		Genre:    r.URL.Query().Get("genre"),
		Platform: r.URL.Query().Get("platform"),
		Sort:     r.URL.Query().Get("sort"),
	}

	games, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list games", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, games)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	if h.cache != nil {
		game, err := h.cache.Get(r.Context(), gameID)
		if err == nil {
			h.writeJSON(w, http.StatusOK, game)
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			h.logger.Error("game cache read failed", "error", err, "game_id", gameID)
		}
	}

	game, err := h.repo.Get(r.Context(), gameID)
	if err != nil {
		h.logger.Error("failed to get game", "error", err, "game_id", gameID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if game == nil {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), game); err != nil {
			h.logger.Error("game cache write failed", "error", err, "game_id", gameID)
		}
	}

	h.writeJSON(w, http.StatusOK, game)
}

func (h *Handler) HandleGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.repo.Genres(r.Context())
	if err != nil {
		h.logger.Error("failed to list genres", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, genres)
}

func (h *Handler) HandlePlatforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.repo.Platforms(r.Context())
	if err != nil {
		h.logger.Error("failed to list platforms", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, platforms)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var params GameParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if params.Title == "" {
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	gameID, err := h.repo.Create(r.Context(), params)
	if err != nil {
		h.logger.Error("failed to create game", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("game created", "game_id", gameID, "title", params.Title)
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Game added successfully",
		"game_id": gameID,
	})
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	var params GameParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.repo.Update(r.Context(), gameID, params)
	if err != nil {
		h.logger.Error("failed to update game", "error", err, "game_id", gameID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if !updated {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	h.invalidate(r, gameID)

	h.logger.Info("game updated", "game_id", gameID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Game updated successfully"))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	deleted, err := h.repo.Delete(r.Context(), gameID)
	if err != nil {
		h.logger.Error("failed to delete game", "error", err, "game_id", gameID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if !deleted {
		http.Error(w, "Game not found", http.StatusNotFound)
		return
	}

	h.invalidate(r, gameID)

	h.logger.Info("game deleted", "game_id", gameID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Game deleted successfully"))
}

func (h *Handler) invalidate(r *http.Request, gameID int64) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(r.Context(), gameID); err != nil {
		h.logger.Error("game cache invalidation failed", "error", err, "game_id", gameID)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
