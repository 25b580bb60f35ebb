package reviews

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gamezilla/storefront/internal/auth"
)

type Handler struct {
	repo   *ReviewRepository
	logger *slog.Logger
}

func NewHandler(repo *ReviewRepository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

func (h *Handler) HandleListForGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(r.PathValue("gameId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	reviews, err := h.repo.ListForGame(r.Context(), gameID)
	if err != nil {
		h.logger.Error("failed to list reviews", "error", err, "game_id", gameID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(r.PathValue("reviewId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid review id", http.StatusBadRequest)
		return
	}

	review, err := h.repo.Get(r.Context(), reviewID)
	if err != nil {
		h.logger.Error("failed to get review", "error", err, "review_id", reviewID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if review == nil {
		http.Error(w, "Review not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, http.StatusOK, review)
}

type addReviewRequest struct {
	GameID  int64   `json:"game_id"`
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	var req addReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		http.Error(w, "rating must be between 1 and 5", http.StatusBadRequest)
		return
	}

	if err := h.repo.Add(r.Context(), user.ID, req.GameID, req.Rating, req.Comment); err != nil {
		h.logger.Error("failed to add review", "error", err, "user_id", user.ID, "game_id", req.GameID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("review added", "user_id", user.ID, "game_id", req.GameID, "rating", req.Rating)
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte("Review added successfully"))
}

type updateReviewRequest struct {
	Rating  int     `json:"rating"`
	Comment *string `json:"comment"`
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	reviewID, err := strconv.ParseInt(r.PathValue("reviewId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid review id", http.StatusBadRequest)
		return
	}

	var req updateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.repo.UpdateOwned(r.Context(), reviewID, user.ID, req.Rating, req.Comment)
	if err != nil {
		h.logger.Error("failed to update review", "error", err, "review_id", reviewID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if !updated {
		http.Error(w, "You are not authorized to update this review", http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Review updated successfully"))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	reviewID, err := strconv.ParseInt(r.PathValue("reviewId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid review id", http.StatusBadRequest)
		return
	}

	deleted, err := h.repo.DeleteOwned(r.Context(), reviewID, user.ID)
	if err != nil {
		h.logger.Error("failed to delete review", "error", err, "review_id", reviewID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if !deleted {
		http.Error(w, "You are not authorized to delete this review", http.StatusForbidden)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Review deleted successfully"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
