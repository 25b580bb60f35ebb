package categories

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

type Handler struct {
	repo   *CategoryRepository
	logger *slog.Logger
}

func NewHandler(repo *CategoryRepository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list categories", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, categories)
}

type categoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "Category name is required", http.StatusBadRequest)
		return
	}

	exists, err := h.repo.Exists(r.Context(), req.Name)
	if err != nil {
		h.logger.Error("failed to check category", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}
	if exists {
		http.Error(w, "Category already exists", http.StatusBadRequest)
		return
	}

	categoryID, err := h.repo.Create(r.Context(), req.Name, req.Description)
	if err != nil {
		h.logger.Error("failed to create category", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("category created", "category_id", categoryID, "name", req.Name)
	h.writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "Category created successfully",
		"categoryId": categoryID,
	})
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(r.PathValue("categoryId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		http.Error(w, "Category name is required", http.StatusBadRequest)
		return
	}

	updated, err := h.repo.Update(r.Context(), categoryID, req.Name, req.Description)
	if err != nil {
		h.logger.Error("failed to update category", "error", err, "category_id", categoryID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if !updated {
		http.Error(w, "Category not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Category updated successfully"))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(r.PathValue("categoryId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid category id", http.StatusBadRequest)
		return
	}

	deleted, err := h.repo.Delete(r.Context(), categoryID)
	if err != nil {
		h.logger.Error("failed to delete category", "error", err, "category_id", categoryID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if !deleted {
		http.Error(w, "Category not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Category deleted successfully"))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
