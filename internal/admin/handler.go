package admin

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
)

type Handler struct {
	repo   *AdminRepository
	logger *slog.Logger
}

func NewHandler(repo *AdminRepository, logger *slog.Logger) *Handler {
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("failed to list users", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, users)
}

func (h *Handler) HandleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.repo.ListRoles(r.Context())
	if err != nil {
		h.logger.Error("failed to list roles", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, roles)
}

type updateRoleRequest struct {
	RoleID int64 `json:"role_id"`
}

func (h *Handler) HandleUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil {
		http.Error(w, "invalid user id", http.StatusBadRequest)
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.repo.UpdateUserRole(r.Context(), userID, req.RoleID)
	if err != nil {
		h.logger.Error("failed to update user role", "error", err, "user_id", userID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	if !updated {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	h.logger.Info("user role updated", "user_id", userID, "role_id", req.RoleID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("User role updated successfully"))
}

type assignPermissionRequest struct {
	RoleID       int64 `json:"role_id"`
	PermissionID int64 `json:"permission_id"`
}

func (h *Handler) HandleAssignPermission(w http.ResponseWriter, r *http.Request) {
	var req assignPermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.repo.AssignPermission(r.Context(), req.RoleID, req.PermissionID); err != nil {
		h.logger.Error("failed to assign permission", "error", err,
			"role_id", req.RoleID, "permission_id", req.PermissionID)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Permission assigned successfully"))
}

func (h *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("failed to build dashboard", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) HandleSalesReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.repo.Sales(r.Context())
	if err != nil {
		h.logger.Error("failed to build sales report", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) HandleUsersReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.repo.Users(r.Context())
	if err != nil {
		h.logger.Error("failed to build users report", "error", err)
		http.Error(w, "Server Error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
