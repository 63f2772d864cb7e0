package auth

import (
	"errors"
	"net/http"

	"brace-api/internal/httputil"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	id, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{"user_id": id, "email": req.Email})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	token, userID, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "email or password is incorrect"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"user_id":      userID,
		"email":        req.Email,
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request, userID string) {
	user, err := h.svc.GetUser(r.Context(), userID)
	if err != nil {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, user)
}

type updateProfileRequest struct {
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
	Nickname *string `json:"nickname"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request, userID string) {
	var req updateProfileRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	user, err := h.svc.UpdateProfile(r.Context(), userID, ProfileUpdate{
		Email:    req.Email,
		FullName: req.FullName,
		Nickname: req.Nickname,
	})
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			httputil.WriteJSON(w, http.StatusNotFound, httputil.ErrorResponse{Error: "user not found"})
			return
		}
		httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"message": "profile updated", "user": user})
}

type ensureUserRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (h *Handler) EnsureUser(w http.ResponseWriter, r *http.Request) {
	var req ensureUserRequest
	if err := httputil.ReadJSON(r, &req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	user, created, err := h.svc.EnsureUser(r.Context(), req.ID, req.Email)
	if err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{Error: err.Error()})
		return
	}
	status := http.StatusOK
	message := "user already exists"
	if created {
		status = http.StatusCreated
		message = "user created"
	}
	httputil.WriteJSON(w, status, map[string]any{"message": message, "user": user})
}
