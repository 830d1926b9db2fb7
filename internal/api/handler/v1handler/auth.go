package v1handler

import (
	"net/http"

	"wefund/internal/auth"
	"wefund/pkg/domain"
)

type authResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		Age         int    `json:"age"`
		PhoneNumber string `json:"phoneNumber"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.deps.Auth.Register(r.Context(), auth.RegisterParams{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Age:         req.Age,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusCreated, authResponse{User: *user, Token: token})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, token, err := h.deps.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, authResponse{User: *user, Token: token})
}

func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	h.respondJSON(w, http.StatusOK, user)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name"`
		Age         *int    `json:"age"`
		PhoneNumber *string `json:"phoneNumber"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.deps.Auth.UpdateProfile(r.Context(), UserFromContext(r.Context()).ID, auth.UpdateProfileParams{
		Name:        req.Name,
		Age:         req.Age,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, user)
}
