package v1handler

import (
	"net/http"

	"wefund/pkg/serrors"
)

func (h *Handler) verificationStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.deps.Verifier.Status(r.Context(), UserFromContext(r.Context()).ID)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, status)
}

func (h *Handler) sendEmailVerification(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Verifier.SendEmailVerification(r.Context(), UserFromContext(r.Context())); err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *Handler) confirmEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		h.respondError(w, r, serrors.With(serrors.ErrBadRequest, "missing token"))

		return
	}

	user, err := h.deps.Verifier.ConfirmEmail(r.Context(), token)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, user)
}

func (h *Handler) sendPhoneCode(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Verifier.SendPhoneCode(r.Context(), UserFromContext(r.Context())); err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *Handler) confirmPhoneCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.deps.Verifier.ConfirmPhoneCode(r.Context(), UserFromContext(r.Context()).ID, req.Code)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, user)
}
