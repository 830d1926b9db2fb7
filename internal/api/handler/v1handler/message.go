package v1handler

import (
	"net/http"

	"wefund/pkg/domain"
	"wefund/pkg/serrors"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ReceiverID string `json:"receiverId"`
		Message    string `json:"message"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		h.respondError(w, r, serrors.With(serrors.ErrBadRequest, "invalid receiver id"))

		return
	}

	message, err := h.deps.Messaging.Send(r.Context(), UserFromContext(r.Context()),
		domain.UserID(receiverID), req.Message)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusCreated, message)
}

func (h *Handler) conversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.deps.Messaging.Conversations(r.Context(), UserFromContext(r.Context()).ID)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"items": conversations})
}

func (h *Handler) thread(w http.ResponseWriter, r *http.Request) {
	peerID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		h.respondError(w, r, serrors.With(serrors.ErrBadRequest, "invalid user id"))

		return
	}

	messages, err := h.deps.Messaging.Thread(r.Context(), UserFromContext(r.Context()).ID, domain.UserID(peerID))
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{"items": messages})
}
