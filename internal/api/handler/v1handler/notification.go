package v1handler

import (
	"net/http"

	"wefund/pkg/domain"
	"wefund/pkg/serrors"

	"github.com/go-chi/chi/v5"
)

type notificationList struct {
	Items      []domain.Notification `json:"items"`
	NextCursor *string               `json:"nextCursor"`
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	cursor, limit, err := pagination(r)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	page, err := h.deps.Notifier.Notifications(r.Context(), UserFromContext(r.Context()).ID, cursor, limit)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, notificationList{
		Items:      page.Notifications,
		NextCursor: nextCursor(page.NextCursor),
	})
}

func (h *Handler) markNotificationsRead(w http.ResponseWriter, r *http.Request) {
	affected, err := h.deps.Notifier.MarkRead(r.Context(), UserFromContext(r.Context()).ID)
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusOK, map[string]int64{"marked": affected})
}

func (h *Handler) registerDevice(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token    string `json:"deviceToken"`
		Platform string `json:"deviceType"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}

	token, err := h.deps.Notifier.RegisterDevice(r.Context(), UserFromContext(r.Context()).ID,
		req.Token, domain.DevicePlatform(req.Platform))
	if err != nil {
		h.respondError(w, r, err)

		return
	}

	h.respondJSON(w, http.StatusCreated, token)
}

func (h *Handler) unregisterDevice(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		h.respondError(w, r, serrors.With(serrors.ErrBadRequest, "missing device token"))

		return
	}

	if err := h.deps.Notifier.UnregisterDevice(r.Context(), token); err != nil {
		h.respondError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
