package v1handler

import (
	"net/http"

	"wefund/pkg/logger"
	"wefund/pkg/serrors"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers enforce same-origin before the upgrade; the token already
	// gates access.
	CheckOrigin: func(*http.Request) bool { return true },
}

// messagesWS upgrades the connection and registers it with the hub so new
// messages are pushed to the client as they arrive.
func (h *Handler) messagesWS(w http.ResponseWriter, r *http.Request) {
	if h.deps.Hub == nil {
		h.respondError(w, r, serrors.With(serrors.ErrUnavailable, "realtime messaging is not enabled"))

		return
	}

	user := UserFromContext(r.Context())

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		logger.Warn(r.Context(), "websocket upgrade failed", zap.Error(err))

		return
	}

	session := h.deps.Hub.Register(user.ID, conn)
	go session.WritePump()
	session.ReadPump()
}
