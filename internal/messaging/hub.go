package messaging

import (
	"sync"
	"time"

	"wefund/pkg/domain"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds how long a single frame write may take.
	writeWait = 10 * time.Second
	// pongWait is how long a connection may stay silent before it is dropped.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// sendBuffer is the per-session outbound queue; a session that cannot
	// keep up is dropped rather than blocking the hub.
	sendBuffer = 32
)

// Hub tracks live websocket sessions per user and fans messages out to them.
// A user may hold several sessions at once (multiple devices).
type Hub struct {
	mu       sync.RWMutex
	sessions map[domain.UserID]map[*Session]struct{}
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		sessions: make(map[domain.UserID]map[*Session]struct{}),
	}
}

// Register attaches a connection to the hub and returns its session. The
// caller must run the session's pumps.
func (h *Hub) Register(userID domain.UserID, conn *websocket.Conn) *Session {
	s := &Session{
		hub:    h,
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[userID] == nil {
		h.sessions[userID] = make(map[*Session]struct{})
	}
	h.sessions[userID][s] = struct{}{}

	return s
}

func (h *Hub) unregister(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.sessions[s.userID]; ok {
		if _, ok := set[s]; ok {
			delete(set, s)
			close(s.send)
			if len(set) == 0 {
				delete(h.sessions, s.userID)
			}
		}
	}
}

// Push queues the payload on every live session of the user and reports how
// many sessions received it. Sessions with a full queue are skipped.
func (h *Hub) Push(userID domain.UserID, payload []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for s := range h.sessions[userID] {
		select {
		case s.send <- payload:
			delivered++
		default:
		}
	}

	return delivered
}

// Online reports whether the user has at least one live session.
func (h *Hub) Online(userID domain.UserID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.sessions[userID]) > 0
}

// Session is one websocket connection registered with the hub.
type Session struct {
	hub    *Hub
	userID domain.UserID
	conn   *websocket.Conn
	send   chan []byte
}

// WritePump drains the outbound queue onto the connection and keeps it alive
// with pings. It returns when the session is unregistered or the connection
// breaks.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})

				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump consumes (and discards) inbound frames so pongs and close frames
// are processed. It unregisters the session when the connection breaks.
func (s *Session) ReadPump() {
	defer func() {
		s.hub.unregister(s)
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(4096)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
