package web

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The room is served same-origin by default; deployments fronting it
	// with a gateway enforce origins there.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Chat authenticates the handshake, upgrades to websocket, and runs the
// session to completion. It blocks for the whole connection lifetime.
//
// Authentication accepts either ?token= (issued by login/register) or
// the legacy ?username=&password= pair the original web client sends.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	displayName, ok := h.authenticateUpgrade(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	if err := h.coordinator.HandleConnection(h.baseCtx, &wsTransport{conn: conn}, displayName); err != nil {
		h.log.Warn("Session ended with error", "username", displayName, "error", err)
	}
}

func (h *Handlers) authenticateUpgrade(w http.ResponseWriter, r *http.Request) (string, bool) {
	query := r.URL.Query()

	if token := query.Get("token"); token != "" {
		username, err := h.tokens.Verify(token)
		if err != nil {
			h.log.Debug("Rejecting upgrade with bad token", "error", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return "", false
		}
		return username, true
	}

	username := query.Get("username")
	password := query.Get("password")
	if username == "" {
		http.Error(w, "missing credentials", http.StatusUnauthorized)
		return "", false
	}
	if err := h.authService.Authenticate(username, password); err != nil {
		h.log.Debug("Rejecting upgrade with bad credentials", "username", username, "error", err)
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return "", false
	}
	return username, true
}

// wsTransport adapts a gorilla connection to the session transport.
// Close unblocks a pending ReadMessage, which is how session teardown
// interrupts the read pump.
type wsTransport struct {
	conn *websocket.Conn
}

func (t *wsTransport) ReadText() ([]byte, error) {
	for {
		messageType, data, err := t.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if messageType != websocket.TextMessage {
			continue
		}
		return data, nil
	}
}

func (t *wsTransport) WriteText(payload []byte) error {
	return t.conn.WriteMessage(websocket.TextMessage, payload)
}

func (t *wsTransport) Close() error {
	return t.conn.Close()
}
