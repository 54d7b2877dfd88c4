package server

import (
	"encoding/json"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"kanban/internal/board"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
)

type wsMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origin checks are left to the CORS policy in front of the router
	CheckOrigin: func(r *http.Request) bool { return true },
}

// registerWebSocket streams a state snapshot on connect and after every
// store change.
func registerWebSocket(r chi.Router, basePath string, s *board.Store, logger logrus.FieldLogger) {
	r.Get(path.Join(basePath, "ws"), func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			logger.WithError(err).Warn("websocket upgrade failed")
			return
		}
		user, _ := userFromContext(req.Context())
		log := logger.WithField("user_id", user.ID)
		log.Debug("websocket connected")

		updates, cancel := s.Subscribe()
		done := make(chan struct{})
		pongs := make(chan []byte, 1)
		go readPump(conn, done, pongs)
		writePump(conn, s.State(), updates, done, pongs, log)
		cancel()
		conn.Close()
		log.Debug("websocket closed")
	})
}

// readPump handles control frames and "ping" messages until the peer goes away.
func readPump(conn *websocket.Conn, done chan<- struct{}, pongs chan<- []byte) {
	defer close(done)
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if json.Unmarshal(raw, &msg) != nil || msg.Type != "ping" {
			continue
		}
		reply, _ := json.Marshal(wsMessage{Type: "pong", Data: map[string]string{"timestamp": time.Now().UTC().Format(time.RFC3339)}})
		select {
		case pongs <- reply:
		default:
		}
	}
}

func writePump(conn *websocket.Conn, initial board.State, updates <-chan board.State, done <-chan struct{}, pongs <-chan []byte, log logrus.FieldLogger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	if err := writeState(conn, initial); err != nil {
		return
	}
	for {
		select {
		case st, ok := <-updates:
			if !ok {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := writeState(conn, st); err != nil {
				log.WithError(err).Debug("websocket write failed")
				return
			}
		case msg := <-pongs:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func writeState(conn *websocket.Conn, st board.State) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsMessage{Type: "state", Data: st})
}
