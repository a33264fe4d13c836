package notify

import (
	"time"

	"github.com/gorilla/websocket"

	"proofing-app/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Subscriber is one open dashboard.
type Subscriber struct {
	hub            *Hub
	photographerID uint
	send           chan []byte
}

// Messages is closed when the hub drops the subscriber.
func (s *Subscriber) Messages() <-chan []byte {
	return s.send
}

// Serve pumps hub events to the websocket until either side closes.
func (s *Subscriber) Serve(conn *websocket.Conn) {
	go s.readPump(conn)
	s.writePump(conn)
}

// readPump only handles control frames; dashboards never send data.
func (s *Subscriber) readPump(conn *websocket.Conn) {
	defer func() {
		s.hub.Unsubscribe(s)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Logger.WithError(err).Debug("notify: websocket closed")
			}
			return
		}
	}
}

func (s *Subscriber) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
