package dashboard

import (
	"net/http"
	"strings"

	"proofing-app/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// NewUpgrader accepts websocket handshakes from the dashboard origin only.
// An empty allowed origin accepts any.
func NewUpgrader(allowedOrigin string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || strings.EqualFold(origin, allowedOrigin)
		},
	}
}

// GET /events
//
// Pushes selection.finalized and payment.updated notices for the
// photographer's albums. Clients re-fetch /orders on each message.
func (h *Handler) Events(upgrader websocket.Upgrader) gin.HandlerFunc {
	return func(c *gin.Context) {
		photographerID := c.GetUint("photographer_id")

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logging.Logger.WithError(err).Warn("websocket upgrade failed")
			return
		}

		sub := h.hub.Subscribe(photographerID)
		sub.Serve(conn)
	}
}
