package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	defaultStreamInterval = time.Second
	writeWait             = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type pairsMessage struct {
	Type  string      `json:"type"`
	Time  time.Time   `json:"time"`
	Pairs interface{} `json:"pairs"`
}

// streamPairs pushes the pair snapshot to the websocket client on every tick until the
// client goes away or the server stops.
func (s *Server) streamPairs(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	// the reader only detects the close frame, client messages are ignored
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	interval := s.StreamInterval
	if interval <= 0 {
		interval = defaultStreamInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(pairsMessage{Type: "pairs", Time: time.Now(), Pairs: s.Status.Snapshot()}); err != nil {
			logrus.WithError(err).Debug("websocket client is gone")
			return
		}

		select {
		case <-closed:
			return

		case <-s.done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"),
				time.Now().Add(writeWait))
			return

		case <-ticker.C:
		}
	}
}
