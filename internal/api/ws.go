package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// readUntilClosed discards client messages and closes done when the peer
// goes away.
func readUntilClosed(conn *websocket.Conn) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return done
}

func write(conn *websocket.Conn, kind int, b []byte) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(kind, b)
}

// handleMirrorWS streams each published framebuffer as one binary message
// of MatrixW*MatrixH bytes.
func (s *Server) handleMirrorWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	frames, cancel := s.core.Hub().Subscribe(1)
	defer cancel()
	done := readUntilClosed(conn)

	if f, ok := s.core.Hub().Latest(); ok {
		if err := write(conn, websocket.BinaryMessage, f.Pix); err != nil {
			return
		}
	}
	for {
		select {
		case <-done:
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if err := write(conn, websocket.BinaryMessage, f.Pix); err != nil {
				log.Debug().Err(err).Msg("write frame")
				return
			}
		}
	}
}

// handleDiagWS replays recent diagnostics, then streams new ones as JSON.
func (s *Server) handleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	l := s.core.Diag()
	events, cancel := l.Subscribe(16)
	defer cancel()
	done := readUntilClosed(conn)

	for _, d := range l.Recent() {
		b, _ := json.Marshal(d)
		if err := write(conn, websocket.TextMessage, b); err != nil {
			return
		}
	}
	for {
		select {
		case <-done:
			return
		case d, ok := <-events:
			if !ok {
				return
			}
			b, _ := json.Marshal(d)
			if err := write(conn, websocket.TextMessage, b); err != nil {
				log.Debug().Err(err).Msg("write diag")
				return
			}
		}
	}
}
