// internal/httpserver/events.go
//
// Websocket stream of controller events.
//   GET /game/{id}/events   (token via cookie, Bearer or ?token=)
//
// Frames are JSON objects:
//   {"type":"state","state":{...}}  once, on connect
//   {"type":"event","event":{...}}  for every controller event after that
//
// The stream ends when the client goes away, the server shuts down, or the
// client falls too far behind.

package httpserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tilewords/internal/game"
)

const (
	writeWait     = 10 * time.Second
	eventBacklog  = 64
	closeSlowPeer = "client too slow"
)

type frame struct {
	Type  string      `json:"type"`
	State *game.State `json:"state,omitempty"`
	Event *game.Event `json:"event,omitempty"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		log.Debug().Err(err).Str("game", sess.ID).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	events := make(chan game.Event, eventBacklog)
	overflow := make(chan struct{})
	var overflowed bool
	cancel := sess.Controller.Subscribe(func(ev game.Event) {
		if overflowed {
			return
		}
		select {
		case events <- ev:
		default:
			overflowed = true
			close(overflow)
		}
	})
	defer cancel()

	// Reads only detect the peer closing; clients send nothing useful.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	st := sess.Controller.Snapshot()
	if err := s.writeFrame(conn, frame{Type: "state", State: &st}); err != nil {
		return
	}

	for {
		select {
		case ev := <-events:
			if err := s.writeFrame(conn, frame{Type: "event", Event: &ev}); err != nil {
				return
			}
		case <-overflow:
			s.closeWith(conn, websocket.ClosePolicyViolation, closeSlowPeer)
			return
		case <-s.done:
			s.closeWith(conn, websocket.CloseGoingAway, "server shutting down")
			return
		case <-gone:
			return
		}
	}
}

func (s *Server) writeFrame(conn *websocket.Conn, f frame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(f)
}

func (s *Server) closeWith(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
