package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/signup/pkg/form"
)

// stream is one WebSocket subscriber to form state.
type stream struct {
	conn *websocket.Conn

	// dirty holds at most one pending "state changed" signal, so a burst of
	// changes is sent as a single snapshot.
	dirty chan struct{}
	done  chan struct{}
	once  sync.Once
}

func newStream(conn *websocket.Conn) *stream {
	return &stream{
		conn:  conn,
		dirty: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

func (st *stream) poke() {
	select {
	case st.dirty <- struct{}{}:
	default:
	}
}

func (st *stream) close() {
	st.once.Do(func() { close(st.done) })
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied.
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	st := newStream(conn)
	s.mu.Lock()
	s.streams[st] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.streams, st)
		s.mu.Unlock()
	}()

	unsubscribe := s.form.Subscribe(func(form.Change) { st.poke() })
	defer unsubscribe()

	go s.readLoop(st)
	s.writeLoop(st)
}

// readLoop discards client messages and ends the stream when the client
// goes away.
func (s *Server) readLoop(st *stream) {
	defer st.close()

	st.conn.SetReadLimit(512)
	st.conn.SetReadDeadline(time.Now().Add(2 * s.config.PingInterval))
	st.conn.SetPongHandler(func(string) error {
		return st.conn.SetReadDeadline(time.Now().Add(2 * s.config.PingInterval))
	})

	for {
		if _, _, err := st.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.logger.Warn("read error", "error", err)
			}
			return
		}
	}
}

// writeLoop sends the current state, then a fresh snapshot after every
// change, until the stream is closed.
func (s *Server) writeLoop(st *stream) {
	ping := time.NewTicker(s.config.PingInterval)
	defer ping.Stop()

	if !s.sendState(st) {
		return
	}

	for {
		select {
		case <-st.dirty:
			if !s.sendState(st) {
				return
			}

		case <-ping.C:
			deadline := time.Now().Add(s.config.WriteWait)
			if err := st.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}

		case <-st.done:
			st.conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			return
		}
	}
}

func (s *Server) sendState(st *stream) bool {
	st.conn.SetWriteDeadline(time.Now().Add(s.config.WriteWait))
	if err := st.conn.WriteJSON(s.form.Snapshot()); err != nil {
		s.logger.Warn("write error", "error", err)
		return false
	}
	return true
}
