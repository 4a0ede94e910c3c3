package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"heroworld/internal/engine"
	"heroworld/internal/service"
)

const (
	frameInterval  = 33 * time.Millisecond
	pingInterval   = 30 * time.Second
	pongWait       = 60 * time.Second
	writeWait      = 5 * time.Second
	maxStreamFrame = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     sameOrigin,
}

// sameOrigin allows clients without an Origin header and pages served from this host
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// StreamMessage is one websocket message in either direction
type StreamMessage struct {
	Type   string               `json:"type"`
	Action *engine.Action       `json:"action,omitempty"`
	Pad    *int                 `json:"pad,omitempty"`
	View   *service.SessionView `json:"view,omitempty"`
	Result *engine.Result       `json:"result,omitempty"`
	Error  string               `json:"error,omitempty"`
}

// Stream pushes session frames over a websocket for the real-time games and
// accepts their inputs. Frames are sent only when the snapshot changed or
// cues are waiting.
func (h *SessionHandler) Stream(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade to websocket: %v", err)
		return
	}
	defer conn.Close()

	playerID := PlayerIDFromContext(r.Context())
	s := &stream{
		conn: conn,
		sess: sess,
		done: make(chan struct{}),
		touch: func() error {
			_, err := h.games.Get(playerID, sess.ID)
			return err
		},
	}
	log.Printf("Stream connected: session=%s", sess.ID)

	go s.readLoop()
	s.writeLoop()

	log.Printf("Stream disconnected: session=%s", sess.ID)
}

type stream struct {
	conn  *websocket.Conn
	sess  *service.Session
	touch func() error

	writeMu sync.Mutex
	done    chan struct{}
	last    []byte
}

func (s *stream) send(msg StreamMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(msg)
}

func (s *stream) writeLoop() {
	frames := time.NewTicker(frameInterval)
	defer frames.Stop()
	pings := time.NewTicker(pingInterval)
	defer pings.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-s.sess.Done():
			s.send(StreamMessage{Type: "closed"})
			return
		case <-pings.C:
			s.writeMu.Lock()
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.writeMu.Unlock()
			if err != nil {
				return
			}
		case <-frames.C:
			if err := s.frame(); err != nil {
				return
			}
		}
	}
}

// frame sends the current view unless nothing changed since the last one
func (s *stream) frame() error {
	view := s.sess.View()
	if len(view.Cues) == 0 && len(view.Notes) == 0 {
		data, err := json.Marshal(view.Snapshot)
		if err != nil {
			return err
		}
		if string(data) == string(s.last) {
			return nil
		}
		s.last = data
	} else {
		s.last = nil
	}
	return s.send(StreamMessage{Type: "frame", View: &view})
}

func (s *stream) readLoop() {
	defer close(s.done)

	s.conn.SetReadLimit(maxStreamFrame)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg StreamMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Stream read error: %v", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		if err := s.touch(); err != nil {
			s.send(StreamMessage{Type: "closed"})
			return
		}

		res, err := s.handle(msg)
		if err != nil {
			if s.send(StreamMessage{Type: "error", Error: err.Error()}) != nil {
				return
			}
			continue
		}
		if res != nil && s.send(StreamMessage{Type: "result", Result: res}) != nil {
			return
		}
	}
}

func (s *stream) handle(msg StreamMessage) (*engine.Result, error) {
	ctrl := s.sess.Controller
	switch msg.Type {
	case "act":
		if msg.Action == nil {
			return nil, engine.ErrInvalidMove
		}
		res, err := ctrl.Act(*msg.Action)
		return &res, err
	case "press":
		if msg.Pad == nil {
			return nil, engine.ErrInvalidMove
		}
		res, err := ctrl.Press(*msg.Pad)
		return &res, err
	case "back":
		return nil, ctrl.Back()
	default:
		return nil, engine.ErrWrongGame
	}
}
