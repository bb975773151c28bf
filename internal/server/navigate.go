package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/adminshell/internal/errors"
	"github.com/vango-dev/adminshell/internal/pages"
	"github.com/vango-dev/adminshell/pkg/history"
	"github.com/vango-dev/adminshell/pkg/router"
)

// Navigation operations accepted on the socket.
const (
	opPush    = "push"
	opReplace = "replace"
	opBack    = "back"
	opForward = "forward"
	opGo      = "go"
)

// navMessage is a client request.
type navMessage struct {
	Op    string `json:"op"`
	Path  string `json:"path,omitempty"`
	Delta int    `json:"delta,omitempty"`
}

// navReply answers every message, and is also sent once when the session
// starts.
type navReply struct {
	Op       string            `json:"op"`
	Location *locationResponse `json:"location,omitempty"`
	HTML     string            `json:"html,omitempty"`
	Failure  string            `json:"failure,omitempty"`
	Error    *errors.Error     `json:"error,omitempty"`
	Depth    int               `json:"depth"`
}

// handleNavigate runs a live navigation session. Each connection gets a
// fork of the router over its own memory history, seeded from the "path"
// query parameter.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.trackConn(conn, true)
	s.metrics.sessions.Inc()
	defer func() {
		s.metrics.sessions.Dec()
		s.trackConn(conn, false)
		conn.Close()
	}()

	initial := r.URL.Query().Get("path")
	if initial == "" {
		initial = "/"
	}
	session := s.router.Fork(history.NewMemory(history.WithInitialURL(initial)))
	defer session.Close()

	session.AfterEach(func(to, from *router.Location, failure error) {
		outcome := outcomeMatched
		if failure != nil {
			outcome = failureOutcome(failure)
		}
		s.metrics.navigations.WithLabelValues(outcome).Inc()
	})

	logger := s.logger.With("session", r.RemoteAddr)
	logger.Debug("navigation session opened", "path", initial)

	loc, err := session.Start()
	if err := conn.WriteJSON(s.reply(session, "start", initial, loc, err)); err != nil {
		return
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("navigation session read failed", "error", err)
			}
			break
		}

		var msg navMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			reply := navReply{Op: "", Error: errors.New("E142").Wrap(err), Depth: session.History().Len()}
			if conn.WriteJSON(reply) != nil {
				break
			}
			continue
		}

		var loc *router.Location
		switch msg.Op {
		case opPush:
			loc, err = session.Push(msg.Path)
		case opReplace:
			loc, err = session.Replace(msg.Path)
		case opBack:
			loc, err = session.Back()
		case opForward:
			loc, err = session.Forward()
		case opGo:
			loc, err = session.Go(msg.Delta)
		default:
			reply := navReply{
				Op:    msg.Op,
				Error: errors.New("E142").WithDetail("Unknown op " + msg.Op),
				Depth: session.History().Len(),
			}
			if conn.WriteJSON(reply) != nil {
				return
			}
			continue
		}

		if conn.WriteJSON(s.reply(session, msg.Op, msg.Path, loc, err)) != nil {
			break
		}
	}
	logger.Debug("navigation session closed")
}

// reply builds the answer to a navigation. After a failure the session's
// current location is reported alongside the failure.
func (s *Server) reply(session *router.Router, op, target string, loc *router.Location, err error) navReply {
	reply := navReply{Op: op, Depth: session.History().Len()}
	if err != nil {
		reply.Failure = failureOutcome(err)
		reply.Error = navigationError(err, target)
		loc = session.Current()
	}
	if loc == nil {
		return reply
	}

	reply.Location = newLocationResponse(loc, s.router.Href(loc))
	if err == nil && loc.Route.Component != nil {
		html, rerr := pages.RenderComponent(loc.Route.Component, loc)
		if rerr != nil {
			s.logger.Error("render failed", "route", loc.Route.Path, "error", rerr)
		} else {
			reply.HTML = string(html)
		}
	}
	return reply
}

func (s *Server) trackConn(conn *websocket.Conn, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if open {
		s.conns[conn] = struct{}{}
	} else {
		delete(s.conns, conn)
	}
}

// closeSessions closes every open navigation socket.
func (s *Server) closeSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(s.conns, conn)
	}
}

// SessionCount returns the number of open navigation sockets.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}
