package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/pick-advisor/internal/metrics"
	"github.com/yourusername/pick-advisor/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Event types a client can send
const (
	EventOdds   = "odds"
	EventMarket = "market"
	EventLeague = "league"
	EventSubmit = "submit"
	EventReset  = "reset"
)

// Message types the server sends
const (
	MessageView  = "view"
	MessageError = "error"
)

// ClientEvent is a form event sent by the browser
type ClientEvent struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
	Home  string `json:"home,omitempty"`
	Away  string `json:"away,omitempty"`
}

// ServerMessage is pushed to the browser after every event
type ServerMessage struct {
	Type      string        `json:"type"`
	Event     string        `json:"event,omitempty"`
	SessionID string        `json:"session_id"`
	View      *service.View `json:"view,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// session binds one WebSocket connection to one controller. Only writePump
// writes to the connection.
type session struct {
	conn       *websocket.Conn
	controller *service.Controller
	logger     *logrus.Entry
	send       chan ServerMessage
	done       chan struct{}
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	controller := service.NewController(s.engine, s.provider, s.base)
	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		conn:       conn,
		controller: controller,
		logger:     s.logger.WithField("session_id", controller.ID()),
		send:       make(chan ServerMessage, sendBuffer),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}

	metrics.SessionOpened()
	sess.logger.Info("Session opened")

	go sess.writePump()
	view := controller.View()
	sess.push("", view)
	sess.readPump()
}

// readPump dispatches client events until the connection closes
func (ss *session) readPump() {
	defer ss.close()

	ss.conn.SetReadLimit(maxMessageSize)
	_ = ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	ss.conn.SetPongHandler(func(string) error {
		return ss.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := ss.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ss.logger.WithError(err).Warn("WebSocket read error")
			}
			return
		}

		var event ClientEvent
		if err := json.Unmarshal(data, &event); err != nil {
			ss.fail("", err)
			continue
		}
		ss.dispatch(event)
	}
}

func (ss *session) dispatch(event ClientEvent) {
	c := ss.controller

	switch event.Type {
	case EventOdds:
		ss.push(event.Type, c.SetOdds(event.Value))
	case EventMarket:
		view, err := c.SetMarket(event.Value)
		if err != nil {
			ss.fail(event.Type, err)
		}
		ss.push(event.Type, view)
	case EventLeague:
		ss.push(event.Type, c.SetLeague(ss.ctx, event.Value))
	case EventSubmit:
		// runs concurrently so a later submit or reset can supersede it
		ss.wg.Add(1)
		go func() {
			defer ss.wg.Done()
			ss.submit(event)
		}()
	case EventReset:
		ss.push(event.Type, c.Reset())
	default:
		ss.fail(event.Type, errors.New("unknown event type"))
	}
}

func (ss *session) submit(event ClientEvent) {
	view, err := ss.controller.Submit(ss.ctx, event.Home, event.Away, func(loading service.View) {
		ss.push(event.Type, loading)
	})
	switch {
	case errors.Is(err, service.ErrStaleResponse):
		return
	case err != nil && view.Status != service.StatusError:
		// rejected before reaching the provider
		ss.fail(event.Type, err)
		return
	}
	ss.push(event.Type, view)
}

func (ss *session) push(event string, view service.View) {
	ss.enqueue(ServerMessage{Type: MessageView, Event: event, SessionID: ss.controller.ID(), View: &view})
}

func (ss *session) fail(event string, err error) {
	ss.enqueue(ServerMessage{Type: MessageError, Event: event, SessionID: ss.controller.ID(), Error: err.Error()})
}

func (ss *session) enqueue(msg ServerMessage) {
	select {
	case ss.send <- msg:
	case <-ss.done:
	}
}

// writePump serialises all writes to the connection and keeps it alive
func (ss *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ss.conn.Close()
	}()

	for {
		select {
		case msg := <-ss.send:
			_ = ss.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ss.conn.WriteJSON(msg); err != nil {
				ss.logger.WithError(err).Debug("WebSocket write failed")
				return
			}
		case <-ticker.C:
			_ = ss.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ss.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ss.done:
			_ = ss.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		}
	}
}

func (ss *session) close() {
	ss.cancel()
	ss.controller.Close()
	close(ss.done)
	ss.wg.Wait()
	metrics.SessionClosed()
	ss.logger.Info("Session closed")
}
