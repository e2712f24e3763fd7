package server

import (
	"aimtrainer/internal/gamedata"
	"aimtrainer/internal/wshub"
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
)

// session runs one player's game. Every controller call happens on the
// goroutine executing loop; other goroutines hand work over through post.
type session struct {
	ctx    context.Context
	client *wshub.Client
	work   chan func()
	shapes int
}

func newSession(ctx context.Context, client *wshub.Client) *session {
	return &session{
		ctx:    ctx,
		client: client,
		work:   make(chan func(), 16),
	}
}

func (s *session) loop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case fn := <-s.work:
			fn()
		}
	}
}

func (s *session) post(fn func()) {
	select {
	case s.work <- fn:
	case <-s.ctx.Done():
	}
}

// After implements gamedata.Scheduler.
func (s *session) After(d time.Duration, fn func()) {
	time.AfterFunc(d, func() { s.post(fn) })
}

func (s *session) send(msg wshub.ServerMessage) {
	if err := s.client.Deliver(s.ctx, msg); err != nil && s.ctx.Err() == nil {
		log.Printf("[WS] %s: %v\n", s.client.SessionID, err)
	}
}

func (s *session) ui() gamedata.UI {
	return gamedata.UI{Surface: s, Display: s, Notifier: s}
}

func (s *session) DrawCircle(c gamedata.Circle) gamedata.ShapeID {
	s.shapes++
	s.send(wshub.ServerMessage{
		Type:    wshub.MsgDraw,
		ID:      s.shapes,
		X:       c.X,
		Y:       c.Y,
		R:       c.R,
		Fill:    c.Fill,
		Outline: c.Outline,
		Width:   c.Width,
	})
	return gamedata.ShapeID(s.shapes)
}

func (s *session) Remove(id gamedata.ShapeID) {
	s.send(wshub.ServerMessage{Type: wshub.MsgRemove, ID: int(id)})
}

func (s *session) SetTime(seconds int) {
	s.send(wshub.ServerMessage{Type: wshub.MsgTime, Value: seconds})
}

func (s *session) SetScore(hits int) {
	s.send(wshub.ServerMessage{Type: wshub.MsgScore, Value: hits})
}

func (s *session) SetAccuracy(percent int) {
	s.send(wshub.ServerMessage{Type: wshub.MsgAccuracy, Value: percent})
}

func (s *session) SetBest(best int) {
	s.send(wshub.ServerMessage{Type: wshub.MsgBest, Value: best})
}

func (s *session) SetStartEnabled(enabled bool) {
	s.send(wshub.ServerMessage{Type: wshub.MsgButton, Enabled: enabled})
}

func (s *session) Notify(title, message string) {
	s.send(wshub.ServerMessage{Type: wshub.MsgNotify, Title: title, Text: message})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Printf("[WS] accept: %v\n", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := wshub.NewClient(uuid.NewString(), conn)
	s.Hub.Register(client)
	defer s.Hub.Unregister(client.SessionID)
	log.Printf("[WS] %s connected\n", client.SessionID)

	go client.WritePump(ctx)

	sess := newSession(ctx, client)
	sess.send(wshub.ServerMessage{
		Type:  wshub.MsgHello,
		X:     s.Game.Width,
		Y:     s.Game.Height,
		R:     s.Game.Radius,
		Value: s.Game.RoundDuration,
	})
	ctrl := gamedata.NewController(s.Game, sess.ui(), s.Best, s.Bus)
	driver := gamedata.NewDriver(ctrl, sess)

	go func() {
		defer cancel()
		for {
			var msg wshub.ClientMessage
			if err := wsjson.Read(ctx, conn, &msg); err != nil {
				if !isClosed(err) && ctx.Err() == nil {
					log.Printf("[WS] %s read: %v\n", client.SessionID, err)
				}
				return
			}
			switch msg.Type {
			case wshub.MsgStart:
				sess.post(driver.Start)
			case wshub.MsgClick:
				x, y := msg.X, msg.Y
				sess.post(func() { driver.Click(x, y) })
			default:
				log.Printf("[WS] %s sent unknown message %q\n", client.SessionID, msg.Type)
			}
		}
	}()

	sess.loop()
	// The loop has exited, so the controller is ours alone again.
	driver.Abandon()
	log.Printf("[WS] %s disconnected\n", client.SessionID)
}

func isClosed(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return errors.Is(err, context.Canceled)
}
