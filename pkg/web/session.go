package web

import (
	"context"

	"github.com/go-go-golems/papertalk/pkg/conversation"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	ActionDraft  = "draft"
	ActionSubmit = "submit"
)

// Action is what the page sends over the websocket.
type Action struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type MessageView struct {
	ID   string            `json:"id"`
	Role conversation.Role `json:"role"`
	Text string            `json:"text"`
}

// StateView is pushed to the page after every transition.
type StateView struct {
	Transcript []MessageView       `json:"transcript"`
	Draft      string              `json:"draft"`
	Pending    bool                `json:"pending"`
	Layout     conversation.Layout `json:"layout"`
	CanSubmit  bool                `json:"canSubmit"`
}

func NewStateView(st conversation.State) StateView {
	transcript := make([]MessageView, 0, len(st.Transcript))
	for _, m := range st.Transcript {
		transcript = append(transcript, MessageView{ID: m.ID.String(), Role: m.Role, Text: m.Text})
	}
	return StateView{
		Transcript: transcript,
		Draft:      st.Draft,
		Pending:    st.Pending,
		Layout:     st.Layout(),
		CanSubmit:  st.CanSubmit(),
	}
}

// session drives one controller from a single goroutine. The reader goroutine
// and the dispatch goroutines only talk to it through channels, and run is
// the only writer on the connection.
type session struct {
	id         string
	conn       *websocket.Conn
	controller *conversation.Controller
}

func newSession(conn *websocket.Conn, controller *conversation.Controller) *session {
	return &session{
		id:         uuid.NewString(),
		conn:       conn,
		controller: controller,
	}
}

func (s *session) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer func() { _ = s.conn.Close() }()

	actions := make(chan Action)
	readErr := make(chan error, 1)
	resolutions := make(chan conversation.Resolution, 1)

	go s.readLoop(ctx, actions, readErr)

	if err := s.push(); err != nil {
		log.Debug().Err(err).Str("session_id", s.id).Msg("initial push failed")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case err := <-readErr:
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("session_id", s.id).Msg("session read failed")
			}
			return
		case a := <-actions:
			if !s.apply(ctx, a, resolutions) {
				continue
			}
		case r := <-resolutions:
			s.controller.Settle(r)
		}

		if err := s.push(); err != nil {
			log.Debug().Err(err).Str("session_id", s.id).Msg("push failed")
			return
		}
	}
}

// apply handles one client action and reports whether the state should be
// pushed back.
func (s *session) apply(ctx context.Context, a Action, resolutions chan<- conversation.Resolution) bool {
	switch a.Type {
	case ActionDraft:
		s.controller.UpdateDraft(a.Text)
	case ActionSubmit:
		req, ok := s.controller.Submit()
		if !ok {
			// the page may show a stale submit button; resend the truth
			return true
		}
		go func() {
			r := s.controller.Dispatch(ctx, req)
			select {
			case resolutions <- r:
			case <-ctx.Done():
			}
		}()
	default:
		log.Warn().Str("session_id", s.id).Str("type", a.Type).Msg("unknown action")
		return false
	}
	return true
}

func (s *session) readLoop(ctx context.Context, actions chan<- Action, readErr chan<- error) {
	for {
		var a Action
		if err := s.conn.ReadJSON(&a); err != nil {
			readErr <- err
			return
		}
		select {
		case actions <- a:
		case <-ctx.Done():
			return
		}
	}
}

func (s *session) push() error {
	if err := s.conn.WriteJSON(NewStateView(s.controller.State())); err != nil {
		return errors.Wrap(err, "write state")
	}
	return nil
}
