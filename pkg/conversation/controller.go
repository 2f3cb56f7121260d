package conversation

import (
	"context"
	"strings"
	"time"

	"github.com/go-go-golems/papertalk/pkg/summary"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// ErrorText replaces the answer when a request fails.
const ErrorText = "Error: Could not get response."

var errNoResult = errors.New("summarizer returned no result")

// Summarizer is the outbound collaborator. *summary.Client implements it.
type Summarizer interface {
	Summarize(ctx context.Context, topic string) (*summary.Result, error)
}

var _ Summarizer = (*summary.Client)(nil)

// Request is the single outbound query created by an accepted submit.
type Request struct {
	ID    uuid.UUID
	Topic string
}

// Resolution is the outcome of a Request. Text is what the bot message will
// show; Result is nil when Err is set.
type Resolution struct {
	RequestID uuid.UUID
	Text      string
	Result    *summary.Result
	Err       error
}

// Controller owns the transcript, the draft and the pending flag of one
// session. It is not safe for concurrent use: all calls must come from the
// loop that owns the session. Dispatch is the only method meant to run
// elsewhere and it does not touch the session.
type Controller struct {
	summarizer Summarizer
	now        func() time.Time

	transcript []Message
	draft      string
	pending    bool
	inflight   uuid.UUID
}

type ControllerOption func(*Controller)

// WithClock overrides the timestamp source for new messages.
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.now = now
	}
}

func NewController(s Summarizer, options ...ControllerOption) *Controller {
	c := &Controller{
		summarizer: s,
		now:        time.Now,
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// UpdateDraft replaces the draft verbatim.
func (c *Controller) UpdateDraft(text string) {
	c.draft = text
}

func (c *Controller) Draft() string {
	return c.draft
}

func (c *Controller) Pending() bool {
	return c.pending
}

func (c *Controller) CanSubmit() bool {
	return canSubmit(c.draft, c.pending)
}

// State returns a snapshot. The transcript slice is a copy.
func (c *Controller) State() State {
	transcript := make([]Message, len(c.transcript))
	copy(transcript, c.transcript)
	return State{
		Transcript: transcript,
		Draft:      c.draft,
		Pending:    c.pending,
	}
}

// Submit appends the draft as a user message, marks the session pending and
// clears the draft. The returned Request has to be passed to Dispatch and its
// Resolution back to Settle. Blank drafts and submits while pending are
// ignored and return false.
func (c *Controller) Submit() (*Request, bool) {
	if !c.CanSubmit() {
		log.Debug().
			Bool("pending", c.pending).
			Msg("submit ignored")
		return nil, false
	}

	topic := c.draft
	c.transcript = append(c.transcript, newMessage(RoleUser, topic, c.now()))
	c.pending = true
	req := &Request{ID: uuid.New(), Topic: topic}
	c.inflight = req.ID
	c.draft = ""

	log.Debug().
		Str("request_id", req.ID.String()).
		Str("topic", topic).
		Msg("submit accepted")

	return req, true
}

// Dispatch runs the outbound query of req and reduces it to a Resolution. It
// never fails: errors become ErrorText.
func (c *Controller) Dispatch(ctx context.Context, req *Request) Resolution {
	return Dispatch(ctx, c.summarizer, req)
}

// Dispatch performs one Summarize call for req.
func Dispatch(ctx context.Context, s Summarizer, req *Request) Resolution {
	res, err := s.Summarize(ctx, req.Topic)
	if err == nil && res == nil {
		err = &summary.RequestFailure{Topic: req.Topic, Err: errNoResult}
	}
	if err != nil {
		log.Debug().
			Err(err).
			Str("request_id", req.ID.String()).
			Msg("summary request failed")
		return Resolution{RequestID: req.ID, Text: ErrorText, Err: err}
	}
	return Resolution{RequestID: req.ID, Text: res.Summary, Result: res}
}

// Settle appends the bot message for the in-flight request and clears the
// pending flag. Resolutions for anything but the in-flight request are
// dropped.
func (c *Controller) Settle(r Resolution) bool {
	if !c.pending || r.RequestID != c.inflight {
		log.Debug().
			Str("request_id", r.RequestID.String()).
			Msg("dropping stale resolution")
		return false
	}
	c.transcript = append(c.transcript, newMessage(RoleBot, r.Text, c.now()))
	c.pending = false
	c.inflight = uuid.Nil
	return true
}

// Exchange submits the current draft, waits for the answer and settles it.
func (c *Controller) Exchange(ctx context.Context) (Resolution, bool) {
	req, ok := c.Submit()
	if !ok {
		return Resolution{}, false
	}
	r := c.Dispatch(ctx, req)
	c.Settle(r)
	return r, true
}

func canSubmit(draft string, pending bool) bool {
	return !pending && strings.TrimSpace(draft) != ""
}
