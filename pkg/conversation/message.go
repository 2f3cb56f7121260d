package conversation

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Message is one immutable transcript entry.
type Message struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Role      Role      `json:"role" yaml:"role"`
	Text      string    `json:"text" yaml:"text"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

func newMessage(role Role, text string, now time.Time) Message {
	return Message{
		ID:        uuid.New(),
		Role:      role,
		Text:      text,
		CreatedAt: now,
	}
}

type Layout string

const (
	// LayoutHero is the centered prompt shown before anything happened.
	LayoutHero       Layout = "hero"
	LayoutTranscript Layout = "transcript"
)

// SelectLayout picks the hero layout only while nothing was said and nothing
// is pending.
func SelectLayout(transcript []Message, pending bool) Layout {
	if len(transcript) == 0 && !pending {
		return LayoutHero
	}
	return LayoutTranscript
}

// State is a snapshot of a session, safe to hand to renderers.
type State struct {
	Transcript []Message
	Draft      string
	Pending    bool
}

func (s State) Layout() Layout {
	return SelectLayout(s.Transcript, s.Pending)
}

// CanSubmit reports whether a submit would be accepted.
func (s State) CanSubmit() bool {
	return canSubmit(s.Draft, s.Pending)
}

// LastBotMessage returns the most recent bot message, if any.
func (s State) LastBotMessage() (Message, bool) {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Role == RoleBot {
			return s.Transcript[i], true
		}
	}
	return Message{}, false
}
