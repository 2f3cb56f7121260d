package conversation

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/go-go-golems/papertalk/pkg/summary"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeSummarizer struct {
	topics []string
	answer func(topic string) (*summary.Result, error)
}

func (f *fakeSummarizer) Summarize(ctx context.Context, topic string) (*summary.Result, error) {
	f.topics = append(f.topics, topic)
	if f.answer == nil {
		return &summary.Result{Summary: "summary of " + topic}, nil
	}
	return f.answer(topic)
}

func TestController_InitialStateIsIdle(t *testing.T) {
	c := NewController(&fakeSummarizer{})
	st := c.State()
	require.Empty(t, st.Transcript)
	require.Equal(t, "", st.Draft)
	require.False(t, st.Pending)
	require.Equal(t, LayoutHero, st.Layout())
	require.False(t, st.CanSubmit())
}

func TestController_QuantumComputingSuccess(t *testing.T) {
	f := &fakeSummarizer{answer: func(topic string) (*summary.Result, error) {
		return &summary.Result{Summary: "Recent advances in..."}, nil
	}}
	c := NewController(f)
	c.UpdateDraft("quantum computing")

	r, ok := c.Exchange(context.Background())
	require.True(t, ok)
	require.NoError(t, r.Err)
	require.Equal(t, []string{"quantum computing"}, f.topics)

	st := c.State()
	require.False(t, st.Pending)
	require.Len(t, st.Transcript, 2)
	require.Equal(t, RoleUser, st.Transcript[0].Role)
	require.Equal(t, "quantum computing", st.Transcript[0].Text)
	require.Equal(t, RoleBot, st.Transcript[1].Role)
	require.Equal(t, "Recent advances in...", st.Transcript[1].Text)
}

func TestController_QuantumComputingFailure(t *testing.T) {
	f := &fakeSummarizer{answer: func(topic string) (*summary.Result, error) {
		return nil, &summary.RequestFailure{Topic: topic, Err: errors.New("connection refused")}
	}}
	c := NewController(f)
	c.UpdateDraft("quantum computing")

	r, ok := c.Exchange(context.Background())
	require.True(t, ok)
	require.Error(t, r.Err)

	st := c.State()
	require.False(t, st.Pending)
	require.Len(t, st.Transcript, 2)
	require.Equal(t, "quantum computing", st.Transcript[0].Text)
	require.Equal(t, RoleBot, st.Transcript[1].Role)
	require.Equal(t, "Error: Could not get response.", st.Transcript[1].Text)
}

func TestController_NilResultIsFailure(t *testing.T) {
	f := &fakeSummarizer{answer: func(topic string) (*summary.Result, error) {
		return nil, nil
	}}
	c := NewController(f)
	c.UpdateDraft("x")

	r, ok := c.Exchange(context.Background())
	require.True(t, ok)
	require.Error(t, r.Err)
	require.Equal(t, ErrorText, c.State().Transcript[1].Text)
}

func TestController_BlankDraftIsNoop(t *testing.T) {
	for _, draft := range []string{"", "   ", "\t\n "} {
		f := &fakeSummarizer{}
		c := NewController(f)
		c.UpdateDraft(draft)

		req, ok := c.Submit()
		require.False(t, ok)
		require.Nil(t, req)
		require.Empty(t, c.State().Transcript)
		require.False(t, c.Pending())
		require.Equal(t, draft, c.Draft())
		require.Empty(t, f.topics)
	}
}

func TestController_SubmitWhilePendingIsRejected(t *testing.T) {
	f := &fakeSummarizer{}
	c := NewController(f)

	c.UpdateDraft("a")
	req, ok := c.Submit()
	require.True(t, ok)

	c.UpdateDraft("b")
	require.False(t, c.CanSubmit())
	second, ok := c.Submit()
	require.False(t, ok)
	require.Nil(t, second)
	require.Equal(t, "b", c.Draft())
	require.Len(t, c.State().Transcript, 1)

	require.True(t, c.Settle(c.Dispatch(context.Background(), req)))
	require.Equal(t, []string{"a"}, f.topics)
	require.Len(t, c.State().Transcript, 2)
}

func TestController_SubmitIsOptimistic(t *testing.T) {
	c := NewController(&fakeSummarizer{})
	c.UpdateDraft("  padded topic  ")

	req, ok := c.Submit()
	require.True(t, ok)
	require.Equal(t, "  padded topic  ", req.Topic)

	st := c.State()
	require.True(t, st.Pending)
	require.Equal(t, "", st.Draft)
	require.Len(t, st.Transcript, 1)
	require.Equal(t, RoleUser, st.Transcript[0].Role)
	require.Equal(t, "  padded topic  ", st.Transcript[0].Text)
	require.Equal(t, LayoutTranscript, st.Layout())
}

func TestController_DraftClearedRegardlessOfOutcome(t *testing.T) {
	f := &fakeSummarizer{answer: func(topic string) (*summary.Result, error) {
		if topic == "bad" {
			return nil, errors.New("nope")
		}
		return &summary.Result{Summary: "ok"}, nil
	}}
	c := NewController(f)
	for _, topic := range []string{"good", "bad"} {
		c.UpdateDraft(topic)
		req, ok := c.Submit()
		require.True(t, ok)
		require.Equal(t, "", c.Draft())
		c.Settle(c.Dispatch(context.Background(), req))
		require.Equal(t, "", c.Draft())
	}
}

func TestController_TranscriptAlternates(t *testing.T) {
	f := &fakeSummarizer{answer: func(topic string) (*summary.Result, error) {
		if strings.HasSuffix(topic, "3") {
			return nil, errors.New("flaky")
		}
		return &summary.Result{Summary: "answer " + topic}, nil
	}}
	c := NewController(f)

	const n = 7
	for i := 0; i < n; i++ {
		c.UpdateDraft(fmt.Sprintf("topic %d", i))
		_, ok := c.Exchange(context.Background())
		require.True(t, ok)
		// blank and duplicate submits in between never count
		c.UpdateDraft(" ")
		_, ok = c.Submit()
		require.False(t, ok)
	}

	st := c.State()
	require.Len(t, st.Transcript, 2*n)
	for i, m := range st.Transcript {
		if i%2 == 0 {
			require.Equal(t, RoleUser, m.Role)
			require.Equal(t, fmt.Sprintf("topic %d", i/2), m.Text)
		} else {
			require.Equal(t, RoleBot, m.Role)
		}
	}
	require.Equal(t, ErrorText, st.Transcript[7].Text)
	require.Len(t, f.topics, n)
}

func TestController_SettleIgnoresStaleResolutions(t *testing.T) {
	c := NewController(&fakeSummarizer{})

	require.False(t, c.Settle(Resolution{RequestID: uuid.New(), Text: "ghost"}))
	require.Empty(t, c.State().Transcript)

	c.UpdateDraft("a")
	req, ok := c.Submit()
	require.True(t, ok)
	require.False(t, c.Settle(Resolution{RequestID: uuid.New(), Text: "other"}))
	require.True(t, c.Pending())

	r := c.Dispatch(context.Background(), req)
	require.True(t, c.Settle(r))
	require.False(t, c.Settle(r))
	require.Len(t, c.State().Transcript, 2)
}

func TestController_StateIsACopy(t *testing.T) {
	c := NewController(&fakeSummarizer{})
	c.UpdateDraft("a")
	_, ok := c.Exchange(context.Background())
	require.True(t, ok)

	st := c.State()
	st.Transcript[0].Text = "mutated"
	require.Equal(t, "a", c.State().Transcript[0].Text)
}

func TestSelectLayout(t *testing.T) {
	one := []Message{{Role: RoleUser, Text: "a"}}
	require.Equal(t, LayoutHero, SelectLayout(nil, false))
	require.Equal(t, LayoutTranscript, SelectLayout(nil, true))
	require.Equal(t, LayoutTranscript, SelectLayout(one, false))
	require.Equal(t, LayoutTranscript, SelectLayout(one, true))
}

func TestState_LastBotMessage(t *testing.T) {
	st := State{}
	_, ok := st.LastBotMessage()
	require.False(t, ok)

	st.Transcript = []Message{
		{Role: RoleUser, Text: "a"},
		{Role: RoleBot, Text: "first"},
		{Role: RoleUser, Text: "b"},
		{Role: RoleBot, Text: "second"},
	}
	m, ok := st.LastBotMessage()
	require.True(t, ok)
	require.Equal(t, "second", m.Text)
}
