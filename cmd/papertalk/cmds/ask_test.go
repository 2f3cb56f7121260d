package cmds

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/go-go-golems/papertalk/pkg/conversation"
	"github.com/go-go-golems/papertalk/pkg/summary"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type summarizerFunc func(ctx context.Context, topic string) (*summary.Result, error)

func (f summarizerFunc) Summarize(ctx context.Context, topic string) (*summary.Result, error) {
	return f(ctx, topic)
}

func withPapers(ctx context.Context, topic string) (*summary.Result, error) {
	return &summary.Result{
		Topic:   topic,
		Summary: "Here are the latest papers on '" + topic + "':\n• A",
		Papers:  []summary.Paper{{Title: "A"}},
	}, nil
}

func TestAsk_Success(t *testing.T) {
	out, err := ask(context.Background(), summarizerFunc(withPapers), "graph theory")
	require.NoError(t, err)
	require.Equal(t, "graph theory", out.Topic)
	require.Len(t, out.Transcript, 2)
	require.Equal(t, conversation.RoleUser, out.Transcript[0].Role)
	require.Equal(t, conversation.RoleBot, out.Transcript[1].Role)
	require.Len(t, out.Papers, 1)
	require.Empty(t, out.Error)
}

func TestAsk_FailureKeepsPlaceholder(t *testing.T) {
	failing := summarizerFunc(func(ctx context.Context, topic string) (*summary.Result, error) {
		return nil, &summary.RequestFailure{Topic: topic, Err: errors.New("connection refused")}
	})
	out, err := ask(context.Background(), failing, "graph theory")
	require.NoError(t, err)
	require.Equal(t, conversation.ErrorText, out.Transcript[1].Text)
	require.Contains(t, out.Error, "connection refused")
	require.Nil(t, out.Papers)
}

func TestAsk_BlankTopic(t *testing.T) {
	_, err := ask(context.Background(), summarizerFunc(withPapers), "  ")
	require.Error(t, err)
}

func TestWriteAskOutput_Formats(t *testing.T) {
	out, err := ask(context.Background(), summarizerFunc(withPapers), "graph theory")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeAskOutput(&buf, out, "text", false, ""))
	require.Equal(t, "user: graph theory\nbot: Here are the latest papers on 'graph theory':\n• A\n", buf.String())

	buf.Reset()
	require.NoError(t, writeAskOutput(&buf, out, "json", false, ""))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "graph theory", decoded["topic"])
	require.Len(t, decoded["transcript"], 2)

	buf.Reset()
	require.NoError(t, writeAskOutput(&buf, out, "yaml", false, ""))
	decoded = map[string]interface{}{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	require.Equal(t, "graph theory", decoded["topic"])
	require.Len(t, decoded["papers"], 1)
}
