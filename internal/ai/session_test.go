package ai_test

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/miljoverk/samsvar/internal/ai"
	"github.com/miljoverk/samsvar/internal/testhelpers"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompleter replies with canned responses and records the history passed to each call.
type scriptedCompleter struct {
	replies   []string
	histories [][]openai.ChatCompletionMessage
	err       error
}

func (c *scriptedCompleter) Complete(_ context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	snapshot := make([]openai.ChatCompletionMessage, len(messages))
	copy(snapshot, messages)
	c.histories = append(c.histories, snapshot)
	if c.err != nil {
		return "", c.err
	}
	reply := "ok"
	if len(c.replies) > 0 {
		reply = c.replies[0]
		c.replies = c.replies[1:]
	}
	return reply, nil
}

func TestSession_accumulatesHistory(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{replies: []string{"first", "second", "third"}}
	session := ai.NewSession(completer, io.Discard, testhelpers.NewLogger(io.Discard))

	sends := 3
	for i := range sends {
		reply, err := session.Send(context.Background(), fmt.Sprintf("prompt %d", i+1))
		require.NoError(t, err)
		require.NotEmpty(t, reply)
	}

	// The history passed on call N contains all prior prompts and replies plus the new
	// prompt: 2(N-1)+1 messages.
	for i, history := range completer.histories {
		assert.Len(t, history, 2*i+1)
	}

	// Full turn log alternates user/assistant in send order.
	history := session.History()
	require.Len(t, history, 2*sends)
	assert.Equal(t, openai.ChatMessageRoleUser, history[0].Role)
	assert.Equal(t, "prompt 1", history[0].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, history[1].Role)
	assert.Equal(t, "first", history[1].Content)
	assert.Equal(t, "prompt 3", history[4].Content)
	assert.Equal(t, "third", history[5].Content)
}

func TestSession_writesTranscript(t *testing.T) {
	t.Parallel()

	var transcript strings.Builder
	completer := &scriptedCompleter{replies: []string{"the reply"}}
	session := ai.NewSession(completer, &transcript, testhelpers.NewLogger(io.Discard))

	_, err := session.Send(context.Background(), "the prompt")
	require.NoError(t, err)

	out := transcript.String()
	assert.Contains(t, out, "PROMPT SENT TO AI")
	assert.Contains(t, out, "the prompt")
	assert.Contains(t, out, "AI RESPONSE")
	assert.Contains(t, out, "the reply")
	assert.Contains(t, out, strings.Repeat("-", 80))
}

func TestSession_modelFailure(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{err: fmt.Errorf("%w: connection refused", ai.ErrModelInvocation)}
	session := ai.NewSession(completer, io.Discard, testhelpers.NewLogger(io.Discard))

	_, err := session.Send(context.Background(), "prompt")
	require.ErrorIs(t, err, ai.ErrModelInvocation)

	// The failed reply must not be recorded as an assistant turn.
	assert.Len(t, session.History(), 1)
}
