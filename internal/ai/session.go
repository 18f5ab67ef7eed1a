package ai

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/sashabaranov/go-openai"
)

// Session is a stateful wrapper around a single model dialogue. Every Send appends the
// prompt and the reply to one append-only history, and each call passes the complete
// history to the model, so later prompts can refer back to earlier content without
// re-sending it.
//
// Invariant: turns must be sent in pipeline order, criteria context first, then document
// chunks in file order, then the finalization prompt. The model has no other access to
// prior files, so reordering breaks the "remember this" contract.
//
// A Session is owned by exactly one pipeline run and is not safe for concurrent use.
type Session struct {
	completer  Completer
	history    []openai.ChatCompletionMessage
	transcript io.Writer
	logger     *slog.Logger
}

// NewSession starts an empty dialogue. Every prompt and reply is echoed to the
// transcript writer in a clearly delimited, human-readable form so that operators can
// reconstruct exactly what the model was told.
func NewSession(completer Completer, transcript io.Writer, logger *slog.Logger) *Session {
	return &Session{
		completer:  completer,
		history:    nil,
		transcript: transcript,
		logger:     logger.With("source", "Session"),
	}
}

// Send appends prompt as a user turn, invokes the model with the accumulated history,
// appends the reply as an assistant turn and returns the reply text.
func (s *Session) Send(ctx context.Context, prompt string) (string, error) {
	s.writeTranscript("PROMPT SENT TO AI", prompt)

	s.history = append(s.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	reply, err := s.completer.Complete(ctx, s.history)
	if err != nil {
		return "", errors.Wrap(err, "complete conversation", slog.Int("turns", len(s.history)))
	}

	s.writeTranscript("AI RESPONSE", reply)

	s.history = append(s.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: reply,
	})
	s.logger.DebugContext(ctx, "conversation turn finished", "turns", len(s.history))

	return reply, nil
}

// History returns a copy of the accumulated turns.
func (s *Session) History() []openai.ChatCompletionMessage {
	history := make([]openai.ChatCompletionMessage, len(s.history))
	copy(history, s.history)
	return history
}

const transcriptSeparatorLength = 80

func (s *Session) writeTranscript(label, content string) {
	separator := strings.Repeat("-", transcriptSeparatorLength)
	_, _ = fmt.Fprintf(s.transcript, "\n%s\n%s:\n%s\n%s\n%s\n", separator, label, separator, content, separator)
}
