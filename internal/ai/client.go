package ai

import (
	"context"
	"fmt"

	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/sashabaranov/go-openai"
)

// ErrModelInvocation signals that the remote model call failed, e.g. network or quota
// trouble. It aborts the whole pipeline run; there is no retry.
var ErrModelInvocation = errors.NewSentinel("model invocation failed")

// Completer abstracts the remote chat model so the pipeline can run against a scripted
// fake in tests.
type Completer interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error)
}

// MaxTokens bounds the length of each model reply.
const MaxTokens = 1500

type Client struct {
	client *openai.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
	}
}

// Complete sends the full message history to the model and returns the reply text.
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:     openai.GPT4oMini,
			MaxTokens: MaxTokens,
			Messages:  messages,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrModelInvocation, err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrModelInvocation)
	}
	return completion.Choices[0].Message.Content, nil
}
