package genai

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"coursegen-go/internal/logger"
)

// Client is the single entry point to the text-generation capability. Every
// stage renders a prompt, calls Generate and parses the returned text; no
// other package talks to the provider.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OpenAI generates text through a chat-completions endpoint. The underlying
// API client is built once in cmd/api and shared with the transcriber.
type OpenAI struct {
	api            *openai.Client
	model          string
	defaultTimeout time.Duration
	log            *logrus.Entry
}

func NewOpenAI(api *openai.Client, model string, defaultTimeout time.Duration) *OpenAI {
	return &OpenAI{
		api:            api,
		model:          model,
		defaultTimeout: defaultTimeout,
		log:            logger.New().WithField("component", "genai"),
	}
}

// Generate sends a single user message and returns the model text verbatim.
// Semantic validation of the text is the caller's job. The call is not
// retried here; double-billing a failed generation is worse than surfacing
// the error.
func (c *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Cause: classify(err), Err: err}
	}
	if _, ok := ctx.Deadline(); !ok && c.defaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.defaultTimeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		gerr := &Error{Cause: classify(err), Err: err}
		c.log.WithError(err).WithField("cause", string(gerr.Cause)).Warn("generation call failed")
		return "", gerr
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		gerr := &Error{Cause: CauseMalformedResponse, Err: errors.New("response carried no usable choices")}
		c.log.WithField("cause", string(gerr.Cause)).Warn("generation call failed")
		return "", gerr
	}

	text := resp.Choices[0].Message.Content
	c.log.WithFields(logrus.Fields{
		"duration_ms":  time.Since(started).Milliseconds(),
		"prompt_len":   len(prompt),
		"response_len": len(text),
	}).Debug("generation call complete")
	return text, nil
}
