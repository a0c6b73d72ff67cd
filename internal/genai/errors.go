package genai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// Cause buckets every generation failure into the categories callers branch
// on. No provider SDK error type escapes this package.
type Cause string

const (
	CauseTimeout           Cause = "timeout"
	CauseAuth              Cause = "auth"
	CauseQuota             Cause = "quota"
	CauseMalformedResponse Cause = "malformed_response"
	CauseUnavailable       Cause = "unavailable"
)

type Error struct {
	Cause Cause
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Cause, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func classify(err error) Cause {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CauseTimeout
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return causeFromStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return causeFromStatus(reqErr.HTTPStatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CauseTimeout
	}
	return CauseUnavailable
}

func causeFromStatus(status int) Cause {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return CauseAuth
	case status == http.StatusTooManyRequests:
		return CauseQuota
	default:
		return CauseUnavailable
	}
}
