package stages

import (
	"context"
	"errors"
	"testing"

	"coursegen-go/internal/genai"
	"coursegen-go/internal/types"
)

// stubClient is the deterministic generation client used across stage tests.
type stubClient struct {
	response string
	err      error
	calls    int
	prompts  []string
}

func (s *stubClient) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func validSpec() types.TopicSpec {
	return types.TopicSpec{
		Topic:         "Kubernetes",
		Audience:      "platform engineers",
		Difficulty:    types.DifficultyIntermediate,
		DurationHours: 8,
	}
}

func wantStageError(t *testing.T, err error, stage string) *PipelineError {
	t.Helper()
	var perr *PipelineError
	if !errors.As(err, &perr) {
		t.Fatalf("error = %v, want *PipelineError", err)
	}
	if perr.Stage != stage {
		t.Fatalf("stage = %q, want %q", perr.Stage, stage)
	}
	return perr
}

func TestPipelineError_UnwrapsToCause(t *testing.T) {
	gerr := &genai.Error{Cause: genai.CauseQuota, Err: errors.New("429")}
	perr := &PipelineError{Stage: StageOutline, Err: gerr}

	var got *genai.Error
	if !errors.As(perr, &got) {
		t.Fatal("errors.As did not reach the genai.Error")
	}
	if got.Cause != genai.CauseQuota {
		t.Errorf("cause = %s, want %s", got.Cause, genai.CauseQuota)
	}
}

func TestTrimListMarker(t *testing.T) {
	tests := []struct{ in, want string }{
		{"1. First point", "First point"},
		{"12) Later point", "Later point"},
		{"- bullet", "bullet"},
		{"* star", "star"},
		{"plain", "plain"},
		{"2023 was a year", "2023 was a year"},
	}
	for _, tt := range tests {
		if got := trimListMarker(tt.in); got != tt.want {
			t.Errorf("trimListMarker(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
