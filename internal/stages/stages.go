package stages

import (
	"context"
	"fmt"

	"coursegen-go/internal/genai"
)

// Stage names as they appear in wrapped errors and API payloads.
const (
	StageOutline    = "outline"
	StageLesson     = "lesson"
	StageAssessment = "assessment"
	StageReview     = "review"
)

// PipelineError marks which stage a generation failure belongs to. The
// wrapped error keeps its type; errors.As reaches the genai.Error beneath.
type PipelineError struct {
	Stage string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// generate runs one model call for a stage. Cancellation is checked before
// the external call, never mid-assembly.
func generate(ctx context.Context, gen genai.Client, stage, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &PipelineError{Stage: stage, Err: err}
	}
	text, err := gen.Generate(ctx, prompt)
	if err != nil {
		return "", &PipelineError{Stage: stage, Err: err}
	}
	return text, nil
}
