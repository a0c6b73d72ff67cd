package genai

import "context"

// Mock is the offline generation client: a fixed, deterministic response for
// every prompt. cmd/api selects it when USE_MOCK_LLM is set; it is never
// substituted silently on failure.
type Mock struct{}

func (Mock) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Cause: classify(err), Err: err}
	}
	return mockCourseNotes, nil
}

const mockCourseNotes = `This course opens with the essential vocabulary and the minimum setup a learner needs before touching anything practical. Expect a short tour of the tooling, the conventions the field has settled on, and the two or three ideas everything later builds on.

The core concepts are developed next, one at a time, each introduced with a worked example before any formal definition. Learners should be able to explain each concept back in their own words and predict the behavior of small variations.

Practical application follows: realistic scenarios, common failure modes, and the judgment calls practitioners make daily. Each scenario ends with a short exercise that mirrors the worked example with one deliberate twist.

The final stretch covers the advanced material honestly, including where the standard advice breaks down. Best practices are presented with their trade-offs so learners know when not to apply them.`
