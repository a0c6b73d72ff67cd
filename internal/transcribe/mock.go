package transcribe

import "context"

// Mock returns a canned transcript without touching the network or reading
// the audio. cmd/api selects it when USE_MOCK_TRANSCRIBE is set.
type Mock struct{}

func (Mock) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &Error{Err: err}
	}
	return mockTranscript, nil
}

const mockTranscript = "Welcome to the course. Today we cover the fundamentals, work through two examples end to end, and close with the common mistakes to avoid when applying this in production."
