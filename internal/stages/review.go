package stages

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"coursegen-go/internal/genai"
	"coursegen-go/internal/logger"
	"coursegen-go/internal/types"
)

// maxReviewPayload caps how much of the artifact is quoted into the prompt.
// Local analysis always sees the whole artifact.
const maxReviewPayload = 4000

const reviewPromptTmpl = `Review this educational content for:
1. Ambiguous question stems or unclear language
2. Reading level appropriateness
3. Potential bias or insensitive framing
4. Duplicate or overly similar content
5. Technical accuracy

Content to review:
%s

Respond with JSON: {"issues": [], "suggestions": []}. One sentence per entry,
no commentary outside the JSON.`

// ReviewStage audits a generated or caller-authored artifact. Feedback is
// the model's notes merged with local analysis of the artifact itself; given
// a fixed generation client the stage is a pure function of its input. It is
// a terminal stage: nothing consumes its output downstream.
type ReviewStage struct {
	gen genai.Client
	log *logrus.Entry
}

func NewReviewStage(gen genai.Client) *ReviewStage {
	return &ReviewStage{
		gen: gen,
		log: logger.New().WithField("component", "stage-review"),
	}
}

// Review accepts any JSON-shaped artifact and never mutates it; all analysis
// runs on a re-decoded copy.
func (s *ReviewStage) Review(ctx context.Context, artifact any) (types.ReviewFeedback, error) {
	if artifact == nil {
		return types.ReviewFeedback{}, &types.ValidationError{Field: "content", Reason: "must not be empty"}
	}
	payload, err := json.Marshal(artifact)
	if err != nil {
		return types.ReviewFeedback{}, &types.ValidationError{Field: "content", Reason: "must be JSON-serializable"}
	}

	prompt := fmt.Sprintf(reviewPromptTmpl, truncateRunes(string(payload), maxReviewPayload))
	text, err := generate(ctx, s.gen, StageReview, prompt)
	if err != nil {
		return types.ReviewFeedback{}, err
	}

	issues, suggestions := parseReviewNotes(text)
	analysis := analyzeContent(payload)

	feedback := types.ReviewFeedback{
		Issues:       issues,
		Suggestions:  append(suggestions, analysis.advice()...),
		ReadingLevel: analysis.readingLevel(),
		Duplicates:   analysis.duplicates,
	}
	s.log.WithFields(logrus.Fields{
		"issues":     len(feedback.Issues),
		"duplicates": len(feedback.Duplicates),
	}).Info("content reviewed")
	return feedback, nil
}

// parseReviewNotes reads the model's feedback. The JSON shape the prompt
// asks for is tried first; free-form bullet lines are the fallback. Either
// way the lists come back non-nil and capped.
func parseReviewNotes(text string) (issues, suggestions []string) {
	issues = []string{}
	suggestions = []string{}

	if raw := genai.ExtractJSON(text); raw != "" {
		var parsed struct {
			Issues      []string `json:"issues"`
			Suggestions []string `json:"suggestions"`
		}
		if err := json.Unmarshal([]byte(raw), &parsed); err == nil && (len(parsed.Issues) > 0 || len(parsed.Suggestions) > 0) {
			return capNotes(parsed.Issues), capNotes(parsed.Suggestions)
		}
	}

	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = trimListMarker(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "suggest") || strings.Contains(lower, "consider") || strings.Contains(lower, "recommend") {
			suggestions = append(suggestions, line)
		} else {
			issues = append(issues, line)
		}
	}
	return capNotes(issues), capNotes(suggestions)
}

func capNotes(notes []string) []string {
	const maxNotes = 6
	if notes == nil {
		return []string{}
	}
	if len(notes) > maxNotes {
		return notes[:maxNotes]
	}
	return notes
}
