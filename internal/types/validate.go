package types

import (
	"fmt"
	"strings"
)

// Course difficulty levels accepted in a TopicSpec.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Question kinds and difficulties.
const (
	KindMCQ = "MCQ"
	KindSAQ = "SAQ"

	QuestionEasy   = "easy"
	QuestionMedium = "medium"
	QuestionHard   = "hard"
)

// MCQOptionCount is the fixed number of options every MCQ carries.
const MCQOptionCount = 4

// ValidationError reports caller input that fails a contract check. It is
// always raised before any external call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validCourseDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

func validQuestionDifficulty(d string) bool {
	switch d {
	case QuestionEasy, QuestionMedium, QuestionHard:
		return true
	}
	return false
}

// Validate checks the spec before it reaches a generation stage.
func (s TopicSpec) Validate() error {
	if strings.TrimSpace(s.Topic) == "" {
		return &ValidationError{Field: "topic", Reason: "must not be empty"}
	}
	if strings.TrimSpace(s.Audience) == "" {
		return &ValidationError{Field: "audience", Reason: "must not be empty"}
	}
	if !validCourseDifficulty(s.Difficulty) {
		return &ValidationError{Field: "difficulty", Reason: "must be beginner, intermediate or advanced"}
	}
	if s.DurationHours <= 0 {
		return &ValidationError{Field: "duration_hours", Reason: "must be positive"}
	}
	return nil
}

// Validate checks that the section is expandable into a lesson.
func (s Section) Validate() error {
	if s.ID < 1 {
		return &ValidationError{Field: "section.id", Reason: "must be at least 1"}
	}
	if strings.TrimSpace(s.Title) == "" {
		return &ValidationError{Field: "section.title", Reason: "must not be empty"}
	}
	return nil
}

// Validate checks a single question against the shape contract for its kind.
func (q Question) Validate() error {
	switch q.Kind {
	case KindMCQ:
		if len(q.Options) != MCQOptionCount {
			return &ValidationError{
				Field:  "options",
				Reason: fmt.Sprintf("MCQ must carry exactly %d options, got %d", MCQOptionCount, len(q.Options)),
			}
		}
		if strings.TrimSpace(q.CorrectAnswer) == "" {
			return &ValidationError{Field: "correct_answer", Reason: "must not be empty for MCQ"}
		}
	case KindSAQ:
		if len(q.Options) != 0 {
			return &ValidationError{Field: "options", Reason: "SAQ must not carry options"}
		}
	default:
		return &ValidationError{Field: "kind", Reason: "must be MCQ or SAQ"}
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return &ValidationError{Field: "prompt", Reason: "must not be empty"}
	}
	if !validQuestionDifficulty(q.Difficulty) {
		return &ValidationError{Field: "difficulty", Reason: "must be easy, medium or hard"}
	}
	return nil
}

// Validate checks every question in the bank. Caller-edited banks go through
// this before export; the position of the first bad question is reported.
func (b QuestionBank) Validate() error {
	if len(b) == 0 {
		return &ValidationError{Field: "questions", Reason: "must not be empty"}
	}
	for i, q := range b {
		if err := q.Validate(); err != nil {
			ve := err.(*ValidationError)
			return &ValidationError{
				Field:  fmt.Sprintf("questions[%d].%s", i, ve.Field),
				Reason: ve.Reason,
			}
		}
	}
	return nil
}

// Distribution counts questions by kind and difficulty, keyed "MCQ/easy".
func (b QuestionBank) Distribution() map[string]int {
	dist := make(map[string]int, len(b))
	for _, q := range b {
		dist[q.Kind+"/"+q.Difficulty]++
	}
	return dist
}
