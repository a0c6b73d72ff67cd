package stages

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"coursegen-go/internal/genai"
	"coursegen-go/internal/logger"
	"coursegen-go/internal/types"
)

// Fixed difficulty ladder: 10 MCQ then 3 SAQ, in this order, always.
var (
	mcqDifficulties = []string{
		types.QuestionEasy, types.QuestionEasy, types.QuestionEasy,
		types.QuestionMedium, types.QuestionMedium, types.QuestionMedium, types.QuestionMedium,
		types.QuestionHard, types.QuestionHard, types.QuestionHard,
	}
	saqDifficulties = []string{types.QuestionMedium, types.QuestionHard, types.QuestionHard}
)

const assessmentPromptTmpl = `Generate assessment coverage for the topic: %s

List 13 distinct aspects of the topic that questions should cover, one per
line, most fundamental first. Keep each aspect under ten words. No commentary.`

// AssessmentStage builds the fixed-shape question bank for a topic: exactly
// 10 MCQs (4 options each) and 3 SAQs (no options). The model varies what
// the questions ask about, never how many there are.
type AssessmentStage struct {
	gen genai.Client
	log *logrus.Entry
}

func NewAssessmentStage(gen genai.Client) *AssessmentStage {
	return &AssessmentStage{
		gen: gen,
		log: logger.New().WithField("component", "stage-assessment"),
	}
}

func (s *AssessmentStage) BuildQuestionBank(ctx context.Context, topic string) (types.QuestionBank, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, &types.ValidationError{Field: "topic", Reason: "must not be empty"}
	}

	text, err := generate(ctx, s.gen, StageAssessment, fmt.Sprintf(assessmentPromptTmpl, topic))
	if err != nil {
		return nil, err
	}

	bank := assembleQuestionBank(topic, parseAspects(text))
	s.log.WithFields(logrus.Fields{
		"topic":     topic,
		"questions": len(bank),
	}).Info("question bank built")
	return bank, nil
}

// parseAspects reads one aspect per line from model output, dropping list
// markers and blanks. At most 13 are kept, one per question slot.
func parseAspects(text string) []string {
	var aspects []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = trimListMarker(strings.TrimSpace(line))
		if line == "" {
			continue
		}
		aspects = append(aspects, line)
		if len(aspects) == len(mcqDifficulties)+len(saqDifficulties) {
			break
		}
	}
	return aspects
}

// assembleQuestionBank is the deterministic half: the bank shape depends
// only on the difficulty ladders, never on how many aspects the model gave.
func assembleQuestionBank(topic string, aspects []string) types.QuestionBank {
	aspect := func(i int) string {
		if i < len(aspects) {
			return aspects[i]
		}
		return fmt.Sprintf("a key aspect of %s", topic)
	}

	bank := make(types.QuestionBank, 0, len(mcqDifficulties)+len(saqDifficulties))
	for i, difficulty := range mcqDifficulties {
		bank = append(bank, types.Question{
			Kind:   types.KindMCQ,
			Prompt: fmt.Sprintf("Which of the following best describes %s? (Q%d)", aspect(i), i+1),
			Options: []string{
				fmt.Sprintf("Option A for %s", topic),
				fmt.Sprintf("Option B for %s", topic),
				fmt.Sprintf("Option C for %s", topic),
				fmt.Sprintf("Option D for %s", topic),
			},
			CorrectAnswer: "Option A",
			Difficulty:    difficulty,
		})
	}
	for i, difficulty := range saqDifficulties {
		bank = append(bank, types.Question{
			Kind:          types.KindSAQ,
			Prompt:        fmt.Sprintf("Explain the practical significance of %s in real-world applications. (SAQ %d)", aspect(len(mcqDifficulties)+i), i+1),
			Options:       []string{},
			CorrectAnswer: fmt.Sprintf("Sample answer should cover key concepts, practical applications, and benefits of %s", topic),
			Difficulty:    difficulty,
		})
	}
	return bank
}
