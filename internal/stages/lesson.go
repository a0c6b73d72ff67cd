package stages

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"coursegen-go/internal/genai"
	"coursegen-go/internal/logger"
	"coursegen-go/internal/types"
)

// DefaultContentCap bounds lesson content length in runes.
const DefaultContentCap = 800

const lessonPromptTmpl = `Create a detailed lesson for: %s
Topic: %s
Audience: %s, difficulty %s.

Include:
1. Clear learning objectives
2. Structured content with explanations
3. 2-3 practical examples
4. A hands-on mini-project

Make it engaging and appropriate for the target audience.`

// LessonStage expands one outline section into lesson material. Sections
// expand independently; concurrent calls share nothing mutable.
type LessonStage struct {
	gen        genai.Client
	contentCap int
	log        *logrus.Entry
}

func NewLessonStage(gen genai.Client, contentCap int) *LessonStage {
	if contentCap <= 0 {
		contentCap = DefaultContentCap
	}
	return &LessonStage{
		gen:        gen,
		contentCap: contentCap,
		log:        logger.New().WithField("component", "stage-lesson"),
	}
}

// ExpandSection runs one generation call and assembles the lesson: model text
// becomes the content, truncated at the configured cap rather than rejected;
// objectives, examples and the mini-project are the deterministic skeleton
// keyed off section title and topic.
func (s *LessonStage) ExpandSection(ctx context.Context, section types.Section, spec types.TopicSpec) (types.Lesson, error) {
	if err := spec.Validate(); err != nil {
		return types.Lesson{}, err
	}
	if err := section.Validate(); err != nil {
		return types.Lesson{}, err
	}

	prompt := fmt.Sprintf(lessonPromptTmpl, section.Title, spec.Topic, spec.Audience, spec.Difficulty)
	text, err := generate(ctx, s.gen, StageLesson, prompt)
	if err != nil {
		return types.Lesson{}, err
	}

	lesson := lessonSkeleton(section, spec)
	lesson.Content = truncateRunes(text, s.contentCap)

	s.log.WithFields(logrus.Fields{
		"section":     section.Title,
		"content_len": len(lesson.Content),
	}).Info("lesson expanded")
	return lesson, nil
}

// lessonSkeleton is the deterministic half of lesson assembly.
func lessonSkeleton(section types.Section, spec types.TopicSpec) types.Lesson {
	return types.Lesson{
		Title: section.Title,
		Objectives: []string{
			fmt.Sprintf("Understand key concepts in %s", section.Title),
			fmt.Sprintf("Apply %s knowledge practically", section.Title),
			"Complete hands-on exercises",
		},
		Examples: []string{
			fmt.Sprintf("Example 1: Basic %s implementation", spec.Topic),
			fmt.Sprintf("Example 2: Real-world %s use case", spec.Topic),
			fmt.Sprintf("Example 3: Advanced %s scenario", spec.Topic),
		},
		MiniProject: types.MiniProject{
			Title:       fmt.Sprintf("Hands-on %s Project", section.Title),
			Description: fmt.Sprintf("Apply %s concepts in a practical project", section.Title),
			Deliverables: []string{
				"Project implementation",
				"Documentation",
				"Reflection on learning",
			},
		},
	}
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
