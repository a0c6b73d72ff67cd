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

// The four-part course skeleton. Section identity is positional and stable:
// regenerating an outline never renumbers or retitles a section.
var outlineScaffold = []struct {
	title       string
	subsections []string
	summary     string // fmt pattern over the topic
}{
	{"Introduction and Prerequisites", []string{"Overview", "Prerequisites", "Course Structure"}, "Introduction to %s concepts"},
	{"Core Concepts and Fundamentals", []string{"Basic Theory", "Key Principles", "Foundation Knowledge"}, "Fundamental concepts of %s"},
	{"Practical Applications and Examples", []string{"Real-world Examples", "Use Cases", "Implementation"}, "Practical applications of %s"},
	{"Advanced Topics and Best Practices", []string{"Advanced Techniques", "Best Practices", "Common Pitfalls"}, "Advanced %s concepts"},
}

const outlinePromptTmpl = `Create a comprehensive course outline for the topic: %s
Target audience: %s
Difficulty level: %s
Duration: %d hours

Write one short paragraph of guidance for each of these four sections, in order:
1. Introduction and Prerequisites
2. Core Concepts and Fundamentals
3. Practical Applications and Examples
4. Advanced Topics and Best Practices

Separate the paragraphs with blank lines. Do not add headings or commentary.%s`

// OutlineStage turns a topic spec into the four-section course outline,
// optionally grounded in transcribed source material.
type OutlineStage struct {
	gen genai.Client
	log *logrus.Entry
}

func NewOutlineStage(gen genai.Client) *OutlineStage {
	return &OutlineStage{
		gen: gen,
		log: logger.New().WithField("component", "stage-outline"),
	}
}

// BuildOutline validates the spec, runs one generation call and returns the
// fixed skeleton augmented with the model's per-section guidance. source may
// be empty; when present (the hand-off from the media path) it grounds the
// prompt and the model is told to keep its language.
func (s *OutlineStage) BuildOutline(ctx context.Context, spec types.TopicSpec, source string) (types.CourseOutline, error) {
	if err := spec.Validate(); err != nil {
		return types.CourseOutline{}, err
	}

	text, err := generate(ctx, s.gen, StageOutline, outlinePrompt(spec, source))
	if err != nil {
		return types.CourseOutline{}, err
	}

	outline := augmentOutline(scaffoldOutline(spec), text)
	s.log.WithFields(logrus.Fields{
		"topic":    spec.Topic,
		"sections": len(outline.Sections),
		"grounded": strings.TrimSpace(source) != "",
	}).Info("outline built")
	return outline, nil
}

func outlinePrompt(spec types.TopicSpec, source string) string {
	var grounding string
	if strings.TrimSpace(source) != "" {
		grounding = fmt.Sprintf("\n\nGround the guidance in the following source material and keep its language:\n%s", source)
	}
	return fmt.Sprintf(outlinePromptTmpl, spec.Topic, spec.Audience, spec.Difficulty, spec.DurationHours, grounding)
}

// scaffoldOutline is the deterministic half: same spec, same outline.
func scaffoldOutline(spec types.TopicSpec) types.CourseOutline {
	sections := make([]types.Section, 0, len(outlineScaffold))
	for i, sk := range outlineScaffold {
		sections = append(sections, types.Section{
			ID:             i + 1,
			Title:          sk.title,
			Subsections:    append([]string(nil), sk.subsections...),
			ContentSummary: fmt.Sprintf(sk.summary, spec.Topic),
		})
	}
	return types.CourseOutline{
		Title:    fmt.Sprintf("Complete Guide to %s", spec.Topic),
		Sections: sections,
		Objectives: []string{
			fmt.Sprintf("Understand the fundamentals of %s", spec.Topic),
			fmt.Sprintf("Apply %s concepts in real scenarios", spec.Topic),
			fmt.Sprintf("Master advanced %s techniques", spec.Topic),
			fmt.Sprintf("Implement best practices in %s", spec.Topic),
		},
	}
}

// augmentOutline distributes the model's paragraphs across section content
// summaries, in order. Structure never changes: surplus paragraphs are
// dropped, missing ones leave the scaffold summary in place.
func augmentOutline(outline types.CourseOutline, modelText string) types.CourseOutline {
	paras := splitParagraphs(modelText)
	for i := range outline.Sections {
		if i < len(paras) {
			outline.Sections[i].ContentSummary = paras[i]
		}
	}
	return outline
}

func splitParagraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n\n") {
		p = trimListMarker(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// trimListMarker drops a leading "3." / "3)" / "-" / "*" the model may add
// despite instructions.
func trimListMarker(s string) string {
	t := strings.TrimSpace(strings.TrimLeft(s, "-*•"))
	i := 0
	for i < len(t) && t[i] >= '0' && t[i] <= '9' {
		i++
	}
	if i > 0 && i < len(t) && (t[i] == '.' || t[i] == ')') {
		return strings.TrimSpace(t[i+1:])
	}
	return strings.TrimSpace(t)
}
