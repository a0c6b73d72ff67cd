// internal/types/course_models.go
package types

// Stage outputs are plain value types. A stage reads the upstream value and
// returns a fresh one; nothing here is mutated after construction.

// --------------------------------------------
// Caller-supplied course parameters
// --------------------------------------------
type TopicSpec struct {
	Topic         string `json:"topic"`
	Audience      string `json:"audience"`
	Difficulty    string `json:"difficulty"` // beginner | intermediate | advanced
	DurationHours int    `json:"duration_hours"`
}

// --------------------------------------------
// Outline stage output
// --------------------------------------------
type CourseOutline struct {
	Title      string    `json:"title"`
	Sections   []Section `json:"sections"`
	Objectives []string  `json:"objectives"`
}

type Section struct {
	ID             int      `json:"id"` // contiguous from 1
	Title          string   `json:"title"`
	Subsections    []string `json:"subsections"`
	ContentSummary string   `json:"content_summary"`
}

// --------------------------------------------
// Lesson stage output
// --------------------------------------------
type Lesson struct {
	Title       string      `json:"title"`
	Objectives  []string    `json:"objectives"`
	Content     string      `json:"content"`
	Examples    []string    `json:"examples"`
	MiniProject MiniProject `json:"mini_project"`
}

type MiniProject struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Deliverables []string `json:"deliverables"`
}

// --------------------------------------------
// Assessment stage output
// --------------------------------------------
type Question struct {
	Kind          string   `json:"kind"` // MCQ | SAQ
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"` // exactly 4 for MCQ, empty for SAQ
	CorrectAnswer string   `json:"correct_answer"`
	Difficulty    string   `json:"difficulty"` // easy | medium | hard
}

// QuestionBank is the ordered sequence of questions produced for one topic.
type QuestionBank []Question

// --------------------------------------------
// Review stage output
// --------------------------------------------
type ReviewFeedback struct {
	Issues       []string `json:"issues"`
	Suggestions  []string `json:"suggestions"`
	ReadingLevel string   `json:"reading_level"`
	Duplicates   []string `json:"duplicates"`
}
