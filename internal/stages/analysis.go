package stages

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// contentAnalysis holds the locally computed evidence the review stage folds
// into its feedback: duplicate strings and prose statistics. It never leaves
// this package; only its derived fields do.
type contentAnalysis struct {
	duplicates    []string
	sentenceCount int
	wordCount     int
}

// analyzeContent walks the JSON artifact and measures its prose. The walk
// runs over a fresh decode of the payload, so the caller's value is never
// touched.
func analyzeContent(payload []byte) contentAnalysis {
	var decoded any
	_ = json.Unmarshal(payload, &decoded)

	strs := collectStrings(decoded)
	analysis := contentAnalysis{duplicates: findDuplicates(strs)}
	for _, s := range strs {
		analysis.wordCount += len(strings.Fields(s))
		analysis.sentenceCount += countSentences(s)
	}
	return analysis
}

// collectStrings gathers every string value in document order. Keys are
// schema, not content, and are skipped.
func collectStrings(v any) []string {
	switch t := v.(type) {
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	case []any:
		var out []string
		for _, item := range t {
			out = append(out, collectStrings(item)...)
		}
		return out
	case map[string]any:
		// map order is random; sort keys so analysis output is stable
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			out = append(out, collectStrings(t[k])...)
		}
		return out
	default:
		return nil
	}
}

// findDuplicates reports strings that occur more than once after
// normalization, in first-seen order.
func findDuplicates(strs []string) []string {
	counts := make(map[string]int, len(strs))
	first := make(map[string]string, len(strs))
	var order []string
	for _, s := range strs {
		key := normalize(s)
		if key == "" {
			continue
		}
		if counts[key] == 0 {
			order = append(order, key)
			first[key] = strings.TrimSpace(s)
		}
		counts[key]++
	}

	dups := []string{}
	for _, key := range order {
		if counts[key] > 1 {
			dups = append(dups, fmt.Sprintf("%q appears %d times", first[key], counts[key]))
		}
		if len(dups) == 5 {
			break
		}
	}
	return dups
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func countSentences(s string) int {
	n := strings.Count(s, ".") + strings.Count(s, "!") + strings.Count(s, "?")
	if n == 0 && strings.TrimSpace(s) != "" {
		return 1
	}
	return n
}

// readingLevel grades the artifact's prose by average sentence length, on
// the Grade 9-13 scale the review rubric uses.
func (a contentAnalysis) readingLevel() string {
	if a.sentenceCount == 0 {
		return "Unknown (no prose content found)"
	}
	avg := float64(a.wordCount) / float64(a.sentenceCount)
	switch {
	case avg < 12:
		return "Grade 9 (accessible for most audiences)"
	case avg <= 20:
		return "Grade 11 (appropriate for target audience)"
	default:
		return "Grade 13 (dense; shorter sentences would help)"
	}
}

// advice turns detected evidence into recommended actions.
func (a contentAnalysis) advice() []string {
	var out []string
	if len(a.duplicates) > 0 {
		out = append(out, "Vary repeated wording; several entries are near-identical")
	}
	if a.sentenceCount > 0 && float64(a.wordCount)/float64(a.sentenceCount) > 20 {
		out = append(out, "Break up long sentences to improve readability")
	}
	return out
}
