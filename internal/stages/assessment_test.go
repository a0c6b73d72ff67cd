package stages

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"coursegen-go/internal/genai"
	"coursegen-go/internal/types"
)

const aspectList = `1. Container scheduling
2. Service discovery
3. Rolling deployments
4. Resource limits
5. Liveness probes`

func TestAssessmentStage_BankShape(t *testing.T) {
	stage := NewAssessmentStage(&stubClient{response: aspectList})

	bank, err := stage.BuildQuestionBank(context.Background(), "Kubernetes")
	if err != nil {
		t.Fatalf("BuildQuestionBank() error = %v", err)
	}

	if len(bank) != 13 {
		t.Fatalf("questions = %d, want 13", len(bank))
	}
	for i, q := range bank[:10] {
		if q.Kind != types.KindMCQ {
			t.Errorf("question %d kind = %q, want MCQ", i+1, q.Kind)
		}
		if len(q.Options) != 4 {
			t.Errorf("question %d options = %d, want 4", i+1, len(q.Options))
		}
		if q.CorrectAnswer != "Option A" {
			t.Errorf("question %d correct answer = %q", i+1, q.CorrectAnswer)
		}
	}
	for i, q := range bank[10:] {
		if q.Kind != types.KindSAQ {
			t.Errorf("SAQ %d kind = %q", i+1, q.Kind)
		}
		if len(q.Options) != 0 {
			t.Errorf("SAQ %d carries %d options", i+1, len(q.Options))
		}
	}

	dist := bank.Distribution()
	want := map[string]int{
		"MCQ/easy": 3, "MCQ/medium": 4, "MCQ/hard": 3,
		"SAQ/medium": 1, "SAQ/hard": 2,
	}
	if !reflect.DeepEqual(dist, want) {
		t.Errorf("distribution = %v, want %v", dist, want)
	}

	if err := bank.Validate(); err != nil {
		t.Errorf("generated bank fails its own contract: %v", err)
	}
}

func TestAssessmentStage_AspectsVaryPrompts(t *testing.T) {
	stage := NewAssessmentStage(&stubClient{response: aspectList})

	bank, err := stage.BuildQuestionBank(context.Background(), "Kubernetes")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(bank[0].Prompt, "Container scheduling") {
		t.Errorf("question 1 prompt = %q, want first aspect woven in", bank[0].Prompt)
	}
	if !strings.Contains(bank[1].Prompt, "Service discovery") {
		t.Errorf("question 2 prompt = %q", bank[1].Prompt)
	}
	// only five aspects given; later slots fall back to the generic phrase
	if !strings.Contains(bank[9].Prompt, "a key aspect of Kubernetes") {
		t.Errorf("question 10 prompt = %q, want generic fallback", bank[9].Prompt)
	}
	if bank[0].Prompt == bank[1].Prompt {
		t.Error("aspect-woven prompts are identical")
	}
}

func TestAssessmentStage_EmptyTopicFailsFast(t *testing.T) {
	stub := &stubClient{response: aspectList}
	stage := NewAssessmentStage(stub)

	_, err := stage.BuildQuestionBank(context.Background(), "   ")
	var ve *types.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	if stub.calls != 0 {
		t.Errorf("generation calls = %d, want 0", stub.calls)
	}
}

func TestAssessmentStage_GenerationErrorWrapped(t *testing.T) {
	stage := NewAssessmentStage(&stubClient{err: &genai.Error{Cause: genai.CauseQuota, Err: errors.New("429")}})

	_, err := stage.BuildQuestionBank(context.Background(), "Kubernetes")
	perr := wantStageError(t, err, StageAssessment)

	var gerr *genai.Error
	if !errors.As(perr, &gerr) || gerr.Cause != genai.CauseQuota {
		t.Errorf("cause not preserved: %v", err)
	}
}

func TestAssessmentStage_Deterministic(t *testing.T) {
	stage := NewAssessmentStage(&stubClient{response: aspectList})

	a, err := stage.BuildQuestionBank(context.Background(), "Kubernetes")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := stage.BuildQuestionBank(context.Background(), "Kubernetes")
	if !reflect.DeepEqual(a, b) {
		t.Error("same topic and model text produced different banks")
	}
}

func TestParseAspects_CapsAtSlotCount(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "aspect")
	}
	if got := len(parseAspects(strings.Join(lines, "\n"))); got != 13 {
		t.Errorf("aspects = %d, want capped at 13", got)
	}
}
