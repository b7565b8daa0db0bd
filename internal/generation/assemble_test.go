package generation

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/dimitry-co/ai-study-buddy/internal/config"
	"github.com/dimitry-co/ai-study-buddy/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var assembleCfg = config.GenerationConfig{
	MinItems:                  1,
	MaxItems:                  60,
	BatchThreshold:            10,
	NumBatches:                3,
	MinBatchCompletionTokens:  50,
	MinSingleCompletionTokens: 100,
	SingleModeItemFloor:       5,
}

// mcqPayload builds a completion body with count questions, ids restarting
// at 1 the way each independent batch numbers its own output.
func mcqPayload(count int) string {
	var items []string
	for i := 1; i <= count; i++ {
		items = append(items, fmt.Sprintf(
			`{"id":%d,"question":"Q%d","options":["a","b","c","d"],"correct_answer":"A","explanation":"because"}`,
			i, i))
	}
	return `{"questions":[` + strings.Join(items, ",") + `]}`
}

func cardPayload(count int) string {
	var items []string
	for i := 1; i <= count; i++ {
		items = append(items, fmt.Sprintf(`{"id":%d,"question":"Q%d","answer":"A%d"}`, i, i, i))
	}
	return `{"cards":[` + strings.Join(items, ",") + `]}`
}

func okCompletion(content string) *Completion {
	return &Completion{
		Content:          content,
		FinishReason:     FinishReasonStop,
		PromptTokens:     300,
		CompletionTokens: 900,
	}
}

func singlePlan(size int) ExecutionPlan {
	return ExecutionPlan{Batches: []Batch{{Size: size}}}
}

func batchedPlan(sizes ...int) ExecutionPlan {
	plan := ExecutionPlan{}
	for i, size := range sizes {
		plan.Batches = append(plan.Batches, Batch{Size: size, Focus: batchFocuses[i%len(batchFocuses)]})
	}
	return plan
}

func TestAssembleSingleBatch(t *testing.T) {
	t.Parallel()

	set, err := assembleStudySet(
		[]*Completion{okCompletion(mcqPayload(3))},
		singlePlan(3), domain.ItemTypeMultipleChoice, 3, assembleCfg)
	require.NoError(t, err)

	require.Len(t, set.Questions, 3)
	for i, q := range set.Questions {
		assert.Equal(t, i+1, q.ID)
		assert.Len(t, q.Options, 4)
		assert.NotEmpty(t, q.Explanation)
	}
	assert.Equal(t, 1200, set.TokensUsed)
}

func TestAssembleRenumbersAcrossBatches(t *testing.T) {
	t.Parallel()

	// three batches, each locally numbered 1..10
	completions := []*Completion{
		okCompletion(mcqPayload(10)),
		okCompletion(mcqPayload(10)),
		okCompletion(mcqPayload(10)),
	}

	set, err := assembleStudySet(
		completions, batchedPlan(10, 10, 10),
		domain.ItemTypeMultipleChoice, 30, assembleCfg)
	require.NoError(t, err)

	require.Len(t, set.Questions, 30)
	for i, q := range set.Questions {
		assert.Equal(t, i+1, q.ID, "ids must be dense 1..30 in batch order")
	}
	// batch order preserved: item 11 is the second batch's first question
	assert.Equal(t, "Q1", set.Questions[10].Question)
}

func TestAssembleTrimsOverproduction(t *testing.T) {
	t.Parallel()

	set, err := assembleStudySet(
		[]*Completion{okCompletion(cardPayload(7))},
		singlePlan(5), domain.ItemTypeFlashcard, 5, assembleCfg)
	require.NoError(t, err)

	require.Len(t, set.Cards, 5)
	assert.Equal(t, 5, set.Cards[4].ID)
}

func TestAssembleTruncationFailsWholeRequest(t *testing.T) {
	t.Parallel()

	completions := []*Completion{
		okCompletion(mcqPayload(10)),
		{Content: mcqPayload(4), FinishReason: FinishReasonLength, CompletionTokens: 2400},
		okCompletion(mcqPayload(10)),
	}

	_, err := assembleStudySet(
		completions, batchedPlan(10, 10, 10),
		domain.ItemTypeMultipleChoice, 30, assembleCfg)
	require.ErrorIs(t, err, ErrTruncated)

	var truncated *TruncatedError
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, 4, truncated.Received)
	assert.Equal(t, 10, truncated.Requested)
}

func TestAssembleTruncationWithUnparseablePayload(t *testing.T) {
	t.Parallel()

	completions := []*Completion{
		{Content: `{"questions":[{"id":1,"quest`, FinishReason: FinishReasonLength, CompletionTokens: 2400},
	}

	_, err := assembleStudySet(
		completions, singlePlan(20), domain.ItemTypeMultipleChoice, 20, assembleCfg)

	var truncated *TruncatedError
	require.ErrorAs(t, err, &truncated)
	assert.Equal(t, 0, truncated.Received)
}

func TestAssembleDegenerateBatchMode(t *testing.T) {
	t.Parallel()

	completions := []*Completion{
		okCompletion(mcqPayload(10)),
		{Content: `{"questions":[]}`, FinishReason: FinishReasonStop, CompletionTokens: 12},
		okCompletion(mcqPayload(10)),
	}

	_, err := assembleStudySet(
		completions, batchedPlan(10, 10, 10),
		domain.ItemTypeMultipleChoice, 30, assembleCfg)
	require.ErrorIs(t, err, ErrDegenerate)
}

func TestAssembleDegenerateSingleMode(t *testing.T) {
	t.Parallel()

	short := &Completion{Content: cardPayload(1), FinishReason: FinishReasonStop, CompletionTokens: 40}

	// 5 items requested: cutoff applies
	_, err := assembleStudySet(
		[]*Completion{short}, singlePlan(5), domain.ItemTypeFlashcard, 5, assembleCfg)
	require.ErrorIs(t, err, ErrDegenerate)

	// 3 items requested: below the floor, short output is acceptable
	set, err := assembleStudySet(
		[]*Completion{short}, singlePlan(3), domain.ItemTypeFlashcard, 3, assembleCfg)
	require.NoError(t, err)
	assert.Len(t, set.Cards, 1)
}

func TestAssembleEmptyGeneration(t *testing.T) {
	t.Parallel()

	_, err := assembleStudySet(
		[]*Completion{okCompletion(`{"questions":[]}`)},
		singlePlan(3), domain.ItemTypeMultipleChoice, 3, assembleCfg)
	require.ErrorIs(t, err, ErrEmptyGeneration)
}

func TestAssembleWrongOptionCount(t *testing.T) {
	t.Parallel()

	payload := `{"questions":[
		{"id":1,"question":"Q1","options":["a","b","c","d"],"correct_answer":"A","explanation":"x"},
		{"id":2,"question":"Q2","options":["a","b","c"],"correct_answer":"B","explanation":"x"}
	]}`

	_, err := assembleStudySet(
		[]*Completion{okCompletion(payload)},
		singlePlan(2), domain.ItemTypeMultipleChoice, 2, assembleCfg)
	require.ErrorIs(t, err, ErrMalformedItem)

	var malformed *MalformedItemError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, 2, malformed.Position)
	assert.Equal(t, "options", malformed.Field)
}

func TestAssembleMissingAndMistypedFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		payload   string
		wantField string
	}{
		{
			"missing explanation",
			`{"questions":[{"id":1,"question":"Q","options":["a","b","c","d"],"correct_answer":"A"}]}`,
			"explanation",
		},
		{
			"numeric question",
			`{"questions":[{"id":1,"question":42,"options":["a","b","c","d"],"correct_answer":"A","explanation":"x"}]}`,
			"question",
		},
		{
			"string id",
			`{"questions":[{"id":"one","question":"Q","options":["a","b","c","d"],"correct_answer":"A","explanation":"x"}]}`,
			"id",
		},
		{
			"empty correct answer",
			`{"questions":[{"id":1,"question":"Q","options":["a","b","c","d"],"correct_answer":" ","explanation":"x"}]}`,
			"correct_answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := assembleStudySet(
				[]*Completion{okCompletion(tt.payload)},
				singlePlan(1), domain.ItemTypeMultipleChoice, 1, assembleCfg)

			var malformed *MalformedItemError
			require.ErrorAs(t, err, &malformed)
			assert.Equal(t, 1, malformed.Position)
			assert.Equal(t, tt.wantField, malformed.Field)
		})
	}
}

func TestAssembleFlashcardHint(t *testing.T) {
	t.Parallel()

	payload := `{"cards":[
		{"id":1,"question":"Q1","answer":"A1","hint":"starts with M"},
		{"id":2,"question":"Q2","answer":"A2"}
	]}`

	set, err := assembleStudySet(
		[]*Completion{okCompletion(payload)},
		singlePlan(2), domain.ItemTypeFlashcard, 2, assembleCfg)
	require.NoError(t, err)

	assert.Equal(t, "starts with M", set.Cards[0].Hint)
	assert.Empty(t, set.Cards[1].Hint)

	// mistyped hint fails
	bad := `{"cards":[{"id":1,"question":"Q","answer":"A","hint":7}]}`
	_, err = assembleStudySet(
		[]*Completion{okCompletion(bad)},
		singlePlan(1), domain.ItemTypeFlashcard, 1, assembleCfg)
	require.ErrorIs(t, err, ErrMalformedItem)
}

func TestExtractItemsShapes(t *testing.T) {
	t.Parallel()

	// fenced payload
	items, err := extractItems("```json\n" + mcqPayload(2) + "\n```")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// bare array
	items, err = extractItems(`[{"id":1},{"id":2},{"id":3}]`)
	require.NoError(t, err)
	assert.Len(t, items, 3)

	// generic collection field
	items, err = extractItems(`{"items":[{"id":1}]}`)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// no collection
	_, err = extractItems(`{"result":"ok"}`)
	require.Error(t, err)

	// invalid json
	_, err = extractItems(`{"questions":[`)
	require.Error(t, err)
}

func TestAssembleUnparseablePayloadIsMalformed(t *testing.T) {
	t.Parallel()

	_, err := assembleStudySet(
		[]*Completion{okCompletion("I could not find any study material.")},
		singlePlan(3), domain.ItemTypeMultipleChoice, 3, assembleCfg)
	require.ErrorIs(t, err, ErrMalformedItem)
}

func TestAssembleItemsSurviveRoundTrip(t *testing.T) {
	t.Parallel()

	set, err := assembleStudySet(
		[]*Completion{okCompletion(mcqPayload(2))},
		singlePlan(2), domain.ItemTypeMultipleChoice, 2, assembleCfg)
	require.NoError(t, err)

	encoded, err := json.Marshal(set.Questions)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"correct_answer":"A"`)
}
