package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dimitry-co/ai-study-buddy/internal/config"
	"github.com/dimitry-co/ai-study-buddy/internal/domain"
)

// assembleStudySet validates every raw completion, concatenates the batches'
// items in batch order, renumbers ids densely 1..N, trims overproduction to
// requestedCount, and strictly checks every item's shape. Any single defect
// fails the whole generation.
func assembleStudySet(
	completions []*Completion,
	plan ExecutionPlan,
	itemType domain.ItemType,
	requestedCount int,
	cfg config.GenerationConfig,
) (*domain.StudySet, error) {
	var raw []json.RawMessage
	tokensUsed := 0

	for i, c := range completions {
		items, parseErr := extractItems(c.Content)

		// Truncation first: a response cut off by the token ceiling is
		// rejected even if a prefix of it parses.
		if c.FinishReason == FinishReasonLength {
			received := 0
			if parseErr == nil {
				received = len(items)
			}
			return nil, &TruncatedError{Received: received, Requested: plan.Batches[i].Size}
		}

		if degenerate(c, plan, requestedCount, cfg) {
			return nil, &DegenerateError{
				CompletionTokens: c.CompletionTokens,
				Requested:        requestedCount,
			}
		}

		if parseErr != nil {
			return nil, fmt.Errorf("%w: cannot parse completion payload: %v",
				ErrMalformedItem, parseErr)
		}

		raw = append(raw, items...)
		tokensUsed += c.PromptTokens + c.CompletionTokens
	}

	if len(raw) == 0 {
		return nil, ErrEmptyGeneration
	}

	// Per-batch ids restart at 1 and are discarded; items are renumbered
	// across the concatenation below.
	if len(raw) > requestedCount {
		raw = raw[:requestedCount]
	}

	set := &domain.StudySet{Type: itemType, TokensUsed: tokensUsed}
	for i, item := range raw {
		pos := i + 1
		switch itemType {
		case domain.ItemTypeMultipleChoice:
			q, err := decodeMultipleChoice(item, pos)
			if err != nil {
				return nil, err
			}
			q.ID = pos
			set.Questions = append(set.Questions, *q)
		case domain.ItemTypeFlashcard:
			card, err := decodeFlashcard(item, pos)
			if err != nil {
				return nil, err
			}
			card.ID = pos
			set.Cards = append(set.Cards, *card)
		}
	}

	return set, nil
}

// degenerate applies the completion-token plausibility cutoffs. Batched mode
// uses a flat floor; single mode only triggers for requests of at least
// SingleModeItemFloor items.
func degenerate(c *Completion, plan ExecutionPlan, requestedCount int, cfg config.GenerationConfig) bool {
	if plan.Batched() {
		return c.CompletionTokens < cfg.MinBatchCompletionTokens
	}
	return requestedCount >= cfg.SingleModeItemFloor &&
		c.CompletionTokens < cfg.MinSingleCompletionTokens
}

// extractItems parses the declared-JSON payload leniently: it strips markdown
// fences some models still emit, unwraps a named collection field when the
// payload is an object, and accepts a bare array.
func extractItems(content string) ([]json.RawMessage, error) {
	content = stripFences(content)
	if content == "" {
		return nil, fmt.Errorf("empty payload")
	}

	if strings.HasPrefix(content, "[") {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(content), &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return nil, err
	}

	for _, key := range []string{"questions", "cards", "items"} {
		field, ok := envelope[key]
		if !ok {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(field, &items); err != nil {
			return nil, fmt.Errorf("field %q is not an array: %w", key, err)
		}
		return items, nil
	}

	return nil, fmt.Errorf("no collection field in payload")
}

// stripFences removes a ```json ... ``` wrapper when present.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	start := 3
	if idx := strings.Index(content[start:], "\n"); idx != -1 {
		start += idx + 1
	}
	if end := strings.Index(content[start:], "```"); end != -1 {
		content = content[start : start+end]
	} else {
		content = content[start:]
	}
	return strings.TrimSpace(content)
}

func decodeMultipleChoice(raw json.RawMessage, pos int) (*domain.MultipleChoiceItem, error) {
	fields, err := itemFields(raw, pos)
	if err != nil {
		return nil, err
	}

	if err := requireNumber(fields, "id", pos); err != nil {
		return nil, err
	}

	q := &domain.MultipleChoiceItem{}
	if q.Question, err = requireString(fields, "question", pos); err != nil {
		return nil, err
	}
	if q.Options, err = requireStringSlice(fields, "options", pos); err != nil {
		return nil, err
	}
	if len(q.Options) != domain.OptionCount {
		return nil, &MalformedItemError{
			Position: pos,
			Field:    "options",
			Reason:   fmt.Sprintf("must contain exactly %d entries, got %d", domain.OptionCount, len(q.Options)),
		}
	}
	if q.CorrectAnswer, err = requireString(fields, "correct_answer", pos); err != nil {
		return nil, err
	}
	if q.Explanation, err = requireString(fields, "explanation", pos); err != nil {
		return nil, err
	}

	return q, nil
}

func decodeFlashcard(raw json.RawMessage, pos int) (*domain.FlashcardItem, error) {
	fields, err := itemFields(raw, pos)
	if err != nil {
		return nil, err
	}

	if err := requireNumber(fields, "id", pos); err != nil {
		return nil, err
	}

	card := &domain.FlashcardItem{}
	if card.Question, err = requireString(fields, "question", pos); err != nil {
		return nil, err
	}
	if card.Answer, err = requireString(fields, "answer", pos); err != nil {
		return nil, err
	}

	// hint is optional but must be a string when present
	if hint, ok := fields["hint"]; ok {
		if err := json.Unmarshal(hint, &card.Hint); err != nil {
			return nil, &MalformedItemError{Position: pos, Field: "hint", Reason: "must be a string"}
		}
	}

	return card, nil
}

func itemFields(raw json.RawMessage, pos int) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &MalformedItemError{Position: pos, Field: "", Reason: "is not a JSON object"}
	}
	return fields, nil
}

func requireString(fields map[string]json.RawMessage, name string, pos int) (string, error) {
	raw, ok := fields[name]
	if !ok {
		return "", &MalformedItemError{Position: pos, Field: name, Reason: "is missing"}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", &MalformedItemError{Position: pos, Field: name, Reason: "must be a string"}
	}
	if strings.TrimSpace(s) == "" {
		return "", &MalformedItemError{Position: pos, Field: name, Reason: "must not be empty"}
	}
	return s, nil
}

func requireNumber(fields map[string]json.RawMessage, name string, pos int) error {
	raw, ok := fields[name]
	if !ok {
		return &MalformedItemError{Position: pos, Field: name, Reason: "is missing"}
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return &MalformedItemError{Position: pos, Field: name, Reason: "must be a number"}
	}
	return nil
}

func requireStringSlice(fields map[string]json.RawMessage, name string, pos int) ([]string, error) {
	raw, ok := fields[name]
	if !ok {
		return nil, &MalformedItemError{Position: pos, Field: name, Reason: "is missing"}
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, &MalformedItemError{Position: pos, Field: name, Reason: "must be an array of strings"}
	}
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return nil, &MalformedItemError{Position: pos, Field: name, Reason: "must not contain empty entries"}
		}
	}
	return values, nil
}
