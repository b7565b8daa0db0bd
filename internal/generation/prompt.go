package generation

import (
	"fmt"
	"strings"

	"github.com/dimitry-co/ai-study-buddy/internal/domain"
)

// The system prompts pin the output shape; the user content varies with the
// request. Keeping the format contract in the system role holds the model's
// JSON shape stable while the study material changes.
const mcqSystemPrompt = `You are an expert educator who writes exam-quality multiple-choice questions from study material.

Respond with a single JSON object of the form:
{"questions":[{"id":1,"question":"...","options":["...","...","...","..."],"correct_answer":"A","explanation":"..."}]}

Rules:
- Every question has exactly 4 options, labeled A through D in order.
- "correct_answer" is the single letter of the correct option.
- "explanation" briefly states why the correct option is right.
- Questions test understanding, not trivia; avoid near-duplicates.
- Number "id" sequentially starting at 1.
- Output JSON only, no surrounding prose.`

const flashcardSystemPrompt = `You are an expert educator who writes spaced-repetition flashcards from study material.

Respond with a single JSON object of the form:
{"cards":[{"id":1,"question":"...","answer":"...","hint":"..."}]}

Rules:
- Answers are short, fill-in-the-blank style: a term, name, number, or one concise phrase.
- "hint" is optional; include it only when a nudge genuinely helps recall.
- Each card tests one atomic fact; avoid near-duplicates.
- Number "id" sequentially starting at 1.
- Output JSON only, no surrounding prose.`

// BuildPrompt produces the system/user prompt pair for one batch. When focus
// is non-empty the system prompt is augmented with the batch's thematic
// steering instruction to reduce cross-batch redundancy.
func BuildPrompt(req *domain.GenerationRequest, count int, focus string) Prompt {
	system := mcqSystemPrompt
	noun := "multiple-choice questions"
	if req.ItemType == domain.ItemTypeFlashcard {
		system = flashcardSystemPrompt
		noun = "flashcards"
	}

	if focus != "" {
		system += fmt.Sprintf(
			"\n\nFor this batch, focus specifically on this angle of the material: %s. Stay on this angle; other batches cover the rest.",
			focus)
	}

	if req.Mode == domain.ContentModeText {
		return Prompt{
			System: system,
			Text: fmt.Sprintf(
				"Generate exactly %d %s from the following study notes.\n\nNotes:\n%s",
				count, noun, req.Text),
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		"Generate exactly %d %s from the attached page images. Read every page carefully, including diagrams, tables, and handwriting.",
		count, noun)
	if req.Text != "" {
		fmt.Fprintf(&b, "\n\nThe student added this context about the material:\n%s", req.Text)
	}

	return Prompt{
		System: system,
		Text:   b.String(),
		Images: req.Images,
	}
}
