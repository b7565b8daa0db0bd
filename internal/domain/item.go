package domain

// ItemType distinguishes the two kinds of study items the pipeline produces.
type ItemType string

const (
	// ItemTypeMultipleChoice produces four-option questions with an
	// explanation for the correct answer.
	ItemTypeMultipleChoice ItemType = "mcq"

	// ItemTypeFlashcard produces short question/answer pairs with an
	// optional hint.
	ItemTypeFlashcard ItemType = "flashcard"
)

// Valid reports whether the item type is one of the known values.
func (t ItemType) Valid() bool {
	return t == ItemTypeMultipleChoice || t == ItemTypeFlashcard
}

// OptionCount is the exact number of options a multiple-choice item carries,
// labeled A through D.
const OptionCount = 4

// MultipleChoiceItem is one generated multiple-choice question.
type MultipleChoiceItem struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// FlashcardItem is one generated flashcard.
type FlashcardItem struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Hint     string `json:"hint,omitempty"`
}

// StudySet is the assembled output of one generation: exactly one of the two
// slices is populated, matching Type. IDs run densely 1..N.
type StudySet struct {
	Type       ItemType
	Questions  []MultipleChoiceItem
	Cards      []FlashcardItem
	Model      string
	TokensUsed int
}

// Len returns the number of items in the set.
func (s *StudySet) Len() int {
	if s.Type == ItemTypeMultipleChoice {
		return len(s.Questions)
	}
	return len(s.Cards)
}
