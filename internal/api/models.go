package api

import "github.com/dimitry-co/ai-study-buddy/internal/domain"

// GenerateRequest represents the request body for generating a study set.
type GenerateRequest struct {
	// ContentType selects the input mode: "text" or "images".
	ContentType string `json:"content_type" validate:"required,oneof=text images"`

	// Notes carries the study material in text mode. In images mode it is an
	// optional caption accompanying the images.
	Notes string `json:"notes,omitempty"`

	// Images carries data-URL encoded page images in images mode.
	Images []string `json:"images,omitempty"`

	NumberOfQuestions int    `json:"number_of_questions" validate:"required"`
	QuestionType      string `json:"question_type"       validate:"required,oneof=mcq flashcard"`
}

// GenerateMetadata describes how a study set was produced.
type GenerateMetadata struct {
	NumberOfQuestions int    `json:"number_of_questions"`
	Model             string `json:"model"`
	TokensUsed        int    `json:"tokens_used"`
}

// GenerateResponse represents the response body for a successful generation.
// Exactly one of Questions or Cards is set, matching the requested type.
type GenerateResponse struct {
	Questions []domain.MultipleChoiceItem `json:"questions,omitempty"`
	Cards     []domain.FlashcardItem      `json:"cards,omitempty"`
	Metadata  GenerateMetadata            `json:"metadata"`
}

// studySetToResponse converts a domain.StudySet to a GenerateResponse.
func studySetToResponse(set *domain.StudySet) GenerateResponse {
	return GenerateResponse{
		Questions: set.Questions,
		Cards:     set.Cards,
		Metadata: GenerateMetadata{
			NumberOfQuestions: set.Len(),
			Model:             set.Model,
			TokensUsed:        set.TokensUsed,
		},
	}
}
