package generation

import "context"

// FinishReason is the model's own signal of why a completion ended.
type FinishReason string

const (
	FinishReasonStop   FinishReason = "stop"
	FinishReasonLength FinishReason = "length"
)

// Prompt is one system/user prompt pair. In images mode Images carries the
// encoded page/photo blobs and Text holds the instruction part; in text mode
// Images is empty.
type Prompt struct {
	System string
	Text   string
	Images []string
}

// Call is one request to the generative model.
type Call struct {
	Prompt      Prompt
	Temperature float32
	MaxTokens   int
}

// Completion is the model's raw answer to one Call, before any validation.
type Completion struct {
	Content          string
	FinishReason     FinishReason
	PromptTokens     int
	CompletionTokens int
}

// Oracle is the boundary to the external generative model. Implementations
// must translate transport failures into the package's upstream error kinds
// (ErrUpstreamUnavailable, ErrUpstreamAuth, ErrUpstreamRateLimited,
// ErrUpstreamEmpty, ErrUpstreamTimeout).
type Oracle interface {
	// Complete performs one model call and returns the raw completion.
	Complete(ctx context.Context, call Call) (*Completion, error)

	// Model returns the model identifier, reported in response metadata.
	Model() string
}
