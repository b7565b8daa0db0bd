package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ContentMode says whether a generation request carries plain text notes or a
// set of page/photo images.
type ContentMode string

const (
	ContentModeText   ContentMode = "text"
	ContentModeImages ContentMode = "images"
)

// Valid reports whether the content mode is one of the known values.
func (m ContentMode) Valid() bool {
	return m == ContentModeText || m == ContentModeImages
}

// Request validation errors.
var (
	// ErrInvalidContentMode is returned when the content mode is not a known value.
	ErrInvalidContentMode = errors.New("invalid content mode")

	// ErrInvalidItemType is returned when the item type is not a known value.
	ErrInvalidItemType = errors.New("invalid item type")

	// ErrItemCountOutOfRange is returned when the requested count lies outside
	// the configured bounds. The server rejects rather than clamps; clamping
	// is a client-side convenience only.
	ErrItemCountOutOfRange = errors.New("requested item count out of range")

	// ErrEmptyNotes is returned when a text-mode request has no usable text.
	ErrEmptyNotes = errors.New("notes text cannot be empty")

	// ErrNoImages is returned when an images-mode request carries no images.
	ErrNoImages = errors.New("at least one image is required")

	// ErrTooManyImages is returned when a request exceeds the image cap. The
	// cap is shared between direct image uploads and rendered PDF pages.
	ErrTooManyImages = errors.New("too many images")
)

// GenerationLimits bounds what a single generation request may ask for.
type GenerationLimits struct {
	MinItems  int
	MaxItems  int
	MaxImages int
}

// GenerationRequest is the normalized input to the generation pipeline.
// In text mode Text carries the primary notes; in images mode Images carries
// the primary content and Text is an optional supplementary caption.
type GenerationRequest struct {
	Mode      ContentMode
	Text      string
	Images    []string
	ItemCount int
	ItemType  ItemType
}

// NewGenerationRequest validates and classifies raw request fields into a
// GenerationRequest, trimming text-mode notes. It rejects out-of-bound item
// counts, empty primary content, and oversized image sets.
func NewGenerationRequest(
	mode ContentMode,
	text string,
	images []string,
	itemCount int,
	itemType ItemType,
	limits GenerationLimits,
) (*GenerationRequest, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentMode, string(mode))
	}

	if !itemType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidItemType, string(itemType))
	}

	if itemCount < limits.MinItems || itemCount > limits.MaxItems {
		return nil, fmt.Errorf("%w: got %d, want %d-%d",
			ErrItemCountOutOfRange, itemCount, limits.MinItems, limits.MaxItems)
	}

	req := &GenerationRequest{
		Mode:      mode,
		Text:      strings.TrimSpace(text),
		Images:    images,
		ItemCount: itemCount,
		ItemType:  itemType,
	}

	switch mode {
	case ContentModeText:
		if req.Text == "" {
			return nil, ErrEmptyNotes
		}
		req.Images = nil
	case ContentModeImages:
		if len(images) == 0 {
			return nil, ErrNoImages
		}
		if len(images) > limits.MaxImages {
			return nil, fmt.Errorf(
				"%w: got %d, the limit of %d is shared between uploaded images and rendered PDF pages",
				ErrTooManyImages, len(images), limits.MaxImages)
		}
	}

	return req, nil
}
