package domain

import "errors"

// SlideKind classifies a slide's role within a deck.
type SlideKind string

// Possible slide kinds
const (
	SlideKindTitle      SlideKind = "title"
	SlideKindContent    SlideKind = "content"
	SlideKindConclusion SlideKind = "conclusion"
)

// Common validation errors for Deck
var (
	ErrEmptyDeckTitle   = errors.New("deck title cannot be empty")
	ErrNoSlides         = errors.New("deck must contain at least one slide")
	ErrInvalidSlideKind = errors.New("invalid slide kind")
)

// ImageAttachment is a best-effort illustrative image attached to a slide
// during enrichment, including the attribution required by the search
// provider's license terms.
type ImageAttachment struct {
	URL             string `json:"url"`
	Alt             string `json:"alt,omitempty"`
	Photographer    string `json:"photographer,omitempty"`
	PhotographerURL string `json:"photographer_url,omitempty"`
	Width           int    `json:"width,omitempty"`
	Height          int    `json:"height,omitempty"`
}

// Slide is one element of a generated deck. Title and Body are produced by
// a generation provider and may contain limited HTML markup; Attachment is
// added by the enrichment stage and is nil when no image was found.
type Slide struct {
	Title      string           `json:"title"`
	Body       string           `json:"content"`
	Kind       SlideKind        `json:"kind"`
	Attachment *ImageAttachment `json:"image,omitempty"`
}

// Deck is the structured document returned by a generation provider.
type Deck struct {
	Title  string  `json:"title"`
	Slides []Slide `json:"slides"`
}

// Validate checks if the Deck has valid data.
// Returns an error if any field fails validation.
func (d Deck) Validate() error {
	if d.Title == "" {
		return ErrEmptyDeckTitle
	}

	if len(d.Slides) == 0 {
		return ErrNoSlides
	}

	for _, slide := range d.Slides {
		if !isValidSlideKind(slide.Kind) {
			return ErrInvalidSlideKind
		}
	}

	return nil
}

// isValidSlideKind checks if the given kind is a valid SlideKind.
func isValidSlideKind(kind SlideKind) bool {
	switch kind {
	case SlideKindTitle, SlideKindContent, SlideKindConclusion:
		return true
	default:
		return false
	}
}
