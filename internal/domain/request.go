package domain

import (
	"errors"
	"fmt"
)

// Bounds for GenerationRequest fields.
const (
	MinSlideCount = 3
	MaxSlideCount = 10

	// MaxTopicLength bounds the topic so prompt construction stays cheap.
	MaxTopicLength = 500

	// DefaultSlideCount is used when the client does not ask for a
	// specific deck size.
	DefaultSlideCount = 5

	// DefaultLanguage is the language tag used when none is supplied.
	DefaultLanguage = "en"
)

// Common validation errors for GenerationRequest
var (
	ErrEmptyTopic        = errors.New("topic cannot be empty")
	ErrTopicTooLong      = fmt.Errorf("topic cannot exceed %d characters", MaxTopicLength)
	ErrInvalidSlideCount = fmt.Errorf(
		"slide count must be between %d and %d", MinSlideCount, MaxSlideCount)
)

// GenerationRequest describes one deck generation. It is immutable once
// constructed and passed by value through the pipeline.
type GenerationRequest struct {
	// Topic is the subject of the presentation. Required.
	Topic string

	// SupplementaryText is optional source material the provider may
	// draw on when writing slide bodies.
	SupplementaryText string

	// SlideCount is the requested number of slides.
	SlideCount int

	// Language is the BCP 47-ish language tag for the generated content.
	Language string

	// StyleHint nudges the tone of the deck and of image search queries
	// (e.g. "professional", "creative", "minimal").
	StyleHint string
}

// NewGenerationRequest builds a GenerationRequest from raw client input,
// applying defaults for omitted fields. Returns an error if the populated
// request fails validation.
func NewGenerationRequest(topic, supplementary string, slideCount int, language, styleHint string) (GenerationRequest, error) {
	if slideCount == 0 {
		slideCount = DefaultSlideCount
	}
	if language == "" {
		language = DefaultLanguage
	}

	req := GenerationRequest{
		Topic:             topic,
		SupplementaryText: supplementary,
		SlideCount:        slideCount,
		Language:          language,
		StyleHint:         styleHint,
	}

	if err := req.Validate(); err != nil {
		return GenerationRequest{}, err
	}

	return req, nil
}

// Validate checks if the GenerationRequest has valid data.
func (r GenerationRequest) Validate() error {
	if r.Topic == "" {
		return ErrEmptyTopic
	}

	if len(r.Topic) > MaxTopicLength {
		return ErrTopicTooLong
	}

	if r.SlideCount < MinSlideCount || r.SlideCount > MaxSlideCount {
		return ErrInvalidSlideCount
	}

	return nil
}
