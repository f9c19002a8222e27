package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/deck-api/internal/domain"
)

// deckSchema is the strict output schema every provider demands from its
// upstream model: {"title": ..., "slides": [{"title", "content", "type"}]}.
type deckSchema struct {
	Title  string        `json:"title"`
	Slides []slideSchema `json:"slides"`
}

// slideSchema is one slide in the wire schema. The kind field is named
// "type" on the wire, matching what the prompts ask the models for.
type slideSchema struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// StripCodeFence removes Markdown code-fence wrappers that chat models
// habitually put around JSON output, with or without a language tag.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}

	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}

// RepairDeck turns raw model output into a valid domain.Deck. It strips
// known wrapper artifacts, parses the strict schema, and normalizes slide
// kinds. It returns ErrMalformedOutput (wrapped) when the output cannot
// be repaired; callers then fall back to FallbackDeck.
func RepairDeck(raw string) (domain.Deck, error) {
	cleaned := StripCodeFence(raw)
	if cleaned == "" {
		return domain.Deck{}, fmt.Errorf("%w: empty output", ErrMalformedOutput)
	}

	var parsed deckSchema
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return domain.Deck{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if parsed.Title == "" {
		return domain.Deck{}, fmt.Errorf("%w: missing title", ErrMalformedOutput)
	}

	if len(parsed.Slides) == 0 {
		return domain.Deck{}, fmt.Errorf("%w: no slides", ErrMalformedOutput)
	}

	deck := domain.Deck{Title: parsed.Title}
	for i, slide := range parsed.Slides {
		if slide.Title == "" && slide.Content == "" {
			return domain.Deck{}, fmt.Errorf("%w: slide %d is empty", ErrMalformedOutput, i)
		}

		deck.Slides = append(deck.Slides, domain.Slide{
			Title: slide.Title,
			Body:  slide.Content,
			Kind:  normalizeKind(slide.Type, i, len(parsed.Slides)),
		})
	}

	if err := deck.Validate(); err != nil {
		return domain.Deck{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	return deck, nil
}

// normalizeKind maps the wire kind onto a valid domain.SlideKind. Models
// occasionally invent kinds; those are coerced by position so the deck
// still validates.
func normalizeKind(kind string, index, total int) domain.SlideKind {
	switch domain.SlideKind(strings.ToLower(strings.TrimSpace(kind))) {
	case domain.SlideKindTitle:
		return domain.SlideKindTitle
	case domain.SlideKindConclusion:
		return domain.SlideKindConclusion
	case domain.SlideKindContent:
		return domain.SlideKindContent
	}

	switch index {
	case 0:
		return domain.SlideKindTitle
	case total - 1:
		return domain.SlideKindConclusion
	default:
		return domain.SlideKindContent
	}
}
