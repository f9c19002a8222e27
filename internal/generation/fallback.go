package generation

import (
	"fmt"

	"github.com/phrazzld/deck-api/internal/domain"
)

// FallbackDeck synthesizes a deterministic deck from the request alone.
// Providers return it when the upstream call fails or its output cannot
// be repaired, so a provider that reported itself available always hands
// the orchestrator a usable document. Being a pure function of the
// request, it is unit-testable without network access.
func FallbackDeck(req domain.GenerationRequest) domain.Deck {
	count := req.SlideCount
	if count < domain.MinSlideCount {
		count = domain.MinSlideCount
	}
	if count > domain.MaxSlideCount {
		count = domain.MaxSlideCount
	}

	slides := make([]domain.Slide, 0, count)
	for i := 0; i < count; i++ {
		switch i {
		case 0:
			slides = append(slides, domain.Slide{
				Title: req.Topic,
				Body:  fmt.Sprintf("<p>An overview of <strong>%s</strong>.</p>", req.Topic),
				Kind:  domain.SlideKindTitle,
			})
		case count - 1:
			slides = append(slides, domain.Slide{
				Title: "Conclusion",
				Body:  fmt.Sprintf("<p>Key points on %s, summarized.</p>", req.Topic),
				Kind:  domain.SlideKindConclusion,
			})
		default:
			body := fmt.Sprintf("<p>Part %d of the discussion of %s.</p>", i, req.Topic)
			if i == 1 && req.SupplementaryText != "" {
				body += fmt.Sprintf("<p>%s</p>", req.SupplementaryText)
			}
			slides = append(slides, domain.Slide{
				Title: fmt.Sprintf("%s, part %d", req.Topic, i),
				Body:  body,
				Kind:  domain.SlideKindContent,
			})
		}
	}

	return domain.Deck{
		Title:  req.Topic,
		Slides: slides,
	}
}
