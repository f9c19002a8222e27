package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/deck-api/internal/domain"
)

func sampleDeck() domain.Deck {
	return domain.Deck{
		Title: "Go <Concurrency>",
		Slides: []domain.Slide{
			{Title: "Go <Concurrency>", Body: "<p>Intro</p>", Kind: domain.SlideKindTitle},
			{
				Title: "Goroutines",
				Body:  "<p>Body</p>",
				Kind:  domain.SlideKindContent,
				Attachment: &domain.ImageAttachment{
					URL:             "https://images.example/1.jpg",
					Alt:             "gophers",
					Photographer:    "A. Adams",
					PhotographerURL: "https://example/@adams",
					Width:           1600,
					Height:          900,
				},
			},
			{Title: "Wrap Up", Body: "<p>End</p>", Kind: domain.SlideKindConclusion},
		},
	}
}

func TestRenderDefaultLayout(t *testing.T) {
	t.Parallel()

	svc := NewService(nil)
	out := svc.Render(sampleDeck(), "")

	// Deck title is escaped into the document head.
	assert.Contains(t, out, "<title>Go &lt;Concurrency&gt;</title>")
	// Slide bodies pass through as markup.
	assert.Contains(t, out, "<p>Intro</p>")
	assert.Contains(t, out, `<section class="slide slide-conclusion">`)
	// No placeholder survives substitution.
	assert.NotContains(t, out, "{{title}}")
	assert.NotContains(t, out, "{{slides}}")
}

func TestRenderIncludesAttachmentWithAttribution(t *testing.T) {
	t.Parallel()

	svc := NewService(nil)
	out := svc.Render(sampleDeck(), "default")

	assert.Contains(t, out, `<img src="https://images.example/1.jpg" alt="gophers" width="1600" height="900">`)
	assert.Contains(t, out, "Photo by")
	assert.Contains(t, out, "A. Adams")
}

func TestRenderSkipsFigureWithoutAttachment(t *testing.T) {
	t.Parallel()

	svc := NewService(nil)
	deck := domain.Deck{
		Title:  "Plain",
		Slides: []domain.Slide{{Title: "Only", Body: "<p>text</p>", Kind: domain.SlideKindContent}},
	}

	out := svc.Render(deck, "minimal")
	assert.NotContains(t, out, "<figure>")
}

func TestRenderUnknownTemplateFallsBack(t *testing.T) {
	t.Parallel()

	svc := NewService(nil)
	fromUnknown := svc.Render(sampleDeck(), "no-such-layout")
	fromDefault := svc.Render(sampleDeck(), DefaultTemplateID)

	assert.Equal(t, fromDefault, fromUnknown)
}

func TestRenderPreservesSlideOrder(t *testing.T) {
	t.Parallel()

	svc := NewService(nil)
	out := svc.Render(sampleDeck(), "dark")

	intro := strings.Index(out, "<p>Intro</p>")
	body := strings.Index(out, "<p>Body</p>")
	end := strings.Index(out, "<p>End</p>")

	assert.True(t, intro >= 0 && intro < body && body < end)
}

func TestListIncludesDefault(t *testing.T) {
	t.Parallel()

	assert.Contains(t, NewService(nil).List(), DefaultTemplateID)
}
