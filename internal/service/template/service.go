// Package template materializes an enriched deck into a standalone HTML
// document by substituting slide markup into a named layout.
package template

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/phrazzld/deck-api/internal/domain"
)

// DefaultTemplateID names the layout used when a request does not name
// one, or names one that is not registered.
const DefaultTemplateID = "default"

// layouts are the builtin named layouts. Each must contain the
// {{title}} and {{slides}} placeholders.
var layouts = map[string]string{
	"default": `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{title}}</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; background: #f5f5f5; }
section.slide { background: #fff; max-width: 960px; margin: 2rem auto; padding: 3rem; border-radius: 8px; box-shadow: 0 1px 4px rgba(0,0,0,.1); }
section.slide h2 { margin-top: 0; }
figure { margin: 1.5rem 0 0; }
figure img { max-width: 100%; border-radius: 4px; }
figcaption { font-size: .8rem; color: #666; }
</style>
</head>
<body>
{{slides}}
</body>
</html>`,

	"dark": `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{title}}</title>
<style>
body { font-family: Georgia, serif; margin: 0; background: #14141c; color: #e8e8f0; }
section.slide { max-width: 960px; margin: 2rem auto; padding: 3rem; border-bottom: 1px solid #2a2a38; }
section.slide h2 { color: #9fb4ff; margin-top: 0; }
figure { margin: 1.5rem 0 0; }
figure img { max-width: 100%; }
figcaption { font-size: .8rem; color: #8888a0; }
</style>
</head>
<body>
{{slides}}
</body>
</html>`,

	"minimal": `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{title}}</title>
</head>
<body>
{{slides}}
</body>
</html>`,
}

// Service renders decks against the builtin layouts.
type Service struct {
	logger *slog.Logger
}

// NewService creates a template service. If logger is nil, a default
// logger will be used.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger.With(slog.String("component", "template"))}
}

// List returns the registered layout identifiers.
func (s *Service) List() []string {
	ids := make([]string, 0, len(layouts))
	for id := range layouts {
		ids = append(ids, id)
	}
	return ids
}

// Render substitutes the deck into the named layout. An empty or unknown
// templateID falls back to the default layout rather than failing; the
// draft a run persists should never be blocked on a bad layout name.
func (s *Service) Render(deck domain.Deck, templateID string) string {
	if templateID == "" {
		templateID = DefaultTemplateID
	}

	layout, ok := layouts[templateID]
	if !ok {
		s.logger.Warn("unknown template, using default layout", "template_id", templateID)
		layout = layouts[DefaultTemplateID]
	}

	var slides strings.Builder
	for _, slide := range deck.Slides {
		writeSlide(&slides, slide)
	}

	replacer := strings.NewReplacer(
		"{{title}}", html.EscapeString(deck.Title),
		"{{slides}}", slides.String(),
	)
	return replacer.Replace(layout)
}

// writeSlide renders one slide as a section. Slide bodies are provider
// markup and pass through unescaped; titles and attribution are escaped.
func writeSlide(b *strings.Builder, slide domain.Slide) {
	fmt.Fprintf(b, "<section class=\"slide slide-%s\">\n", slide.Kind)
	fmt.Fprintf(b, "<h2>%s</h2>\n", html.EscapeString(slide.Title))
	b.WriteString(slide.Body)
	b.WriteString("\n")

	if att := slide.Attachment; att != nil {
		fmt.Fprintf(b, "<figure>\n<img src=%q alt=%q width=\"%d\" height=\"%d\">\n",
			att.URL, att.Alt, att.Width, att.Height)
		if att.Photographer != "" {
			fmt.Fprintf(b, "<figcaption>Photo by <a href=%q>%s</a></figcaption>\n",
				att.PhotographerURL, html.EscapeString(att.Photographer))
		}
		b.WriteString("</figure>\n")
	}

	b.WriteString("</section>\n")
}
