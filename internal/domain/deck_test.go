package domain

import (
	"strings"
	"testing"
)

func TestDeckValidate(t *testing.T) {
	t.Parallel()

	valid := Deck{
		Title: "Renewable Energy",
		Slides: []Slide{
			{Title: "Intro", Body: "<p>Welcome</p>", Kind: SlideKindTitle},
			{Title: "Solar", Body: "<p>Panels</p>", Kind: SlideKindContent},
			{Title: "Wrap up", Body: "<p>Thanks</p>", Kind: SlideKindConclusion},
		},
	}

	if err := valid.Validate(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	noTitle := valid
	noTitle.Title = ""
	if err := noTitle.Validate(); err != ErrEmptyDeckTitle {
		t.Errorf("Expected error %v, got %v", ErrEmptyDeckTitle, err)
	}

	noSlides := valid
	noSlides.Slides = nil
	if err := noSlides.Validate(); err != ErrNoSlides {
		t.Errorf("Expected error %v, got %v", ErrNoSlides, err)
	}

	badKind := Deck{
		Title:  valid.Title,
		Slides: []Slide{{Title: "x", Body: "y", Kind: SlideKind("cover")}},
	}
	if err := badKind.Validate(); err != ErrInvalidSlideKind {
		t.Errorf("Expected error %v, got %v", ErrInvalidSlideKind, err)
	}
}

func TestGenerationRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     GenerationRequest
		wantErr error
	}{
		{
			name: "valid request",
			req:  GenerationRequest{Topic: "renewable energy", SlideCount: 5, Language: "en"},
		},
		{
			name:    "empty topic",
			req:     GenerationRequest{SlideCount: 5},
			wantErr: ErrEmptyTopic,
		},
		{
			name:    "topic too long",
			req:     GenerationRequest{Topic: strings.Repeat("a", MaxTopicLength+1), SlideCount: 5},
			wantErr: ErrTopicTooLong,
		},
		{
			name:    "slide count below minimum",
			req:     GenerationRequest{Topic: "x", SlideCount: MinSlideCount - 1},
			wantErr: ErrInvalidSlideCount,
		},
		{
			name:    "slide count above maximum",
			req:     GenerationRequest{Topic: "x", SlideCount: MaxSlideCount + 1},
			wantErr: ErrInvalidSlideCount,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.req.Validate()
			if err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestNewGenerationRequestDefaults(t *testing.T) {
	t.Parallel()

	req, err := NewGenerationRequest("renewable energy", "", 0, "", "")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if req.SlideCount != DefaultSlideCount {
		t.Errorf("Expected default slide count %d, got %d", DefaultSlideCount, req.SlideCount)
	}

	if req.Language != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, req.Language)
	}
}

func TestOwnerKeys(t *testing.T) {
	t.Parallel()

	if got := UserOwnerKey("42"); got != "user:42" {
		t.Errorf("Expected user:42, got %s", got)
	}

	if got := GuestOwnerKey("abc"); got != "guest:abc" {
		t.Errorf("Expected guest:abc, got %s", got)
	}
}
