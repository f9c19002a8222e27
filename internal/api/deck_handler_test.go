package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/deck-api/internal/api/shared"
	"github.com/phrazzld/deck-api/internal/domain"
	"github.com/phrazzld/deck-api/internal/generation"
	"github.com/phrazzld/deck-api/internal/service"
	"github.com/phrazzld/deck-api/internal/store"
)

// stubGenerator records the last call and returns canned outcomes.
type stubGenerator struct {
	requester service.Requester
	req       domain.GenerationRequest
	template  string
	preferred generation.ProviderType

	result      *service.Result
	generateErr error

	snapshotHTML string
	snapshotErr  error
}

func (g *stubGenerator) Generate(_ context.Context, requester service.Requester, req domain.GenerationRequest,
	templateID string, preferredType generation.ProviderType) (*service.Result, error) {
	g.requester = requester
	g.req = req
	g.template = templateID
	g.preferred = preferredType
	if g.generateErr != nil {
		return nil, g.generateErr
	}
	return g.result, nil
}

func (g *stubGenerator) Snapshot(_ context.Context, _, _ string, _ domain.Snapshot) (string, error) {
	if g.snapshotErr != nil {
		return "", g.snapshotErr
	}
	return g.snapshotHTML, nil
}

type stubLedgerAPI struct {
	sessionID string
	credits   int
	err       error
}

func (l *stubLedgerAPI) GetOrCreate(_ context.Context, sessionID, _, _ string) (string, int, error) {
	if l.err != nil {
		return "", 0, l.err
	}
	if sessionID == "" {
		sessionID = l.sessionID
	}
	return sessionID, l.credits, nil
}

func (l *stubLedgerAPI) Reserve(context.Context, string) (bool, error) { return true, nil }
func (l *stubLedgerAPI) Refund(context.Context, string) error          { return nil }
func (l *stubLedgerAPI) Balance(context.Context, string) (int, error)  { return l.credits, nil }

type stubLister struct{ statuses []generation.ProviderStatus }

func (s stubLister) List() []generation.ProviderStatus { return s.statuses }

func newTestHandler(gen *stubGenerator) (*DeckHandler, *stubLedgerAPI) {
	ledger := &stubLedgerAPI{sessionID: "minted-session", credits: 42}
	h := NewDeckHandler(gen, ledger, stubLister{statuses: []generation.ProviderStatus{
		{Type: generation.ProviderGroq, Name: "Groq", Available: true, IsDefault: true},
	}})
	return h, ledger
}

func doGenerate(t *testing.T, h *DeckHandler, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, "/api/v1/generate", bytes.NewBufferString(body))
	r.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(r)
	}

	w := httptest.NewRecorder()
	h.Generate(w, r)
	return w
}

func TestGenerateHappyPathGuest(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{result: &service.Result{
		ArtifactID:  "art-1",
		HTML:        "<html>deck</html>",
		SessionID:   "sess-9",
		CreditsLeft: 7,
	}}
	h, _ := newTestHandler(gen)

	w := doGenerate(t, h, `{"topic":"Tides","slide_count":5}`, func(r *http.Request) {
		r.Header.Set(GuestSessionHeader, "sess-9")
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "sess-9", w.Header().Get(GuestSessionHeader))
	assert.Equal(t, "7", w.Header().Get(GuestCreditsHeader))

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "art-1", resp.ArtifactID)
	assert.Equal(t, "<html>deck</html>", resp.HTML)

	// Request fields reached the orchestrator with defaults applied.
	assert.Equal(t, "Tides", gen.req.Topic)
	assert.Equal(t, 5, gen.req.SlideCount)
	assert.Equal(t, "sess-9", gen.requester.SessionID)
	assert.True(t, gen.requester.Anonymous())
}

func TestGenerateAuthenticatedUser(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{result: &service.Result{ArtifactID: "art-2", HTML: "<html/>"}}
	h, _ := newTestHandler(gen)

	w := doGenerate(t, h, `{"topic":"Tides"}`, func(r *http.Request) {
		*r = *r.WithContext(shared.SetUserID(r.Context(), "user-7"))
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user-7", gen.requester.UserID)
	// No guest headers for authenticated runs.
	assert.Empty(t, w.Header().Get(GuestSessionHeader))
}

func TestGenerateValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
	}{
		{"missing topic", `{"slide_count":5}`},
		{"slide count too low", `{"topic":"x","slide_count":1}`},
		{"slide count too high", `{"topic":"x","slide_count":50}`},
		{"unknown provider", `{"topic":"x","provider":"claude"}`},
		{"malformed json", `{"topic":`},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h, _ := newTestHandler(&stubGenerator{result: &service.Result{}})
			w := doGenerate(t, h, tc.body, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGenerateInsufficientCreditsMapsTo403(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{generateErr: service.ErrInsufficientCredits}
	h, _ := newTestHandler(gen)

	w := doGenerate(t, h, `{"topic":"Tides"}`, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGenerateFailureMapsTo500(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{generateErr: service.ErrGenerationFailed}
	h, _ := newTestHandler(gen)

	w := doGenerate(t, h, `{"topic":"Tides"}`, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
}

func TestGeneratePassesPreferredProviderAndTemplate(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{result: &service.Result{}}
	h, _ := newTestHandler(gen)

	w := doGenerate(t, h, `{"topic":"Tides","provider":"gemini","template":"dark"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, generation.ProviderGemini, gen.preferred)
	assert.Equal(t, "dark", gen.template)
}

func TestCreditsMintsSession(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(&stubGenerator{})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
	w := httptest.NewRecorder()
	h.Credits(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "minted-session", w.Header().Get(GuestSessionHeader))
	assert.Equal(t, "42", w.Header().Get(GuestCreditsHeader))

	var resp CreditsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "minted-session", resp.SessionID)
	assert.Equal(t, 42, resp.Credits)
}

func TestCreditsLedgerFailure(t *testing.T) {
	t.Parallel()

	h, ledger := newTestHandler(&stubGenerator{})
	ledger.err = store.ErrStoreUnavailable

	r := httptest.NewRequest(http.MethodGet, "/api/v1/credits", nil)
	w := httptest.NewRecorder()
	h.Credits(w, r)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestProvidersListing(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(&stubGenerator{})

	r := httptest.NewRequest(http.MethodGet, "/api/v1/providers", nil)
	w := httptest.NewRecorder()
	h.Providers(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var statuses []generation.ProviderStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &statuses))
	require.Len(t, statuses, 1)
	assert.Equal(t, generation.ProviderGroq, statuses[0].Type)
}

func artifactRequest(t *testing.T, h *DeckHandler, target string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	router.Get("/api/v1/artifacts/{artifactID}", h.Artifact)

	r := httptest.NewRequest(http.MethodGet, target, nil)
	if mutate != nil {
		mutate(r)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestArtifactReadBack(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{snapshotHTML: "<html>final</html>"}
	h, _ := newTestHandler(gen)

	w := artifactRequest(t, h, "/api/v1/artifacts/0190c2a4-0000-7000-8000-000000000000", func(r *http.Request) {
		r.Header.Set(GuestSessionHeader, "sess-1")
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<html>final</html>", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestArtifactNotFound(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{snapshotErr: store.ErrArtifactNotFound}
	h, _ := newTestHandler(gen)

	w := artifactRequest(t, h, "/api/v1/artifacts/0190c2a4-0000-7000-8000-000000000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestArtifactInvalidID(t *testing.T) {
	t.Parallel()

	gen := &stubGenerator{snapshotErr: domain.ErrInvalidArtifactID}
	h, _ := newTestHandler(gen)

	w := artifactRequest(t, h, "/api/v1/artifacts/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
