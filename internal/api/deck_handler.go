package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/deck-api/internal/api/shared"
	"github.com/phrazzld/deck-api/internal/domain"
	"github.com/phrazzld/deck-api/internal/generation"
	"github.com/phrazzld/deck-api/internal/service"
	"github.com/phrazzld/deck-api/internal/store"
)

// Guest session headers. The session ID travels out-of-band so the
// response body stays a pure generation result.
const (
	GuestSessionHeader = "X-Guest-Session"
	GuestCreditsHeader = "X-Guest-Credits"
)

// GenerateRequest represents the request body for a generation run.
type GenerateRequest struct {
	Topic             string `json:"topic" validate:"required,min=1,max=500"`
	SupplementaryText string `json:"supplementary_text,omitempty"`
	SlideCount        int    `json:"slide_count,omitempty" validate:"omitempty,gte=3,lte=10"`
	Language          string `json:"language,omitempty"`
	StyleHint         string `json:"style_hint,omitempty"`
	Template          string `json:"template,omitempty"`
	Provider          string `json:"provider,omitempty" validate:"omitempty,oneof=groq openai gemini ollama"`
}

// GenerateResponse represents the response data for a completed run.
type GenerateResponse struct {
	ArtifactID string `json:"artifact_id"`
	HTML       string `json:"html"`
}

// CreditsResponse represents the guest session quota state.
type CreditsResponse struct {
	SessionID string `json:"session_id"`
	Credits   int    `json:"credits"`
}

// DeckGenerator is the orchestration surface the handler needs.
type DeckGenerator interface {
	Generate(ctx context.Context, requester service.Requester, req domain.GenerationRequest,
		templateID string, preferredType generation.ProviderType) (*service.Result, error)
	Snapshot(ctx context.Context, ownerKey, artifactID string, snapshot domain.Snapshot) (string, error)
}

// DeckLister is the provider inventory surface the handler needs.
type DeckLister interface {
	List() []generation.ProviderStatus
}

// DeckHandler handles deck generation HTTP requests.
type DeckHandler struct {
	deckService DeckGenerator
	ledger      service.CreditLedger
	providers   DeckLister
	validator   *validator.Validate
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(deckService DeckGenerator, ledger service.CreditLedger, providers DeckLister) *DeckHandler {
	return &DeckHandler{
		deckService: deckService,
		ledger:      ledger,
		providers:   providers,
		validator:   validator.New(),
	}
}

// Generate handles POST /api/v1/generate requests.
func (h *DeckHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	genReq, err := domain.NewGenerationRequest(
		req.Topic, req.SupplementaryText, req.SlideCount, req.Language, req.StyleHint)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	requester := service.Requester{
		UserID:    shared.GetUserID(r.Context()),
		SessionID: r.Header.Get(GuestSessionHeader),
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}

	result, err := h.deckService.Generate(
		r.Context(), requester, genReq, req.Template, generation.ProviderType(req.Provider))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	if result.SessionID != "" {
		w.Header().Set(GuestSessionHeader, result.SessionID)
		w.Header().Set(GuestCreditsHeader, formatCredits(result.CreditsLeft))
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, GenerateResponse{
		ArtifactID: result.ArtifactID,
		HTML:       result.HTML,
	})
}

// Credits handles GET /api/v1/credits requests, resolving (and creating
// if needed) the guest session and reporting its balance.
func (h *DeckHandler) Credits(w http.ResponseWriter, r *http.Request) {
	sessionID, credits, err := h.ledger.GetOrCreate(
		r.Context(), r.Header.Get(GuestSessionHeader), clientIP(r), r.UserAgent())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Could not resolve session", err)
		return
	}

	w.Header().Set(GuestSessionHeader, sessionID)
	w.Header().Set(GuestCreditsHeader, formatCredits(credits))

	shared.RespondWithJSON(w, r, http.StatusOK, CreditsResponse{
		SessionID: sessionID,
		Credits:   credits,
	})
}

// Providers handles GET /api/v1/providers requests.
func (h *DeckHandler) Providers(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, h.providers.List())
}

// Artifact handles GET /api/v1/artifacts/{artifactID} requests, reading
// back a persisted snapshot for its owner. The snapshot query parameter
// selects draft or final (default final).
func (h *DeckHandler) Artifact(w http.ResponseWriter, r *http.Request) {
	artifactID := chi.URLParam(r, "artifactID")

	ownerKey := domain.GuestOwnerKey(r.Header.Get(GuestSessionHeader))
	if userID := shared.GetUserID(r.Context()); userID != "" {
		ownerKey = domain.UserOwnerKey(userID)
	}

	snapshot := domain.SnapshotFinal
	if r.URL.Query().Get("snapshot") == string(domain.SnapshotDraft) {
		snapshot = domain.SnapshotDraft
	}

	html, err := h.deckService.Snapshot(r.Context(), ownerKey, artifactID, snapshot)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArtifactID):
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid artifact ID")
		case errors.Is(err, store.ErrArtifactNotFound):
			shared.RespondWithError(w, r, http.StatusNotFound, "Artifact not found")
		default:
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Could not read artifact", err)
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// respondServiceError maps orchestrator errors to HTTP status codes.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInsufficientCredits):
		shared.RespondWithError(w, r, http.StatusForbidden, "No generation credits remaining")
	default:
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Generation failed, please retry", err)
	}
}
