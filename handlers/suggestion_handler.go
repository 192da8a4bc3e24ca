package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"wardrobeAPI/internal/logging"
	"wardrobeAPI/internal/matching"
	"wardrobeAPI/middleware"
	"wardrobeAPI/services"
)

// Suggester is satisfied by *services.MatchingService.
type Suggester interface {
	SuggestByColor(ctx context.Context, clerkID string, req *services.ColorSuggestionRequest) (*services.ColorSuggestion, error)
	SuggestByOccasion(ctx context.Context, clerkID string, req *services.OccasionSuggestionRequest) (*services.OccasionSuggestion, error)
}

type SuggestionHandler struct {
	matchingService Suggester
	logger          *zap.Logger
}

func NewSuggestionHandler(matchingService Suggester, logger *zap.Logger) *SuggestionHandler {
	return &SuggestionHandler{matchingService: matchingService, logger: logging.OrNop(logger)}
}

func (h *SuggestionHandler) SuggestByColor(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req services.ColorSuggestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.matchingService.SuggestByColor(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to build suggestions")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}

func (h *SuggestionHandler) SuggestByOccasion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req services.OccasionSuggestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.matchingService.SuggestByOccasion(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to build suggestions")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}

type paletteSummary struct {
	BaseColor matching.BaseColor    `json:"baseColor"`
	Schemes   []matching.SchemeType `json:"schemes"`
}

type paletteDetail struct {
	BaseColor matching.BaseColor                           `json:"baseColor"`
	Schemes   map[matching.SchemeType]matching.ColorScheme `json:"schemes"`
	Requested matching.SchemeType                          `json:"requested,omitempty"`
	Resolved  matching.SchemeType                          `json:"resolved"`
	Advice    string                                       `json:"advice"`
}

// ListPalettes serves the public palette table, one row per base colour.
func ListPalettes(w http.ResponseWriter, r *http.Request) {
	bases := matching.BaseColors()
	out := make([]paletteSummary, 0, len(bases))
	for _, b := range bases {
		out = append(out, paletteSummary{BaseColor: b, Schemes: matching.SchemeTypes(b)})
	}
	respondWithJSON(w, http.StatusOK, out)
}

// GetPalette returns every scheme of one base colour together with the
// scheme ?scheme= resolves to.
func GetPalette(w http.ResponseWriter, r *http.Request) {
	base, ok := matching.ParseBaseColor(mux.Vars(r)["color"])
	if !ok {
		respondWithError(w, http.StatusNotFound, "Unknown base color")
		return
	}

	requested, _ := matching.ParseSchemeType(r.URL.Query().Get("scheme"))
	resolved, _ := matching.ResolveSchemeType(base, requested)

	schemes := make(map[matching.SchemeType]matching.ColorScheme)
	for _, st := range matching.SchemeTypes(base) {
		if cs, ok := matching.Lookup(base, st); ok {
			schemes[st] = cs
		}
	}

	respondWithJSON(w, http.StatusOK, paletteDetail{
		BaseColor: base,
		Schemes:   schemes,
		Requested: requested,
		Resolved:  resolved,
		Advice:    matching.SchemeAdvice(resolved),
	})
}
