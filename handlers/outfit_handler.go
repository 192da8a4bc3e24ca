package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"wardrobeAPI/internal/logging"
	"wardrobeAPI/internal/types/outfit"
	"wardrobeAPI/middleware"
)

// OutfitProvider is satisfied by *services.OutfitService.
type OutfitProvider interface {
	SaveOutfit(ctx context.Context, clerkID string, req *outfit.SaveOutfitRequest) (*outfit.Outfit, error)
	ListOutfits(ctx context.Context, clerkID string) ([]*outfit.Outfit, error)
	GetOutfit(ctx context.Context, clerkID, outfitID string) (*outfit.Outfit, error)
	DeleteOutfit(ctx context.Context, clerkID, outfitID string) error
	ShareOutfit(ctx context.Context, clerkID, outfitID string) (*outfit.ShareResponse, error)
}

type OutfitHandler struct {
	outfitService OutfitProvider
	logger        *zap.Logger
}

func NewOutfitHandler(outfitService OutfitProvider, logger *zap.Logger) *OutfitHandler {
	return &OutfitHandler{outfitService: outfitService, logger: logging.OrNop(logger)}
}

func (h *OutfitHandler) SaveOutfit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req outfit.SaveOutfitRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.outfitService.SaveOutfit(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to save outfit")
		return
	}

	respondWithJSON(w, http.StatusCreated, o)
}

func (h *OutfitHandler) ListOutfits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	outfits, err := h.outfitService.ListOutfits(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load outfits")
		return
	}

	respondWithJSON(w, http.StatusOK, outfits)
}

func (h *OutfitHandler) GetOutfit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	o, err := h.outfitService.GetOutfit(ctx, clerkID, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load outfit")
		return
	}

	respondWithJSON(w, http.StatusOK, o)
}

func (h *OutfitHandler) DeleteOutfit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.outfitService.DeleteOutfit(ctx, clerkID, mux.Vars(r)["id"]); err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to delete outfit")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Outfit deleted"})
}

// ShareOutfit returns a deep link and a QR code PNG for it.
func (h *OutfitHandler) ShareOutfit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	share, err := h.outfitService.ShareOutfit(ctx, clerkID, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to share outfit")
		return
	}

	respondWithJSON(w, http.StatusOK, share)
}
