package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"wardrobeAPI/internal/logging"
	"wardrobeAPI/internal/types/wardrobe"
	"wardrobeAPI/middleware"
)

// WardrobeStore is satisfied by *services.WardrobeService.
type WardrobeStore interface {
	ListItems(ctx context.Context, clerkID string, filter wardrobe.ItemFilter) ([]wardrobe.ClothingItem, error)
	AddItem(ctx context.Context, clerkID string, req *wardrobe.AddItemRequest) (*wardrobe.ClothingItem, error)
	DeleteItem(ctx context.Context, clerkID, itemID string) error
	SeedSampleWardrobe(ctx context.Context, clerkID string) (int, error)
	MarkWorn(ctx context.Context, clerkID, itemID string) (*wardrobe.ClothingItem, error)
	WearStats(ctx context.Context, clerkID string) (*wardrobe.WearStats, error)
}

type WardrobeHandler struct {
	wardrobeService WardrobeStore
	logger          *zap.Logger
}

func NewWardrobeHandler(wardrobeService WardrobeStore, logger *zap.Logger) *WardrobeHandler {
	return &WardrobeHandler{wardrobeService: wardrobeService, logger: logging.OrNop(logger)}
}

// ListItems serves GET /wardrobe?category=&q=. The category accepts a name or
// a page slug such as "shirts".
func (h *WardrobeHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	filter := wardrobe.ItemFilter{Query: r.URL.Query().Get("q")}
	if raw := r.URL.Query().Get("category"); raw != "" {
		category, ok := wardrobe.ParseCategory(raw)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "Unknown category "+raw)
			return
		}
		filter.Category = &category
	}

	items, err := h.wardrobeService.ListItems(ctx, clerkID, filter)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load wardrobe")
		return
	}

	respondWithJSON(w, http.StatusOK, items)
}

func (h *WardrobeHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req wardrobe.AddItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.wardrobeService.AddItem(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to add item")
		return
	}

	respondWithJSON(w, http.StatusCreated, item)
}

func (h *WardrobeHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.wardrobeService.DeleteItem(ctx, clerkID, mux.Vars(r)["id"]); err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to delete item")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

func (h *WardrobeHandler) SeedSample(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	added, err := h.wardrobeService.SeedSampleWardrobe(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to seed wardrobe")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]int{"added": added})
}

func (h *WardrobeHandler) MarkWorn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	item, err := h.wardrobeService.MarkWorn(ctx, clerkID, mux.Vars(r)["id"])
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to record wear")
		return
	}

	respondWithJSON(w, http.StatusOK, item)
}

func (h *WardrobeHandler) WearStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	stats, err := h.wardrobeService.WearStats(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load wear stats")
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}
