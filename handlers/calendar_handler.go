package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"wardrobeAPI/internal/logging"
	"wardrobeAPI/internal/types/calendar"
	"wardrobeAPI/middleware"
)

// CalendarStore is satisfied by *services.CalendarService.
type CalendarStore interface {
	UpsertEntry(ctx context.Context, clerkID string, req *calendar.UpsertEntryRequest) (*calendar.Entry, error)
	ListEntries(ctx context.Context, clerkID string) ([]*calendar.Entry, error)
	GetMonth(ctx context.Context, clerkID string, year, month int) (*calendar.CalendarResponse, error)
	DeleteEntry(ctx context.Context, clerkID, date string) error
}

type CalendarHandler struct {
	calendarService CalendarStore
	logger          *zap.Logger
	now             func() time.Time
}

func NewCalendarHandler(calendarService CalendarStore, logger *zap.Logger) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService, logger: logging.OrNop(logger), now: time.Now}
}

func (h *CalendarHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	entries, err := h.calendarService.ListEntries(ctx, clerkID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load calendar")
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

func (h *CalendarHandler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req calendar.UpsertEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	entry, err := h.calendarService.UpsertEntry(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to save calendar entry")
		return
	}

	respondWithJSON(w, http.StatusOK, entry)
}

// GetMonth serves GET /calendar/month?year=&month=, defaulting to the current
// month.
func (h *CalendarHandler) GetMonth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	now := h.now()
	year, month := now.Year(), int(now.Month())
	var err error
	if v := r.URL.Query().Get("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			respondWithError(w, http.StatusBadRequest, "year must be a number")
			return
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil {
			respondWithError(w, http.StatusBadRequest, "month must be a number")
			return
		}
	}

	res, err := h.calendarService.GetMonth(ctx, clerkID, year, month)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load calendar month")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}

func (h *CalendarHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.calendarService.DeleteEntry(ctx, clerkID, mux.Vars(r)["date"]); err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to delete calendar entry")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Calendar entry deleted"})
}
