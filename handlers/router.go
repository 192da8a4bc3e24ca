package handlers

import (
	"context"
	"net/http"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wardrobeAPI/middleware"
)

// Pinger reports database health; *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Routes is everything the router needs. Nil handlers leave their routes
// unregistered.
type Routes struct {
	DB          Pinger
	Verify      middleware.TokenVerifier
	RateLimiter *middleware.RateLimiter
	Metrics     prometheus.Gatherer
	MetricsUser string
	MetricsPass string

	Users       *UserHandler
	Webhooks    *WebhookHandler
	Wardrobe    *WardrobeHandler
	Outfits     *OutfitHandler
	Calendar    *CalendarHandler
	Suggestions *SuggestionHandler
	Canvas      *CanvasHandler
	Devices     *DeviceHandler
}

func health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "wardrobe-api"})
	}
}

// NewRouter wires every route and wraps the result in CORS.
func NewRouter(rt Routes) http.Handler {
	r := mux.NewRouter()

	// websocket upgrades skip the monitor and limiter wrappers
	if rt.Canvas != nil {
		r.HandleFunc("/api/v1/canvas/ws/{sessionID}", rt.Canvas.JoinSession)
	}

	standardRouter := r.PathPrefix("/").Subrouter()
	if rt.RateLimiter != nil {
		standardRouter.Use(rt.RateLimiter.Middleware)
	}
	standardRouter.Use(middleware.MonitorMiddleware)

	if rt.Metrics != nil {
		metrics := promhttp.HandlerFor(rt.Metrics, promhttp.HandlerOpts{})
		standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(rt.MetricsUser, rt.MetricsPass)(metrics))
	}
	if rt.DB != nil {
		standardRouter.HandleFunc("/health", health(rt.DB)).Methods("GET")
	}
	if rt.Webhooks != nil {
		standardRouter.HandleFunc("/webhooks/clerk", rt.Webhooks.HandleClerkWebhook).Methods("POST")
	}

	api := standardRouter.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/palettes", ListPalettes).Methods("GET")
	api.HandleFunc("/palettes/{color}", GetPalette).Methods("GET")

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware(rt.Verify, nil))

	if h := rt.Users; h != nil {
		protected.HandleFunc("/user", h.GetProfile).Methods("GET")
		protected.HandleFunc("/user", h.UpdateProfile).Methods("PUT")
		protected.HandleFunc("/user", h.DeleteAccount).Methods("DELETE")
	}

	if h := rt.Wardrobe; h != nil {
		protected.HandleFunc("/wardrobe", h.ListItems).Methods("GET")
		protected.HandleFunc("/wardrobe", h.AddItem).Methods("POST")
		protected.HandleFunc("/wardrobe/seed", h.SeedSample).Methods("POST")
		protected.HandleFunc("/wardrobe/most-worn", h.WearStats).Methods("GET")
		protected.HandleFunc("/wardrobe/{id}", h.DeleteItem).Methods("DELETE")
		protected.HandleFunc("/wardrobe/{id}/worn", h.MarkWorn).Methods("POST")
	}

	if h := rt.Outfits; h != nil {
		protected.HandleFunc("/outfits", h.ListOutfits).Methods("GET")
		protected.HandleFunc("/outfits", h.SaveOutfit).Methods("POST")
		protected.HandleFunc("/outfits/{id}", h.GetOutfit).Methods("GET")
		protected.HandleFunc("/outfits/{id}", h.DeleteOutfit).Methods("DELETE")
		protected.HandleFunc("/outfits/{id}/share", h.ShareOutfit).Methods("GET")
	}

	if h := rt.Calendar; h != nil {
		protected.HandleFunc("/calendar", h.ListEntries).Methods("GET")
		protected.HandleFunc("/calendar", h.UpsertEntry).Methods("PUT")
		protected.HandleFunc("/calendar/month", h.GetMonth).Methods("GET")
		protected.HandleFunc("/calendar/{date}", h.DeleteEntry).Methods("DELETE")
	}

	if h := rt.Suggestions; h != nil {
		protected.HandleFunc("/suggestions/color", h.SuggestByColor).Methods("POST")
		protected.HandleFunc("/suggestions/occasion", h.SuggestByOccasion).Methods("POST")
	}

	if h := rt.Canvas; h != nil {
		protected.HandleFunc("/canvas", h.CreateSession).Methods("POST")
		protected.HandleFunc("/canvas/{id}", h.GetSession).Methods("GET")
		protected.HandleFunc("/canvas/{id}", h.DeleteSession).Methods("DELETE")
		protected.HandleFunc("/canvas/{id}/commands", h.ApplyCommand).Methods("POST")
		protected.HandleFunc("/canvas/{id}/save", h.SaveSession).Methods("POST")
		protected.HandleFunc("/canvas/{id}/ticket", h.IssueTicket).Methods("POST")
	}

	if h := rt.Devices; h != nil {
		protected.HandleFunc("/devices", h.RegisterDevice).Methods("POST")
	}

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)
	return corsHandler(r)
}
