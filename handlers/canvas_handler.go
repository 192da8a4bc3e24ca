package handlers

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"wardrobeAPI/internal/logging"
	"wardrobeAPI/middleware"
	"wardrobeAPI/services"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type CanvasHandler struct {
	manager *services.CanvasSessionManager
	verify  middleware.TokenVerifier
	logger  *zap.Logger
}

// NewCanvasHandler needs verify for websocket clients that can send an
// Authorization header on the upgrade. Browsers use a join ticket instead.
func NewCanvasHandler(manager *services.CanvasSessionManager, verify middleware.TokenVerifier, logger *zap.Logger) *CanvasHandler {
	return &CanvasHandler{manager: manager, verify: verify, logger: logging.OrNop(logger)}
}

type canvasCreated struct {
	services.CanvasSnapshot
	WsURL string `json:"wsUrl"`
}

type canvasTicket struct {
	Ticket    string    `json:"ticket"`
	WsURL     string    `json:"wsUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func canvasWsURL(sessionID, ticket string) string {
	return "/api/v1/canvas/ws/" + sessionID + "?ticket=" + url.QueryEscape(ticket)
}

func (h *CanvasHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req services.CreateCanvasRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.manager.Create(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to create canvas")
		return
	}
	snap, err := session.Snapshot()
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to create canvas")
		return
	}
	ticket, _, err := h.manager.IssueTicket(session.ID, clerkID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to create canvas")
		return
	}

	respondWithJSON(w, http.StatusCreated, canvasCreated{
		CanvasSnapshot: snap,
		WsURL:          canvasWsURL(session.ID, ticket),
	})
}

// IssueTicket gives the owner a fresh single-use websocket URL, e.g. to
// reconnect after the first ticket was spent.
func (h *CanvasHandler) IssueTicket(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	sessionID := mux.Vars(r)["id"]
	ticket, expires, err := h.manager.IssueTicket(sessionID, clerkID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to issue ticket")
		return
	}

	respondWithJSON(w, http.StatusCreated, canvasTicket{
		Ticket:    ticket,
		WsURL:     canvasWsURL(sessionID, ticket),
		ExpiresAt: expires,
	})
}

func (h *CanvasHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	session, err := h.manager.GetOwned(mux.Vars(r)["id"], clerkID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load canvas")
		return
	}
	snap, err := session.Snapshot()
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load canvas")
		return
	}

	respondWithJSON(w, http.StatusOK, snap)
}

// ApplyCommand lets clients without a websocket drive the board over REST.
func (h *CanvasHandler) ApplyCommand(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	session, err := h.manager.GetOwned(mux.Vars(r)["id"], clerkID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load canvas")
		return
	}

	var cmd services.CanvasCommand
	if !decodeJSON(w, r, &cmd) {
		return
	}
	if err := session.Apply(cmd); err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to apply command")
		return
	}

	snap, err := session.Snapshot()
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to load canvas")
		return
	}
	respondWithJSON(w, http.StatusOK, snap)
}

func (h *CanvasHandler) SaveSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	o, err := h.manager.Save(ctx, mux.Vars(r)["id"], clerkID, req.Name)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to save outfit")
		return
	}

	respondWithJSON(w, http.StatusCreated, o)
}

func (h *CanvasHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.manager.Delete(mux.Vars(r)["id"], clerkID); err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to close canvas")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Canvas closed"})
}

// joinSession resolves the websocket caller. A ?ticket= from IssueTicket is
// preferred; the Clerk token is only read from the Authorization header so it
// never lands in URLs or access logs.
func (h *CanvasHandler) joinSession(r *http.Request, sessionID string) (*services.CanvasSession, int, string) {
	if ticket := r.URL.Query().Get("ticket"); ticket != "" {
		session, err := h.manager.RedeemTicket(sessionID, ticket)
		if err != nil {
			return nil, http.StatusUnauthorized, "Invalid or expired ticket"
		}
		return session, 0, ""
	}

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return nil, http.StatusUnauthorized, "Unauthorized"
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	clerkID, err := h.verify(ctx, token)
	cancel()
	if err != nil {
		return nil, http.StatusUnauthorized, "Invalid token"
	}

	session, err := h.manager.GetOwned(sessionID, clerkID)
	if err != nil {
		return nil, http.StatusNotFound, "Canvas session not found"
	}
	return session, 0, ""
}

// JoinSession upgrades to a websocket for the session owner.
func (h *CanvasHandler) JoinSession(w http.ResponseWriter, r *http.Request) {
	session, status, msg := h.joinSession(r, mux.Vars(r)["sessionID"])
	if session == nil {
		respondWithError(w, status, msg)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("could not upgrade connection", zap.Error(err))
		return
	}

	client := services.NewCanvasClient(session, conn, h.logger)
	if !session.Join(client) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "canvas session closed"))
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump()
}
