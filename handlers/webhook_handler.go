package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"wardrobeAPI/internal/logging"
	"wardrobeAPI/internal/types/clerk"
	"wardrobeAPI/internal/types/user"
	"wardrobeAPI/services"
)

const (
	webhookMaxBody   = int64(65536)
	webhookTolerance = 5 * time.Minute
)

var errBadSignature = errors.New("invalid webhook signature")

// WebhookHandler keeps the users table in sync with Clerk.
type WebhookHandler struct {
	userService UserStore
	secret      string
	logger      *zap.Logger
	now         func() time.Time
}

// NewWebhookHandler verifies deliveries with the Svix signing secret
// ("whsec_..."). An empty secret disables verification, for local use only.
func NewWebhookHandler(userService UserStore, secret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		userService: userService,
		secret:      secret,
		logger:      logging.OrNop(logger),
		now:         time.Now,
	}
}

func (h *WebhookHandler) HandleClerkWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, webhookMaxBody))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Error reading body")
		return
	}

	if err := h.verifySignature(r.Header, body); err != nil {
		h.logger.Warn("rejected clerk webhook", zap.Error(err))
		respondWithError(w, http.StatusUnauthorized, "Invalid signature")
		return
	}

	var event clerk.ClerkWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		respondWithError(w, http.StatusBadRequest, "Error parsing webhook")
		return
	}

	h.logger.Info("received clerk webhook", zap.String("type", event.Type))

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	switch event.Type {
	case "user.created":
		err = h.handleUserCreated(ctx, event.Data)
	case "user.updated":
		err = h.handleUserUpdated(ctx, event.Data)
	case "user.deleted":
		err = h.handleUserDeleted(ctx, event.Data)
	default:
		h.logger.Debug("unhandled webhook event", zap.String("type", event.Type))
	}
	if err != nil {
		h.logger.Error("failed to process clerk webhook", zap.String("type", event.Type), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Error processing webhook")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func displayName(d clerk.ClerkUserData) string {
	if d.Username != "" {
		return d.Username
	}
	return d.FirstName + d.LastName
}

func imageURL(d clerk.ClerkUserData) string {
	if d.ImageURL != "" {
		return d.ImageURL
	}
	return d.ProfileImageURL
}

func (h *WebhookHandler) handleUserCreated(ctx context.Context, data json.RawMessage) error {
	var userData clerk.ClerkUserData
	if err := json.Unmarshal(data, &userData); err != nil {
		return fmt.Errorf("failed to unmarshal user data: %w", err)
	}

	email, _ := userData.PrimaryEmail()
	u, err := h.userService.CreateUser(ctx, &user.CreateUserRequest{
		ClerkID:   userData.ID,
		Email:     email.EmailAddress,
		Username:  displayName(userData),
		FirstName: userData.FirstName,
		LastName:  userData.LastName,
		ImageURL:  imageURL(userData),
	})
	if err != nil {
		return fmt.Errorf("failed to create user in database: %w", err)
	}

	if email.Verification.Status == "verified" {
		if err := h.userService.UpdateEmailVerification(ctx, userData.ID, true); err != nil {
			h.logger.Warn("failed to store email verification", zap.Error(err))
		}
	}

	h.logger.Info("user created", zap.String("clerk_id", u.ClerkID))
	return nil
}

func (h *WebhookHandler) handleUserUpdated(ctx context.Context, data json.RawMessage) error {
	var userData clerk.ClerkUserData
	if err := json.Unmarshal(data, &userData); err != nil {
		return fmt.Errorf("failed to unmarshal user data: %w", err)
	}

	_, err := h.userService.UpdateProfileByClerkID(ctx, userData.ID, &user.UpdateProfileRequest{
		Username:  displayName(userData),
		FirstName: userData.FirstName,
		LastName:  userData.LastName,
		ImageURL:  imageURL(userData),
	})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if email, ok := userData.PrimaryEmail(); ok {
		verified := email.Verification.Status == "verified"
		if err := h.userService.UpdateEmailVerification(ctx, userData.ID, verified); err != nil {
			h.logger.Warn("failed to store email verification", zap.Error(err))
		}
	}
	return nil
}

func (h *WebhookHandler) handleUserDeleted(ctx context.Context, data json.RawMessage) error {
	var userData struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &userData); err != nil {
		return fmt.Errorf("failed to unmarshal user data: %w", err)
	}

	// Clerk may redeliver; a user that is already gone is fine.
	if err := h.userService.DeleteUserByClerkID(ctx, userData.ID); err != nil && !errors.Is(err, services.ErrNotFound) {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// verifySignature checks the Svix headers: an HMAC-SHA256 over
// "id.timestamp.body" keyed with the base64 part of the secret, sent as one
// or more space separated "v1,<base64>" values.
func (h *WebhookHandler) verifySignature(header http.Header, body []byte) error {
	if h.secret == "" {
		h.logger.Warn("CLERK_WEBHOOK_SECRET not set, skipping signature verification")
		return nil
	}

	msgID := header.Get("svix-id")
	timestamp := header.Get("svix-timestamp")
	signatures := header.Get("svix-signature")
	if msgID == "" || timestamp == "" || signatures == "" {
		return fmt.Errorf("missing svix headers: %w", errBadSignature)
	}

	sec, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("bad timestamp: %w", errBadSignature)
	}
	sent := time.Unix(sec, 0)
	if d := h.now().Sub(sent); d > webhookTolerance || d < -webhookTolerance {
		return fmt.Errorf("timestamp outside tolerance: %w", errBadSignature)
	}

	key, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(h.secret, "whsec_"))
	if err != nil {
		return fmt.Errorf("malformed signing secret: %w", err)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID + "." + timestamp + "."))
	mac.Write(body)
	expected := []byte(base64.StdEncoding.EncodeToString(mac.Sum(nil)))

	for _, sig := range strings.Fields(signatures) {
		version, value, ok := strings.Cut(sig, ",")
		if ok && version == "v1" && hmac.Equal(expected, []byte(value)) {
			return nil
		}
	}
	return errBadSignature
}
