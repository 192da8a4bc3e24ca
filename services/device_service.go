package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"wardrobeAPI/internal/types/device"
)

type DeviceService struct {
	db     DB
	logger *zap.Logger
}

func NewDeviceService(db DB, logger *zap.Logger) *DeviceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeviceService{db: db, logger: logger}
}

// RegisterDevice stores a push token for the user. A token moves to the
// latest user that registers it.
func (s *DeviceService) RegisterDevice(ctx context.Context, clerkID string, req *device.RegisterDeviceRequest) (*device.DeviceToken, error) {
	token := strings.TrimSpace(req.Token)
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if token == "" {
		return nil, fmt.Errorf("device token is required: %w", ErrInvalidInput)
	}
	if !device.ValidPlatform(platform) {
		return nil, fmt.Errorf("unsupported platform %q: %w", req.Platform, ErrInvalidInput)
	}
	if platform == "" {
		platform = device.PlatformAndroid
	}

	userID, err := resolveUserID(ctx, s.db, clerkID)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO device_tokens (token, user_id, platform, updated_at)
	VALUES ($1, $2, $3, NOW())
	ON CONFLICT (token) DO UPDATE SET
		user_id = EXCLUDED.user_id,
		platform = EXCLUDED.platform,
		updated_at = NOW()
	RETURNING token, platform, updated_at
	`

	t := &device.DeviceToken{}
	if err := s.db.QueryRow(ctx, query, token, userID, platform).Scan(&t.Token, &t.Platform, &t.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to register device: %w", err)
	}

	s.logger.Info("device registered", zap.String("user_id", userID), zap.String("platform", t.Platform))
	return t, nil
}
