package notification

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"wardrobeAPI/internal/types/device"
)

var ErrAllPushesFailed = errors.New("all push notifications failed")

// messageSender is the part of *messaging.Client the service uses.
type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type FCMService struct {
	client messageSender
	logger *zap.Logger
}

// NewFCMService prefers base64 credentials in encodedCreds and falls back to
// the service account file at localFilePath.
func NewFCMService(ctx context.Context, encodedCreds, localFilePath string, logger *zap.Logger) (*FCMService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var opt option.ClientOption
	if encodedCreds != "" {
		decoded, err := base64.StdEncoding.DecodeString(encodedCreds)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 firebase credentials: %w", err)
		}
		opt = option.WithCredentialsJSON(decoded)
		logger.Info("FCM initialising from FCM_SERVICE_ACCOUNT_JSON")
	} else {
		if _, err := os.Stat(localFilePath); os.IsNotExist(err) {
			return nil, fmt.Errorf("firebase credentials file not found: %s", localFilePath)
		}
		opt = option.WithCredentialsFile(localFilePath)
		logger.Info("FCM initialising from credentials file", zap.String("path", localFilePath))
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client, logger: logger}, nil
}

// SendPush sends push to each token one at a time. It only fails when every
// send failed.
func (s *FCMService) SendPush(ctx context.Context, tokens []device.DeviceToken, push Push) error {
	if len(tokens) == 0 {
		return nil
	}

	sent, failed := 0, 0
	for _, t := range tokens {
		if _, err := s.client.Send(ctx, buildMessage(t, push)); err != nil {
			s.logger.Warn("FCM send failed", zap.String("platform", t.Platform), zap.Error(err))
			failed++
			continue
		}
		sent++
	}

	s.logger.Info("FCM batch finished", zap.Int("sent", sent), zap.Int("failed", failed))
	if sent == 0 && failed > 0 {
		return ErrAllPushesFailed
	}
	return nil
}

func buildMessage(t device.DeviceToken, push Push) *messaging.Message {
	msg := &messaging.Message{
		Token: t.Token,
		Notification: &messaging.Notification{
			Title: push.Title,
			Body:  push.Body,
		},
		Data: push.Data,
	}

	switch t.Platform {
	case device.PlatformIOS:
		msg.APNS = &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		}
	default:
		msg.Android = &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		}
	}
	return msg
}
