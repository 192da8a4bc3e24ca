package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"wardrobeAPI/internal/logging"
	"wardrobeAPI/internal/types/device"
	"wardrobeAPI/middleware"
)

type DeviceRegistry interface {
	RegisterDevice(ctx context.Context, clerkID string, req *device.RegisterDeviceRequest) (*device.DeviceToken, error)
}

type DeviceHandler struct {
	deviceService DeviceRegistry
	logger        *zap.Logger
}

func NewDeviceHandler(deviceService DeviceRegistry, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{deviceService: deviceService, logger: logging.OrNop(logger)}
}

// RegisterDevice stores the push token used for outfit reminders.
func (h *DeviceHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req device.RegisterDeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.deviceService.RegisterDevice(ctx, clerkID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "Failed to register device")
		return
	}

	respondWithJSON(w, http.StatusOK, token)
}
