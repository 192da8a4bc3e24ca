package services

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrobeAPI/internal/types/device"
)

func TestRegisterDevice(t *testing.T) {
	tests := []struct {
		name     string
		platform string
		want     string
	}{
		{name: "defaults to android", platform: "", want: device.PlatformAndroid},
		{name: "normalises case", platform: " iOS ", want: device.PlatformIOS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newFakeDB()
			db.queryRow = func(sql string, args []any) pgx.Row {
				return fakeRow{values: []any{args[0], args[2], time.Now()}}
			}
			svc := NewDeviceService(db, nil)

			tok, err := svc.RegisterDevice(context.Background(), testClerkID, &device.RegisterDeviceRequest{Token: " fcm-token ", Platform: tt.platform})
			require.NoError(t, err)
			assert.Equal(t, "fcm-token", tok.Token)
			assert.Equal(t, tt.want, tok.Platform)
			assert.Equal(t, []any{"fcm-token", testUserID, tt.want}, db.lastCall().args)
		})
	}
}

func TestRegisterDeviceValidation(t *testing.T) {
	db := newFakeDB()
	svc := NewDeviceService(db, nil)
	ctx := context.Background()

	_, err := svc.RegisterDevice(ctx, testClerkID, &device.RegisterDeviceRequest{Token: "t", Platform: "windows"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.RegisterDevice(ctx, testClerkID, &device.RegisterDeviceRequest{Token: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, db.calls)
}
