package device

import "time"

const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
)

type DeviceToken struct {
	Token     string    `json:"token" db:"token"`
	Platform  string    `json:"platform" db:"platform"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type RegisterDeviceRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

// ValidPlatform reports whether p is a platform push can be sent to. Empty is
// treated as android by the sender.
func ValidPlatform(p string) bool {
	return p == "" || p == PlatformAndroid || p == PlatformIOS
}
