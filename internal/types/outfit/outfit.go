package outfit

import (
	"time"

	"wardrobeAPI/internal/canvas"
)

type Outfit struct {
	ID        string              `json:"id" db:"id"`
	UserID    string              `json:"userId" db:"user_id"`
	Name      string              `json:"name" db:"name"`
	Items     []canvas.CanvasItem `json:"items" db:"items"`
	CreatedAt time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time           `json:"updatedAt" db:"updated_at"`
}

type SaveOutfitRequest struct {
	Name  string              `json:"name"`
	Items []canvas.CanvasItem `json:"items"`
}

type ShareResponse struct {
	OutfitID     string `json:"outfitId"`
	ShareURL     string `json:"shareUrl"`
	QrCodeBase64 string `json:"qrCodeBase64"`
}
