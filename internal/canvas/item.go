package canvas

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCanvasWidth  = 500.0
	DefaultCanvasHeight = 400.0

	ItemWidth  = 150.0
	ItemHeight = 150.0

	// RotationStep is applied once per rotate action, in degrees.
	RotationStep = 15.0

	DefaultImageURL = "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?ixlib=rb-4.0.3&auto=format&fit=crop&w=1480&q=80"
)

// Direction is the way Rotate turns an item.
type Direction string

const (
	Clockwise        Direction = "clockwise"
	Counterclockwise Direction = "counterclockwise"
)

// CanvasItem is one clothing image placed on the outfit board.
type CanvasItem struct {
	ID       string  `json:"id"`
	ImageURL string  `json:"imageUrl"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	ZIndex   int     `json:"zIndex"`
}

// NoticeLevel tells the client how to style a Notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
)

// Notice is the user-facing message a mutation produces ("Item added to outfit").
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func newItemID(now time.Time) string {
	return fmt.Sprintf("item-%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}
