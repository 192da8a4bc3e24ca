package calendar

import "time"

// DateLayout is the ISO calendar date used as the entry key.
const DateLayout = "2006-01-02"

type Entry struct {
	UserID            string    `json:"userId" db:"user_id"`
	Date              string    `json:"date" db:"date"`
	OutfitDescription string    `json:"outfitDescription" db:"outfit_description"`
	OutfitID          *string   `json:"outfitId,omitempty" db:"outfit_id"`
	UpdatedAt         time.Time `json:"updatedAt" db:"updated_at"`
}

type UpsertEntryRequest struct {
	Date              string  `json:"date"`
	OutfitDescription string  `json:"outfitDescription"`
	OutfitID          *string `json:"outfitId,omitempty"`
}

type CalendarDay struct {
	Date              time.Time `json:"date"`
	OutfitDescription *string   `json:"outfitDescription,omitempty"`
	OutfitID          *string   `json:"outfitId,omitempty"`
	IsToday           bool      `json:"isToday"`
}

type CalendarResponse struct {
	Year  int            `json:"year"`
	Month int            `json:"month"`
	Days  []*CalendarDay `json:"days"`
}
