package notification

import (
	"fmt"

	"wardrobeAPI/internal/types/calendar"
)

// Push is one notification as delivered to a device.
type Push struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

const reminderTitle = "Today's outfit"

// OutfitReminder is the push sent on the morning of a planned calendar day.
func OutfitReminder(entry calendar.Entry) Push {
	data := map[string]string{
		"type": "outfit_reminder",
		"date": entry.Date,
	}
	if entry.OutfitID != nil {
		data["outfitId"] = *entry.OutfitID
	}
	return Push{
		Title: reminderTitle,
		Body:  fmt.Sprintf("You planned: %s", entry.OutfitDescription),
		Data:  data,
	}
}
