package notification

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wardrobeAPI/internal/types/calendar"
	"wardrobeAPI/internal/types/device"
)

type fakeSender struct {
	sent    []*messaging.Message
	failFor map[string]bool
}

func (f *fakeSender) Send(ctx context.Context, m *messaging.Message) (string, error) {
	if f.failFor[m.Token] {
		return "", errors.New("unregistered")
	}
	f.sent = append(f.sent, m)
	return "projects/x/messages/1", nil
}

func TestSendPushPlatformConfig(t *testing.T) {
	sender := &fakeSender{}
	svc := &FCMService{client: sender, logger: zap.NewNop()}

	err := svc.SendPush(context.Background(), []device.DeviceToken{
		{Token: "a", Platform: device.PlatformAndroid},
		{Token: "i", Platform: device.PlatformIOS},
		{Token: "e"},
	}, Push{Title: "t", Body: "b", Data: map[string]string{"k": "v"}})
	require.NoError(t, err)
	require.Len(t, sender.sent, 3)

	assert.NotNil(t, sender.sent[0].Android)
	assert.Nil(t, sender.sent[0].APNS)
	assert.NotNil(t, sender.sent[1].APNS)
	assert.Nil(t, sender.sent[1].Android)
	assert.NotNil(t, sender.sent[2].Android)
	assert.Equal(t, "v", sender.sent[0].Data["k"])
	assert.Equal(t, "t", sender.sent[0].Notification.Title)
}

func TestSendPushPartialAndTotalFailure(t *testing.T) {
	sender := &fakeSender{failFor: map[string]bool{"bad": true}}
	svc := &FCMService{client: sender, logger: zap.NewNop()}
	tokens := []device.DeviceToken{{Token: "bad"}, {Token: "good"}}

	assert.NoError(t, svc.SendPush(context.Background(), tokens, Push{}))

	err := svc.SendPush(context.Background(), []device.DeviceToken{{Token: "bad"}}, Push{})
	assert.ErrorIs(t, err, ErrAllPushesFailed)

	assert.NoError(t, svc.SendPush(context.Background(), nil, Push{}))
}

func TestOutfitReminder(t *testing.T) {
	id := "outfit-1"
	p := OutfitReminder(calendar.Entry{Date: "2026-10-15", OutfitDescription: "Navy blazer and chinos", OutfitID: &id})

	assert.Equal(t, "Today's outfit", p.Title)
	assert.Equal(t, "You planned: Navy blazer and chinos", p.Body)
	assert.Equal(t, map[string]string{"type": "outfit_reminder", "date": "2026-10-15", "outfitId": "outfit-1"}, p.Data)

	p = OutfitReminder(calendar.Entry{Date: "2026-10-16", OutfitDescription: "Gym kit"})
	_, ok := p.Data["outfitId"]
	assert.False(t, ok)
}
