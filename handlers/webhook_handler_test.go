package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// base64 of "test-signing-key-123"
const testWebhookSecret = "whsec_dGVzdC1zaWduaW5nLWtleS0xMjM="

func signWebhook(t *testing.T, secret, msgID, timestamp string, body []byte) string {
	t.Helper()
	key, err := base64.StdEncoding.DecodeString(secret[len("whsec_"):])
	require.NoError(t, err)
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(msgID + "." + timestamp + "."))
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

const userCreatedEvent = `{
	"type": "user.created",
	"object": "event",
	"data": {
		"id": "user_abc",
		"first_name": "Ada",
		"last_name": "Lovelace",
		"image_url": "https://img.example/ada.png",
		"primary_email_address_id": "idn_2",
		"email_addresses": [
			{"id": "idn_1", "email_address": "old@example.com", "verification": {"status": "unverified"}},
			{"id": "idn_2", "email_address": "ada@example.com", "verification": {"status": "verified"}}
		]
	}
}`

func webhookRequest(t *testing.T, body, signature string, sent time.Time) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewBufferString(body))
	ts := strconv.FormatInt(sent.Unix(), 10)
	req.Header.Set("svix-id", "msg_1")
	req.Header.Set("svix-timestamp", ts)
	if signature == "" {
		signature = signWebhook(t, testWebhookSecret, "msg_1", ts, []byte(body))
	}
	req.Header.Set("svix-signature", signature)
	return req
}

func TestWebhookUserCreated(t *testing.T) {
	users := &fakeUsers{}
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	h := NewWebhookHandler(users, testWebhookSecret, nil)
	h.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	h.HandleClerkWebhook(rec, webhookRequest(t, userCreatedEvent, "", now))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, users.created, 1)
	got := users.created[0]
	assert.Equal(t, "user_abc", got.ClerkID)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Equal(t, "AdaLovelace", got.Username)
	assert.True(t, users.verified["user_abc"])
}

func TestWebhookRejectsBadSignatures(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  func() *http.Request
	}{
		{"tampered signature", func() *http.Request {
			return webhookRequest(t, userCreatedEvent, "v1,AAAA", now)
		}},
		{"stale timestamp", func() *http.Request {
			return webhookRequest(t, userCreatedEvent, "", now.Add(-10*time.Minute))
		}},
		{"missing headers", func() *http.Request {
			return httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewBufferString(userCreatedEvent))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{}
			h := NewWebhookHandler(users, testWebhookSecret, nil)
			h.now = func() time.Time { return now }

			rec := httptest.NewRecorder()
			h.HandleClerkWebhook(rec, tt.req())
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Empty(t, users.created)
		})
	}
}

func TestWebhookAcceptsAnyListedSignature(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	ts := strconv.FormatInt(now.Unix(), 10)
	valid := signWebhook(t, testWebhookSecret, "msg_1", ts, []byte(userCreatedEvent))

	h := NewWebhookHandler(&fakeUsers{}, testWebhookSecret, nil)
	h.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	h.HandleClerkWebhook(rec, webhookRequest(t, userCreatedEvent, "v1,bogus "+valid, now))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookUserDeletedIsIdempotent(t *testing.T) {
	users := &fakeUsers{}
	h := NewWebhookHandler(users, "", nil)

	body := `{"type":"user.deleted","data":{"id":"user_gone"}}`
	rec := httptest.NewRecorder()
	h.HandleClerkWebhook(rec, httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewBufferString(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"user_gone"}, users.deleted)
}

func TestWebhookUserUpdated(t *testing.T) {
	users := &fakeUsers{}
	h := NewWebhookHandler(users, "", nil)

	body := `{"type":"user.updated","data":{"id":"user_abc","username":"ada","email_addresses":[{"id":"e","email_address":"a@b.c","verification":{"status":"unverified"}}]}}`
	rec := httptest.NewRecorder()
	h.HandleClerkWebhook(rec, httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewBufferString(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, users.updated, 1)
	assert.Equal(t, "ada", users.updated[0].Username)
	assert.False(t, users.verified["user_abc"])
}

func TestWebhookMalformedBody(t *testing.T) {
	h := NewWebhookHandler(&fakeUsers{}, "", nil)
	rec := httptest.NewRecorder()
	h.HandleClerkWebhook(rec, httptest.NewRequest(http.MethodPost, "/webhooks/clerk", bytes.NewBufferString("nope")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
