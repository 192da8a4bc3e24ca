package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wardrobeAPI/internal/canvas"
	"wardrobeAPI/services"
)

func TestCanvasRESTFlow(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/canvas", services.CreateCanvasRequest{Name: "Gala"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created canvasCreated
	decode(t, rec, &created)
	assert.Equal(t, "Gala", created.Name)
	assert.True(t, strings.HasPrefix(created.WsURL, "/api/v1/canvas/ws/"+created.SessionID+"?ticket="), created.WsURL)

	base := "/api/v1/canvas/" + created.SessionID

	rec = api.do(t, http.MethodPost, base+"/save", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty board cannot be saved")

	rec = api.do(t, http.MethodPost, base+"/commands", services.CanvasCommand{Action: services.ActionAdd, ImageURL: "dress.png"})
	require.Equal(t, http.StatusOK, rec.Code)
	var snap services.CanvasSnapshot
	decode(t, rec, &snap)
	require.Len(t, snap.Items, 1)

	rec = api.do(t, http.MethodPost, base+"/commands", services.CanvasCommand{Action: services.ActionRotate, ID: snap.Items[0].ID, Direction: "upside"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodPost, base+"/save", map[string]string{"name": "Gala look"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, api.canvasDB.saved, 1)
	assert.Equal(t, "Gala look", api.canvasDB.saved[0].Name)

	rec = api.do(t, http.MethodPost, "/api/v1/canvas", services.CreateCanvasRequest{OutfitID: "o-1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var reopened canvasCreated
	decode(t, rec, &reopened)
	assert.Len(t, reopened.Items, 1)

	rec = api.do(t, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCanvasWebsocket(t *testing.T) {
	api := newTestAPI(t)
	srv := httptest.NewServer(api.handler)
	defer srv.Close()

	rec := api.do(t, http.MethodPost, "/api/v1/canvas", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created canvasCreated
	decode(t, rec, &created)

	wsRoot := "ws" + strings.TrimPrefix(srv.URL, "http")
	wsPlain := wsRoot + "/api/v1/canvas/ws/" + created.SessionID

	_, resp, err := websocket.DefaultDialer.Dial(wsPlain+"?ticket=forged", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsPlain, http.Header{"Authorization": {"Bearer forged"}})
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(wsPlain+"?token=good", nil)
	require.Error(t, err, "session tokens are not accepted in the URL")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsRoot+created.WsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	_, resp, err = websocket.DefaultDialer.Dial(wsRoot+created.WsURL, nil)
	require.Error(t, err, "tickets are single use")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	read := func() services.CanvasEvent {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev services.CanvasEvent
		require.NoError(t, conn.ReadJSON(&ev))
		return ev
	}

	ev := read()
	assert.Equal(t, "snapshot", ev.Action)
	require.NotNil(t, ev.Snapshot)
	assert.Empty(t, ev.Snapshot.Items)

	require.NoError(t, conn.WriteJSON(services.CanvasCommand{Action: services.ActionAdd, ImageURL: "coat.png"}))
	ev = read()
	assert.Equal(t, "add", ev.Action)
	require.Len(t, ev.Snapshot.Items, 1)
	assert.Equal(t, "coat.png", ev.Snapshot.Items[0].ImageURL)
	require.Len(t, ev.Notices, 1)
	assert.Equal(t, canvas.NoticeSuccess, ev.Notices[0].Level)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{broken")))
	ev = read()
	assert.Equal(t, "error", ev.Action)
	assert.Contains(t, ev.Error, "malformed")

	raw, err := json.Marshal(services.CanvasCommand{Action: "teleport"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
	ev = read()
	assert.Equal(t, "error", ev.Action)

	// closing the session drops the socket
	rec = api.do(t, http.MethodDelete, "/api/v1/canvas/"+created.SessionID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}

func TestCanvasTicketAndHeaderJoin(t *testing.T) {
	api := newTestAPI(t)
	srv := httptest.NewServer(api.handler)
	defer srv.Close()

	rec := api.do(t, http.MethodPost, "/api/v1/canvas", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created canvasCreated
	decode(t, rec, &created)

	rec = api.do(t, http.MethodPost, "/api/v1/canvas/"+created.SessionID+"/ticket", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var ticket canvasTicket
	decode(t, rec, &ticket)
	assert.NotEmpty(t, ticket.Ticket)
	assert.Contains(t, ticket.WsURL, ticket.Ticket)

	rec = api.do(t, http.MethodPost, "/api/v1/canvas/missing/ticket", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	wsRoot := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsRoot+ticket.WsURL, nil)
	require.NoError(t, err)
	conn.Close()

	conn, _, err = websocket.DefaultDialer.Dial(
		wsRoot+"/api/v1/canvas/ws/"+created.SessionID,
		http.Header{"Authorization": {"Bearer good"}},
	)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev services.CanvasEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "snapshot", ev.Action)
}
