package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Commands carry image URLs, so allow more than a chat line.
	maxMessageSize = 4096

	clientSendBuffer = 64
)

// CanvasClient is one websocket connected to a canvas session.
type CanvasClient struct {
	Session *CanvasSession
	Conn    *websocket.Conn
	Send    chan []byte
	logger  *zap.Logger
}

func NewCanvasClient(session *CanvasSession, conn *websocket.Conn, logger *zap.Logger) *CanvasClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CanvasClient{
		Session: session,
		Conn:    conn,
		Send:    make(chan []byte, clientSendBuffer),
		logger:  logger,
	}
}

// ReadPump turns incoming frames into canvas commands. A bad command is
// answered to this client only; the connection stays open.
func (c *CanvasClient) ReadPump() {
	defer func() {
		c.Session.leave(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("canvas websocket closed unexpectedly", zap.Error(err))
			}
			return
		}

		var cmd CanvasCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.Session.replyError(c, fmt.Errorf("malformed command: %w", ErrInvalidInput))
			continue
		}

		if err := c.Session.Apply(cmd); err != nil {
			if errors.Is(err, ErrSessionClosed) {
				return
			}
			c.Session.replyError(c, err)
		}
	}
}

// WritePump is the only writer on the connection.
func (c *CanvasClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// session dropped us
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
