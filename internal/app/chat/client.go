/*
Package chat contains the core logic for proximity membership and message relay.

This file defines the Client struct, representing an active WebSocket connection. It manages the
connection's lifecycle, the message pumps (ReadPump and WritePump), and event submission to the Hub.
*/
package chat

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"mapchat/internal/pkg/errs"
	"mapchat/internal/pkg/logx"
	"mapchat/internal/pkg/metrics"
	"mapchat/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a frame sent by the client. Sized to
	// accommodate an inline base64 voice clip up to MaxVoiceClipSize.
	maxFrameSize = MaxVoiceClipSize*4/3 + 4096

	// MaxContentBytes is the maximum allowed size (in bytes) for message text.
	MaxContentBytes = 5000

	// WsCloseCodeSessionKicked is a custom WebSocket Close Code (4000-4999 range)
	// used to signal the client that the session was replaced by a new connection.
	WsCloseCodeSessionKicked = 4001

	// uploadTimeout bounds a server-side voice clip offload.
	uploadTimeout = 15 * time.Second
)

// Client represents an active WebSocket connection.
type Client struct {
	// hub is the event loop this connection feeds.
	hub *Hub

	// conn is the underlying WebSocket connection object.
	conn *websocket.Conn

	// connID is the server-assigned connection identifier.
	connID string

	// userID is the user this connection joined as. Empty until a join event is
	// processed; written and read only by the Hub's Run goroutine.
	userID string

	// send is a buffered channel queuing frames waiting to be written to the client.
	send chan []byte

	// structured logger with connection context.
	logger zerolog.Logger
}

// NewClient constructs a Client for an upgraded connection.
func NewClient(hub *Hub, wsConn *websocket.Conn, connID string) *Client {
	clientLogger := logx.Logger().With().
		Str("conn_id", connID).
		Logger()

	return &Client{
		hub:    hub,
		conn:   wsConn,
		connID: connID,
		send:   make(chan []byte, 256),
		logger: clientLogger,
	}
}

// ReadPump reads frames from the WebSocket connection, converts them into hub
// events, and performs cleanup when the connection closes.
func (c *Client) ReadPump() {
	metrics.ConnectionsActive.Inc()
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxFrameSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frameBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading frame (client close/going away)")
			}
			break
		}

		c.processInboundFrame(frameBytes)
	}
}

// cleanupOnDisconnect submits the implicit disconnect event and closes the
// underlying connection when ReadPump terminates.
func (c *Client) cleanupOnDisconnect() {
	metrics.ConnectionsActive.Dec()

	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.Submit(DisconnectEvent{Client: c})

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInboundFrame parses one raw frame and submits the resulting event.
// A malformed frame costs the client an error reply, never the session.
func (c *Client) processInboundFrame(frameBytes []byte) {
	ev, err := ParseClientEvent(c, frameBytes)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Client sent an unparseable frame")
		c.SendError(errs.NewError(errs.ErrInvalidJSONFormat))
		return
	}

	switch e := ev.(type) {
	case TextMessageEvent:
		if len(e.Message.Text) > MaxContentBytes {
			c.SendError(errs.NewError(errs.ErrMessageContentTooLong))
			return
		}

	case VoiceMessageEvent:
		msg, ok := c.prepareVoiceMessage(e.Message)
		if !ok {
			return
		}
		ev = VoiceMessageEvent{Client: c, Message: msg}
	}

	c.hub.Submit(ev)
}

// prepareVoiceMessage validates a voice message's audio reference and, when the
// inline payload is too large to relay, offloads it to object storage and
// replaces the data URL with the stored key. Runs on the connection's own
// goroutine so uploads never stall the hub loop.
func (c *Client) prepareVoiceMessage(m Message) (Message, bool) {
	switch {
	case m.AudioURL == "":
		c.SendError(errs.NewError(errs.ErrVoiceClipInvalid))
		return m, false

	case IsVoiceKey(m.AudioURL):
		// Client uploaded via the presign API; the hub rewrites the key to a
		// download URL at relay time.
		if c.hub.store == nil {
			c.SendError(errs.NewError(errs.ErrStorageDisabled))
			return m, false
		}
		return m, true

	case IsDataURL(m.AudioURL):
		mimeType, data, clipErr := DecodeAudioDataURL(m.AudioURL)
		if clipErr != nil {
			c.SendError(clipErr)
			return m, false
		}

		if len(data) <= MaxInlineAudioBytes {
			return m, true
		}

		if c.hub.store == nil {
			c.SendError(errs.NewError(errs.ErrVoiceClipTooLarge))
			return m, false
		}

		key := randx.ObjectKey(VoiceKeyPrefix, AudioExtForMIME(mimeType))

		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()

		if err := c.hub.store.Upload(ctx, key, mimeType, data); err != nil {
			c.logger.Error().Err(err).Str("key", key).Msg("Voice clip offload failed.")
			c.SendError(errs.NewError(errs.ErrStorageFailed))
			return m, false
		}

		if c.hub.janitor != nil {
			c.hub.janitor.Track(key)
		}

		m.AudioURL = key
		return m, true

	default:
		c.SendError(errs.NewError(errs.ErrVoiceClipInvalid))
		return m, false
	}
}

// WritePump writes frames from the send channel to the WebSocket connection
// and keeps the heartbeat alive.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !c.writeQueuedFrame(frame, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedFrame writes one frame pulled from the send channel.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedFrame(frame []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		c.logger.Error().Err(err).Msg("Error writing frame")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}

// enqueue queues a frame for delivery. Fire-and-forget: a full or closed
// channel drops the frame rather than blocking the caller.
func (c *Client) enqueue(frame []byte) {
	defer func() {
		if recover() != nil {
			c.logger.Debug().Msg("Dropped frame for closed connection.")
		}
	}()

	select {
	case c.send <- frame:
	default:
		c.logger.Warn().Int("queue_len", len(c.send)).Msg("Client send channel full, dropping frame")
	}
}

// SendError constructs and sends an error frame to the client.
func (c *Client) SendError(customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	frame, err := NewFrame(TypeError, ErrorPayload{
		Code:    customErr.Code,
		Message: customErr.Message,
	})

	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to build error frame")
		return
	}

	c.enqueue(frame)
}

// Kick gracefully closes the client's connection by sending a custom WebSocket
// Close Frame (code 4001) indicating that the session was replaced.
func (c *Client) Kick(reason string) {
	c.logger.Warn().
		Int("close_code", WsCloseCodeSessionKicked).
		Str("reason", reason).
		Msg("Sending WS kick message and closing connection.")

	if c.conn != nil {
		closeMessage := websocket.FormatCloseMessage(WsCloseCodeSessionKicked, reason)

		c.conn.SetWriteDeadline(time.Now().Add(writeWait))

		if err := c.conn.WriteMessage(websocket.CloseMessage, closeMessage); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to send WS 4001 close message.")
		}
	}

	c.closeSend()
}

// closeSend closes the send channel, tolerating a channel already closed by
// an earlier kick or hub shutdown.
func (c *Client) closeSend() {
	defer func() { recover() }()
	close(c.send)
}
