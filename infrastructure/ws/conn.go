package ws

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"chat-relay/contract"
	"chat-relay/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
)

// conn couples one websocket to its sink and connection identity.
// The read pump feeds the router; the write pump drains the sink.
// Separate goroutines avoid head-of-line blocking when a browser is slow.
type conn struct {
	id     domain.ConnectionID
	sock   *websocket.Conn
	sink   *Sink
	router contract.IRouter
	log    *slog.Logger
}

func (c *conn) readPump(ctx context.Context) {
	defer func() {
		c.router.Disconnect(ctx, c.id)
		_ = c.sock.Close()
	}()

	c.sock.SetReadLimit(maxMessageSize)
	_ = c.sock.SetReadDeadline(time.Now().Add(pongWait))
	c.sock.SetPongHandler(func(string) error {
		return c.sock.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.sock.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				c.log.Warn("Unexpected websocket error", "connection_id", c.id, "error", err)
			} else {
				c.log.Debug("Connection closed", "connection_id", c.id, "error", err)
			}
			return
		}
		c.dispatch(ctx, raw)
	}
}

// dispatch routes one decoded frame. Malformed or invalid frames are
// dropped without a reply; they never terminate the connection.
func (c *conn) dispatch(ctx context.Context, raw []byte) {
	in, err := DecodeInbound(raw)
	if err != nil {
		c.log.Debug("Dropping malformed frame", "connection_id", c.id, "error", err)
		return
	}

	switch in.Type {
	case "announce":
		if err := c.router.Announce(ctx, c.id, in.Name); err != nil {
			c.log.Debug("Announce rejected", "connection_id", c.id, "error", err)
		}
	case "chat":
		c.router.RouteChat(ctx, c.id, in.Message, in.Room)
	case "aiPrompt":
		c.router.RouteAIPrompt(ctx, c.id, in.Prompt)
	}
}

func (c *conn) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.sock.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.sock.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"))
			return
		case evt := <-c.sink.Events():
			payload, err := EncodeEvent(evt)
			if err != nil {
				c.log.Error("Failed to encode event", "event", evt.EventName(), "error", err)
				continue
			}
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.TextMessage, payload); err != nil {
				c.log.Debug("Write failed, closing", "connection_id", c.id, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
