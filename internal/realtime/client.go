package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const maxInboundSize = 4096

// Client is one WebSocket connection subscribed to a single event room.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	userID  int64
	eventID int64

	pingInterval time.Duration
	writeTimeout time.Duration
	log          zerolog.Logger
}

func (c *Client) pongWait() time.Duration {
	return c.pingInterval + c.writeTimeout
}

// readPump consumes inbound messages until the peer goes away. It owns
// the read side: pong handling and read deadlines live here.
func (c *Client) readPump(ctx context.Context) {
	defer c.hub.unregister(c)

	c.conn.SetReadLimit(maxInboundSize)
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("ws read")
			}
			return
		}
		var in Inbound
		if err := json.Unmarshal(data, &in); err != nil {
			c.log.Debug().Err(err).Msg("ws bad inbound message")
			continue
		}
		switch in.Type {
		case TypePing:
			c.enqueue(Message{Type: TypePong, EventID: c.eventID})
		case TypeChatSend:
			if c.hub.OnChat == nil || in.Body == "" {
				continue
			}
			if err := c.hub.OnChat(ctx, c.eventID, c.userID, in.Body); err != nil {
				c.log.Warn().Err(err).Msg("inbound chat rejected")
			}
		default:
			c.log.Debug().Str("type", in.Type).Msg("ws unknown inbound type")
		}
	}
}

// writePump writes queued payloads and protocol pings. It owns the
// write side and closes the connection when the send channel closes.
func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

// enqueue drops the message if the client's buffer is full; the read
// deadline will reap the connection if it stays behind.
func (c *Client) enqueue(m Message) {
	b, err := json.Marshal(m)
	if err != nil {
		return
	}
	select {
	case c.send <- b:
	default:
	}
}
