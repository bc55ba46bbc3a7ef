package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/stahp-game/stahp-backend/internal/game"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum inbound message size in bytes.
	maxMessageSize = 8192
	// Outbound channel capacity; a full buffer drops the frame rather than
	// blocking the room.
	sendBuffer = 64
)

// Client adapts one websocket connection to the room's contract: it delivers
// the connection's inbound messages to the room in order, accepts outbound
// envelopes without blocking, and notifies the room of disconnect exactly
// once.
type Client struct {
	id       string
	conn     *websocket.Conn
	room     *game.Room
	playerID int
	logger   *zap.Logger

	send      chan game.Envelope
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, room *game.Room, logger *zap.Logger) *Client {
	id := uuid.NewString()
	return &Client{
		id:     id,
		conn:   conn,
		room:   room,
		logger: logger.With(zap.String("conn", id)),
		send:   make(chan game.Envelope, sendBuffer),
	}
}

// Send queues an envelope for delivery. It never blocks; a full buffer or a
// closed connection drops the frame and reports false.
func (c *Client) Send(msg game.Envelope) bool {
	defer func() {
		// The send channel closes when the reader exits; a racing broadcast
		// must not take the room down with it.
		_ = recover()
	}()
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// inbound mirrors game.Envelope with the value left raw so each message type
// can decode its own payload shape.
type inbound struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// readPump pumps messages from the websocket to the room. It runs in its own
// goroutine per connection and guarantees the room sees at most one
// disconnect notification.
func (c *Client) readPump() {
	defer func() {
		c.closeOnce.Do(func() {
			c.room.Disconnect(c.playerID)
			close(c.send)
		})
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("read error", zap.Error(err))
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(raw, &msg); err != nil {
			// Protocol error: drop the message, keep the connection.
			c.logger.Warn("malformed message", zap.Error(err))
			continue
		}
		c.dispatch(msg)
	}
}

// dispatch decodes the payload for each message type and forwards it to the
// room. Undecodable payloads and unknown types are dropped without closing
// the connection.
func (c *Client) dispatch(msg inbound) {
	switch msg.Type {
	case game.MsgName:
		var name string
		if err := json.Unmarshal(msg.Value, &name); err != nil {
			c.logger.Warn("malformed name value", zap.Error(err))
			return
		}
		c.room.Rename(c.playerID, name)

	case game.MsgStartRound:
		c.room.StartRound(c.playerID)

	case game.MsgChallenge:
		var v struct {
			Word  string `json:"word"`
			Field string `json:"field"`
		}
		if err := json.Unmarshal(msg.Value, &v); err != nil {
			c.logger.Warn("malformed challenge value", zap.Error(err))
			return
		}
		c.room.Challenge(c.playerID, v.Word, v.Field)

	case game.MsgVote:
		var valid bool
		if err := json.Unmarshal(msg.Value, &valid); err != nil {
			c.logger.Warn("malformed vote value", zap.Error(err))
			return
		}
		c.room.CastVote(c.playerID, valid)

	case game.MsgEndRound:
		var answers map[string]string
		if err := json.Unmarshal(msg.Value, &answers); err != nil {
			c.logger.Warn("malformed end_round value", zap.Error(err))
			return
		}
		c.room.SubmitAnswers(c.playerID, answers)

	default:
		c.logger.Debug("unknown message type", zap.String("type", msg.Type))
	}
}

// writePump pumps envelopes from the send channel to the websocket and keeps
// the connection alive with pings. One writer goroutine per connection is the
// only place that writes to the socket.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn("write error", zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
