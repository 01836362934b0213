package api

import (
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size. Every real client frame is well under this.
	maxMessageSize = 1024

	// Outbound buffer per connection. A client that falls this far behind
	// starts losing frames rather than stalling the room.
	sendBuffer = 64
)

// Client is one connected player's transport handle. It owns nothing but
// the socket: inbound frames are forwarded to the server's event loop and
// outbound frames are drained from the send buffer. The game layer only
// ever sees it as a controller.Conn.
type Client struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte
}

// Send queues a frame without blocking. False means the buffer was full
// and the frame is gone.
func (c *Client) Send(frame []byte) bool {
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// readPump forwards inbound frames to the event loop until the socket
// dies, then unregisters, which the loop treats as an implicit
// leave_room.
func (c *Client) readPump() {
	defer func() {
		c.server.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WithError(err).WithField("remote", c.conn.RemoteAddr()).Debug("client read failed")
			}
			return
		}
		c.server.inbound <- inboundFrame{client: c, data: data}
	}
}

// writePump drains the send buffer onto the socket and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The event loop closed the channel on unregister.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
