package ws

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin policy handled by the CORS middleware upstream
	},
}

func Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

// Client is one viewer or editor session attached to an event feed.
type Client struct {
	conn    *connWrapper
	Message chan *WSMessage
	ID      string `json:"id"`
	EventID string `json:"eventId"`
}

func NewClient(conn *websocket.Conn, id, eventID string) *Client {
	return &Client{
		conn:    newConnWrapper(conn),
		Message: make(chan *WSMessage, 64), // buffered to avoid dead-locks on slow clients
		ID:      id,
		EventID: eventID,
	}
}

// Send queues a message, dropping it if the client cannot keep up. The
// next snapshot carries the full feed anyway.
func (c *Client) Send(msg *WSMessage) {
	select {
	case c.Message <- msg:
	default:
		log.Printf("client %s buffer full, dropping message", c.ID)
	}
}

// ReadPump consumes the connection until the peer goes away. Viewers send
// nothing meaningful upstream; this exists to notice the close and to keep
// the pong handler serviced. onClose runs exactly once when the pump exits.
func (c *Client) ReadPump(onClose func()) {
	defer func() {
		onClose()
		_ = c.conn.Close()
	}()

	c.conn.conn.SetReadLimit(512)
	_ = c.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.conn.SetPongHandler(func(string) error {
		return c.conn.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (client %s): %v", c.ID, err)
			}
			return
		}
	}
}

// WritePump drains the message queue onto the wire and keeps the
// connection alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Message:
			if !ok {
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error (client %s): %v", c.ID, err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
