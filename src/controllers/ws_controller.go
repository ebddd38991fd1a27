package controllers

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/travelbunk/backend/src/lib"
)

// wsClient serializes writes to one websocket connection; the hub may deliver
// from several goroutines at once.
type wsClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsClient) WriteJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// WSUpgrade rejects plain HTTP requests on the websocket route.
func WSUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// WSSubscribe handles GET /ws?email=: the client joins its own notification
// channel, the Socket.io "join" equivalent. The read loop only watches for
// close; clients never send application data.
func WSSubscribe() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		email := conn.Query("email")
		if email == "" {
			conn.Close()
			return
		}

		client := &wsClient{conn: conn}
		hub.Subscribe(email, client)
		lib.Log.WithField("channel", email).Info("WebSocket connected")

		defer func() {
			hub.Unsubscribe(email, client)
			lib.Log.WithField("channel", email).Info("WebSocket disconnected")
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
