package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a monitor connection to the hub and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn) {
	client := newClient(hub, c)
	if !hub.attach(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
