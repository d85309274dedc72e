package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WebSocket event types.
const (
	EventProgress = "progress"
	EventDone     = "done"
)

// wsMessage is one event pushed to subscribed clients.
type wsMessage struct {
	Event string `json:"event"`
	Data  gin.H  `json:"data"`
}

// wsClient is a connected progress subscriber. The stream is one-way: the
// server pushes batch progress, client frames are read only to detect close.
type wsClient struct {
	conn *websocket.Conn
	send chan wsMessage
}

// handleWebSocket upgrades the connection and subscribes it to batch events.
func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan wsMessage, 256),
	}

	s.clientMu.Lock()
	s.clients[client] = struct{}{}
	s.clientMu.Unlock()

	go client.writePump()
	go s.readPump(client)
}

// broadcast fans an event out to every subscriber. A client whose buffer is
// full is dropped rather than blocking the batch.
func (s *Server) broadcast(msg wsMessage) {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()

	for client := range s.clients {
		select {
		case client.send <- msg:
		default:
			delete(s.clients, client)
			close(client.send)
		}
	}
}

func (s *Server) removeClient(client *wsClient) {
	s.clientMu.Lock()
	defer s.clientMu.Unlock()

	if _, ok := s.clients[client]; ok {
		delete(s.clients, client)
		close(client.send)
	}
}

// readPump discards incoming frames and tears the client down on close.
func (s *Server) readPump(client *wsClient) {
	defer func() {
		s.removeClient(client)
		client.conn.Close()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}
