package web

import (
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// wsHub tracks connected status subscribers.
type wsHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func newWSHub() *wsHub {
	return &wsHub{clients: make(map[*websocket.Conn]bool)}
}

func (h *wsHub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()
}

func (h *wsHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	conn.Close()
}

func (h *wsHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteMessage(websocket.CloseMessage, []byte{})
		conn.Close()
		delete(h.clients, conn)
	}
}

// broadcast sends one JSON message to every subscriber, dropping
// connections that fail to take it.
func (h *wsHub) broadcast(payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(payload); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// WebsocketHandler upgrades the connection and keeps it subscribed
// until the peer goes away.
func (s *Server) WebsocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("[WEB] websocket upgrade:", err)
		return
	}
	// send the current state before the conn joins the broadcast set,
	// so no two goroutines ever write to it at once
	conn.WriteJSON(s.statusPayload())
	s.hub.add(conn)

	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// BroadcastStatus pushes the current status to every subscriber.
func (s *Server) BroadcastStatus() {
	s.hub.broadcast(s.statusPayload())
}
