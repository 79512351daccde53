package server

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checks
	},
}

// Hub is the broadcast fan-out: it tracks live subscriber connections and
// delivers each game event at most once per connected subscriber. A
// subscriber that cannot keep up is pruned; there is no replay.
type Hub struct {
	clients sync.Map
}

type Client struct {
	conn *websocket.Conn
	send chan interface{}
	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{}
}

// Broadcast sends one event to every live subscriber without filtering.
func (h *Hub) Broadcast(event interface{}) {
	h.clients.Range(func(key, _ interface{}) bool {
		client := key.(*Client)
		select {
		case client.send <- event:
		default:
			h.clients.Delete(client)
			close(client.send)
		}
		return true
	})
}

// Subscribe registers a websocket connection with the hub.
func (h *Hub) Subscribe(conn *websocket.Conn) *Client {
	client := &Client{
		conn: conn,
		send: make(chan interface{}, 256),
		done: make(chan struct{}),
	}
	h.clients.Store(client, true)

	go client.writePump()
	go client.readPump(h)

	return client
}

func (s *GameServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("websocket upgrade failed: %v", err)
		return
	}
	s.hub.Subscribe(conn)
}

func (client *Client) writePump() {
	defer client.conn.Close()

	for {
		select {
		case event, ok := <-client.send:
			if !ok {
				return
			}
			if err := client.conn.WriteJSON(event); err != nil {
				return
			}
		case <-client.done:
			return
		}
	}
}

func (client *Client) readPump(h *Hub) {
	defer func() {
		h.clients.Delete(client)
		close(client.done)
		client.conn.Close()
	}()

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			break
		}
		// Clients only listen; inbound messages are ignored.
	}
}
