package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vitos/xau_money_management/internal/domain"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub pushes every new account status to connected websocket clients. Slow
// clients drop messages rather than stall the monitor.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
	latest  []byte
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]chan []byte),
		logger:  logger,
	}
}

// Broadcast matches the AccountMonitor.OnStatus callback signature.
func (h *Hub) Broadcast(st domain.Status) {
	msg, err := json.Marshal(st)
	if err != nil {
		h.logger.Error("Failed to marshal status", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = msg
	for conn, send := range h.clients {
		select {
		case send <- msg:
		default:
			h.logger.Warn("Dropping status for slow client", zap.String("remote", conn.RemoteAddr().String()))
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Websocket upgrade failed", zap.Error(err))
		return
	}

	send := make(chan []byte, sendBuffer)
	h.mu.Lock()
	h.clients[conn] = send
	if h.latest != nil {
		send <- h.latest
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go h.writeLoop(conn, send, done)

	// Reads only detect the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	close(done)
}

func (h *Hub) writeLoop(conn *websocket.Conn, send <-chan []byte, done <-chan struct{}) {
	defer conn.Close()
	for {
		select {
		case <-done:
			return
		case msg := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("Websocket write failed", zap.Error(err))
				return
			}
		}
	}
}
