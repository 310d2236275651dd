package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Srikar1995/cloudrunway-develop/internal/metrics"
)

// Event 推送给客户端的变更事件
type Event struct {
	Type          string    `json:"type"`
	TerminationID string    `json:"terminationId"`
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
}

// Hub WebSocket 连接中心
// 终止请求发生变更时向所有连接广播事件
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu     sync.RWMutex
	logger *logrus.Logger
}

// NewHub 创建连接中心
func NewHub(logger *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		logger:     logger,
	}
}

// Run 事件循环,需在独立 goroutine 中运行
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketConnections.Set(float64(count))
			h.logger.WithField("clients", count).Debug("WebSocket client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			metrics.WebSocketConnections.Set(float64(count))
			h.logger.WithField("clients", count).Debug("WebSocket client unregistered")

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// 发送缓冲已满的连接视为失活,直接丢弃
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyTerminationChanged 广播终止请求变更
func (h *Hub) NotifyTerminationChanged(terminationID, action string) {
	event := Event{
		Type:          "termination.changed",
		TerminationID: terminationID,
		Action:        action,
		Timestamp:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal WebSocket event")
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("WebSocket broadcast channel full, dropping event")
	}
}

// ClientCount 当前连接数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
