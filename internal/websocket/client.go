package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait 写超时
	writeWait = 10 * time.Second
	// pongWait 等待 pong 的最长时间
	pongWait = 60 * time.Second
	// pingPeriod ping 间隔,必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize 入站消息大小上限
	maxMessageSize = 512 * 1024
)

// Client 单个 WebSocket 连接
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// ReadPump 读循环
// 服务端不处理入站业务消息,只维持连接与 pong 心跳
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.WithError(err).WithField("client", c.id).Debug("WebSocket read error")
			}
			break
		}
	}
}

// WritePump 写循环
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
