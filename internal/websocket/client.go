package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер сообщения
	maxMessageSize = 4 * 1024
)

// SubscriptionAuthorizer решает, может ли пользователь слушать канал
type SubscriptionAuthorizer interface {
	AuthorizeSubscription(userID uint, channel string) error
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uint) *Client {
	return &Client{
		ID:       uuid.New(),
		UserID:   userID,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		Channels: make(map[string]bool),
		Hub:      hub,
	}
}

// ReadPump читает сообщения от клиента
func (c *Client) ReadPump(authorizer SubscriptionAuthorizer) {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.Conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Warn("websocket read error", zap.Error(err))
			}
			break
		}

		switch msg.Type {
		case TypePong:
			continue

		case TypeSubscribe:
			if msg.Channel == "" {
				c.SendError(ErrInvalidMessage.Error())
				continue
			}
			if err := authorizer.AuthorizeSubscription(c.UserID, msg.Channel); err != nil {
				c.SendError(err.Error())
				continue
			}
			c.Hub.Subscribe(c, msg.Channel)
			c.SendMessage(TypeSubscribed, msg.Channel, nil)

		case TypeUnsubscribe:
			c.Hub.Unsubscribe(c, msg.Channel)
			c.SendMessage(TypeUnsubscribed, msg.Channel, nil)

		default:
			c.SendError(ErrInvalidMessage.Error())
		}
	}
}

// WritePump отправляет сообщения клиенту
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) SendMessage(msgType MessageType, channel string, data interface{}) error {
	msg := Message{
		Type:      msgType,
		Channel:   channel,
		Timestamp: time.Now(),
	}

	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return err
		}
		msg.Data = jsonData
	}

	msgData, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	if !c.trySend(msgData) {
		return ErrClientQueueFull
	}
	return nil
}

// trySend кладёт данные в очередь без блокировки; false - очередь полна или клиент закрыт
func (c *Client) trySend(data []byte) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

func (c *Client) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Client) SendError(errorMsg string) {
	c.SendMessage(TypeError, "", map[string]string{
		"error": errorMsg,
	})
}

func (c *Client) isSubscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Channels[channel]
}

func (c *Client) channelSet() map[string]bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]bool, len(c.Channels))
	for ch := range c.Channels {
		out[ch] = true
	}
	return out
}
