package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/thereayou/messagings/internal/metrics"
	"go.uber.org/zap"
)

// MessageType определяет типы сообщений
type MessageType string

const (
	// Системные типы
	TypePing  MessageType = "ping"
	TypePong  MessageType = "pong"
	TypeError MessageType = "error"

	// Подписки на каналы бесед
	TypeSubscribe    MessageType = "subscribe"
	TypeUnsubscribe  MessageType = "unsubscribe"
	TypeSubscribed   MessageType = "subscribed"
	TypeUnsubscribed MessageType = "unsubscribed"

	// События из broadcaster
	TypeEvent MessageType = "event"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Channel   string          `json:"channel,omitempty"`
	Event     string          `json:"event,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type Client struct {
	ID       uuid.UUID
	UserID   uint
	Conn     *websocket.Conn
	Send     chan []byte
	Channels map[string]bool
	Hub      *Hub
	mu       sync.RWMutex

	// closed выставляется вместе с close(Send), под mu
	closed bool
}

type Hub struct {
	clients map[uuid.UUID]*Client

	// Клиенты, подписанные на канал
	channels map[string]map[uuid.UUID]*Client

	// Каналы для регистрации/отмены регистрации
	register   chan *Client
	unregister chan *Client

	mu  sync.RWMutex
	log *zap.Logger

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub
func NewHub(log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		channels:   make(map[string]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает hub
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop останавливает hub
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, client := range h.clients {
		client.close()
		if client.Conn != nil {
			client.Conn.Close()
		}
		delete(h.clients, id)
		metrics.Connections.Dec()
	}
	h.channels = make(map[string]map[uuid.UUID]*Client)
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Unregister отменяет регистрацию клиента
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	metrics.Connections.Inc()

	h.log.Debug("client registered", zap.String("client", client.ID.String()), zap.Uint("user", client.UserID))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; ok {
		for channel := range client.channelSet() {
			h.removeFromChannelUnsafe(client, channel)
		}

		delete(h.clients, client.ID)
		client.close()
		metrics.Connections.Dec()

		h.log.Debug("client unregistered", zap.String("client", client.ID.String()), zap.Uint("user", client.UserID))
	}
}

// Subscribe подписывает клиента на канал
func (h *Hub) Subscribe(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Закрытый клиент в канал не возвращаем
	if client.isClosed() {
		return
	}

	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[uuid.UUID]*Client)
	}
	h.channels[channel][client.ID] = client

	client.mu.Lock()
	client.Channels[channel] = true
	client.mu.Unlock()
}

// Unsubscribe отписывает клиента от канала
func (h *Hub) Unsubscribe(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeFromChannelUnsafe(client, channel)
}

func (h *Hub) removeFromChannelUnsafe(client *Client, channel string) {
	if subs, ok := h.channels[channel]; ok {
		delete(subs, client.ID)
		if len(subs) == 0 {
			delete(h.channels, channel)
		}
	}
	client.mu.Lock()
	delete(client.Channels, channel)
	client.mu.Unlock()
}

// Deliver рассылает событие всем подписчикам канала
func (h *Hub) Deliver(channel, event string, data json.RawMessage) {
	msg := Message{
		Type:      TypeEvent,
		Channel:   channel,
		Event:     event,
		Data:      data,
		Timestamp: time.Now(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal event", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.channels[channel] {
		if !client.trySend(payload) {
			h.log.Warn("client send channel full", zap.String("client", client.ID.String()))
		}
	}
}

// subscribers возвращает число клиентов, подписанных на канал
func (h *Hub) subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg := Message{
		Type:      TypePing,
		Timestamp: time.Now(),
	}

	if data, err := json.Marshal(msg); err == nil {
		for _, client := range h.clients {
			client.trySend(data)
		}
	}
}
