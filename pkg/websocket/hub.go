package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub хранит активные соединения по пользователю.
type Hub struct {
	userClients map[uint64]map[*Client]struct{}
	mu          sync.RWMutex
	logger      *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		userClients: make(map[uint64]map[*Client]struct{}),
		logger:      logger,
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.userClients[client.UserID] == nil {
		h.userClients[client.UserID] = make(map[*Client]struct{})
	}
	h.userClients[client.UserID][client] = struct{}{}
	h.logger.Info("Клиент зарегистрирован", zap.Uint64("userID", client.UserID))
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.userClients[client.UserID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.userClients, client.UserID)
	}
	h.logger.Info("Клиент отсоединён", zap.Uint64("userID", client.UserID))
}

// ConnectedUsers - ID пользователей, у которых есть хотя бы одно соединение.
func (h *Hub) ConnectedUsers() []uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]uint64, 0, len(h.userClients))
	for id := range h.userClients {
		ids = append(ids, id)
	}
	return ids
}

// SendMessageToUser не блокируется: медленный клиент теряет сообщение.
func (h *Hub) SendMessageToUser(userID uint64, payload interface{}, messageType string) error {
	messageBytes, err := json.Marshal(Envelope{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.userClients[userID]
	if !ok {
		h.logger.Debug("Нет активных соединений", zap.Uint64("userID", userID))
		return nil
	}
	for client := range clients {
		select {
		case client.Send <- messageBytes:
		default:
			h.logger.Warn("Буфер клиента переполнен, сообщение пропущено", zap.Uint64("userID", userID))
		}
	}
	return nil
}
