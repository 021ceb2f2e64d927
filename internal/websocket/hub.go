package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MessageHandler 处理客户端消息与连接生命周期
type MessageHandler interface {
	HandleConnect(client *Client)
	HandleDisconnect(client *Client)
	HandleClientMessage(client *Client, data []byte)
}

// Hub WebSocket连接管理中心
// 维护客户端连接池、用户映射与房间成员关系
type Hub struct {
	// 客户端连接池
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 用户ID到客户端的映射
	userClients map[uint][]*Client
	userMu      sync.RWMutex

	// 房间成员关系
	rooms   map[string]map[string]*Client
	roomsMu sync.RWMutex

	// 消息处理器
	handler MessageHandler

	logger *zap.Logger
}

// NewHub 创建Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		userClients: make(map[uint][]*Client),
		rooms:       make(map[string]map[string]*Client),
		logger:      logger,
	}
}

// SetHandler 设置消息处理器
func (h *Hub) SetHandler(handler MessageHandler) {
	h.handler = handler
}

// UserRoom 个人通知房间名
func UserRoom(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// GameRoom 对局房间名
func GameRoom(gameID uint) string {
	return fmt.Sprintf("game:%d", gameID)
}

// Register 注册客户端并触发连接级联
func (h *Hub) Register(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	if client.UserID > 0 {
		h.userMu.Lock()
		h.userClients[client.UserID] = append(h.userClients[client.UserID], client)
		h.userMu.Unlock()
	}

	h.logger.Info("WebSocket client connected",
		zap.String("clientID", client.ID),
		zap.Uint("userID", client.UserID),
		zap.Uint("authID", client.AuthID))

	if h.handler != nil {
		h.handler.HandleConnect(client)
	}
}

// Unregister 注销客户端并触发断开级联
// 先摘除连接记录，级联处理时计数已不包含该连接
func (h *Hub) Unregister(client *Client) {
	h.clientsMu.Lock()
	_, ok := h.clients[client.ID]
	if ok {
		delete(h.clients, client.ID)
	}
	h.clientsMu.Unlock()

	if !ok {
		return
	}

	if client.UserID > 0 {
		h.userMu.Lock()
		clients := h.userClients[client.UserID]
		for i, c := range clients {
			if c.ID == client.ID {
				h.userClients[client.UserID] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
		if len(h.userClients[client.UserID]) == 0 {
			delete(h.userClients, client.UserID)
		}
		h.userMu.Unlock()
	}

	h.LeaveAllRooms(client)

	h.logger.Info("WebSocket client disconnected",
		zap.String("clientID", client.ID),
		zap.Uint("userID", client.UserID),
		zap.Uint("authID", client.AuthID))

	if h.handler != nil {
		h.handler.HandleDisconnect(client)
	}

	close(client.Send)
}

// JoinRoom 将客户端加入房间，重复加入是无操作
func (h *Hub) JoinRoom(room string, client *Client) {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		members = make(map[string]*Client)
		h.rooms[room] = members
	}
	members[client.ID] = client
}

// LeaveRoom 将客户端移出房间，未加入过的房间是无操作
func (h *Hub) LeaveRoom(room string, client *Client) {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()

	members, ok := h.rooms[room]
	if !ok {
		return
	}
	delete(members, client.ID)
	if len(members) == 0 {
		delete(h.rooms, room)
	}
}

// LeaveAllRooms 将客户端移出所有房间
func (h *Hub) LeaveAllRooms(client *Client) {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()

	for room, members := range h.rooms {
		delete(members, client.ID)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// InRoom 检查客户端是否在指定房间
func (h *Hub) InRoom(room string, clientID string) bool {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()

	members, ok := h.rooms[room]
	if !ok {
		return false
	}
	_, ok = members[clientID]
	return ok
}

// RoomSize 返回房间人数
func (h *Hub) RoomSize(room string) int {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	return len(h.rooms[room])
}

// SendToRoom 向房间内所有客户端发送事件，空房间是无操作
func (h *Hub) SendToRoom(room string, eventType string, payload interface{}) {
	data, err := h.encode(eventType, payload)
	if err != nil {
		return
	}

	h.roomsMu.RLock()
	members := make([]*Client, 0, len(h.rooms[room]))
	for _, client := range h.rooms[room] {
		members = append(members, client)
	}
	h.roomsMu.RUnlock()

	for _, client := range members {
		h.deliver(client, data)
	}
}

// SendToClient 向指定客户端发送事件
func (h *Hub) SendToClient(clientID string, eventType string, payload interface{}) error {
	data, err := h.encode(eventType, payload)
	if err != nil {
		return err
	}

	h.clientsMu.RLock()
	client, ok := h.clients[clientID]
	h.clientsMu.RUnlock()

	if !ok {
		return ErrClientNotFound
	}

	h.deliver(client, data)
	return nil
}

// SendToUser 向用户的所有连接发送事件
func (h *Hub) SendToUser(userID uint, eventType string, payload interface{}) {
	data, err := h.encode(eventType, payload)
	if err != nil {
		return
	}

	h.userMu.RLock()
	clients := make([]*Client, len(h.userClients[userID]))
	copy(clients, h.userClients[userID])
	h.userMu.RUnlock()

	for _, client := range clients {
		h.deliver(client, data)
	}
}

// Broadcast 向所有客户端发送事件
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	data, err := h.encode(eventType, payload)
	if err != nil {
		return
	}

	h.clientsMu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.clientsMu.RUnlock()

	for _, client := range clients {
		h.deliver(client, data)
	}
}

// CountByAuthID 统计某认证ID当前的连接数
func (h *Hub) CountByAuthID(authID uint) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	count := 0
	for _, client := range h.clients {
		if client.AuthID == authID {
			count++
		}
	}
	return count
}

// GetOnlineCount 获取在线连接数
func (h *Hub) GetOnlineCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// GetOnlineUsers 获取在线用户列表
func (h *Hub) GetOnlineUsers() []uint {
	h.userMu.RLock()
	defer h.userMu.RUnlock()

	users := make([]uint, 0, len(h.userClients))
	for userID := range h.userClients {
		users = append(users, userID)
	}
	return users
}

// encode 序列化事件信封
func (h *Hub) encode(eventType string, payload interface{}) ([]byte, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			h.logger.Error("Failed to marshal message payload",
				zap.String("type", eventType),
				zap.Error(err))
			return nil, err
		}
		raw = data
	}

	return json.Marshal(&Message{
		Type:      eventType,
		Data:      raw,
		Timestamp: time.Now().Unix(),
	})
}

// deliver 投递到客户端发送缓冲，缓冲满时丢弃并记录
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.Send <- data:
	default:
		h.logger.Warn("Client send buffer full",
			zap.String("clientID", client.ID))
	}
}
