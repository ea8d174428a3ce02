package server

import (
	log "github.com/sirupsen/logrus"

	"github.com/palemoky/great-escape/internal/protocol"
	"github.com/palemoky/great-escape/internal/protocol/codec"
)

// GetOnlineCount 获取在线连接数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// Broadcast 广播消息给所有连接
func (s *Server) Broadcast(msg *protocol.Message) {
	s.broadcast(msg, func(*Client) bool { return true })
}

// BroadcastToRoom 广播消息给房间内的连接，消息只编码一次
func (s *Server) BroadcastToRoom(room string, msg *protocol.Message) {
	s.broadcast(msg, func(c *Client) bool { return c.GetRoom() == room })
}

func (s *Server) broadcast(msg *protocol.Message, match func(*Client) bool) {
	data, err := codec.Encode(msg)
	if err != nil {
		log.WithError(err).WithField("type", msg.Type).Error("广播消息编码错误")
		return
	}

	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	for _, client := range s.clients {
		if match(client) {
			client.sendRaw(data)
		}
	}
}
