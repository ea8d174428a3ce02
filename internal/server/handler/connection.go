package handler

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/palemoky/great-escape/internal/protocol"
	"github.com/palemoky/great-escape/internal/protocol/codec"
	"github.com/palemoky/great-escape/internal/types"
)

// handlePing 处理心跳消息
func (h *Handler) handlePing(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.PingPayload](msg)
	if err != nil {
		return
	}

	// 立即回复 pong
	client.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
		ClientTimestamp: payload.Timestamp,
		ServerTimestamp: time.Now().UnixMilli(),
	}))
}

// handleGetPlayers 返回按 ID 排序的玩家列表，未加入的连接忽略
func (h *Handler) handleGetPlayers(client types.ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.room.Lookup(client.GetID()); !ok {
		return
	}

	players := h.room.Players()
	list := make([]protocol.PlayerListEntry, 0, len(players))
	for _, p := range players {
		list = append(list, protocol.PlayerListEntry{ID: p.ID, DisplayName: p.Name, Role: p.Role})
	}
	client.SendMessage(codec.MustNewMessage(protocol.MsgPlayerList, list))
}

// HandleDisconnect 连接断开时移除对应玩家
func (h *Handler) HandleDisconnect(client types.ClientInterface) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := client.GetID()
	client.SetRoom("")

	p, ok := h.room.Remove(id)
	if !ok {
		return
	}

	h.auditLocked(fmt.Sprintf("DISCONNECT %s (%s)", id, p.Role))
	h.broadcastStateLocked()
	h.persistLocked()

	log.WithFields(log.Fields{"client": id, "role": p.Role}).Info("👋 玩家离开房间")
}

// PlayerCount 已加入房间的玩家数
func (h *Handler) PlayerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.room.State().Players)
}
