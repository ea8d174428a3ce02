package handler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/palemoky/great-escape/internal/game"
	"github.com/palemoky/great-escape/internal/protocol"
	"github.com/palemoky/great-escape/internal/protocol/codec"
)

// 单次持久化/审计写入的超时
const ioTimeout = 5 * time.Second

// 以下方法要求调用方持有 h.mu

// broadcastStateLocked 向房间广播完整状态
func (h *Handler) broadcastStateLocked() {
	h.server.BroadcastToRoom(h.room.Name, codec.MustNewMessage(protocol.MsgStateUpdate, h.room.State()))
}

// broadcastEventLocked 向房间广播单个事件
func (h *Handler) broadcastEventLocked(ev game.Event) {
	h.server.BroadcastToRoom(h.room.Name, codec.MustNewMessage(protocol.MsgEvent, ev))
}

// persistLocked 保存快照，失败只记录日志
func (h *Handler) persistLocked() {
	if h.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()

	if err := h.store.SaveState(ctx, h.room.State()); err != nil {
		log.WithError(err).Warn("⚠️ 保存游戏状态失败")
	}
}

// auditLocked 记录管理审计日志，失败只记录日志
func (h *Handler) auditLocked(action string) {
	if h.audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), ioTimeout)
	defer cancel()

	if err := h.audit.AppendAudit(ctx, action); err != nil {
		log.WithError(err).WithField("action", action).Warn("⚠️ 写入审计日志失败")
	}
}

// Persist 立即保存一次快照（关闭服务时调用）
func (h *Handler) Persist() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.persistLocked()
}
