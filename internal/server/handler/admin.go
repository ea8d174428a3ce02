package handler

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/palemoky/great-escape/internal/game"
	"github.com/palemoky/great-escape/internal/protocol"
	"github.com/palemoky/great-escape/internal/protocol/codec"
	"github.com/palemoky/great-escape/internal/types"
)

// resetLocked 重置为初始状态；连接仍在房间中，但需要重新加入
func (h *Handler) resetLocked(actor *game.Player) bool {
	h.room.Reset()
	h.broadcastStateLocked()
	h.auditLocked(fmt.Sprintf("ADMIN %s reset game", actor.ID))
	h.persistLocked()

	log.WithField("admin", actor.ID).Info("🔄 游戏已重置")
	return true
}

// changePasswordLocked 修改角色密码，只通知请求者
func (h *Handler) changePasswordLocked(client types.ClientInterface, a ChangePassword) bool {
	if h.creds == nil || !h.creds.SetPassword(a.Role, a.NewPassword) {
		log.WithField("role", a.Role).Warn("⚠️ 修改密码失败")
		return false
	}

	client.SendMessage(codec.MustNewMessage(protocol.MsgPasswordChanged, protocol.PasswordChangedPayload{
		RoleKey: string(a.Role),
	}))
	h.auditLocked(fmt.Sprintf("MAIN ADMIN changed password for %s", a.Role))

	log.WithField("role", a.Role).Info("🔑 角色密码已修改")
	return true
}

// kickLocked 踢出目标连接，目标必须已加入房间
func (h *Handler) kickLocked(actor *game.Player, target string) bool {
	if _, ok := h.room.Lookup(target); !ok {
		return false
	}

	tc := h.server.GetClientByID(target)
	if tc != nil {
		tc.SendMessage(codec.MustNewMessage(protocol.MsgKicked, protocol.KickedPayload{By: actor.ID}))
		tc.SetRoom("")
	}

	h.room.Remove(target)
	h.broadcastStateLocked()
	h.auditLocked(fmt.Sprintf("ADMIN %s kicked %s", actor.ID, target))
	h.persistLocked()

	// Close 只关闭发送通道，断线处理在连接自己的 goroutine 中进行
	if tc != nil {
		tc.Close()
	}

	log.WithFields(log.Fields{"admin": actor.ID, "target": target}).Info("👢 玩家被踢出")
	return true
}
