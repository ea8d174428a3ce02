package handler

import (
	log "github.com/sirupsen/logrus"

	"github.com/palemoky/great-escape/internal/game"
	"github.com/palemoky/great-escape/internal/protocol"
	"github.com/palemoky/great-escape/internal/protocol/codec"
	"github.com/palemoky/great-escape/internal/types"
)

// Outcome 一次操作的处理结果
type Outcome struct {
	Action        Action
	Authorization AuthorizationResult
	Applied       bool // 状态是否发生变化（或命令是否生效）
}

// handleClientAction 处理游戏/管理操作，无效请求静默忽略
func (h *Handler) handleClientAction(client types.ClientInterface, msg *protocol.Message) {
	payload, err := codec.ParsePayload[protocol.ClientActionPayload](msg)
	if err != nil {
		log.WithError(err).WithField("client", client.GetID()).Debug("忽略无法解析的 clientAction")
		return
	}

	action, err := ParseAction(payload)
	if err != nil {
		log.WithError(err).WithField("client", client.GetID()).Debug("忽略无效的 clientAction")
		return
	}

	h.Dispatch(client, action)
}

// Dispatch 在锁内完成权限检查和状态修改
func (h *Handler) Dispatch(client types.ClientInterface, action Action) Outcome {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := Outcome{Action: action}

	actor, _ := h.room.Lookup(client.GetID())
	out.Authorization = Authorize(actor, action)
	if !out.Authorization.Granted {
		log.WithFields(log.Fields{
			"client": client.GetID(),
			"action": action.Name(),
			"reason": out.Authorization.Reason,
		}).Debug("操作被拒绝")
		return out
	}

	switch a := action.(type) {
	case RollDice:
		out.Applied = h.rollLocked(actor)
	case Move:
		out.Applied = h.moveLocked(actor, a.Spaces)
	case PlaceTrap:
		out.Applied = h.placeTrapLocked(actor, a.Index)
	case ResetGame:
		out.Applied = h.resetLocked(actor)
	case ChangePassword:
		out.Applied = h.changePasswordLocked(client, a)
	case Kick:
		out.Applied = h.kickLocked(actor, a.Target)
	}
	return out
}

// rollLocked 掷骰并广播结果事件
func (h *Handler) rollLocked(actor *game.Player) bool {
	rules := h.room.Rules()
	face, ok := rules.RollDice(actor.Role, actor.Team)
	if !ok {
		return false
	}

	ev := rules.RecordRoll(h.room.State(), actor.ID, face)
	h.broadcastEventLocked(ev)
	h.persistLocked()
	return true
}

// moveLocked 移动自己的棋子
func (h *Handler) moveLocked(actor *game.Player, spaces int) bool {
	st := h.room.State()
	if !h.room.Rules().MovePlayer(st, actor.ID, spaces) {
		return false
	}

	if ev, ok := st.LastEvent(); ok {
		h.broadcastEventLocked(ev)
	}
	h.broadcastStateLocked()
	h.persistLocked()
	return true
}

// placeTrapLocked 放置陷阱
func (h *Handler) placeTrapLocked(actor *game.Player, index int) bool {
	st := h.room.State()
	if !h.room.Rules().PlaceTrap(st, actor.ID, index) {
		return false
	}

	if ev, ok := st.LastEvent(); ok {
		h.broadcastEventLocked(ev)
	}
	h.broadcastStateLocked()
	h.persistLocked()
	return true
}
