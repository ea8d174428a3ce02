package handler

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/palemoky/great-escape/internal/apperrors"
	"github.com/palemoky/great-escape/internal/game"
	"github.com/palemoky/great-escape/internal/protocol"
	"github.com/palemoky/great-escape/internal/protocol/codec"
	"github.com/palemoky/great-escape/internal/types"
)

// handleJoinRoom 处理认证并加入房间
func (h *Handler) handleJoinRoom(client types.ClientInterface, msg *protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			client.SendMessage(authFailure(apperrors.ErrServerError))
			panic(r)
		}
	}()

	if h.server.IsMaintenanceMode() {
		client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeServerMaintenance))
		return
	}

	payload, err := codec.ParsePayload[protocol.JoinRoomPayload](msg)
	if err != nil {
		payload = &protocol.JoinRoomPayload{}
	}

	if err := h.Join(client, payload); err != nil {
		log.WithFields(log.Fields{
			"client": client.GetID(),
			"role":   payload.Role,
			"reason": apperrors.ReasonOf(err),
		}).Info("🔒 加入房间失败")
		client.SendMessage(authFailure(err))
	}
}

// Join 校验密码并把连接加入房间；成功时已向请求者发送 authResult
func (h *Handler) Join(client types.ClientInterface, req *protocol.JoinRoomPayload) error {
	if req.Role == "" || req.Password == "" {
		return apperrors.ErrMissingCredentials
	}
	if h.creds == nil {
		return apperrors.ErrServerError
	}

	// bcrypt 校验较慢，放在锁外
	role := game.Role(req.Role)
	if !role.Valid() || !h.creds.Verify(role, req.Password) {
		return apperrors.ErrInvalidPassword
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	id := client.GetID()
	if _, ok := h.room.Lookup(id); ok {
		return apperrors.ErrAlreadyJoined
	}

	p := h.room.Join(id, role, req.DisplayName)
	client.SetRoom(h.room.Name)

	client.SendMessage(codec.MustNewMessage(protocol.MsgAuthResult, protocol.AuthResultPayload{
		OK:    true,
		State: h.room.State(),
	}))
	h.broadcastStateLocked()
	h.auditLocked(fmt.Sprintf("JOIN %s as %s", id, role))
	h.persistLocked()

	log.WithFields(log.Fields{"client": id, "role": role, "name": p.Name, "team": p.Team}).Info("✅ 加入房间")
	return nil
}

func authFailure(err error) *protocol.Message {
	return codec.MustNewMessage(protocol.MsgAuthResult, protocol.AuthResultPayload{
		OK:     false,
		Reason: apperrors.ReasonOf(err),
	})
}
