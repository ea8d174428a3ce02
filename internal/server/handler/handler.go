package handler

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/palemoky/great-escape/internal/credential"
	"github.com/palemoky/great-escape/internal/game/room"
	"github.com/palemoky/great-escape/internal/logger"
	"github.com/palemoky/great-escape/internal/protocol"
	"github.com/palemoky/great-escape/internal/protocol/codec"
	"github.com/palemoky/great-escape/internal/server/storage"
	"github.com/palemoky/great-escape/internal/types"
)

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server      types.ServerInterface
	Room        *room.Room
	Credentials credential.Store
	Store       storage.StateStore // 可为 nil，不持久化
	Audit       storage.AuditSink  // 可为 nil，不记录审计日志
}

// Handler 消息处理器，房间状态的唯一修改者
type Handler struct {
	server   types.ServerInterface
	room     *room.Room
	creds    credential.Store
	store    storage.StateStore
	audit    storage.AuditSink
	handlers map[protocol.MessageType]handlerFunc

	// mu 串行化所有对房间状态的读写，广播和持久化都在锁内完成
	mu sync.Mutex
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message)

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	h := &Handler{
		server: deps.Server,
		room:   deps.Room,
		creds:  deps.Credentials,
		store:  deps.Store,
		audit:  deps.Audit,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.MessageType]handlerFunc{
		// 连接操作
		protocol.MsgPing: h.handlePing,

		// 认证
		protocol.MsgJoinRoom: h.handleJoinRoom,

		// 游戏/管理操作
		protocol.MsgClientAction: h.handleClientAction,

		// 信息查询
		protocol.MsgGetPlayers: func(c types.ClientInterface, _ *protocol.Message) { h.handleGetPlayers(c) },
	}
}

// Handle 处理消息，单条消息的 panic 不会影响连接
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"client": client.GetID(), "type": msg.Type}).Error("❌ 处理消息时发生 panic")
			logger.LogPanic(r)
		}
	}()

	if handler, ok := h.handlers[msg.Type]; ok {
		handler(client, msg)
		return
	}

	log.Printf("⚠️  未知消息类型: '%s' (来自连接: %s)", msg.Type, client.GetID())
	log.Printf("    消息详情: Payload长度=%d bytes", len(msg.Payload))
	client.SendMessage(codec.NewErrorMessage(protocol.ErrCodeInvalidMsg))
}

// Room 返回处理器持有的房间
func (h *Handler) Room() *room.Room {
	return h.room
}
