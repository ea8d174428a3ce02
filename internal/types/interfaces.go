package types

import (
	"github.com/palemoky/great-escape/internal/protocol"
)

// ServerInterface 定义服务器接口（用于打破循环依赖）
type ServerInterface interface {
	IsMaintenanceMode() bool
	GetClientByID(id string) ClientInterface
	BroadcastToRoom(room string, msg *protocol.Message)
}

// ClientInterface 定义客户端接口
type ClientInterface interface {
	GetID() string
	GetRoom() string
	SetRoom(room string)
	SendMessage(msg *protocol.Message)
	Close()
}
