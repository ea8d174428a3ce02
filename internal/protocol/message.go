package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 客户端 → 服务端 消息类型
const (
	MsgJoinRoom     MessageType = "joinRoom"     // 认证并加入房间
	MsgClientAction MessageType = "clientAction" // 游戏/管理操作
	MsgGetPlayers   MessageType = "getPlayers"   // 获取玩家列表
	MsgPing         MessageType = "ping"         // 心跳 ping
)

// 服务端 → 客户端 消息类型
const (
	MsgAuthResult      MessageType = "authResult"      // 认证结果（仅发给请求者）
	MsgStateUpdate     MessageType = "stateUpdate"     // 完整状态广播
	MsgEvent           MessageType = "event"           // 离散事件广播
	MsgPlayerList      MessageType = "playerList"      // 玩家列表（仅发给请求者）
	MsgKicked          MessageType = "kicked"          // 被踢出（仅发给被踢者）
	MsgPasswordChanged MessageType = "passwordChanged" // 密码已修改（仅发给请求者）
	MsgPong            MessageType = "pong"            // 心跳 pong
	MsgError           MessageType = "error"           // 错误消息
)

// clientAction 的 type 字段
const (
	ActionRollDice     = "rollDice"
	ActionMove         = "move"
	ActionPlaceTrap    = "placeTrap"
	ActionAdminCommand = "adminCommand"
)

// adminCommand 的 cmd 字段
const (
	CmdReset          = "reset"
	CmdChangePassword = "changePassword"
	CmdKick           = "kick"
)
