package protocol

import "github.com/palemoky/great-escape/internal/game"

// --- 客户端请求 Payloads ---

// JoinRoomPayload 加入房间请求
type JoinRoomPayload struct {
	Role        string `json:"role"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// ClientActionPayload 操作请求，按 Type/Cmd 区分
type ClientActionPayload struct {
	Type        string `json:"type"`
	Spaces      *int   `json:"spaces,omitempty"`      // move
	Index       *int   `json:"index,omitempty"`       // placeTrap
	Cmd         string `json:"cmd,omitempty"`         // adminCommand
	RoleKey     string `json:"roleKey,omitempty"`     // changePassword
	NewPassword string `json:"newPassword,omitempty"` // changePassword
	Target      string `json:"target,omitempty"`      // kick
}

// PingPayload 心跳请求
type PingPayload struct {
	Timestamp int64 `json:"timestamp"` // 客户端时间戳（毫秒）
}

// --- 服务端响应 Payloads ---

// AuthResultPayload 认证结果
type AuthResultPayload struct {
	OK     bool        `json:"ok"`
	State  *game.State `json:"state,omitempty"`
	Reason string      `json:"reason,omitempty"`
}

// PlayerListEntry 玩家列表项
type PlayerListEntry struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName"`
	Role        game.Role `json:"role"`
}

// KickedPayload 被踢通知
type KickedPayload struct {
	By string `json:"by"`
}

// PasswordChangedPayload 密码修改成功
type PasswordChangedPayload struct {
	RoleKey string `json:"roleKey"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ClientTimestamp int64 `json:"client_timestamp"` // 客户端发送的时间戳
	ServerTimestamp int64 `json:"server_timestamp"` // 服务器时间戳（毫秒）
}

// ErrorPayload 错误响应
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
