package protocol

// 错误码
const (
	ErrCodeUnknown           = 1000
	ErrCodeInvalidMsg        = 1001
	ErrCodeAuthFailed        = 1101 // 认证失败
	ErrCodeServerMaintenance = 5003 // 服务器维护中
)

// ErrorMessages 错误码对应的消息
var ErrorMessages = map[int]string{
	ErrCodeUnknown:           "unknown error",
	ErrCodeInvalidMsg:        "invalid message format",
	ErrCodeAuthFailed:        "authentication failed",
	ErrCodeServerMaintenance: "server under maintenance",
}

// 认证失败原因（authResult.reason）
const (
	ReasonMissing         = "missing"
	ReasonInvalidPassword = "invalid_password"
	ReasonAlreadyJoined   = "already_joined"
	ReasonServerError     = "server_error"
)
