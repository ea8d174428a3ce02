package apperrors

import (
	"errors"

	"github.com/palemoky/great-escape/internal/protocol"
)

// GameError 面向客户端的错误，Reason 原样下发给请求者
type GameError struct {
	Code   int
	Reason string
}

func (e *GameError) Error() string {
	return e.Reason
}

// 预定义错误
var (
	ErrMissingCredentials = &GameError{Code: protocol.ErrCodeAuthFailed, Reason: protocol.ReasonMissing}
	ErrInvalidPassword    = &GameError{Code: protocol.ErrCodeAuthFailed, Reason: protocol.ReasonInvalidPassword}
	ErrAlreadyJoined      = &GameError{Code: protocol.ErrCodeAuthFailed, Reason: protocol.ReasonAlreadyJoined}
	ErrServerError        = &GameError{Code: protocol.ErrCodeUnknown, Reason: protocol.ReasonServerError}
)

// ReasonOf 取出错误对应的原因码，非 GameError 一律视为 server_error
func ReasonOf(err error) string {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Reason
	}
	return protocol.ReasonServerError
}
