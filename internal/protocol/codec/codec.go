package codec

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/palemoky/great-escape/internal/protocol"
)

// ErrEmptyPayload payload 缺失
var ErrEmptyPayload = errors.New("empty payload")

// NewMessage 创建一个新消息
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	var data json.RawMessage
	if payload != nil {
		var err error
		data, err = json.Marshal(payload)
		if err != nil {
			return nil, err
		}
	}
	return &protocol.Message{
		Type:    msgType,
		Payload: data,
	}, nil
}

// MustNewMessage 创建消息，失败时 panic
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Encode 将消息编码为 JSON 字节
func Encode(msg *protocol.Message) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if err := json.NewEncoder(buf).Encode(msg); err != nil {
		return nil, err
	}
	// Encoder 会追加换行，去掉后拷贝出来，buf 归还后会被复用
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	data := make([]byte, len(out))
	copy(data, out)
	return data, nil
}

// Decode 从 JSON 字节解码消息，消息取自池中；处理完后调用方应 PutMessage 归还
func Decode(data []byte) (*protocol.Message, error) {
	msg := GetMessage()
	if err := json.Unmarshal(data, msg); err != nil {
		PutMessage(msg)
		return nil, err
	}
	if msg.Type == "" {
		PutMessage(msg)
		return nil, errors.New("missing message type")
	}
	return msg, nil
}

// ParsePayload 解析消息的 Payload 到指定类型
func ParsePayload[T any](msg *protocol.Message) (*T, error) {
	if len(msg.Payload) == 0 {
		return nil, ErrEmptyPayload
	}
	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// NewErrorMessage 创建错误消息
func NewErrorMessage(code int) *protocol.Message {
	return NewErrorMessageWithText(code, protocol.ErrorMessages[code])
}

// NewErrorMessageWithText 创建带自定义文本的错误消息
func NewErrorMessageWithText(code int, text string) *protocol.Message {
	return MustNewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    code,
		Message: text,
	})
}
