package codec

import (
	"bytes"
	"sync"

	"github.com/palemoky/great-escape/internal/protocol"
)

// 读循环每条入站消息复用一个 Message，编码复用一个 Buffer
var (
	messagePool = sync.Pool{
		New: func() any {
			return &protocol.Message{}
		},
	}

	bufferPool = sync.Pool{
		New: func() any {
			return new(bytes.Buffer)
		},
	}
)

// GetMessage 从池中取出一个空消息
func GetMessage() *protocol.Message {
	return messagePool.Get().(*protocol.Message)
}

// PutMessage 清空后归还消息；Payload 置 nil，下次解码不会复用旧的底层数组
func PutMessage(msg *protocol.Message) {
	if msg == nil {
		return
	}
	msg.Type = ""
	msg.Payload = nil
	messagePool.Put(msg)
}

// GetBuffer 从池中取出缓冲区
func GetBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// PutBuffer 重置后归还缓冲区，保留容量
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
