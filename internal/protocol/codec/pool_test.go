package codec

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessagePool_GetPut(t *testing.T) {
	t.Parallel()

	msg := GetMessage()
	assert.NotNil(t, msg)

	msg.Type = "test"
	msg.Payload = []byte("data")

	PutMessage(msg)

	// Get again - should be reset
	msg2 := GetMessage()
	assert.NotNil(t, msg2)
	assert.Empty(t, msg2.Type)
	assert.Nil(t, msg2.Payload)
}

func TestMessagePool_PutNil(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		PutMessage(nil)
	})
}

func TestBufferPool_GetPut(t *testing.T) {
	t.Parallel()

	buf := GetBuffer()
	assert.NotNil(t, buf)
	assert.Equal(t, 0, buf.Len())

	buf.WriteString("hello")
	PutBuffer(buf)

	buf2 := GetBuffer()
	assert.Equal(t, 0, buf2.Len())
	PutBuffer(buf2)
}

func TestBufferPool_PutNil(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		PutBuffer(nil)
	})
}

func TestBufferPool_Concurrent(t *testing.T) {
	t.Parallel()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			buf := GetBuffer()
			buf.WriteByte(byte(i))
			assert.Equal(t, 1, buf.Len())
			PutBuffer(buf)
		}(i)
	}
	wg.Wait()
}
