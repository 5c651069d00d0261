package uart

import (
	"context"

	"github.com/golang/glog"
)

// ByteHandler is called for every byte drained from the buffer.
type ByteHandler interface {
	HandleByte(ctx context.Context, class Class, b byte)
}

// HandleByteFunc is func type of ByteHandler.
type HandleByteFunc func(context.Context, Class, byte)

// HandleByte implements ByteHandler.
func (f HandleByteFunc) HandleByte(ctx context.Context, class Class, b byte) {
	f(ctx, class, b)
}

// OverflowNotifier is called when a received byte is dropped
// because the buffer is full.
type OverflowNotifier interface {
	BufferFull(ctx context.Context, b byte)
}

// BufferFullFunc is func type of OverflowNotifier.
type BufferFullFunc func(context.Context, byte)

// BufferFull implements OverflowNotifier.
func (f BufferFullFunc) BufferFull(ctx context.Context, b byte) {
	f(ctx, b)
}

// Handlers dispatches to multiple ByteHandlers in order.
type Handlers []ByteHandler

// HandleByte implements ByteHandler.
func (h Handlers) HandleByte(ctx context.Context, class Class, b byte) {
	for _, handler := range h {
		handler.HandleByte(ctx, class, b)
	}
}

// LogBytes logs every byte at verbosity 3.
var LogBytes = HandleByteFunc(func(_ context.Context, class Class, b byte) {
	glog.V(3).Infof("byte 0x%02x %s", b, class)
})
