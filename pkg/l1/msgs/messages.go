package msgs

import (
	"github.com/golang/protobuf/proto"

	"github.com/robotalks/uartpump/pkg/l0/uart"
	pb "github.com/robotalks/uartpump/pkg/proto/uartpump/v1"
)

// ByteEvent reports a drained byte with its class.
type ByteEvent struct {
	pb.ByteEvent
}

// NewByteEvent creates a ByteEvent.
func NewByteEvent(seq uint64, class uart.Class, b byte) *ByteEvent {
	return &ByteEvent{ByteEvent: pb.ByteEvent{Seq: seq, Class: int32(class), Value: uint32(b)}}
}

// ByteClass gets the class as uart.Class.
func (m *ByteEvent) ByteClass() uart.Class { return uart.Class(m.Class) }

// NewMessage implements SerializableMessage.
func (m *ByteEvent) NewMessage() SerializableMessage { return &ByteEvent{} }

// TypeID implements SerializableMessage.
func (m *ByteEvent) TypeID() uint32 { return ByteEventTypeID }

// Serializable implements SerializableMessage.
func (m *ByteEvent) Serializable() proto.Message { return &m.ByteEvent }

// Overflow reports a dropped byte.
type Overflow struct {
	pb.Overflow
}

// NewOverflow creates an Overflow.
func NewOverflow(seq uint64, b byte, dropped uint64) *Overflow {
	return &Overflow{Overflow: pb.Overflow{Seq: seq, Value: uint32(b), Dropped: dropped}}
}

// NewMessage implements SerializableMessage.
func (m *Overflow) NewMessage() SerializableMessage { return &Overflow{} }

// TypeID implements SerializableMessage.
func (m *Overflow) TypeID() uint32 { return OverflowTypeID }

// Serializable implements SerializableMessage.
func (m *Overflow) Serializable() proto.Message { return &m.Overflow }

// TypeID Groups
const (
	GroupUART   uint32 = 0x00010000
	GroupCustom uint32 = 0x7f000000 // base group id for custom messages.
)

// TypeIDs
const (
	ByteEventTypeID uint32 = GroupUART | 0x0001
	OverflowTypeID  uint32 = GroupUART | 0x0002
)
