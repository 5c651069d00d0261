package msgs

import (
	"testing"

	"github.com/golang/protobuf/proto"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/uartpump/pkg/l0/uart"
	pb "github.com/robotalks/uartpump/pkg/proto/uartpump/v1"
)

func TestEncodeDecode(t *testing.T) {
	data, err := Encode(NewByteEvent(7, uart.ClassEnd, 0x02))
	require.NoError(t, err)

	typed, err := DecodeTyped(data)
	require.NoError(t, err)
	require.Equal(t, ByteEventTypeID, typed.TypeId)

	msg, err := typed.Decode()
	require.NoError(t, err)
	ev, ok := msg.(*ByteEvent)
	require.True(t, ok)
	require.Equal(t, uint64(7), ev.Seq)
	require.Equal(t, uart.ClassEnd, ev.ByteClass())
	require.Equal(t, uint32(0x02), ev.Value)
}

func TestDecodeOverflow(t *testing.T) {
	data, err := Encode(NewOverflow(3, 0xaa, 12))
	require.NoError(t, err)
	typed, err := DecodeTyped(data)
	require.NoError(t, err)
	msg, err := typed.Decode()
	require.NoError(t, err)
	require.Equal(t, OverflowTypeID, msg.TypeID())
	require.Equal(t, uint64(12), msg.(*Overflow).Dropped)
	require.Equal(t, uint32(0xaa), msg.(*Overflow).Value)
}

func TestDecodeUnknownType(t *testing.T) {
	data, err := proto.Marshal(&pb.Typed{TypeId: GroupCustom | 1})
	require.NoError(t, err)
	typed, err := DecodeTyped(data)
	require.NoError(t, err)
	_, err = typed.Decode()
	require.Equal(t, &ErrUnknownType{TypeID: GroupCustom | 1}, err)
	require.Equal(t, "unknown type: 7f000001", err.Error())
}

func TestTypedFromNotSerializable(t *testing.T) {
	_, err := TypedFrom("plain")
	require.Equal(t, ErrNotSerializable, err)
}
