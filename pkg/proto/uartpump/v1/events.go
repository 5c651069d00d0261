// Package v1 contains the wire messages of events.proto.
package v1

import "github.com/golang/protobuf/proto"

// Typed wraps a message with its type id.
type Typed struct {
	TypeId               uint32   `protobuf:"varint,1,opt,name=type_id,json=typeId,proto3" json:"type_id,omitempty"`
	Message              []byte   `protobuf:"bytes,2,opt,name=message,proto3" json:"message,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Typed) Reset()         { *m = Typed{} }
func (m *Typed) String() string { return proto.CompactTextString(m) }
func (*Typed) ProtoMessage()    {}

// ByteEvent reports a classified byte drained from the buffer.
type ByteEvent struct {
	Seq                  uint64   `protobuf:"varint,1,opt,name=seq,proto3" json:"seq,omitempty"`
	Class                int32    `protobuf:"varint,2,opt,name=class,proto3" json:"class,omitempty"`
	Value                uint32   `protobuf:"varint,3,opt,name=value,proto3" json:"value,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *ByteEvent) Reset()         { *m = ByteEvent{} }
func (m *ByteEvent) String() string { return proto.CompactTextString(m) }
func (*ByteEvent) ProtoMessage()    {}

// Overflow reports a byte dropped because the buffer was full.
type Overflow struct {
	Seq                  uint64   `protobuf:"varint,1,opt,name=seq,proto3" json:"seq,omitempty"`
	Value                uint32   `protobuf:"varint,2,opt,name=value,proto3" json:"value,omitempty"`
	Dropped              uint64   `protobuf:"varint,3,opt,name=dropped,proto3" json:"dropped,omitempty"`
	XXX_NoUnkeyedLiteral struct{} `json:"-"`
	XXX_unrecognized     []byte   `json:"-"`
	XXX_sizecache        int32    `json:"-"`
}

func (m *Overflow) Reset()         { *m = Overflow{} }
func (m *Overflow) String() string { return proto.CompactTextString(m) }
func (*Overflow) ProtoMessage()    {}

func init() {
	proto.RegisterType((*Typed)(nil), "uartpump.v1.Typed")
	proto.RegisterType((*ByteEvent)(nil), "uartpump.v1.ByteEvent")
	proto.RegisterType((*Overflow)(nil), "uartpump.v1.Overflow")
}
