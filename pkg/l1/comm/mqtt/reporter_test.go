package mqtt

import (
	"context"
	"testing"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/uartpump/pkg/l0/uart"
	"github.com/robotalks/uartpump/pkg/l1"
	"github.com/robotalks/uartpump/pkg/l1/msgs"
)

type published struct {
	topic   string
	payload []byte
	qos     byte
	retain  bool
}

type fakePublisher struct {
	msgs []published
}

func (p *fakePublisher) PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token {
	p.msgs = append(p.msgs, published{topic, payload, qos, retain})
	return &paho.DummyToken{}
}

func newTestReporter(pub Publisher) *Reporter {
	return &Reporter{
		Info: l1.DeviceInfo{Ref: l1.DeviceRef{Type: "uartpump", ID: "dev1"}},
		pub:  pub,
	}
}

func decode(t *testing.T, payload []byte) msgs.SerializableMessage {
	typed, err := msgs.DecodeTyped(payload)
	require.NoError(t, err)
	msg, err := typed.Decode()
	require.NoError(t, err)
	return msg
}

func TestMatchTopic(t *testing.T) {
	testCases := []struct {
		topic, pattern string
		match          bool
	}{
		{"a/b/c", "a/b/c", true},
		{"a/b/c", "a/+/c", true},
		{"a/b/c", "#", true},
		{"a/b/c", "a/#", true},
		{"a", "a/#", true},
		{"a/b/c", "a/b", false},
		{"a/b", "a/b/c", false},
		{"a/b/c", "+/+/meta", false},
		{"x/y/meta", "+/+/meta", true},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.match, MatchTopic(tc.topic, tc.pattern), "%s ~ %s", tc.topic, tc.pattern)
	}
}

func TestClientOptionsFromURL(t *testing.T) {
	opts, prefix, err := ClientOptionsFromURL("mqtt://u:p@localhost:1883/robo?client-id=me")
	require.NoError(t, err)
	require.Equal(t, "robo/", prefix)
	require.Equal(t, "me", opts.ClientID)
	require.Equal(t, "u", opts.Username)
	require.Equal(t, "p", opts.Password)
	require.Len(t, opts.Servers, 1)
	require.Equal(t, "tcp://localhost:1883", opts.Servers[0].String())

	_, prefix, err = ClientOptionsFromURL("mqtt://localhost:1883")
	require.NoError(t, err)
	require.Equal(t, "", prefix)
}

func TestReporterEvents(t *testing.T) {
	pub := &fakePublisher{}
	r := newTestReporter(pub)
	ctx := context.Background()

	r.HandleByte(ctx, uart.ClassStart, 0x01)
	r.BufferFull(ctx, 0x41)
	r.HandleByte(ctx, uart.ClassData, 0x42)

	require.Len(t, pub.msgs, 3)
	for _, m := range pub.msgs {
		require.Equal(t, "uartpump/dev1/events", m.topic)
		require.False(t, m.retain)
	}
	ev := decode(t, pub.msgs[0].payload).(*msgs.ByteEvent)
	require.Equal(t, uint64(1), ev.Seq)
	require.Equal(t, uart.ClassStart, ev.ByteClass())

	of := decode(t, pub.msgs[1].payload).(*msgs.Overflow)
	require.Equal(t, uint64(2), of.Seq)
	require.Equal(t, uint32(0x41), of.Value)
	require.Equal(t, uint64(1), of.Dropped)

	ev = decode(t, pub.msgs[2].payload).(*msgs.ByteEvent)
	require.Equal(t, uint64(3), ev.Seq)
	require.Equal(t, uint32(0x42), ev.Value)
}

func TestLineWriter(t *testing.T) {
	pub := &fakePublisher{}
	w := newTestReporter(pub).DiagWriter()

	n, err := w.Write([]byte("Buffer full!\nRecei"))
	require.NoError(t, err)
	require.Equal(t, 18, n)
	_, err = w.Write([]byte("ved: 65\r\n"))
	require.NoError(t, err)

	require.Len(t, pub.msgs, 2)
	require.Equal(t, "uartpump/dev1/diag", pub.msgs[0].topic)
	require.Equal(t, "Buffer full!", string(pub.msgs[0].payload))
	require.Equal(t, "Received: 65", string(pub.msgs[1].payload))
}
