package mqtt

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	fx "github.com/robotalks/uartpump/pkg/framework"
	"github.com/robotalks/uartpump/pkg/l0/uart"
	"github.com/robotalks/uartpump/pkg/l1"
	"github.com/robotalks/uartpump/pkg/l1/msgs"
)

// Topic suffixes under <prefix><type>/<id>/.
const (
	TopicEvents = "events"
	TopicDiag   = "diag"
	TopicMeta   = "meta"
)

// DefaultShutdownTimeout bounds the wait for the last publish on exit.
const DefaultShutdownTimeout = 500 * time.Millisecond

// Publisher publishes payloads to topics.
type Publisher interface {
	PubWith(topic string, payload []byte, qos byte, retain bool) paho.Token
}

// Reporter publishes what the receive loop sees.
// It implements uart.ByteHandler and uart.OverflowNotifier.
type Reporter struct {
	Queue *Queue
	Info  l1.DeviceInfo

	pub      Publisher
	metaJSON []byte
	seq      uint64
	dropped  uint64
}

// NewReporter creates a Reporter.
func NewReporter(brokerURL string, info l1.DeviceInfo) (*Reporter, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+info.Ref.Name()+"/"+TopicMeta, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("uartpump:" + info.Ref.Name())
	}
	r := &Reporter{
		Queue:    NewQueue(opts, topicPrefix),
		Info:     info,
		metaJSON: meta,
	}
	r.pub = r.Queue
	r.Queue.OnConnect = func(*Queue) { r.publishMeta(r.metaJSON) }
	return r, nil
}

// Topic returns the full topic name (without queue prefix) for a suffix.
func (r *Reporter) Topic(suffix string) string {
	return r.Info.Ref.Name() + "/" + suffix
}

// HandleByte implements uart.ByteHandler.
func (r *Reporter) HandleByte(ctx context.Context, class uart.Class, b byte) {
	r.seq++
	r.publishMsg(TopicEvents, msgs.NewByteEvent(r.seq, class, b))
}

// BufferFull implements uart.OverflowNotifier.
func (r *Reporter) BufferFull(ctx context.Context, b byte) {
	r.seq++
	r.dropped++
	r.publishMsg(TopicEvents, msgs.NewOverflow(r.seq, b, r.dropped))
}

// DiagWriter returns an io.Writer publishing diagnostic lines.
func (r *Reporter) DiagWriter() *LineWriter {
	return &LineWriter{Publisher: r.pub, Topic: r.Topic(TopicDiag)}
}

// AddToLoop implements LoopAdder.
func (r *Reporter) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(fx.NamedRun("mqtt-reporter", r))
}

// Run implements Runnable.
func (r *Reporter) Run(ctx context.Context) error {
	if err := WaitToken(ctx, r.Queue.Connect()); err != nil {
		glog.Warningf("connect broker: %v", err)
	}
	<-ctx.Done()
	r.publishMeta(nil).WaitTimeout(DefaultShutdownTimeout)
	r.Queue.Close()
	return ctx.Err()
}

func (r *Reporter) publishMeta(meta []byte) paho.Token {
	return r.pub.PubWith(r.Topic(TopicMeta), meta, 1, true)
}

func (r *Reporter) publishMsg(suffix string, msg msgs.SerializableMessage) {
	data, err := msgs.Encode(msg)
	if err != nil {
		glog.Errorf("encode message %x: %v", msg.TypeID(), err)
		return
	}
	checkToken(r.pub.PubWith(r.Topic(suffix), data, 0, false))
}

// LineWriter publishes every complete line written to it.
type LineWriter struct {
	Publisher Publisher
	Topic     string

	buf  bytes.Buffer
	lock sync.Mutex
}

// Write implements io.Writer.
func (w *LineWriter) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadBytes('\n')
		if err != nil {
			// incomplete line, keep it for the next write
			w.buf.Write(line)
			return len(p), nil
		}
		checkToken(w.Publisher.PubWith(w.Topic, bytes.TrimRight(line, "\r\n"), 0, false))
	}
}

func checkToken(token paho.Token) {
	if token.WaitTimeout(0) && token.Error() != nil {
		glog.V(1).Infof("publish error: %v", token.Error())
	}
}
