package uart

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/uartpump/pkg/framework"
	"github.com/robotalks/uartpump/pkg/ring"
)

// DefaultCapacity is the ring buffer size used by the firmware.
const DefaultCapacity = 128

// Stats counts what the Pump has seen.
type Stats struct {
	Received  uint64 // bytes accepted into the buffer
	Dropped   uint64 // bytes lost because the buffer was full
	Processed uint64 // bytes drained and classified
	Starts    uint64
	Ends      uint64
	Data      uint64
}

// Pump moves bytes from a Source through a ring buffer to a ByteHandler.
// All methods must be called from a single goroutine.
type Pump struct {
	Source   Source
	Buffer   *ring.Buffer[byte]
	Handler  ByteHandler
	Overflow OverflowNotifier

	// Diag receives diagnostic text. nil disables diagnostics.
	Diag io.Writer
	// Echo writes every drained byte to Diag.
	Echo bool
	// IdleSleep is how long Run pauses after an iteration without input.
	// Zero means spin.
	IdleSleep time.Duration

	stats Stats
}

// NewPump creates a Pump with a buffer of the given capacity.
func NewPump(src Source, capacity int) *Pump {
	return &Pump{
		Source: src,
		Buffer: ring.New[byte](capacity),
		Echo:   true,
	}
}

// Stats returns a copy of current counters.
func (p *Pump) Stats() Stats {
	return p.stats
}

// Fill reads all bytes available now into the buffer.
// It returns when the Source reports ErrNoData, or with the error
// if the Source fails.
func (p *Pump) Fill(ctx context.Context) error {
	for {
		b, err := p.Source.TryReadByte()
		if err == ErrNoData {
			return nil
		}
		if err != nil {
			return err
		}
		if err = p.Buffer.Push(b); err != nil {
			p.stats.Dropped++
			glog.V(2).Infof("drop 0x%02x: %v", b, err)
			p.diag("Buffer full!\n")
			if n := p.Overflow; n != nil {
				n.BufferFull(ctx, b)
			}
			continue
		}
		p.stats.Received++
	}
}

// Drain pops all buffered bytes and dispatches them.
// It returns the number of bytes processed.
func (p *Pump) Drain(ctx context.Context) int {
	var n int
	for {
		b, ok := p.Buffer.Pop()
		if !ok {
			return n
		}
		n++
		if p.Echo {
			p.diag(fmt.Sprintf("Received: %d\n", b))
		}
		p.process(ctx, b)
	}
}

// Poll runs one iteration: Fill then Drain.
// Bytes buffered before a Source failure are still drained.
func (p *Pump) Poll(ctx context.Context) error {
	err := p.Fill(ctx)
	p.Drain(ctx)
	return err
}

// Run polls until ctx is done or the Source fails.
// A Source which is also a Runnable is run alongside.
func (p *Pump) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	runner := fx.NewRunnerWith(runCtx)
	if r, ok := p.Source.(fx.Runnable); ok {
		runner.Go(fx.NamedRun("source", r))
	}
	defer runner.Wait()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		received, dropped := p.stats.Received, p.stats.Dropped
		if err := p.Poll(ctx); err != nil {
			return err
		}
		if p.IdleSleep > 0 && received == p.stats.Received && dropped == p.stats.Dropped {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.IdleSleep):
			}
		}
	}
}

// AddToLoop implements LoopAdder.
// Fill runs at PrLvSense and Drain at PrLvControl so every loop
// iteration performs both phases in order.
func (p *Pump) AddToLoop(loop *fx.Loop) {
	if r, ok := p.Source.(fx.Runnable); ok {
		loop.AddRunnable(fx.NamedRun("source", r))
	}
	loop.AddController(fx.PrLvSense, fx.ControlFunc(func(cc fx.ControlContext) error {
		if err := p.Fill(cc.Context()); err != nil {
			p.Drain(cc.Context())
			return fx.Fatal(err)
		}
		return nil
	}))
	loop.AddController(fx.PrLvControl, fx.ControlFunc(func(cc fx.ControlContext) error {
		p.Drain(cc.Context())
		return nil
	}))
}

func (p *Pump) process(ctx context.Context, b byte) {
	p.stats.Processed++
	class := Classify(b)
	switch class {
	case ClassStart:
		p.stats.Starts++
	case ClassEnd:
		p.stats.Ends++
	default:
		p.stats.Data++
	}
	if h := p.Handler; h != nil {
		h.HandleByte(ctx, class, b)
	}
}

func (p *Pump) diag(msg string) {
	if p.Diag == nil {
		return
	}
	if _, err := io.WriteString(p.Diag, msg); err != nil {
		glog.V(2).Infof("diagnostic write error: %v", err)
	}
}
