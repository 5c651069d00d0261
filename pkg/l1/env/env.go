// Package env wires the receive loop from configuration.
package env

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/uartpump/pkg/framework"
	"github.com/robotalks/uartpump/pkg/l0/port"
	"github.com/robotalks/uartpump/pkg/l0/uart"
	"github.com/robotalks/uartpump/pkg/l1"
	"github.com/robotalks/uartpump/pkg/l1/comm/mqtt"
)

// Diagnostic destinations.
const (
	DiagPort   = "port"
	DiagStderr = "stderr"
	DiagMQTT   = "mqtt"
	DiagNone   = "none"
)

// Config provides options to setup the receive loop.
type Config struct {
	Ref l1.DeviceRef

	// PortURL specifies the input, see port.Open.
	PortURL string
	// Capacity is the ring buffer size.
	Capacity int
	// Echo reports every received byte as a diagnostic.
	Echo bool
	// Diag selects where diagnostics go.
	Diag string
	// IdleSleep is the pause after an iteration without input.
	IdleSleep time.Duration

	// MQTTBrokerURL enables reporting to MQTT when not empty.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
}

var defaultConfig = Config{
	Ref:       l1.DeviceRef{Type: "uartpump"},
	PortURL:   "serial:///dev/ttyUSB0",
	Capacity:  uart.DefaultCapacity,
	Echo:      true,
	Diag:      DiagPort,
	IdleSleep: time.Millisecond,
}

func init() {
	loadEnv(&defaultConfig, os.Getenv)
}

func loadEnv(c *Config, getenv func(string) string) {
	if val := getenv("UARTPUMP_PORT"); val != "" {
		c.PortURL = val
	}
	if val := getenv("UARTPUMP_CAPACITY"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.Capacity = n
		} else {
			glog.Warningf("ignore UARTPUMP_CAPACITY=%q: %v", val, err)
		}
	}
	if val := getenv("UARTPUMP_DIAG"); val != "" {
		c.Diag = val
	}
	if val := getenv("UARTPUMP_MQTT_URL"); val != "" {
		c.MQTTBrokerURL = val
	}
	if val := getenv("UARTPUMP_ID"); val != "" {
		c.Ref.ID = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.PortURL, "port", defaultConfig.PortURL, "Input port URL (serial://, tcp://, ws://, stdio:)")
	flag.IntVar(&defaultConfig.Capacity, "capacity", defaultConfig.Capacity, "Ring buffer capacity in bytes")
	flag.BoolVar(&defaultConfig.Echo, "echo", defaultConfig.Echo, "Echo every received byte as diagnostic")
	flag.StringVar(&defaultConfig.Diag, "diag", defaultConfig.Diag, "Diagnostics destination: port, stderr, mqtt, none")
	flag.DurationVar(&defaultConfig.IdleSleep, "idle", defaultConfig.IdleSleep, "Pause after an idle iteration, 0 to spin")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL for reporting")
	flag.StringVar(&defaultConfig.Ref.ID, "id", defaultConfig.Ref.ID, "Device ID, defaults to machine id")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	switch c.Diag {
	case DiagPort, DiagStderr, DiagNone:
	case DiagMQTT:
		if c.MQTTBrokerURL == "" {
			return fmt.Errorf("diag %q requires an MQTT broker URL", c.Diag)
		}
	default:
		return fmt.Errorf("unknown diag destination %q", c.Diag)
	}
	if c.PortURL == "" {
		return fmt.Errorf("port URL must be specified")
	}
	return nil
}

// Env is the assembled receive loop.
type Env struct {
	Config   *Config
	Port     *port.Port
	Pump     *uart.Pump
	Reporter *mqtt.Reporter
}

// OpenPortFunc opens the input port, replaceable in tests.
var OpenPortFunc = port.Open

// NewEnv creates Env from config.
func (c *Config) NewEnv() (*Env, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p, err := OpenPortFunc(c.PortURL)
	if err != nil {
		return nil, err
	}
	env := &Env{
		Config: c,
		Port:   p,
		Pump:   uart.NewPump(p.Source, c.Capacity),
	}
	env.Pump.Echo = c.Echo
	env.Pump.IdleSleep = c.IdleSleep

	if c.MQTTBrokerURL != "" {
		ref := c.Ref
		if ref.ID == "" {
			ref.ID = MachineID()
		}
		if !ref.IsValid() {
			p.Close()
			return nil, fmt.Errorf("device id must be specified for MQTT reporting")
		}
		info := l1.DeviceInfo{
			Ref:  ref,
			Meta: l1.DeviceMeta{Description: "UART receive loop", Port: p.Name, Capacity: c.Capacity},
		}
		if env.Reporter, err = mqtt.NewReporter(c.MQTTBrokerURL, info); err != nil {
			p.Close()
			return nil, fmt.Errorf("create MQTT reporter error: %w", err)
		}
		env.Pump.Overflow = env.Reporter
	}
	env.Pump.Handler = env.handlers()

	env.Pump.Diag = env.diagWriter()
	glog.V(1).Infof("port=%s capacity=%d diag=%s echo=%v", p.Name, c.Capacity, c.Diag, c.Echo)
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	env, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return env
}

func (e *Env) handlers() uart.Handlers {
	handlers := uart.Handlers{uart.LogBytes}
	if e.Reporter != nil {
		handlers = append(handlers, e.Reporter)
	}
	return handlers
}

func (e *Env) diagWriter() io.Writer {
	switch e.Config.Diag {
	case DiagPort:
		return e.Port.Output
	case DiagStderr:
		return os.Stderr
	case DiagMQTT:
		return e.Reporter.DiagWriter()
	}
	return nil
}

// AddToLoop adds the pump and reporter to loop.
func (e *Env) AddToLoop(loop *fx.Loop) {
	loop.Add(e.Pump)
	if e.Reporter != nil {
		loop.Add(e.Reporter)
	}
	if e.Config.IdleSleep > 0 {
		loop.AddController(fx.PrLvIdle, &idler{pump: e.Pump, sleep: e.Config.IdleSleep})
	}
}

// Close releases the port.
func (e *Env) Close() error {
	return e.Port.Close()
}

// idler pauses the loop after iterations without input.
type idler struct {
	pump  *uart.Pump
	sleep time.Duration
	last  uart.Stats
}

// Control implements Controller.
func (i *idler) Control(cc fx.ControlContext) error {
	stats := i.pump.Stats()
	idle := stats.Received == i.last.Received && stats.Dropped == i.last.Dropped
	i.last = stats
	if idle {
		select {
		case <-cc.Context().Done():
		case <-time.After(i.sleep):
		}
	}
	return nil
}
