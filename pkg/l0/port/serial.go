package port

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"
	"go.bug.st/serial"

	"github.com/robotalks/uartpump/pkg/l0/uart"
)

// DefaultBaudRate is the firmware's serial speed.
const DefaultBaudRate = 57600

// DefaultReadTimeout makes serial reads return quickly when idle.
const DefaultReadTimeout = time.Millisecond

// SerialConfig configures a serial port, 8 data bits and 1 stop bit.
type SerialConfig struct {
	Device      string
	BaudRate    int
	Parity      serial.Parity
	ReadTimeout time.Duration
}

// SerialConfigFromURL parses serial:///dev/ttyX?baud=N&parity=P&timeout=D.
// serial://COM3 is accepted for devices without a path.
func SerialConfigFromURL(u *url.URL) (conf SerialConfig, err error) {
	conf = SerialConfig{
		Device:      u.Path,
		BaudRate:    DefaultBaudRate,
		Parity:      serial.NoParity,
		ReadTimeout: DefaultReadTimeout,
	}
	if conf.Device == "" {
		conf.Device = u.Host
	}
	if conf.Device == "" {
		return conf, fmt.Errorf("serial port requires a device")
	}
	q := u.Query()
	if val := q.Get("baud"); val != "" {
		if conf.BaudRate, err = strconv.Atoi(val); err != nil || conf.BaudRate <= 0 {
			return conf, fmt.Errorf("invalid baud rate %q", val)
		}
	}
	switch val := strings.ToLower(q.Get("parity")); val {
	case "", "none", "n":
	case "even", "e":
		conf.Parity = serial.EvenParity
	case "odd", "o":
		conf.Parity = serial.OddParity
	default:
		return conf, fmt.Errorf("invalid parity %q", val)
	}
	if val := q.Get("timeout"); val != "" {
		if conf.ReadTimeout, err = time.ParseDuration(val); err != nil || conf.ReadTimeout <= 0 {
			return conf, fmt.Errorf("invalid read timeout %q", val)
		}
	}
	return conf, nil
}

// OpenSerial opens a serial port. Reads use a short timeout so the
// returned Source never waits longer than ReadTimeout.
func OpenSerial(conf SerialConfig) (*Port, error) {
	mode := &serial.Mode{
		BaudRate: conf.BaudRate,
		DataBits: 8,
		Parity:   conf.Parity,
		StopBits: serial.OneStopBit,
	}
	sp, err := serial.Open(conf.Device, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", conf.Device, err)
	}
	if err = sp.SetReadTimeout(conf.ReadTimeout); err != nil {
		sp.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}
	glog.Infof("opened %s at %d baud", conf.Device, conf.BaudRate)
	return &Port{
		Name:   conf.Device,
		Source: uart.NewReaderSource(sp),
		Output: sp,
		closer: sp,
	}, nil
}
