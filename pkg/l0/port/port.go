// Package port opens the byte streams feeding the receive loop.
package port

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/golang/glog"

	"github.com/robotalks/uartpump/pkg/l0/uart"
)

// Port is an opened input with its diagnostic output.
type Port struct {
	// Name is the displayable name of the port.
	Name string
	// Source never blocks. If it's also a Runnable, it must be run,
	// which Pump.Run and Pump.AddToLoop take care of.
	Source uart.Source
	// Output is where the firmware writes its diagnostics: the same line
	// for serial ports and sockets, stdout for stdio.
	Output io.Writer

	closer io.Closer
}

// Close implements io.Closer.
func (p *Port) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer.Close()
}

// Open opens a port by URL:
//
//	serial:///dev/ttyUSB0?baud=57600
//	tcp://host:port
//	ws://host/path, wss://host/path
//	stdio: or -
func Open(portURL string) (*Port, error) {
	if portURL == "-" {
		return openStdio(), nil
	}
	u, err := url.Parse(portURL)
	if err != nil {
		return nil, fmt.Errorf("invalid port URL: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "serial":
		conf, err := SerialConfigFromURL(u)
		if err != nil {
			return nil, err
		}
		return OpenSerial(conf)
	case "tcp":
		return openTCP(u)
	case "ws", "wss":
		return openWebsocket(u)
	case "stdio":
		return openStdio(), nil
	default:
		return nil, fmt.Errorf("unknown port URL scheme: %q", u.Scheme)
	}
}

// FromStream wraps a blocking stream as a Port.
func FromStream(name string, rwc io.ReadWriteCloser) *Port {
	return &Port{
		Name:   name,
		Source: uart.NewStreamSource(rwc),
		Output: rwc,
		closer: rwc,
	}
}

func openTCP(u *url.URL) (*Port, error) {
	if u.Host == "" {
		return nil, fmt.Errorf("tcp port requires host:port")
	}
	conn, err := net.Dial("tcp", u.Host)
	if err != nil {
		return nil, err
	}
	glog.Infof("connected %s", u.Host)
	return FromStream(u.String(), conn), nil
}

type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) Close() error                { return os.Stdin.Close() }

func openStdio() *Port {
	return FromStream("stdio", stdio{})
}
