package uart

import (
	"errors"

	"github.com/robotalks/uartpump/pkg/ring"
)

var (
	// ErrNoData indicates the Source has nothing to read right now.
	// It is not a failure.
	ErrNoData = errors.New("no data available")
	// ErrBufferFull is reported when a received byte can't be buffered.
	ErrBufferFull = ring.ErrBufferFull
)
