// Package ring provides a fixed-capacity FIFO ring buffer.
//
// The buffer never grows: its slots are allocated once by New and reused
// for the lifetime of the buffer. It is meant to sit between a producer
// that may deliver bursts (e.g. a serial port) and a consumer that drains
// it later in the same control loop.
package ring
