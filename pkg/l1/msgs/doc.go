// Package msgs provides the L1 reporting messages.
package msgs

// Events observed by the L0 receive loop are reported upstream as
// protobuf messages wrapped in a Typed envelope.
//
// Producer: uartpump
// Consumer: monitors (e.g. bytemon)
