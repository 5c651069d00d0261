// Package uart provides the L0 receive loop.
package uart

// The loop alternates two phases forever:
//
//  1. Fill: read every byte the input can give right now, without waiting,
//     into a fixed-capacity ring buffer. Bytes arriving while the buffer is
//     full are reported and dropped.
//  2. Drain: pop every buffered byte, echo it as a diagnostic and hand it
//     to a ByteHandler together with its Class.
//
// Classification only tells message-start and message-end markers apart
// from data bytes. There is no framing on top of it.
