// Package stats delivers per-tick simulation samples to ClickHouse in
// batches, buffering through memory and crash-safe file queues so a slow
// or absent sink never stalls the simulation.
package stats

import "encoding"

// Sample is one row of telemetry. It knows its own insert statement and
// how to serialize itself for the file queue.
type Sample interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler

	SQL() string
	ToExec() []interface{}
}

// Queue buffers samples of a single kind.
type Queue interface {
	Push(s Sample) error
	Eject(limit int) (samples []Sample, err error)
	Len() int
}

// Pool routes samples to one queue per kind.
type Pool interface {
	Append(samples []Sample) error
	Push(s Sample) error
	Eject(limit int) (samples []Sample, err error)
}
