// Package trace loads waveform dumps in VCD (Value Change Dump) format
// into an immutable, queryable database. A DB is built once by Parse and
// only read afterward, so it may be handed between goroutines freely.
package trace

import "sort"

// Signal is one declared variable with its fully scoped name.
type Signal struct {
	// ID is the VCD identifier code used by value changes.
	ID string

	// Name is the dot-joined scope path plus the variable name.
	Name string

	// Width is the number of bits.
	Width int
}

// Value is the logic value of a signal at some time: "0", "1", "x" or
// "z" for scalars, a bit string for vectors. Unknown and high-impedance
// bits are normalized to lowercase.
type Value string

// ValueKind classifies a scalar value for rendering.
type ValueKind int

const (
	ValueLow ValueKind = iota
	ValueHigh
	ValueHighZ
	ValueUnknown
	ValueVector
)

// Kind classifies the value. Multi-bit values are always ValueVector.
func (v Value) Kind() ValueKind {
	if len(v) != 1 {
		return ValueVector
	}
	switch v[0] {
	case '0':
		return ValueLow
	case '1':
		return ValueHigh
	case 'z':
		return ValueHighZ
	default:
		return ValueUnknown
	}
}

// Change is one recorded transition of a signal.
type Change struct {
	Time  uint64
	Value Value
}

// DB is a parsed waveform dump.
type DB struct {
	signals   []Signal
	changes   map[string][]Change
	timescale string
	minTime   uint64
	maxTime   uint64
	hasTime   bool
}

// Signals returns the declared signals in declaration order.
func (db *DB) Signals() []Signal { return db.signals }

// Timescale returns the dump's declared timescale, for example "1ns".
// Empty when the dump declares none.
func (db *DB) Timescale() string { return db.timescale }

// TimeRange returns the first and last timestamp in the dump. Both are
// zero for a dump with no value changes.
func (db *DB) TimeRange() (min, max uint64) { return db.minTime, db.maxTime }

// Changes returns the recorded transitions of one signal in time order.
func (db *DB) Changes(id string) []Change { return db.changes[id] }

// ValueAt returns the signal's value at time t: the last change at or
// before t. ok is false when the signal has no change yet at t.
func (db *DB) ValueAt(id string, t uint64) (Value, bool) {
	changes := db.changes[id]
	// First change strictly after t; the change before it is current.
	i := sort.Search(len(changes), func(i int) bool {
		return changes[i].Time > t
	})
	if i == 0 {
		return "", false
	}
	return changes[i-1].Value, true
}
