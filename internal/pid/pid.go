package pid

import (
	"fmt"
)

// PID is a checked index into a supervisor's actor arena.
// The zero value is not bound to any actor.
type PID struct {
	// index is offset by one so the zero PID stays invalid
	index uint16
}

func New(index int) PID {
	return PID{index: uint16(index + 1)}
}

// Index returns the arena slot. Only valid PIDs have an index.
func (p PID) Index() int {
	return int(p.index) - 1
}

func (p PID) Valid() bool {
	return p.index != 0
}

func (p PID) String() string {
	if !p.Valid() {
		return "pid<nil>"
	}
	return fmt.Sprintf("pid<%d>", p.Index())
}
