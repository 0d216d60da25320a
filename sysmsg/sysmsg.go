// Package sysmsg holds the events the runtime itself raises: lifecycle events and
// interrupt vectors.
package sysmsg

// IRQ is a hardware interrupt vector number.
type IRQ uint16
