// uartx/hal.go

package uartx

// hal is the seam between the platform-independent bit engine (core.go,
// isr_rx.go, isr_tx.go) and the two concrete backends: real AVR hardware
// (hal_atmega.go, build tag avr) and the deterministic host simulation
// used by tests (hal_sim.go, build tag !avr). Methods are called from ISR
// context (tick, edgeCapture), from Configure, and from foreground code:
// PutChar calls enterCritical, EnableReceive/DisableReceive call
// enablePinChange/disablePinChange.
type hal interface {
	// configureTX/configureRX program the TX pin as output-high-idle and
	// the RX pin as input without pull-up.
	configureTX()
	configureRX()

	// txSet drives the TX pin high (stop/idle, data 1) or low (start,
	// data 0).
	txSet(high bool)

	// rxRead samples the current level of the RX pin.
	rxRead() bool

	// armTimer programs the compare-match interrupt to fire at the given
	// OCR/prescaler and enables it. It is called once, from Configure.
	armTimer(t timing)

	// enablePinChange/disablePinChange gate RX edge capture, backing
	// EnableReceive/DisableReceive.
	enablePinChange()
	disablePinChange()

	// timerCount returns the free-running timer's current count,
	// snapshotted as early as possible in the pin-change ISR so the
	// sample-offset decision is not skewed by the edge capture ISR's own
	// entry latency.
	timerCount() uint8

	// enterCritical and the restore func it returns bracket the
	// foreground test-and-set lock window, briefly disabling global
	// interrupts so an ISR can never observe lock==0 between the test and
	// the set. On AVR, restore puts back whatever interrupt state
	// enterCritical observed, so nested calls are safe; the simulation
	// HAL uses a plain mutex, which does not nest.
	enterCritical() (restore func())
}
