// uartx/hal_sim.go

//go:build !avr

// Host simulation HAL: lets the bit engine run under `go test` on a dev
// machine with no AVR hardware present. Two UARTs configured with
// crossed TX/RX pin numbers (A's TX == B's RX and vice versa) form a
// loopback pair automatically, since both ends resolve to the same
// simWire. tick() and edgeCapture() are driven directly by tests rather
// than by a real timer or pin-change interrupt, since there is neither
// on a dev machine.
package uartx

import "sync"

// Pin is an opaque virtual pin number. Unlike the AVR build, it is not
// tied to any machine package — tests allocate small integers and wire
// them together with connectLoopback.
type Pin uint8

// NoPin is the zero-value "unset" sentinel, matching machine.NoPin's role
// on the AVR build.
const NoPin Pin = 0xFF

func validPin(p Pin) bool { return p != NoPin }

// defaultCPUFrequency is an arbitrary stand-in clock for tests that don't
// care about exact timing and don't pass Config.CPUFrequency explicitly.
func defaultCPUFrequency() uint32 { return 16_000_000 }

// simWire is a single virtual electrical connection: one or more simHALs
// can drive it (last write wins, as on a real shared line with one
// active driver) and any number can read it.
type simWire struct {
	mu    sync.Mutex
	level bool
}

var (
	wiresMu sync.Mutex
	wires   = map[Pin]*simWire{}
)

func wireFor(p Pin) *simWire {
	wiresMu.Lock()
	defer wiresMu.Unlock()
	w, ok := wires[p]
	if !ok {
		w = &simWire{level: true} // idle high
		wires[p] = w
	}
	return w
}

// resetWires clears all virtual wiring state between tests.
func resetWires() {
	wiresMu.Lock()
	defer wiresMu.Unlock()
	wires = map[Pin]*simWire{}
}

type simHAL struct {
	u *UART

	txPin Pin
	rxPin Pin

	mu sync.Mutex // stands in for AVR's global interrupt-enable flag

	pinChangeEnabled bool

	// timerCounter is read by timerCount and stays 0 unless
	// setSimTimerCount changes it, which lets a test exercise a specific
	// sample-offset branch in edgeCapture without real elapsed time.
	timerCounter uint8
}

func newHAL(u *UART) hal {
	return &simHAL{u: u, txPin: u.cfg.TXPin, rxPin: u.cfg.RXPin}
}

func (h *simHAL) configureTX() {
	w := wireFor(h.txPin)
	w.mu.Lock()
	w.level = true // idle high
	w.mu.Unlock()
}

func (h *simHAL) configureRX() {
	wireFor(h.rxPin) // ensure the wire exists even with no driver yet
}

func (h *simHAL) txSet(high bool) {
	w := wireFor(h.txPin)
	w.mu.Lock()
	w.level = high
	w.mu.Unlock()
}

func (h *simHAL) rxRead() bool {
	w := wireFor(h.rxPin)
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.level
}

func (h *simHAL) armTimer(t timing) {
	// Nothing to arm: tests call UART.tick() directly in place of a real
	// compare-match interrupt firing.
}

func (h *simHAL) enablePinChange()  { h.pinChangeEnabled = true }
func (h *simHAL) disablePinChange() { h.pinChangeEnabled = false }

func (h *simHAL) timerCount() uint8 { return h.timerCounter }

// setSimTimerCount lets a test pin the value edgeCapture's timerCount
// read will see, to deterministically exercise both the "early" and
// "late" sample-offset branches without real timing.
func (h *simHAL) setSimTimerCount(v uint8) { h.timerCounter = v }

func (h *simHAL) enterCritical() (restore func()) {
	h.mu.Lock()
	return h.mu.Unlock
}

// NewSimUART returns a new, unconfigured UART bound to the host
// simulation HAL. Host tooling (cmd/diag) uses this to run independent
// loopback pairs side by side; AVR builds have no equivalent, since
// there is exactly one real pair of ISR vectors to bind and the
// package-level Port singleton owns them both.
func NewSimUART() *UART { return newUART() }

// ResetSimWiring tears down all virtual wire state, so unrelated
// simulated UART instances (e.g. separate CLI invocations sharing a
// process) don't see stale pin levels from a prior instance pair.
func ResetSimWiring() { resetWires() }

// DriveTicks advances every UART in us by n half-bit ticks, synthesizing
// the pin-change interrupt a real board would deliver whenever a given
// UART observes its RX line fall while its pin-change capture is enabled
// and its receiver is idle — the
// simulation HAL has no asynchronous interrupt source of its own, so
// whatever drives the simulation (tests, or cmd/diag) must do this
// polling on its behalf.
func DriveTicks(us []*UART, n int) {
	lastLevel := make([]bool, len(us))
	for i, u := range us {
		lastLevel[i] = u.hal.(*simHAL).rxRead()
	}
	for t := 0; t < n; t++ {
		for i, u := range us {
			level := u.hal.(*simHAL).rxRead()
			if lastLevel[i] && !level && u.hal.(*simHAL).pinChangeEnabled && u.state.rxSubstate() == stRxIdle {
				u.edgeCapture()
			}
			u.tick()
			lastLevel[i] = u.hal.(*simHAL).rxRead()
		}
	}
}

// TicksPerByte returns a generous upper bound on the number of half-bit
// ticks a single 8-N-1 frame takes to clear at u's configured baud, for
// sizing DriveTicks loops without reaching into unexported fields.
func TicksPerByte(u *UART) int { return int(u.timing.ocr)*4 + 40 }
