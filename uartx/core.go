// uartx/core.go

package uartx

import "errors"

var (
	ErrAlreadyInitialised = errors.New("uartx: already initialised")
	ErrInvalidPin          = errors.New("uartx: invalid pin")
	ErrInvalidPort         = errors.New("uartx: invalid port")
	ErrBufferFull          = errors.New("uartx: buffer full")
	ErrNotInitialised      = errors.New("uartx: not initialised")
)

// Config is the runtime configuration struct passed to Configure.
// TXPin/RXPin generalise the original C library's raw
// port-pointer-plus-bit-index pair into a single machine.Pin, the
// idiomatic TinyGo equivalent.
type Config struct {
	Baud BaudRate
	TXPin Pin
	RXPin Pin

	// CPUFrequency overrides the clock used to derive timer.OCR. Zero
	// means "use the platform default" (machine.CPUFrequency() on AVR).
	CPUFrequency uint32
}

// UART is the single process-wide instance of the software serial
// peripheral core. The ISR vector binding forces singleton semantics
// regardless, so code outside this package should use the package-level
// Port value rather than constructing a UART directly.
type UART struct {
	hal hal

	state connState

	rx ringBuffer
	tx ringBuffer

	rxCursor bitCursor
	txCursor bitCursor

	rxPhase phase
	txPhase uint8 // free-running div-2 of ticks, independent of rxPhase

	cfg    Config
	timing timing

	notify   chan struct{} // coalesced RX-readiness wake
	txNotify chan struct{} // coalesced TX-progress wake

	// rxEnabled is the foreground-requested receive state (EnableReceive/
	// DisableReceive). edgeCapture always masks pin-change interrupts for
	// the duration of the frame it is capturing; the RX half of tick only
	// restores the mask at frame end if rxEnabled is still true, so a
	// DisableReceive issued mid-frame takes effect once that frame lands.
	rxEnabled bool

	stats Stats
}

// Port is the package's singleton UART instance. The two ISR vectors
// (timer compare-match and RX pin-change) are wired to its tick and
// edgeCapture methods by hal_atmega.go's armTimer and enablePinChange,
// which Configure calls.
var Port = newUART()

func newUART() *UART {
	return &UART{
		notify:   make(chan struct{}, 1),
		txNotify: make(chan struct{}, 1),
	}
}

// Configure initialises the peripheral: it fails if already initialised
// or if pins are invalid, allocates/clears both ring buffers, programs
// the pins, derives and arms the timer, enables pin change and
// compare-match interrupts, and sets state to Idle.
func (u *UART) Configure(cfg Config) error {
	if u.state.initialised() {
		return ErrAlreadyInitialised
	}
	if !validPin(cfg.TXPin) {
		return ErrInvalidPin
	}
	if rxSubsystemEnabled && !validPin(cfg.RXPin) {
		return ErrInvalidPin
	}

	cpuHz := cfg.CPUFrequency
	if cpuHz == 0 {
		cpuHz = defaultCPUFrequency()
	}
	t, err := deriveTiming(cpuHz, cfg.Baud)
	if err != nil {
		return err
	}

	u.cfg = cfg
	u.timing = t

	u.rx = ringBuffer{isRX: true}
	u.tx = ringBuffer{}
	u.rxCursor.reset()
	u.txCursor.reset()
	u.rxPhase = phase{}
	u.txPhase = 0
	u.rxEnabled = true

	if u.hal == nil {
		u.hal = newHAL(u)
	}
	u.hal.configureTX()
	u.hal.armTimer(t)
	if rxSubsystemEnabled {
		u.hal.configureRX()
		u.hal.enablePinChange()
	}

	u.state = stInitialisedBit
	return nil
}

// tick is the compare-match ISR body: exactly one half-bit per
// invocation, running three sections in order — RX half, TX half, RX
// bottom half.
func (u *UART) tick() {
	u.dbgTick()
	u.rxHalf()
	u.txHalf()
	u.rxBottomHalf()
}
