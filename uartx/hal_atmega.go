// uartx/hal_atmega.go

//go:build avr

// Real AVR hardware HAL: an 8-bit Timer0 in CTC mode for the compare-match
// tick, and a PCINT group for RX edge capture. Mirrors the structure the
// teacher uses for the RP2040 PL011 backend (rp2_uart.go) — a Configure
// that resets/arms the peripheral and installs interrupt.New handlers —
// translated from RP2040's NVIC-with-priorities model to AVR's single
// global interrupt-enable flag.
package uartx

import (
	"device/avr"
	"machine"
	"runtime/interrupt"
)

// Pin identifies a GPIO pin; on AVR this is machine's own pin numbering.
type Pin = machine.Pin

// NoPin mirrors machine.NoPin; used as the zero-value "unset" sentinel
// for Config.TXPin/RXPin.
const NoPin Pin = machine.NoPin

func validPin(p Pin) bool { return p != NoPin }

func defaultCPUFrequency() uint32 { return machine.CPUFrequency() }

// atmegaHAL binds the platform-independent bit engine to real AVR
// peripherals: Timer0 (TCCR0A/B, OCR0A, TIMSK0) for the tick and a PCINT
// group for RX edge capture.
type atmegaHAL struct {
	u *UART

	txPin machine.Pin
	rxPin machine.Pin

	pcintMask uint8 // bit within PCMSK covering rxPin

	timerIRQ    interrupt.Interrupt
	pinChangeIRQ interrupt.Interrupt
}

func newHAL(u *UART) hal {
	return &atmegaHAL{u: u, txPin: u.cfg.TXPin, rxPin: u.cfg.RXPin}
}

func (h *atmegaHAL) configureTX() {
	h.txPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	h.txPin.High() // idle high
}

func (h *atmegaHAL) configureRX() {
	h.rxPin.Configure(machine.PinConfig{Mode: machine.PinInput}) // no pull-up
	h.pcintMask = pcintBit(h.rxPin)
}

func (h *atmegaHAL) txSet(high bool) {
	if high {
		h.txPin.High()
	} else {
		h.txPin.Low()
	}
}

func (h *atmegaHAL) rxRead() bool { return h.rxPin.Get() }

// armTimer puts Timer0 in CTC mode (WGM01 set), selects the prescaler the
// timing table or deriveTiming chose, loads OCR0A, clears any pending
// compare flag, and enables the compare-match-A interrupt.
func (h *atmegaHAL) armTimer(t timing) {
	avr.TCCR0A.Set(avr.TCCR0A_WGM01) // CTC: count to OCR0A, reset to 0
	avr.TCCR0B.Set(0)                // stop the timer while configuring
	avr.OCR0A.Set(t.ocr)
	avr.TCNT0.Set(0)
	avr.TIFR0.Set(avr.TIFR0_OCF0A) // clear any stale pending flag (write-1-to-clear)

	h.timerIRQ = interrupt.New(avr.IRQ_TIMER0_COMPA, func(interrupt.Interrupt) {
		h.u.tick()
	})
	h.timerIRQ.Enable()
	avr.TIMSK0.SetBits(avr.TIMSK0_OCIE0A)

	var csBits uint8
	if t.prescaler == 1 {
		csBits = avr.TCCR0B_CS00
	} else {
		csBits = avr.TCCR0B_CS01 // /8
	}
	avr.TCCR0B.SetBits(csBits)
}

func (h *atmegaHAL) enablePinChange() {
	if h.pinChangeIRQ == (interrupt.Interrupt{}) {
		h.pinChangeIRQ = interrupt.New(pcintIRQFor(h.rxPin), func(interrupt.Interrupt) {
			h.u.edgeCapture()
		})
		h.pinChangeIRQ.Enable()
	}
	pcintGroupEnable(h.rxPin)
	avr.PCMSK0.SetBits(h.pcintMask) // TODO: select the PCMSKn matching rxPin's group, not always PCMSK0
}

func (h *atmegaHAL) disablePinChange() {
	avr.PCMSK0.ClearBits(h.pcintMask)
}

func (h *atmegaHAL) timerCount() uint8 { return avr.TCNT0.Get() }

func (h *atmegaHAL) enterCritical() (restore func()) {
	mask := interrupt.Disable()
	return func() { interrupt.Restore(mask) }
}

// pcintBit returns p's bit within its port (p & 7). pcintIRQFor and
// pcintGroupEnable always select the PCINT0 group (IRQ_PCINT0, PCIE0),
// and enablePinChange/disablePinChange always use PCMSK0, whatever port p
// is on: an RX pin in another group (PORTC/PORTD on ATmega328P) is not
// routed to its own vector or mask register.
func pcintBit(p machine.Pin) uint8 {
	return uint8(p) & 0x7
}

func pcintIRQFor(p machine.Pin) int {
	return avr.IRQ_PCINT0
}

func pcintGroupEnable(p machine.Pin) {
	avr.PCICR.SetBits(avr.PCICR_PCIE0)
}
