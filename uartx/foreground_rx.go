// uartx/foreground_rx.go

//go:build !softuart_txonly

package uartx

// DataPending returns the number of complete bytes queued in the RX
// buffer, spinning only long enough for a GetChar-in-progress bottom
// half to finish so the count it returns is stable.
func (u *UART) DataPending() int {
	if u.rx.used() == 0 {
		return 0
	}
	for u.rx.dirty {
	}
	return int(u.rx.used())
}

// GetChar returns the oldest queued RX byte and marks it consumed; the
// tick ISR's bottom half performs the actual compaction on its next
// invocation. Undefined if called when DataPending() == 0.
func (u *UART) GetChar() byte {
	for u.rx.dirty {
	}
	b := u.rx.peekHead()
	u.rx.dirty = true
	return b
}

// EnableReceive re-arms pin-change capture. If a frame is currently
// mid-flight the RX half of tick will perform the actual hardware
// re-enable once that frame completes, per the note on UART.rxEnabled.
func (u *UART) EnableReceive() {
	u.rxEnabled = true
	if u.state.rxSubstate() == stRxIdle {
		u.hal.enablePinChange()
	}
}

// DisableReceive masks pin-change capture immediately; a frame already
// mid-flight still completes and is queued normally.
func (u *UART) DisableReceive() {
	u.rxEnabled = false
	u.hal.disablePinChange()
}
