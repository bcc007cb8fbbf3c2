// uartx/isr_rx.go

//go:build !softuart_txonly

package uartx

// edgeCapture is the pin-change vector handler for the RX pin. It only
// ever runs while the pin-change mask is enabled, and the mask is only
// enabled while rxSubstate() == stRxIdle (edgeCapture masks it for the
// frame, rxHalf restores it at frame end) — so there is no
// frame-in-progress case to guard against here.
func (u *UART) edgeCapture() {
	t := u.hal.timerCount()
	if u.hal.rxRead() {
		// Rising edge reported on a platform that doesn't separate
		// edge polarity in hardware; not a start bit.
		return
	}
	u.dbgEdgeCapture()

	u.hal.disablePinChange() // committed to this frame; isr_rx's tick half re-enables at frame end

	if t < u.timing.threshold {
		u.rxPhase.sampleCountdown = 2
	} else {
		u.rxPhase.sampleCountdown = 3
	}
	u.state = u.state.withRx(stRxReceivedStart)
}

// rxHalf is the RX section of tick, run first in every invocation.
func (u *UART) rxHalf() {
	switch u.state.rxSubstate() {
	case stRxReceivedStart:
		// The countdown is the number of half-ticks still to pass; the
		// first sample is taken on the tick after it reaches 0, which
		// lands it in the middle of data bit 0.
		if u.rxPhase.sampleCountdown > 0 {
			u.rxPhase.sampleCountdown--
			return
		}
		u.sampleBit(0)
		u.rxCursor.bitCounter = 1
		u.rxPhase.half = 0
		u.state = u.state.withRx(stRxReceiving)

	case stRxReceiving:
		if u.rxPhase.half == 0 {
			u.rxPhase.half = 1
			return
		}
		u.rxPhase.half = 0

		if u.rxCursor.bitCounter < 8 {
			u.sampleBit(u.rxCursor.bitCounter)
			u.rxCursor.bitCounter++
			return
		}

		if u.hal.rxRead() {
			if u.rx.append(u.rxCursor.byteVal) {
				u.dbgRxRingUsed(u.rx.used())
			} else {
				u.state = u.state.withOverflow()
				u.dbgRxOverflow()
			}
			u.notifyRx()
		} else {
			u.dbgFramingDrop()
		}

		u.rxCursor.reset()
		u.state = u.state.withRx(stRxIdle)
		if u.rxEnabled {
			u.hal.enablePinChange()
		}
	}
}

func (u *UART) sampleBit(bit uint8) {
	if u.hal.rxRead() {
		u.rxCursor.byteVal |= 1 << bit
	}
}

// rxBottomHalf is the RX section run last in every tick: it performs the
// compaction a GetChar call deferred by setting dirty.
func (u *UART) rxBottomHalf() {
	if u.rx.dirty {
		if u.rx.shiftDown() {
			u.rx.dirty = false
		}
	}
}

// notifyRx wakes one pending Readable()/Read() waiter without blocking;
// a full channel means a wake is already pending, which is just as good.
func (u *UART) notifyRx() {
	select {
	case u.notify <- struct{}{}:
		u.dbgNotify(true)
	default:
		u.dbgNotify(false)
	}
}
