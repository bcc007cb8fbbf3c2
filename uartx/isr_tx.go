// uartx/isr_tx.go

package uartx

// txHalf is the TX section of tick, run second in every invocation. It
// advances only on odd tx_phase (free-running div-2 of ticks, independent
// of the RX phase), giving TX its own mid-bit timing origin.
func (u *UART) txHalf() {
	u.txPhase ^= 1
	if u.txPhase == 0 {
		return
	}

	switch u.state.txSubstate() {
	case stTxIdle:
		if u.tx.used() == 0 {
			return
		}
		u.hal.txSet(false) // start bit
		u.txCursor.byteVal = u.tx.peekHead()
		u.txCursor.bitCounter = 0
		u.state = u.state.withTx(stTxSentStart)

	case stTxSentStart:
		u.emitBit(0)
		u.txCursor.bitCounter = 1
		u.state = u.state.withTx(stTxSending)

	case stTxSending:
		if u.txCursor.bitCounter < 8 {
			u.emitBit(u.txCursor.bitCounter)
			u.txCursor.bitCounter++
			return
		}
		u.hal.txSet(true) // stop bit
		if u.tx.shiftDown() {
			u.dbgTxRingUsed(u.tx.used())
			u.notifyTx()
			u.state = u.state.withTx(stTxIdle)
		} else {
			u.state = u.state.withTx(stTxLocked)
		}

	case stTxLocked:
		u.dbgTxLockRetry()
		if u.tx.shiftDown() {
			u.notifyTx()
			u.state = u.state.withTx(stTxIdle)
		}
	}
}

func (u *UART) emitBit(bit uint8) {
	u.hal.txSet(u.txCursor.byteVal&(1<<bit) != 0)
}

// notifyTx wakes one pending Writable()/Write() waiter.
func (u *UART) notifyTx() {
	select {
	case u.txNotify <- struct{}{}:
	default:
	}
}
