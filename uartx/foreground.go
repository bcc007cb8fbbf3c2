// uartx/foreground.go

package uartx

// PutChar appends b to the TX buffer, closing the advisory-lock
// test-and-set race with a brief global-interrupt-disable window per
// §5: the ISR paths that touch tx.lock (txHalf's shiftDown) never block
// on it, so foreground only needs to win the race against itself on
// platforms with more than one foreground caller.
func (u *UART) PutChar(b byte) error {
	if !u.state.initialised() {
		return ErrNotInitialised
	}
	for {
		if u.tx.lock {
			continue
		}
		restore := u.hal.enterCritical()
		if u.tx.lock {
			restore()
			continue
		}
		u.tx.lock = true
		restore()
		break
	}

	ok := u.tx.append(b)
	u.tx.lock = false

	if !ok {
		return ErrBufferFull
	}
	u.dbgTxRingUsed(u.tx.used())
	return nil
}

// SendData calls PutChar in order until the first failure or until all
// of p has been queued, returning the count accepted. Not atomic across
// the sequence — a concurrent GetChar/PutChar interleaving is legal.
func (u *UART) SendData(p []byte) int {
	for i, b := range p {
		if err := u.PutChar(b); err != nil {
			return i
		}
	}
	return len(p)
}

// Overflow reports whether an RX byte has been dropped since the last
// ClearOverflow, addressing the "error surfacing gap" open question
// additively: the return-value contract of DataPending/GetChar is
// unchanged, this is a separate accessor. Always false in a
// softuart_txonly build, since nothing ever appends to rx.
func (u *UART) Overflow() bool { return u.state.overflow() }

// ClearOverflow clears the sticky overflow flag. Reception of new
// frames is never gated on this call; it exists purely for callers that
// want to detect a fresh overflow since the last check.
func (u *UART) ClearOverflow() {
	u.state = u.state.clearOverflow()
	u.rx.overflow = false
}
