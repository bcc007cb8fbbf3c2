// uartx/io.go

package uartx

import (
	"context"
	"time"
)

// Readable returns a coalesced notification for RX readiness: a commit
// that appends one or more bytes sends on this channel. The channel is
// level-coalesced; callers must re-check state after waking.
func (u *UART) Readable() <-chan struct{} { return u.notify }

// Writable returns a coalesced notification for TX progress: the tick
// ISR sends on this channel whenever shiftDown drains the head of the TX
// buffer. Level-coalesced, same caveat as Readable.
func (u *UART) Writable() <-chan struct{} { return u.txNotify }

// TryRead copies queued RX bytes into p without blocking and returns how
// many it copied; 0 means no byte can be taken right now. It takes at
// most one byte per tick: GetChar leaves the head for the next tick's
// bottom half to retire, and TryRead stops rather than wait for that.
func (u *UART) TryRead(p []byte) int {
	n := 0
	for n < len(p) && !u.rx.dirty && u.DataPending() > 0 {
		p[n] = u.GetChar()
		n++
	}
	return n
}

// Read implements io.Reader. It blocks until at least one byte is
// available, then returns n>0, nil. It never returns io.EOF.
func (u *UART) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if n := u.TryRead(p); n > 0 {
		return n, nil
	}
	for {
		<-u.notify
		if n := u.TryRead(p); n > 0 {
			return n, nil
		}
	}
}

// ReadByte reads a single byte from the RX buffer, or ErrBufferEmpty if
// none is queued.
func (u *UART) ReadByte() (byte, error) {
	if u.DataPending() == 0 {
		return 0, ErrBufferEmpty
	}
	return u.GetChar(), nil
}

// TryWrite enqueues up to len(p) bytes without blocking, stopping at the
// first full TX buffer. A return value of 0 means no space right now.
func (u *UART) TryWrite(p []byte) int { return u.SendData(p) }

// WriteByte queues a single byte, blocking until TX buffer space frees
// up if it is currently full.
func (u *UART) WriteByte(c byte) error {
	_, err := u.Write([]byte{c})
	return err
}

// Writev writes each buffer in sequence with Write's blocking semantics,
// stopping on the first error.
func (u *UART) Writev(bufs ...[]byte) (int, error) {
	sent := 0
	for _, p := range bufs {
		n, err := u.Write(p)
		sent += n
		if err != nil {
			return sent, err
		}
	}
	return sent, nil
}

// Write implements io.Writer. It blocks until all of p has been queued
// into the TX buffer; it does not wait for the bytes to leave the wire —
// use Flush for that.
func (u *UART) Write(p []byte) (int, error) {
	sent := 0
	for sent < len(p) {
		n := u.TryWrite(p[sent:])
		if n > 0 {
			sent += n
			continue
		}
		<-u.txNotify
	}
	return sent, nil
}

// Flush blocks until the TX buffer is empty and no frame is in flight —
// the bit-banged analogue of a hardware UART's "FIFO empty and BUSY
// clear" condition, observable here directly via txSubstate() without
// needing a BUSY-deassertion poll.
func (u *UART) Flush() error {
	tick := u.drainTick()
	for {
		if u.tx.used() == 0 && u.state.txSubstate() == stTxIdle {
			return nil
		}
		select {
		case <-u.txNotify:
		case <-time.After(tick):
		}
	}
}

// drainTick returns a short polling interval for Flush based on the
// configured baud: about two character times at 8-N-1, floored to avoid
// a zero duration when baud is unset.
func (u *UART) drainTick() time.Duration {
	bps := u.cfg.Baud.bps()
	if bps == 0 {
		return 50 * time.Microsecond
	}
	perBit := time.Second / time.Duration(bps)
	t := 2 * 10 * perBit
	if t < 20*time.Microsecond {
		t = 20 * time.Microsecond
	}
	return t
}

// Buffered returns the number of bytes currently queued in the RX
// buffer; an alias for DataPending with the io-style name.
func (u *UART) Buffered() int { return u.DataPending() }

// TxFree returns the remaining space in the TX buffer in bytes.
func (u *UART) TxFree() int { return int(u.tx.size() - u.tx.used()) }

// WaitReadableContext blocks until data is available or ctx is done.
func (u *UART) WaitReadableContext(ctx context.Context) error {
	for {
		if u.Buffered() > 0 {
			return nil
		}
		u.dbgReadWait()
		select {
		case <-u.notify:
			if u.Buffered() == 0 {
				u.dbgSpuriousWake()
			}
		case <-ctx.Done():
			u.dbgTimeout()
			return ctx.Err()
		}
	}
}

// RecvSomeContext blocks until at least one byte is available, then
// reads up to len(p).
func (u *UART) RecvSomeContext(ctx context.Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if n := u.TryRead(p); n > 0 {
		return n, nil
	}
	for {
		u.dbgReadWait()
		select {
		case <-u.notify:
			if n := u.TryRead(p); n > 0 {
				return n, nil
			}
			u.dbgSpuriousWake()
		case <-ctx.Done():
			u.dbgTimeout()
			return 0, ctx.Err()
		}
	}
}

// RecvByteContext blocks for a single byte or until ctx is done.
func (u *UART) RecvByteContext(ctx context.Context) (byte, error) {
	if b, err := u.ReadByte(); err == nil {
		return b, nil
	}
	for {
		u.dbgReadWait()
		select {
		case <-u.notify:
			if b, err := u.ReadByte(); err == nil {
				return b, nil
			}
			u.dbgSpuriousWake()
		case <-ctx.Done():
			u.dbgTimeout()
			return 0, ctx.Err()
		}
	}
}

// WaitWritableContext blocks until the TX buffer has room or ctx is done.
func (u *UART) WaitWritableContext(ctx context.Context) error {
	for {
		if u.TxFree() > 0 {
			return nil
		}
		select {
		case <-u.txNotify:
		case <-ctx.Done():
			u.dbgTimeout()
			return ctx.Err()
		}
	}
}

// SendSomeContext enqueues up to len(p) bytes, blocking until at least
// one byte is accepted or ctx is done.
func (u *UART) SendSomeContext(ctx context.Context, p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if n := u.TryWrite(p); n > 0 {
		return n, nil
	}
	for {
		select {
		case <-u.txNotify:
			if n := u.TryWrite(p); n > 0 {
				return n, nil
			}
		case <-ctx.Done():
			u.dbgTimeout()
			return 0, ctx.Err()
		}
	}
}
