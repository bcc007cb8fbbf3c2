// uartx/debug_hooks.go

//go:build softuartdebug

package uartx

import "sync/atomic"

func (u *UART) dbgTick()         { atomic.AddUint32(&u.stats.TickCount, 1) }
func (u *UART) dbgEdgeCapture()  { atomic.AddUint32(&u.stats.EdgeCaptures, 1) }
func (u *UART) dbgRxOverflow()   { atomic.AddUint32(&u.stats.RxOverflow, 1) }
func (u *UART) dbgFramingDrop()  { atomic.AddUint32(&u.stats.FramingDrops, 1) }
func (u *UART) dbgTxLockRetry()  { atomic.AddUint32(&u.stats.TxLockRetries, 1) }

func (u *UART) dbgRxRingUsed(used uint8) { bumpMax(&u.stats.RxRingMaxUsed, uint32(used)) }
func (u *UART) dbgTxRingUsed(used uint8) { bumpMax(&u.stats.TxRingMaxUsed, uint32(used)) }

func bumpMax(dst *uint32, v uint32) {
	for {
		max := atomic.LoadUint32(dst)
		if v <= max {
			return
		}
		if atomic.CompareAndSwapUint32(dst, max, v) {
			return
		}
	}
}

func (u *UART) dbgNotify(sent bool) {
	if sent {
		atomic.AddUint32(&u.stats.NotifySent, 1)
	} else {
		atomic.AddUint32(&u.stats.NotifyDropped, 1)
	}
}

func (u *UART) dbgReadWait()     { atomic.AddUint32(&u.stats.ReadWaits, 1) }
func (u *UART) dbgSpuriousWake() { atomic.AddUint32(&u.stats.SpuriousWakes, 1) }
func (u *UART) dbgTimeout()      { atomic.AddUint32(&u.stats.Timeouts, 1) }
