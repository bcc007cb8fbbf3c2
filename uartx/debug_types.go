// uartx/debug_types.go

//go:build softuartdebug

package uartx

import "sync/atomic"

// Stats holds counters since the last DebugReset, grounded on the
// teacher's own debug_types.go Stats but re-scoped from PL011 FIFO/DMA
// counters to the bit-banged engine's ISR-level events. The PL011
// register snapshot (Regs/DebugRegs) has no AVR analogue simple enough
// to be worth carrying; see DESIGN.md.
type Stats struct {
	TickCount    uint32 // compare-match ISR entries
	EdgeCaptures uint32 // pin-change ISR entries accepted as real start edges

	RxOverflow    uint32 // committed bytes dropped because rx buffer was full
	FramingDrops  uint32 // bytes dropped for a missing stop bit
	TxLockRetries uint32 // tick ISR retries of a TxLocked shift_down

	RxRingMaxUsed uint32 // high-water mark of rx.used()
	TxRingMaxUsed uint32 // high-water mark of tx.used()

	NotifySent    uint32 // Readable/Writable wake sends that succeeded
	NotifyDropped uint32 // wake sends dropped because the channel was full

	ReadWaits     uint32 // times a Recv*Context call had to wait
	SpuriousWakes uint32 // notify received but re-check still found nothing
	Timeouts      uint32 // context deadlines hit in Recv*/Send*Context
}

func (u *UART) DebugReset() {
	u.stats = Stats{}
}

// DebugStats returns a consistent snapshot; 32-bit atomic loads are
// enough on a single-core AVR where the writers only ever add.
func (u *UART) DebugStats() Stats {
	return Stats{
		TickCount:    atomic.LoadUint32(&u.stats.TickCount),
		EdgeCaptures: atomic.LoadUint32(&u.stats.EdgeCaptures),

		RxOverflow:    atomic.LoadUint32(&u.stats.RxOverflow),
		FramingDrops:  atomic.LoadUint32(&u.stats.FramingDrops),
		TxLockRetries: atomic.LoadUint32(&u.stats.TxLockRetries),

		RxRingMaxUsed: atomic.LoadUint32(&u.stats.RxRingMaxUsed),
		TxRingMaxUsed: atomic.LoadUint32(&u.stats.TxRingMaxUsed),

		NotifySent:    atomic.LoadUint32(&u.stats.NotifySent),
		NotifyDropped: atomic.LoadUint32(&u.stats.NotifyDropped),

		ReadWaits:     atomic.LoadUint32(&u.stats.ReadWaits),
		SpuriousWakes: atomic.LoadUint32(&u.stats.SpuriousWakes),
		Timeouts:      atomic.LoadUint32(&u.stats.Timeouts),
	}
}
