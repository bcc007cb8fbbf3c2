// uartx/ringbuffer.go

package uartx

import "runtime/volatile"

// defaultBufferSize is the per-direction RX/TX ring capacity in bytes.
const defaultBufferSize = 64

// ringBuffer is a fixed-capacity FIFO shared between ISR context and
// foreground context. Unlike TinyGo's machine.RingBuffer (head/tail,
// power-of-two modulo), this shape is a move-to-front dequeue with an
// advisory lock and a single-bit "dirty" signal: the foreground marks the
// head consumed and the tick ISR's bottom half does the actual O(top)
// compaction, so foreground calls stay O(1).
//
// Storage is volatile.Register8 because both an ISR and foreground code
// touch it without a hardware cache-coherency story to rely on.
type ringBuffer struct {
	data [defaultBufferSize]volatile.Register8
	top  uint8 // data[0..top) is valid; top in [0, len(data)]

	lock  bool // advisory: an agent is mutating the buffer
	dirty bool // RX only: foreground consumed head, awaiting shiftDown

	isRX     bool // true selects the overflow-flag-on-full behaviour
	overflow bool // sticky RX overflow flag; ignored on the TX buffer
}

func (rb *ringBuffer) size() uint8 { return uint8(len(rb.data)) }

func (rb *ringBuffer) clear() {
	rb.top = 0
	rb.lock = false
	rb.dirty = false
	rb.overflow = false
}

// append adds b to the tail. On the RX buffer a full append sets the
// sticky overflow flag instead of growing past capacity. The RX ISR is
// the buffer's sole writer, so append does not itself need the
// test-and-set lock dance foreground uses.
func (rb *ringBuffer) append(b byte) bool {
	if rb.top >= rb.size() {
		if rb.isRX {
			rb.overflow = true
		}
		return false
	}
	rb.data[rb.top].Set(b)
	rb.top++
	return true
}

// shiftDown performs the move-to-front dequeue: data[i+1] copied to
// data[i] for i in [0, top-1), top decremented. Returns false if the lock
// was already held (LOCKED in spec terms).
func (rb *ringBuffer) shiftDown() bool {
	if rb.lock {
		return false
	}
	rb.lock = true
	for i := uint8(0); i+1 < rb.top; i++ {
		rb.data[i].Set(rb.data[i+1].Get())
	}
	if rb.top > 0 {
		rb.top--
	}
	rb.lock = false
	return true
}

// peekHead reads data[0]. Precondition: top > 0.
func (rb *ringBuffer) peekHead() byte {
	return rb.data[0].Get()
}

func (rb *ringBuffer) used() uint8 { return rb.top }
