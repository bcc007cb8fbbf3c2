// uartx/ringbuffer_test.go

package uartx

import "testing"

func TestRingBuffer_AppendAndPeek(t *testing.T) {
	var rb ringBuffer
	if rb.used() != 0 {
		t.Fatalf("used() on fresh buffer = %d, want 0", rb.used())
	}
	if !rb.append('a') {
		t.Fatalf("append on empty buffer returned false")
	}
	if got := rb.used(); got != 1 {
		t.Fatalf("used() after one append = %d, want 1", got)
	}
	if got := rb.peekHead(); got != 'a' {
		t.Fatalf("peekHead() = %q, want %q", got, 'a')
	}
}

func TestRingBuffer_ShiftDownFIFOOrder(t *testing.T) {
	var rb ringBuffer
	for _, b := range []byte("abc") {
		if !rb.append(b) {
			t.Fatalf("append(%q) failed", b)
		}
	}

	got := make([]byte, 0, 3)
	for rb.used() > 0 {
		got = append(got, rb.peekHead())
		if !rb.shiftDown() {
			t.Fatalf("shiftDown returned false with lock unheld")
		}
	}
	if string(got) != "abc" {
		t.Fatalf("dequeue order = %q, want %q", got, "abc")
	}
}

func TestRingBuffer_ShiftDownRespectsLock(t *testing.T) {
	var rb ringBuffer
	rb.append('x')
	rb.lock = true
	if rb.shiftDown() {
		t.Fatalf("shiftDown succeeded while lock held")
	}
	if rb.used() != 1 {
		t.Fatalf("used() after blocked shiftDown = %d, want 1 (unchanged)", rb.used())
	}
}

func TestRingBuffer_TXFullDoesNotSetOverflow(t *testing.T) {
	var rb ringBuffer // isRX: false
	for i := 0; i < int(rb.size()); i++ {
		if !rb.append(byte(i)) {
			t.Fatalf("append %d failed before buffer should be full", i)
		}
	}
	if rb.append('x') {
		t.Fatalf("append succeeded past capacity")
	}
	if rb.overflow {
		t.Fatalf("overflow set on a TX buffer, which never carries the flag")
	}
}

func TestRingBuffer_RXFullSetsOverflow(t *testing.T) {
	rb := ringBuffer{isRX: true}
	for i := 0; i < int(rb.size()); i++ {
		if !rb.append(byte(i)) {
			t.Fatalf("append %d failed before buffer should be full", i)
		}
	}
	if rb.overflow {
		t.Fatalf("overflow set before capacity was exceeded")
	}
	if rb.append('x') {
		t.Fatalf("append succeeded past capacity")
	}
	if !rb.overflow {
		t.Fatalf("overflow not set after appending past RX capacity")
	}
}

func TestRingBuffer_Clear(t *testing.T) {
	rb := ringBuffer{isRX: true}
	rb.append('a')
	rb.append('b')
	rb.dirty = true
	rb.overflow = true

	rb.clear()

	if rb.used() != 0 {
		t.Fatalf("used() after clear = %d, want 0", rb.used())
	}
	if rb.dirty || rb.overflow || rb.lock {
		t.Fatalf("clear left dirty=%v overflow=%v lock=%v, want all false", rb.dirty, rb.overflow, rb.lock)
	}
}

func TestRingBuffer_SizeMatchesConfiguredCapacity(t *testing.T) {
	var rb ringBuffer
	if got := rb.size(); got != defaultBufferSize {
		t.Fatalf("size() = %d, want %d", got, defaultBufferSize)
	}
}
