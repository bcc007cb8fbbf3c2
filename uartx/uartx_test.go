// uartx/uartx_test.go

package uartx

import (
	"context"
	"testing"
	"time"
)

// newLoopbackPair returns two UARTs whose pins are cross-wired (A's TX is
// B's RX and vice versa), the simulation equivalent of jumpering two
// boards' TX/RX lines together.
func newLoopbackPair(t *testing.T, baud BaudRate) (a, b *UART) {
	t.Helper()
	resetWires()

	a = newUART()
	b = newUART()

	if err := a.Configure(Config{Baud: baud, TXPin: Pin(1), RXPin: Pin(2), CPUFrequency: 16_000_000}); err != nil {
		t.Fatalf("a.Configure: %v", err)
	}
	if err := b.Configure(Config{Baud: baud, TXPin: Pin(2), RXPin: Pin(1), CPUFrequency: 16_000_000}); err != nil {
		t.Fatalf("b.Configure: %v", err)
	}
	return a, b
}

// runTicks is the test-local name for DriveTicks, kept so test bodies
// below read the same as before DriveTicks was hoisted out for cmd/diag
// to use too.
func runTicks(us []*UART, n int) { DriveTicks(us, n) }

func TestLoopback_AllBauds(t *testing.T) {
	for _, baud := range []BaudRate{Baud9600, Baud19200, Baud38400, Baud57600, Baud115200} {
		baud := baud
		t.Run(baud.String(), func(t *testing.T) {
			a, b := newLoopbackPair(t, baud)
			payload := []byte("sand")
			got := sendAndCollect(t, a, b, payload)
			if string(got) != string(payload) {
				t.Fatalf("got %q want %q", got, payload)
			}
		})
	}
}

func (b BaudRate) String() string {
	switch b {
	case Baud2400:
		return "2400"
	case Baud9600:
		return "9600"
	case Baud19200:
		return "19200"
	case Baud38400:
		return "38400"
	case Baud57600:
		return "57600"
	case Baud115200:
		return "115200"
	default:
		return "unknown"
	}
}

func sendAndCollect(t *testing.T, a, b *UART, payload []byte) []byte {
	t.Helper()
	// The TX buffer holds BufferSize() bytes, so a longer payload is
	// topped up as it drains. One byte is taken per tick, since GetChar
	// leaves the head for the next tick's bottom half to retire.
	sent := 0
	got := make([]byte, 0, len(payload))
	ticksPerByte := TicksPerByte(a) // generous upper bound on half-ticks per 10-bit frame
	for i := 0; i < len(payload)*ticksPerByte && len(got) < len(payload); i++ {
		if sent < len(payload) {
			sent += a.SendData(payload[sent:])
		}
		runTicks([]*UART{a, b}, 1)
		if b.DataPending() > 0 {
			got = append(got, b.GetChar())
		}
	}
	if sent != len(payload) {
		t.Fatalf("SendData accepted %d/%d bytes", sent, len(payload))
	}
	return got
}

func TestLoopback_Bytes0to255(t *testing.T) {
	a, b := newLoopbackPair(t, Baud115200)

	payload := make([]byte, 256)
	for i := range payload {
		payload[i] = byte(i)
	}

	got := sendAndCollect(t, a, b, payload)
	if len(got) != len(payload) {
		t.Fatalf("received %d of %d bytes: %v", len(got), len(payload), got)
	}
	for i := range payload {
		if got[i] != payload[i] {
			t.Fatalf("byte %d: got %#x want %#x", i, got[i], payload[i])
		}
	}
}

func TestLoopback_ShortString(t *testing.T) {
	a, b := newLoopbackPair(t, Baud115200)
	payload := []byte("Bits of sand")

	got := sendAndCollect(t, a, b, payload)
	if string(got) != string(payload) {
		t.Fatalf("got %q want %q", got, payload)
	}
}

func TestEnableDisableReceive(t *testing.T) {
	a, b := newLoopbackPair(t, Baud115200)

	b.DisableReceive()
	_ = sendAndCollect(t, a, b, []byte("ignored"))
	if b.DataPending() != 0 {
		t.Fatalf("expected no data while receive disabled, got %d pending", b.DataPending())
	}

	b.EnableReceive()
	got := sendAndCollect(t, a, b, []byte("heard"))
	if string(got) != "heard" {
		t.Fatalf("got %q want %q", got, "heard")
	}
}

func TestOverflow_SetsFlagAndRecovers(t *testing.T) {
	resetWires()
	a := newUART()
	b := newUART()
	if err := a.Configure(Config{Baud: Baud115200, TXPin: Pin(3), RXPin: Pin(4), CPUFrequency: 16_000_000}); err != nil {
		t.Fatalf("a.Configure: %v", err)
	}
	if err := b.Configure(Config{Baud: Baud115200, TXPin: Pin(4), RXPin: Pin(3), CPUFrequency: 16_000_000}); err != nil {
		t.Fatalf("b.Configure: %v", err)
	}

	overflowAt := int(defaultBufferSize) + 3
	payload := make([]byte, overflowAt)
	for i := range payload {
		payload[i] = byte('A' + i%26)
	}
	sent := a.SendData(payload)
	if sent == 0 {
		t.Fatalf("SendData accepted 0 bytes")
	}

	// a's TX buffer holds only defaultBufferSize bytes, so the rest of
	// the payload is queued as it drains.
	ticksPerByte := TicksPerByte(b)
	for i := 0; i < len(payload)*ticksPerByte; i++ {
		if sent < len(payload) {
			sent += a.SendData(payload[sent:])
		}
		runTicks([]*UART{a, b}, 1)
	}
	if sent != len(payload) {
		t.Fatalf("SendData accepted %d/%d bytes", sent, len(payload))
	}

	if !b.Overflow() {
		t.Fatalf("expected Overflow() true after sending more than buffer capacity")
	}

	for b.DataPending() > 0 {
		b.GetChar()
		runTicks([]*UART{a, b}, 1) // bottom half retires the consumed head
	}
	b.ClearOverflow()
	if b.Overflow() {
		t.Fatalf("expected Overflow() false after ClearOverflow")
	}

	got := sendAndCollect(t, a, b, []byte("ok"))
	if string(got) != "ok" {
		t.Fatalf("after overflow recovery got %q want %q", got, "ok")
	}
}

func TestPutChar_BeforeConfigure(t *testing.T) {
	u := newUART()
	if err := u.PutChar('x'); err != ErrNotInitialised {
		t.Fatalf("PutChar before Configure: got %v want %v", err, ErrNotInitialised)
	}
}

func TestPutChar_BufferFull(t *testing.T) {
	resetWires()
	u := newUART()
	if err := u.Configure(Config{Baud: Baud9600, TXPin: Pin(5), RXPin: Pin(6), CPUFrequency: 16_000_000}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	for i := 0; i < int(defaultBufferSize); i++ {
		if err := u.PutChar(byte(i)); err != nil {
			t.Fatalf("PutChar %d: unexpected error %v", i, err)
		}
	}
	if err := u.PutChar('x'); err != ErrBufferFull {
		t.Fatalf("PutChar past capacity: got %v want ErrBufferFull", err)
	}
}

func TestConfigure_Twice(t *testing.T) {
	resetWires()
	u := newUART()
	if err := u.Configure(Config{Baud: Baud9600, TXPin: Pin(7), RXPin: Pin(8), CPUFrequency: 16_000_000}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	if err := u.Configure(Config{Baud: Baud9600, TXPin: Pin(7), RXPin: Pin(8), CPUFrequency: 16_000_000}); err != ErrAlreadyInitialised {
		t.Fatalf("second Configure: got %v want ErrAlreadyInitialised", err)
	}
}

func TestReadWriteBlocking(t *testing.T) {
	a, b := newLoopbackPair(t, Baud115200)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan struct{})
	var got []byte
	var err error
	go func() {
		defer close(done)
		buf := make([]byte, 5)
		var n int
		n, err = b.RecvSomeContext(ctx, buf)
		got = buf[:n]
	}()

	for i := 0; i < 4000 && len(got) == 0; i++ {
		runTicks([]*UART{a, b}, 1)
		if i == 10 {
			a.Write([]byte("hello"))
		}
	}
	<-done

	if err != nil {
		t.Fatalf("RecvSomeContext: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("got no bytes")
	}
}
