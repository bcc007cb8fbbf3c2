// uartx/io_test.go

package uartx

import (
	"context"
	"testing"
	"time"

	"github.com/matryer/is"
)

// TestIO_WriteThenReadRoundTrips exercises the io.Reader/io.Writer pair
// end to end over a simulated loopback, using matryer/is for the
// higher-level behavioural assertions (see ringbuffer_test.go and
// timing_test.go for the lower-level bare-testing style this package
// also uses).
func TestIO_WriteThenReadRoundTrips(t *testing.T) {
	is := is.New(t)

	resetWires()
	a, b := newUART(), newUART()
	is.NoErr(a.Configure(Config{Baud: Baud115200, TXPin: Pin(11), RXPin: Pin(12), CPUFrequency: 16_000_000}))
	is.NoErr(b.Configure(Config{Baud: Baud115200, TXPin: Pin(12), RXPin: Pin(11), CPUFrequency: 16_000_000}))

	// Write runs on its own goroutine since the blocking API is meant to
	// be called concurrently with draining the other end; its result is
	// asserted back on the test's own goroutine below, since
	// testing.T.Fatal-family calls are only valid there.
	payload := []byte("roundtrip")
	type writeResult struct {
		n   int
		err error
	}
	wrote := make(chan writeResult, 1)
	go func() {
		n, err := a.Write(payload)
		wrote <- writeResult{n, err}
	}()

	// The tick budget below counts ticks, not time, so wait for the
	// writer goroutine to have queued the payload before spending it.
	for a.TxFree() == BufferSize() {
		time.Sleep(time.Millisecond)
	}

	got := make([]byte, 0, len(payload))
	ticksPerByte := TicksPerByte(a)
	for i := 0; i < len(payload)*ticksPerByte && len(got) < len(payload); i++ {
		runTicks([]*UART{a, b}, 1)
		var buf [16]byte
		if n := b.TryRead(buf[:]); n > 0 {
			got = append(got, buf[:n]...)
		}
	}
	is.Equal(string(got), string(payload))

	select {
	case r := <-wrote:
		is.NoErr(r.err)
		is.Equal(r.n, len(payload))
	case <-time.After(time.Second):
		t.Fatal("Write did not complete")
	}
}

// TestIO_RecvSomeContext_Timeout checks that a reader blocked with no
// data arriving unblocks on its context deadline rather than hanging.
func TestIO_RecvSomeContext_Timeout(t *testing.T) {
	is := is.New(t)

	resetWires()
	u := newUART()
	is.NoErr(u.Configure(Config{Baud: Baud9600, TXPin: Pin(13), RXPin: Pin(14), CPUFrequency: 16_000_000}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	buf := make([]byte, 4)
	n, err := u.RecvSomeContext(ctx, buf)
	is.Equal(n, 0)
	is.Equal(err, context.DeadlineExceeded)
}

// TestIO_Flush_WaitsForTXBufferAndLine checks Flush doesn't return while
// bytes are still queued or a frame is still shifting out.
func TestIO_Flush_WaitsForTXBufferAndLine(t *testing.T) {
	is := is.New(t)

	resetWires()
	a, b := newUART(), newUART()
	is.NoErr(a.Configure(Config{Baud: Baud57600, TXPin: Pin(15), RXPin: Pin(16), CPUFrequency: 16_000_000}))
	is.NoErr(b.Configure(Config{Baud: Baud57600, TXPin: Pin(16), RXPin: Pin(15), CPUFrequency: 16_000_000}))

	payload := []byte("flush me")
	n := a.SendData(payload)
	is.Equal(n, len(payload))

	flushed := make(chan error, 1)
	go func() { flushed <- a.Flush() }()

	// Drive the engine itself to completion first, checked directly
	// against its state rather than against the Flush goroutine's
	// scheduling — Flush is notified via a buffered channel send that
	// doesn't require the runtime to have scheduled it yet, so polling
	// the channel in lockstep with this tight tick loop would be racy.
	ticksPerByte := TicksPerByte(a)
	for i := 0; i < len(payload)*ticksPerByte*2; i++ {
		runTicks([]*UART{a, b}, 1)
		if a.tx.used() == 0 && a.state.txSubstate() == stTxIdle {
			break
		}
	}
	if a.tx.used() != 0 || a.state.txSubstate() != stTxIdle {
		t.Fatal("TX buffer did not drain within the tick budget")
	}

	select {
	case err := <-flushed:
		is.NoErr(err)
	case <-time.After(time.Second):
		t.Fatal("Flush did not return once the TX buffer drained")
	}
}

// TestIO_TxFree_ReflectsQueueOccupancy checks TxFree decreases as bytes
// are queued and recovers as they drain.
func TestIO_TxFree_ReflectsQueueOccupancy(t *testing.T) {
	is := is.New(t)

	resetWires()
	a, b := newUART(), newUART()
	is.NoErr(a.Configure(Config{Baud: Baud115200, TXPin: Pin(17), RXPin: Pin(18), CPUFrequency: 16_000_000}))
	is.NoErr(b.Configure(Config{Baud: Baud115200, TXPin: Pin(18), RXPin: Pin(17), CPUFrequency: 16_000_000}))

	full := a.TxFree()
	is.Equal(full, BufferSize())

	a.SendData([]byte("abcd"))
	is.Equal(a.TxFree(), full-4)

	ticksPerByte := TicksPerByte(a)
	for i := 0; i < 4*ticksPerByte*2 && a.TxFree() < full; i++ {
		runTicks([]*UART{a, b}, 1)
	}
	is.Equal(a.TxFree(), full)
}
