// uartx/export.go

package uartx

import "errors"

// ErrBufferEmpty is returned by ReadByte when the RX buffer holds
// nothing. It is distinct from ErrNotInitialised and ErrBufferFull — see
// core.go and io.go.
var ErrBufferEmpty = errors.New("uartx: buffer empty")

// BufferSize returns the fixed RX/TX buffer capacity in bytes; both
// buffers share the same compile-time size in this port.
func BufferSize() int { return int(defaultBufferSize) }

// DeriveTiming exposes the timer compare value and sample-offset
// threshold Configure would program for a given clock/baud pair,
// without needing a real UART instance. cmd/diag's decode subcommand
// uses this to report what timing a capture was (or should have been)
// taken against.
func DeriveTiming(cpuHz uint32, baud BaudRate) (ocr, threshold uint8, err error) {
	t, err := deriveTiming(cpuHz, baud)
	if err != nil {
		return 0, 0, err
	}
	return t.ocr, t.threshold, nil
}

// ParseBaud maps the bps values accepted by Config.Baud back from an
// integer, for CLI flags that take a plain baud number.
func ParseBaud(bps uint32) (BaudRate, error) {
	for _, b := range []BaudRate{Baud2400, Baud9600, Baud19200, Baud38400, Baud57600, Baud115200} {
		if b.bps() == bps {
			return b, nil
		}
	}
	return 0, ErrBaudUnsupported
}
