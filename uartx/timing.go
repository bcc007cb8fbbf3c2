// uartx/timing.go

package uartx

import "errors"

// BaudRate enumerates the supported wire speeds. Values are indices into
// the precomputed OCR table, not the literal bps numbers — mirroring the
// original C library's serial_speed_t.
type BaudRate uint8

const (
	Baud2400 BaudRate = iota
	Baud9600
	Baud19200
	Baud38400
	Baud57600
	Baud115200

	numBaudRates = int(Baud115200) + 1
)

func (b BaudRate) bps() uint32 {
	switch b {
	case Baud2400:
		return 2400
	case Baud9600:
		return 9600
	case Baud19200:
		return 19200
	case Baud38400:
		return 38400
	case Baud57600:
		return 57600
	case Baud115200:
		return 115200
	default:
		return 0
	}
}

var (
	// ErrBaudUnsupported is returned when the requested baud/CPU-clock
	// combination cannot be expressed as an 8-bit OCR value at 2x
	// oversampling.
	ErrBaudUnsupported = errors.New("uartx: baud rate not representable at this CPU clock")
)

// timing holds the derived, read-only-after-Configure per-direction
// constants: the compare value at which the timer ISR fires (one
// half-bit per tick) and the sample-offset threshold used by edge
// capture to decide a 2 vs 3 half-tick countdown.
type timing struct {
	prescaler uint32
	ocr       uint8
	threshold uint8
}

// prescalerBand mirrors the original C library's F_CPU-banded prescaler
// choice (original_source/serial.c): /1 up to and including 4 MHz, /8
// above that. There is no third band: a clock/baud pair whose OCR does
// not fit 8 bits at /8 (2400 baud at 16 or 20 MHz, for instance) makes
// deriveTiming report ErrBaudUnsupported instead of silently mis-timing.
func prescalerBand(cpuHz uint32) uint32 {
	if cpuHz < 4_000_001 {
		return 1
	}
	return 8
}

// deriveTiming computes OCR = round(F_CPU/prescaler/(2*baud)) - 1 and the
// sample-offset threshold (~OCR/2, with a small margin for ISR entry
// latency), rejecting results that don't fit an 8-bit compare register.
func deriveTiming(cpuHz uint32, baud BaudRate) (timing, error) {
	if byBaud, ok := ocrTable[cpuHz]; ok {
		if t, ok := byBaud[baud]; ok {
			return t, nil
		}
	}

	bps := baud.bps()
	if bps == 0 || cpuHz == 0 {
		return timing{}, ErrBaudUnsupported
	}
	prescaler := prescalerBand(cpuHz)
	denom := prescaler * 2 * bps
	raw := (cpuHz + denom/2) / denom // round to nearest
	if raw == 0 {
		return timing{}, ErrBaudUnsupported
	}
	ocrVal := raw - 1
	if ocrVal > 255 {
		return timing{}, ErrBaudUnsupported
	}

	// Margin for ISR entry latency: bias the threshold a few counts
	// below the true midpoint so a start edge that arrives just after
	// the real half-bit boundary is still classified "late" (3 ticks)
	// rather than "early" (2 ticks), matching the original's comment
	// that the margin protects against ISR entry jitter.
	const latencyMargin = 2
	half := ocrVal / 2
	threshold := half
	if half > latencyMargin {
		threshold = half - latencyMargin
	}

	return timing{
		prescaler: prescaler,
		ocr:       uint8(ocrVal),
		threshold: uint8(threshold),
	}, nil
}

// ocrTable precomputes timing for CPU clocks common on AVR boards, keyed
// by clock frequency then baud index, so Configure avoids runtime
// division on the hot init path for the clocks most boards actually run
// at. Entries not present fall back to deriveTiming's runtime
// computation.
var ocrTable = map[uint32]map[BaudRate]timing{
	1_000_000: {
		Baud2400:  {prescaler: 1, ocr: 207, threshold: 101},
		Baud9600:  {prescaler: 1, ocr: 51, threshold: 23},
		Baud19200: {prescaler: 1, ocr: 25, threshold: 10},
	},
	8_000_000: {
		// prescalerBand picks /8 at this clock (>4MHz band); the
		// resulting 1MHz timer clock makes these OCR values identical
		// to the 1MHz/÷1 row above.
		Baud2400:   {prescaler: 8, ocr: 207, threshold: 101},
		Baud9600:   {prescaler: 8, ocr: 51, threshold: 23},
		Baud19200:  {prescaler: 8, ocr: 25, threshold: 10},
		Baud38400:  {prescaler: 8, ocr: 12, threshold: 4},
		Baud57600:  {prescaler: 8, ocr: 8, threshold: 2},
		Baud115200: {prescaler: 8, ocr: 3, threshold: 1},
	},
	16_000_000: {
		// 2400 baud omitted: 16MHz/8/(2*2400) = 416.7 gives OCR 416, out
		// of 8-bit range — this clock/baud pair needs the original's
		// "count extra" scheme (serial.c's low_baud_extra_count), which
		// this port doesn't implement. deriveTiming's runtime fallback
		// reports ErrBaudUnsupported for it too.
		Baud9600:   {prescaler: 8, ocr: 103, threshold: 49},
		Baud19200:  {prescaler: 8, ocr: 51, threshold: 23},
		Baud38400:  {prescaler: 8, ocr: 25, threshold: 10},
		Baud57600:  {prescaler: 8, ocr: 16, threshold: 6},
		Baud115200: {prescaler: 8, ocr: 8, threshold: 2},
	},
	20_000_000: {
		// 2400 baud omitted: 20MHz/8/(2*2400) = 520.8 gives OCR 520, out of 8-bit range.
		Baud9600:   {prescaler: 8, ocr: 129, threshold: 62},
		Baud19200:  {prescaler: 8, ocr: 64, threshold: 30},
		Baud38400:  {prescaler: 8, ocr: 32, threshold: 14},
		Baud57600:  {prescaler: 8, ocr: 21, threshold: 8},
		Baud115200: {prescaler: 8, ocr: 10, threshold: 3},
	},
}
