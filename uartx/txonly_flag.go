// uartx/txonly_flag.go

//go:build !softuart_txonly

package uartx

// rxSubsystemEnabled gates whether Configure wires up the RX pin, the
// pin-change interrupt, and receive state. See txonly_stubs.go for the
// softuart_txonly build's inverse.
const rxSubsystemEnabled = true
