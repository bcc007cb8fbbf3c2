// uartx/txonly_stubs.go

//go:build softuart_txonly

package uartx

const rxSubsystemEnabled = false

// edgeCapture, rxHalf and rxBottomHalf have no RX subsystem to act on in
// this build; hal_atmega.go never wires the pin-change vector to
// edgeCapture when rxSubsystemEnabled is false, so it is unreachable,
// but tick() still calls rxHalf/rxBottomHalf unconditionally and needs
// something to call.
func (u *UART) edgeCapture()  {}
func (u *UART) rxHalf()       {}
func (u *UART) rxBottomHalf() {}
