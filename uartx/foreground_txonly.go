// uartx/foreground_txonly.go

//go:build softuart_txonly

package uartx

// In a TX_ONLY build the RX subsystem does not exist: these four calls
// are not part of the API surface and panic rather than silently
// returning meaningless zero values, per spec's "must not be callable
// in this mode".

func (u *UART) DataPending() int {
	panic("uartx: DataPending is unavailable in a softuart_txonly build")
}

func (u *UART) GetChar() byte {
	panic("uartx: GetChar is unavailable in a softuart_txonly build")
}

func (u *UART) EnableReceive() {
	panic("uartx: EnableReceive is unavailable in a softuart_txonly build")
}

func (u *UART) DisableReceive() {
	panic("uartx: DisableReceive is unavailable in a softuart_txonly build")
}
