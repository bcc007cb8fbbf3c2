// uartx/debug_hooks_stubs.go

//go:build !softuartdebug

package uartx

func (u *UART) dbgTick()            {}
func (u *UART) dbgEdgeCapture()     {}
func (u *UART) dbgRxOverflow()      {}
func (u *UART) dbgFramingDrop()     {}
func (u *UART) dbgTxLockRetry()     {}
func (u *UART) dbgRxRingUsed(uint8) {}
func (u *UART) dbgTxRingUsed(uint8) {}
func (u *UART) dbgNotify(bool)      {}
func (u *UART) dbgReadWait()        {}
func (u *UART) dbgSpuriousWake()    {}
func (u *UART) dbgTimeout()         {}
