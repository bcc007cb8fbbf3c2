// uartx/debug_stubs.go

//go:build !softuartdebug

package uartx

type Stats struct{}

func (u *UART) DebugReset()       {}
func (u *UART) DebugStats() Stats { return Stats{} }
