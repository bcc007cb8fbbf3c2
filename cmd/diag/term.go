// cmd/diag/term.go

package main

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/nightwatch-embedded/tinygo-softuart/uartx"
)

// TermCmd gives an interactive raw-terminal session against one end of a
// simulated loopback pair, so someone can type into the bit engine by
// hand without wiring up real hardware. Typed bytes go out side A's TX
// and whatever comes back in on side A's RX (i.e. whatever side B
// echoes) is printed.
type TermCmd struct {
	Baud uint32 `optional:"" default:"9600" help:"Simulated link speed."`
	Echo bool   `optional:"" default:"true" help:"Have the far end (B) echo bytes back."`
}

func (c *TermCmd) Run() error {
	baud, err := uartx.ParseBaud(c.Baud)
	if err != nil {
		return fmt.Errorf("baud %d: %w", c.Baud, err)
	}

	fd := os.Stdin.Fd()
	orig, err := tcget(fd)
	if err != nil {
		return fmt.Errorf("not a terminal: %w", err)
	}
	raw := *orig
	raw.Lflag &^= unix.ICANON | unix.ECHO | unix.ISIG
	raw.Iflag &^= unix.IXON | unix.ICRNL
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := tcset(fd, &raw); err != nil {
		return fmt.Errorf("setting raw mode: %w", err)
	}
	defer tcset(fd, orig)

	uartx.ResetSimWiring()
	a := uartx.NewSimUART()
	b := uartx.NewSimUART()
	if err := a.Configure(uartx.Config{Baud: baud, TXPin: uartx.Pin(1), RXPin: uartx.Pin(2)}); err != nil {
		return err
	}
	if err := b.Configure(uartx.Config{Baud: baud, TXPin: uartx.Pin(2), RXPin: uartx.Pin(1)}); err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		ticksPerByte := uartx.TicksPerByte(a)
		var tmp [64]byte
		for {
			select {
			case <-stop:
				return
			default:
			}
			uartx.DriveTicks([]*uartx.UART{a, b}, ticksPerByte/4+1)
			if c.Echo {
				if n := b.TryRead(tmp[:]); n > 0 {
					b.Write(tmp[:n])
				}
			}
			if n := a.TryRead(tmp[:]); n > 0 {
				os.Stdout.Write(tmp[:n])
			}
		}
	}()

	fmt.Fprintln(os.Stderr, "diag term: raw mode, Ctrl-] to quit")
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return nil
		}
		if buf[0] == 0x1d { // Ctrl-]
			fmt.Fprintln(os.Stderr, "\r\ndiag term: quit")
			return nil
		}
		a.Write(buf[:n])
	}
}

const (
	ioctlGetTermios = unix.TIOCGETA
	ioctlSetTermios = unix.TIOCSETA
)

// tcget and tcset wrap the termios get/set ioctls, mirroring the get/set
// pair an interactive terminal front-end needs before touching raw mode
// flags itself.
func tcget(fd uintptr) (*unix.Termios, error) {
	return unix.IoctlGetTermios(int(fd), ioctlGetTermios)
}

func tcset(fd uintptr, t *unix.Termios) error {
	return unix.IoctlSetTermios(int(fd), ioctlSetTermios, t)
}
