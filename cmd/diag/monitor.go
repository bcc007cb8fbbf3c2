// cmd/diag/monitor.go

package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/inancgumus/screen"

	"github.com/nightwatch-embedded/tinygo-softuart/uartx"
)

// MonitorCmd redraws a live view of a simulated loopback pair's buffer
// occupancy, standing in for polling Stats off a real device over a
// debug channel when no board is attached. Ctrl-C stops it.
type MonitorCmd struct {
	Baud     uint32        `optional:"" default:"115200" help:"Simulated link speed."`
	Interval time.Duration `optional:"" default:"250ms" help:"Redraw interval."`
}

func (c *MonitorCmd) Run() error {
	baud, err := uartx.ParseBaud(c.Baud)
	if err != nil {
		return fmt.Errorf("baud %d: %w", c.Baud, err)
	}

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

	// One goroutine feeds traffic A -> B so the monitor has something to
	// show; another drives the simulation clock and drains B so it
	// doesn't just fill up and stall.
	go func() {
		i := 0
		for {
			select {
			case <-stop:
				return
			default:
			}
			a.Write([]byte(fmt.Sprintf("tick %d\n", i)))
			i++
			time.Sleep(80 * time.Millisecond)
		}
	}()
	go func() {
		ticksPerByte := uartx.TicksPerByte(a)
		var tmp [256]byte
		for {
			select {
			case <-stop:
				return
			default:
			}
			uartx.DriveTicks([]*uartx.UART{a, b}, ticksPerByte)
			for b.TryRead(tmp[:]) > 0 {
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	ticker := time.NewTicker(c.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-sigCh:
			close(stop)
			screen.Clear()
			screen.MoveTopLeft()
			fmt.Println("diag monitor: stopped")
			return nil
		case <-ticker.C:
			screen.Clear()
			screen.MoveTopLeft()
			fmt.Println("uartx monitor — simulated loopback demo (Ctrl-C to quit)")
			fmt.Printf("A: buffered=%-4d txfree=%-4d overflow=%v\n", a.Buffered(), a.TxFree(), a.Overflow())
			fmt.Printf("B: buffered=%-4d txfree=%-4d overflow=%v\n", b.Buffered(), b.TxFree(), b.Overflow())
		}
	}
}
