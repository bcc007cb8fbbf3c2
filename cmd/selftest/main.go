// cmd/selftest/main.go

//go:build avr

package main

import (
	"context"
	"time"

	"machine"

	"github.com/nightwatch-embedded/tinygo-softuart/uartx"
)

// On-device self-test: wire TX to RX (or to a second board's RX/TX pair)
// and flash this to exercise a handful of representative transfer
// scenarios, reporting PASS/FAIL over the same link since there is no
// separate debug console on this class of board.
func main() {
	time.Sleep(3 * time.Second)

	u := uartx.Port
	if err := u.Configure(uartx.Config{Baud: uartx.Baud115200, TXPin: 3, RXPin: 4}); err != nil {
		println("configure failed:", err.Error())
		for {
			time.Sleep(time.Hour)
		}
	}
	drain(u)

	pass, fail := 0, 0
	run := func(name string, f func() string) {
		if msg := f(); msg == "" {
			println("[PASS]", name)
			pass++
		} else {
			println("[FAIL]", name, ":", msg)
			fail++
		}
	}

	run("short loopback", func() string {
		drain(u)
		msg := []byte("hello, softuart\r\n")
		if _, err := u.Write(msg); err != nil {
			return "write failed"
		}
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		got, err := recvExact(ctx, u, len(msg))
		if err != nil {
			return "timeout"
		}
		if string(got) != string(msg) {
			return "mismatch"
		}
		return ""
	})

	run("binary 256 bytes 0x00..0xFF", func() string {
		drain(u)
		src := make([]byte, 256)
		for i := range src {
			src[i] = byte(i)
		}
		go u.Write(src)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		got, err := recvExact(ctx, u, len(src))
		if err != nil {
			return "timeout"
		}
		for i := range src {
			if got[i] != src[i] {
				return "mismatch"
			}
		}
		return ""
	})

	run("disable/enable receive", func() string {
		drain(u)
		u.DisableReceive()
		u.Write([]byte("ignored"))
		time.Sleep(50 * time.Millisecond)
		if u.DataPending() != 0 {
			return "received while disabled"
		}
		u.EnableReceive()
		drain(u)
		msg := []byte("heard")
		u.Write(msg)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		got, err := recvExact(ctx, u, len(msg))
		if err != nil || string(got) != string(msg) {
			return "did not recover"
		}
		return ""
	})

	run("overflow then recover", func() string {
		drain(u)
		u.ClearOverflow()
		n := uartx.BufferSize() + 3
		src := make([]byte, n)
		for i := range src {
			src[i] = byte('A' + i%26)
		}
		go u.Write(src)
		time.Sleep(2 * time.Second)
		if !u.Overflow() {
			return "overflow not observed"
		}
		drain(u)
		u.ClearOverflow()
		msg := []byte("ok")
		u.Write(msg)
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		got, err := recvExact(ctx, u, len(msg))
		if err != nil || string(got) != string(msg) {
			return "did not recover after overflow"
		}
		return ""
	})

	println("")
	println("Summary: passed =", pass, " failed =", fail)

	// Blink fast on success, slow on failure, forever, as a no-console
	// pass/fail signal for boards run untethered after the serial log
	// above has scrolled off a terminal.
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	period := 150 * time.Millisecond
	if fail != 0 {
		period = 800 * time.Millisecond
	}
	for {
		led.High()
		time.Sleep(period)
		led.Low()
		time.Sleep(period)
	}
}

func drain(u *uartx.UART) {
	var tmp [64]byte
	for u.TryRead(tmp[:]) > 0 {
	}
}

func recvExact(ctx context.Context, u *uartx.UART, n int) ([]byte, error) {
	out := make([]byte, 0, n)
	var buf [128]byte
	for len(out) < n {
		k, err := u.RecvSomeContext(ctx, buf[:])
		if err != nil {
			return out, err
		}
		out = append(out, buf[:k]...)
	}
	return out, nil
}
