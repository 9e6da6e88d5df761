//go:build noos

// Crash test: wires the fault handler to the ITM console and provokes a
// real bus fault, so the whole capture and decode path can be checked on
// hardware or in an emulator. Watch the SWO output with faultmon.
package main

import (
	"embedded/rtos"
	"os"
	"syscall"
	"unsafe"

	"github.com/kroesche/cmfault/itm"
	"github.com/kroesche/cmfault/machine"

	"github.com/embeddedgo/fs/termfs"
)

func init() {
	port := itm.Probe(0)
	if port == nil {
		// No debugger listening. The fault handler will still run, the
		// report is just lost.
		return
	}
	rtos.SetSystemWriter(func(fd int, p []byte) int {
		n, _ := port.Write(p)
		return n
	})
	machine.Output = port

	console := termfs.NewLight("termfs", nil, port)
	rtos.Mount(console, "/dev/console")

	var err error
	os.Stdout, err = os.OpenFile("/dev/console", syscall.O_WRONLY, 0)
	if err != nil {
		panic(err)
	}
	os.Stderr = os.Stdout
}

// Keeps the compiler from dropping the faulting read.
var sink uint32

func main() {
	println("provoking a precise bus fault")

	// Unbacked address in the external device region. The read faults
	// with PRECISERR and the stacked PC pointing at it.
	sink = *(*uint32)(unsafe.Pointer(uintptr(0xcfff_fff0)))

	println("unreachable", sink)
}
