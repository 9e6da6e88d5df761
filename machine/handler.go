//go:build noos

// Package machine installs the hard fault vector. The assembly shim grabs
// the stack pointer at exception entry, while it still equals the address
// of the exception stack frame, and hands it to the decoder. The system is
// unrecoverable at that point and never resumes the faulted code.
package machine

import (
	"io"

	"github.com/kroesche/cmfault/fault"
	"github.com/kroesche/cmfault/record"
	"github.com/kroesche/cmfault/scb"
)

// Output receives the fault report. Point it at the console during system
// init. While nil, reports are dropped. The writer is called from the
// fault handler with faults escalated, so it must not depend on interrupts
// or the scheduler.
var Output io.Writer

// Halt is called after the report is written. It may reset the system,
// trap into the debugger or power down, but must not return to the faulted
// code. If nil or if it returns anyway, the handler spins forever so the
// state stays inspectable from an attached debugger.
var Halt func()

// Static buffer for the report. Decode runs at most once with all faults
// escalated, so there is no reentrancy to guard against, and keeping it
// off the handler's stack leaves the nosplit budget alone.
var buf [fault.BufLen]byte

// decode is called by the HardFault vector in shim_thumb.s with the frame
// address captured before any further stack usage.
//
//go:nowritebarrierrec
//go:nosplit
func decode(frame *fault.Frame) {
	s := fault.Take(frame, scb.Regs())
	if Output != nil {
		Output.Write(record.Append(buf[:0], &s))
		Output.Write(s.Append(buf[:0]))
	}
	if Halt != nil {
		Halt()
	}
	// The shim's spin loop takes over when we return.
}
