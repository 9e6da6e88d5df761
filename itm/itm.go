//go:build noos

// Package itm drives an Instrumentation Trace Macrocell stimulus port as a
// byte sink. With SWO routed to a debug probe this is the cheapest console
// available on most Cortex-M parts and works from fault context, which
// makes it a good default target for fault reports.
package itm

import (
	"embedded/mmio"
	"unsafe"
)

var regs *registers = (*registers)(unsafe.Pointer(baseAddr))

// Byte-wide view of the stimulus ports. A byte store emits a single byte
// packet, a word store would emit all four lanes.
var stim8 *[numPorts * 4]mmio.U8 = (*[numPorts * 4]mmio.U8)(unsafe.Pointer(baseAddr))

const baseAddr uintptr = 0xe000_0000

const numPorts = 32

type registers struct {
	stim [numPorts]mmio.U32
	_    [864]uint32
	ter  mmio.U32 // stimulus port enable bits
	_    [15]uint32
	tpr  mmio.U32
	_    [15]uint32
	tcr  mmio.U32
}

const tcrEnable = 1 << 0

// Port is a stimulus port usable as a write sink.
type Port struct {
	n int
}

// Probe returns stimulus port n if the debugger has enabled the ITM and
// the port, otherwise nil. Tracing is configured from the probe side, the
// target only checks.
func Probe(n int) *Port {
	if n < 0 || n >= numPorts {
		return nil
	}
	if regs.tcr.Load()&tcrEnable == 0 || regs.ter.Load()&(1<<n) == 0 {
		return nil
	}
	return &Port{n}
}

// Write sends p over the stimulus port one byte at a time, busy-waiting on
// the port FIFO. It never fails and does not allocate, so it is safe to
// use as the fault report sink.
//
//go:nowritebarrierrec
//go:nosplit
func (v *Port) Write(p []byte) (int, error) {
	ready := &regs.stim[v.n]
	out := &stim8[v.n*4]
	for _, b := range p {
		for ready.Load()&1 == 0 {
			// wait for fifo
		}
		out.Store(b)
	}
	return len(p), nil
}
