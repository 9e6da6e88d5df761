//go:build noos

// Package scb provides access to the System Control Block registers that
// hold the Cortex-M fault state.
package scb

import (
	"embedded/mmio"
	"unsafe"

	"github.com/kroesche/cmfault/fault"
)

var regs *registers = (*registers)(unsafe.Pointer(baseAddr))

// System handler and fault status block, SHCSR through AFSR
const baseAddr uintptr = 0xe000_ed24

type registers struct {
	shcsr mmio.U32
	cfsr  mmio.R32[fault.Status]
	hfsr  mmio.R32[fault.HardStatus]
	dfsr  mmio.U32
	mmfar mmio.U32
	bfar  mmio.U32
	afsr  mmio.U32
}

type faultRegs struct{}

// Regs returns a [fault.Regs] backed by the live SCB registers.
func Regs() fault.Regs { return faultRegs{} }

//go:nosplit
func (faultRegs) CFSR() uint32 { return uint32(regs.cfsr.Load()) }

//go:nosplit
func (faultRegs) HFSR() uint32 { return uint32(regs.hfsr.Load()) }

//go:nosplit
func (faultRegs) MMFAR() uint32 { return regs.mmfar.Load() }

//go:nosplit
func (faultRegs) BFAR() uint32 { return regs.bfar.Load() }
