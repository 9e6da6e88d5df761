// Package fault decodes the state a Cortex-M core captures when it takes a
// hard fault: the exception stack frame pushed by the processor and the
// fault status and address registers. The decoder is a pure function of
// those values and runs on any host; reading the live registers is left to
// a [Regs] implementation, which tests can replace with fixed values.
//
// The report tells you what happened, not why. It also cannot help with
// faults that corrupt the stack before the frame is read, e.g. a stack
// overflow during exception stacking. That is a known limit of post-mortem
// decoding, not something this package tries to detect.
package fault

import "io"

// Frame is the exception stack frame the processor pushes on fault entry,
// in stacking order. It must be read before anything else is pushed to the
// faulted stack, since it lives in the stack memory itself.
type Frame struct {
	R0, R1, R2, R3 uint32
	R12            uint32
	LR             uint32
	PC             uint32
	PSR            uint32
}

// Regs reads the fault status and address registers. Reads cannot fail;
// they return whatever the hardware latched. The address registers hold
// stale or undefined content unless the matching validity bit is set in
// the CFSR, which is the reader's job to check.
type Regs interface {
	CFSR() uint32
	HFSR() uint32
	MMFAR() uint32
	BFAR() uint32
}

// Snapshot is one consistent capture of the fault state.
type Snapshot struct {
	Frame Frame
	CFSR  Status
	HFSR  HardStatus
	MMFAR uint32
	BFAR  uint32
}

// Take reads each fault register exactly once and combines the values with
// the stacked frame. Even if hardware state could change underneath, the
// resulting report reflects a single snapshot.
//
//go:nosplit
func Take(frame *Frame, regs Regs) Snapshot {
	return Snapshot{
		Frame: *frame,
		CFSR:  Status(regs.CFSR()),
		HFSR:  HardStatus(regs.HFSR()),
		MMFAR: regs.MMFAR(),
		BFAR:  regs.BFAR(),
	}
}

// Decode captures the fault state and renders it to w in one step.
func Decode(w io.Writer, frame *Frame, regs Regs) {
	s := Take(frame, regs)
	s.Print(w)
}

// BufLen is enough capacity for any rendered snapshot.
const BufLen = 512

const frameHeader = "   R0       R1       R2       R3      R12       LR       PC     xPSR"

// Append renders the snapshot and appends it to dst. It does not allocate
// if dst has enough capacity, so it can run inside the fault handler with
// a preallocated buffer.
//
// The fault address values are emitted unconditionally. They are only
// meaningful if MMARVALID resp. BFARVALID shows up in the matching status
// line, mirroring the hardware contract.
//
//go:nosplit
func (s *Snapshot) Append(dst []byte) []byte {
	dst = append(dst, "\n*** Fault occurred ***\n\n"...)
	dst = append(dst, "Stack Frame\n----------\n"...)
	dst = append(dst, frameHeader...)
	dst = append(dst, '\n')
	words := [8]uint32{
		s.Frame.R0, s.Frame.R1, s.Frame.R2, s.Frame.R3,
		s.Frame.R12, s.Frame.LR, s.Frame.PC, s.Frame.PSR,
	}
	for _, w := range words {
		dst = appendHex(dst, w)
		dst = append(dst, ' ')
	}
	dst = append(dst, "\n\n"...)

	dst = append(dst, "MMFSR:"...)
	dst = s.appendBits(dst, memManageBits[:])
	dst = append(dst, "\nMMFAR: "...)
	dst = appendHex(dst, s.MMFAR)

	dst = append(dst, "\n\nBFSR:"...)
	dst = s.appendBits(dst, busBits[:])
	dst = append(dst, "\nBFAR: "...)
	dst = appendHex(dst, s.BFAR)

	dst = append(dst, "\n\nUFSR:"...)
	dst = s.appendBits(dst, usageBits[:])

	dst = append(dst, "\n\nHFSR:"...)
	for _, d := range hardBits {
		if s.HFSR&d.mask != 0 {
			dst = append(dst, ' ')
			dst = append(dst, d.name...)
		}
	}
	return append(dst, "\n\n"...)
}

// appendBits emits the name of every set bit in the sub-field. All latched
// causes are reported, never just the first match.
//
//go:nosplit
func (s *Snapshot) appendBits(dst []byte, bits []descriptor) []byte {
	for _, d := range bits {
		if s.CFSR&d.mask != 0 {
			dst = append(dst, ' ')
			dst = append(dst, d.name...)
		}
	}
	return dst
}

// Print renders the snapshot to w. Output is best effort: a nil writer and
// write errors are silently ignored. It stacks a full render buffer, so it
// is meant for hosted use; the fault handler calls [Snapshot.Append] with a
// static buffer instead.
func (s *Snapshot) Print(w io.Writer) {
	if w == nil {
		return
	}
	var buf [BufLen]byte
	w.Write(s.Append(buf[:0]))
}

// appendHex appends v as exactly 8 uppercase hex digits.
//
//go:nosplit
func appendHex(dst []byte, v uint32) []byte {
	var buf [8]byte
	for i := range buf {
		char := byte(v>>(28-4*i)) & 0xf
		if char > 9 {
			char += 'A' - 10
		} else {
			char += '0'
		}
		buf[i] = char
	}
	return append(dst, buf[:]...)
}
