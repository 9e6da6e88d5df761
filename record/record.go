// Package record encodes a fault snapshot as a single printable line, so a
// host watching the target's console can pick the capture out of the log
// and decode it again, even when the pretty report scrolled away or got
// mangled. The payload is the 12 captured words big endian plus a CRC-8
// guard byte, hex armored behind a fixed prefix.
package record

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/sigurn/crc8"

	"github.com/kroesche/cmfault/fault"
)

var (
	ErrPrefix   = errors.New("not a fault record")
	ErrLength   = errors.New("invalid fault record length")
	ErrChecksum = errors.New("checksum mismatch")
)

// Prefix marks a fault record line.
const Prefix = "!FLT1:"

const rawLen = 12*4 + 1 // 12 words and the guard byte

var crcTable = crc8.MakeTable(crc8.Params{Poly: 0x07, Init: 0x00, RefIn: false, RefOut: false, XorOut: 0x00, Check: 0xf4, Name: "CRC-8"})

//go:nosplit
func words(s *fault.Snapshot) [12]uint32 {
	return [12]uint32{
		s.Frame.R0, s.Frame.R1, s.Frame.R2, s.Frame.R3,
		s.Frame.R12, s.Frame.LR, s.Frame.PC, s.Frame.PSR,
		uint32(s.CFSR), uint32(s.HFSR), s.MMFAR, s.BFAR,
	}
}

// Append appends the encoded record line, trailing newline included, to
// dst. It does not allocate if dst has enough capacity, so the fault
// handler can emit records from a preallocated buffer.
//
//go:nosplit
func Append(dst []byte, s *fault.Snapshot) []byte {
	var raw [rawLen]byte
	for i, w := range words(s) {
		binary.BigEndian.PutUint32(raw[4*i:], w)
	}
	raw[rawLen-1] = crc8.Checksum(raw[:rawLen-1], crcTable)

	dst = append(dst, Prefix...)
	for _, b := range raw {
		dst = append(dst, hexDigit(b>>4), hexDigit(b&0xf))
	}
	return append(dst, '\n')
}

//go:nosplit
func hexDigit(v byte) byte {
	if v > 9 {
		return v + 'a' - 10
	}
	return v + '0'
}

// IsRecord reports whether line looks like a fault record.
func IsRecord(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), Prefix)
}

// Parse decodes a record line produced by [Append].
func Parse(line string) (fault.Snapshot, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), Prefix)
	if !ok {
		return fault.Snapshot{}, ErrPrefix
	}
	raw, err := hex.DecodeString(rest)
	if err != nil {
		return fault.Snapshot{}, fmt.Errorf("fault record: %w", err)
	}
	if len(raw) != rawLen {
		return fault.Snapshot{}, ErrLength
	}
	if crc8.Checksum(raw[:rawLen-1], crcTable) != raw[rawLen-1] {
		return fault.Snapshot{}, ErrChecksum
	}

	var w [12]uint32
	for i := range w {
		w[i] = binary.BigEndian.Uint32(raw[4*i:])
	}
	return fault.Snapshot{
		Frame: fault.Frame{
			R0: w[0], R1: w[1], R2: w[2], R3: w[3],
			R12: w[4], LR: w[5], PC: w[6], PSR: w[7],
		},
		CFSR:  fault.Status(w[8]),
		HFSR:  fault.HardStatus(w[9]),
		MMFAR: w[10],
		BFAR:  w[11],
	}, nil
}
