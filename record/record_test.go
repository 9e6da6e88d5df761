package record_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kroesche/cmfault/fault"
	"github.com/kroesche/cmfault/record"
)

func sample() fault.Snapshot {
	return fault.Snapshot{
		Frame: fault.Frame{
			R0: 0x1, R1: 0x2, R2: 0x2000_0000, R3: 0xdead_beef,
			R12: 0x1234_5678, LR: 0xffff_fff9, PC: 0x0800_01a2, PSR: 0x2100_0003,
		},
		CFSR:  fault.BFARVALID | fault.PRECISERR,
		HFSR:  fault.FORCED,
		MMFAR: 0xe000_ed34,
		BFAR:  0x07ba_dadd,
	}
}

func TestRoundtrip(t *testing.T) {
	assert := assert.New(t)

	want := sample()
	line := string(record.Append(nil, &want))

	assert.True(strings.HasPrefix(line, record.Prefix))
	assert.True(strings.HasSuffix(line, "\n"))
	assert.True(record.IsRecord(line))

	got, err := record.Parse(line)
	require.NoError(t, err)
	assert.Equal(want, got)
}

func TestLineIsPrintable(t *testing.T) {
	s := sample()
	line := record.Append(nil, &s)
	for _, b := range line[:len(line)-1] {
		if b < 0x20 || b > 0x7e {
			t.Fatalf("record contains unprintable byte %#02x", b)
		}
	}
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	s := sample()
	line := string(record.Append(nil, &s))

	_, err := record.Parse("some console output")
	assert.ErrorIs(err, record.ErrPrefix)

	_, err = record.Parse(record.Prefix + "00ff")
	assert.ErrorIs(err, record.ErrLength)

	_, err = record.Parse(record.Prefix + "zz")
	assert.Error(err)
	assert.NotErrorIs(err, record.ErrPrefix)

	// flip one payload bit
	corrupt := []byte(line)
	if corrupt[len(record.Prefix)] == '0' {
		corrupt[len(record.Prefix)] = '1'
	} else {
		corrupt[len(record.Prefix)] = '0'
	}
	_, err = record.Parse(string(corrupt))
	assert.ErrorIs(err, record.ErrChecksum)
}

func TestIsRecordToleratesWhitespace(t *testing.T) {
	s := sample()
	line := "\r" + string(record.Append(nil, &s))
	assert.True(t, record.IsRecord("  "+line))

	got, err := record.Parse("  " + line)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestAppendDoesNotAllocateWithCapacity(t *testing.T) {
	s := sample()
	buf := make([]byte, 0, fault.BufLen)
	allocs := testing.AllocsPerRun(100, func() {
		_ = record.Append(buf, &s)
	})
	assert.Zero(t, allocs)
}
