package fault

// Status holds the Configurable Fault Status Register (CFSR). It packs
// three sub-fields: MMFSR in byte 0, BFSR in byte 1 and UFSR in the upper
// halfword. Multiple cause bits can be latched at once.
type Status uint32

// MMFSR, memory management faults
const (
	IACCVIOL  Status = 1 << 0 // instruction access violation
	DACCVIOL  Status = 1 << 1 // data access violation
	MUNSTKERR Status = 1 << 3 // fault while unstacking on exception return
	MSTKERR   Status = 1 << 4 // fault while stacking on exception entry
	MLSPERR   Status = 1 << 5 // fault during lazy FP state preservation
	MMARVALID Status = 1 << 7 // MMFAR holds the faulting address
)

// BFSR, bus faults
const (
	IBUSERR     Status = 1 << 8  // bus error on instruction prefetch
	PRECISERR   Status = 1 << 9  // data bus error, stacked PC points at the access
	IMPRECISERR Status = 1 << 10 // data bus error, asynchronous to the stacked PC
	UNSTKERR    Status = 1 << 11 // bus error while unstacking on exception return
	STKERR      Status = 1 << 12 // bus error while stacking on exception entry
	LSPERR      Status = 1 << 13 // bus error during lazy FP state preservation
	BFARVALID   Status = 1 << 15 // BFAR holds the faulting address
)

// UFSR, usage faults
const (
	UNDEFINSTR Status = 1 << 16 // undefined instruction
	INVSTATE   Status = 1 << 17 // invalid EPSR state, e.g. branch with bit 0 clear
	INVPC      Status = 1 << 18 // invalid EXC_RETURN value
	NOCP       Status = 1 << 19 // coprocessor absent or disabled
	UNALIGNED  Status = 1 << 24 // unaligned access with trapping enabled
	DIVBYZERO  Status = 1 << 25 // SDIV/UDIV by zero with trapping enabled
)

// HardStatus holds the HardFault Status Register (HFSR).
type HardStatus uint32

const (
	VECTTBL  HardStatus = 1 << 1  // bus error on a vector table read
	FORCED   HardStatus = 1 << 30 // configurable fault escalated to hard fault
	DEBUGEVT HardStatus = 1 << 31 // debug event while debug is disabled
)

type descriptor struct {
	mask Status
	name string
}

type hardDescriptor struct {
	mask HardStatus
	name string
}

// Bit descriptor tables, one per status sub-field. Enumeration order is
// fixed: the address validity bit first, then the cause bits from high to
// low, the order the architecture reference lists them in.
var (
	memManageBits = [...]descriptor{
		{MMARVALID, "MMARVALID"},
		{MLSPERR, "MLSPERR"},
		{MSTKERR, "MSTKERR"},
		{MUNSTKERR, "MUNSTKERR"},
		{DACCVIOL, "DACCVIOL"},
		{IACCVIOL, "IACCVIOL"},
	}

	busBits = [...]descriptor{
		{BFARVALID, "BFARVALID"},
		{LSPERR, "LSPERR"},
		{STKERR, "STKERR"},
		{UNSTKERR, "UNSTKERR"},
		{IMPRECISERR, "IMPRECISERR"},
		{PRECISERR, "PRECISERR"},
		{IBUSERR, "IBUSERR"},
	}

	usageBits = [...]descriptor{
		{DIVBYZERO, "DIVBYZERO"},
		{UNALIGNED, "UNALIGNED"},
		{NOCP, "NOCP"},
		{INVPC, "INVPC"},
		{INVSTATE, "INVSTATE"},
		{UNDEFINSTR, "UNDEFINSTR"},
	}

	hardBits = [...]hardDescriptor{
		{DEBUGEVT, "DEBUGEVT"},
		{FORCED, "FORCED"},
		{VECTTBL, "VECTTBL"},
	}
)
