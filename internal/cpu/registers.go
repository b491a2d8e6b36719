package cpu

import "fmt"

// Reg8 identifies one of the 8080's 8-bit operands using the same 3-bit
// encoding the instruction set itself uses: B=0, C=1, D=2, E=3, H=4, L=5,
// M=6 (memory at HL, not a real register), A=7. Using a closed enum here
// instead of a string name keeps every register access statically checked.
type Reg8 uint8

const (
	RegB Reg8 = 0
	RegC Reg8 = 1
	RegD Reg8 = 2
	RegE Reg8 = 3
	RegH Reg8 = 4
	RegL Reg8 = 5
	RegM Reg8 = 6 // pseudo-register: memory[HL]; valid only for operand()/setOperand()
	RegA Reg8 = 7
)

func (r Reg8) String() string {
	switch r {
	case RegB:
		return "B"
	case RegC:
		return "C"
	case RegD:
		return "D"
	case RegE:
		return "E"
	case RegH:
		return "H"
	case RegL:
		return "L"
	case RegM:
		return "M"
	case RegA:
		return "A"
	default:
		return fmt.Sprintf("Reg8(%d)", uint8(r))
	}
}

// RegPair identifies one of the 16-bit register pairs. PC is intentionally
// excluded — it has dedicated PC()/SetPC() accessors since it is never an
// operand of LXI/PUSH/POP/DAD in the way BC/DE/HL/SP/PSW are.
type RegPair uint8

const (
	PairBC RegPair = iota
	PairDE
	PairHL
	PairSP
	PairPSW
)

func (p RegPair) String() string {
	switch p {
	case PairBC:
		return "BC"
	case PairDE:
		return "DE"
	case PairHL:
		return "HL"
	case PairSP:
		return "SP"
	case PairPSW:
		return "PSW"
	default:
		return fmt.Sprintf("RegPair(%d)", uint8(p))
	}
}

// FlagBit identifies one of the five 8080 condition flags.
type FlagBit uint8

const (
	FlagS FlagBit = iota
	FlagZ
	FlagAC
	FlagP
	FlagCY
)

func (k FlagBit) String() string {
	switch k {
	case FlagS:
		return "S"
	case FlagZ:
		return "Z"
	case FlagAC:
		return "AC"
	case FlagP:
		return "P"
	case FlagCY:
		return "CY"
	default:
		return fmt.Sprintf("FlagBit(%d)", uint8(k))
	}
}

// ParseReg8 translates a user-typed register name into its enum constant.
// It is for callers that read register names as text; the core API never
// takes a string.
func ParseReg8(name string) (Reg8, bool) {
	switch name {
	case "B":
		return RegB, true
	case "C":
		return RegC, true
	case "D":
		return RegD, true
	case "E":
		return RegE, true
	case "H":
		return RegH, true
	case "L":
		return RegL, true
	case "A":
		return RegA, true
	default:
		return 0, false
	}
}

// ParseRegPair is the RegPair counterpart of ParseReg8.
func ParseRegPair(name string) (RegPair, bool) {
	switch name {
	case "BC":
		return PairBC, true
	case "DE":
		return PairDE, true
	case "HL":
		return PairHL, true
	case "SP":
		return PairSP, true
	case "PSW":
		return PairPSW, true
	default:
		return 0, false
	}
}
