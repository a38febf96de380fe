package eu

// AddrMode selects direct or register-indirect operand addressing.
type AddrMode uint32

const (
	ADDR_DIRECT   = AddrMode(0)
	ADDR_INDIRECT = AddrMode(1)
)

// VXH is the vertical stride of a VxH (one address per element) region.
const VXH = -1

// Region describes how the lanes of a source are read, in elements.
// Destinations only use HorizStride.
type Region struct {
	VertStride  int
	Width       int
	HorizStride int
}

// Operand is a destination or source prior to encoding.
type Operand struct {
	File  RegFile
	Nr    uint32 // ARF numbers carry the register class in the high nibble.
	SubNr uint32 // Byte offset within the register.
	Type  RegType

	Mode      AddrMode
	AddrSubNr uint32 // Address register subregister, indirect only.
	Offset    int32  // Byte offset added to the address, indirect only.

	Region Region
	Negate bool
	Abs    bool

	Imm uint32 // Raw immediate bits when File is FILE_IMM.
}

// Send is the message descriptor of a send instruction.
type Send struct {
	MsgReg         uint32 // Message register, carried in the header.
	MsgLength      uint32
	ResponseLength uint32
	EndOfThread    bool
	Target         MsgTarget

	BindingTable uint32
	Sampler      uint32
	ReturnFormat uint32
	MsgControl   uint32 // Dataport write folds pixel scoreboard clear in bit 3.
	MsgType      uint32
	SendCommit   bool
	TargetCache  uint32
}

// Instruction is a decoded, not yet packed, instruction.
type Instruction struct {
	Opcode Opcode

	PredControl uint32
	PredInverse bool
	Saturate    bool
	Debug       bool
	ExecSize    int // Lanes: 1, 2, 4, 8, 16 or 32.
	CondMod     CondMod

	AccessMode    AccessMode
	NoMask        bool
	DepControl    uint32
	CompControl   uint32
	ThreadControl uint32
	AccWrEnable   bool

	Dest Operand
	Src  []Operand
	Send *Send
}

// Grf returns a direct general register operand with a unit region.
func Grf(nr, subnr uint32, typ RegType) Operand {
	return Operand{
		File:   FILE_GRF,
		Nr:     nr,
		SubNr:  subnr,
		Type:   typ,
		Region: Region{VertStride: 8, Width: 8, HorizStride: 1},
	}
}

// Mrf returns a direct message register operand with a unit region.
func Mrf(nr uint32, typ RegType) Operand {
	return Operand{
		File:   FILE_MRF,
		Nr:     nr,
		Type:   typ,
		Region: Region{VertStride: 8, Width: 8, HorizStride: 1},
	}
}

// Null returns the null architecture register.
func Null(typ RegType) Operand {
	return Operand{
		File:   FILE_ARF,
		Nr:     ARF_NULL,
		Type:   typ,
		Region: Region{VertStride: 8, Width: 8, HorizStride: 1},
	}
}

var (
	vertStrideCode  = map[int]uint32{0: 0, 1: 1, 2: 2, 4: 3, 8: 4, 16: 5, 32: 6, VXH: 15}
	widthCode       = map[int]uint32{1: 0, 2: 1, 4: 2, 8: 3, 16: 4}
	horizStrideCode = map[int]uint32{0: 0, 1: 1, 2: 2, 4: 3}
	execSizeCode    = map[int]uint32{1: 0, 2: 1, 4: 2, 8: 3, 16: 4, 32: 5}
)
