package eu

// Word is one instruction, as four little-endian 32-bit lanes.
type Word [4]uint32

// Field is a bit range inside one lane of a Word.
type Field struct {
	Name  string
	Lane  uint8
	Shift uint8
	Width uint8
}

// Mask returns the unshifted mask of the field.
func (fd Field) Mask() uint32 {
	return uint32((uint64(1) << fd.Width) - 1)
}

// Header lane.
var (
	FieldOpcode             = Field{"opcode", 0, 0, 7}
	FieldAccessMode         = Field{"access mode", 0, 8, 1}
	FieldMaskControl        = Field{"mask control", 0, 9, 1}
	FieldDependencyControl  = Field{"dependency control", 0, 10, 2}
	FieldCompressionControl = Field{"compression control", 0, 12, 2}
	FieldThreadControl      = Field{"thread control", 0, 14, 2}
	FieldPredicateControl   = Field{"predicate control", 0, 16, 4}
	FieldPredicateInverse   = Field{"predicate inverse", 0, 20, 1}
	FieldExecutionSize      = Field{"execution size", 0, 21, 3}
	FieldDestRegCondMod     = Field{"conditional modifier", 0, 24, 4}
	FieldAccWrControl       = Field{"accumulator write control", 0, 28, 1}
	FieldDebugControl       = Field{"debug control", 0, 30, 1}
	FieldSaturate           = Field{"saturate", 0, 31, 1}
)

// Immediate and message payloads in the last lane.
var (
	FieldImmediate = Field{"immediate", 3, 0, 32}

	FieldResponseLength = Field{"response length", 3, 16, 4}
	FieldMsgLength      = Field{"message length", 3, 20, 4}
	FieldMsgTarget      = Field{"target function", 3, 24, 4}
	FieldEndOfThread    = Field{"end of thread", 3, 31, 1}

	FieldBindingTable = Field{"binding table index", 3, 0, 8}

	FieldSampler      = Field{"sampler", 3, 8, 4}
	FieldReturnFormat = Field{"sampler target format", 3, 12, 2}

	FieldWriteMsgControl = Field{"message control", 3, 8, 3}
	FieldScoreboardClear = Field{"pixel scoreboard clear", 3, 11, 1}
	FieldWriteMsgType    = Field{"message type", 3, 12, 3}
	FieldSendCommit      = Field{"send commit", 3, 15, 1}

	FieldReadMsgControl  = Field{"message control", 3, 8, 4}
	FieldReadMsgType     = Field{"message type", 3, 12, 2}
	FieldReadTargetCache = Field{"target cache", 3, 14, 2}

	FieldJumpCount = Field{"jump count", 3, 0, 16}
	FieldPopCount  = Field{"pop count", 3, 16, 4}
)

// destFields is the destination operand layout in lane 1.
type destFields struct {
	File, Type, SubReg, RegNr  Field
	IndirectOffset, AddrSubReg Field
	HorizStride, AddressMode   Field
}

// srcFields is the layout of one source operand.
type srcFields struct {
	File, Type, SubReg, RegNr      Field
	IndirectOffset, AddrSubReg     Field
	Abs, Negate, AddressMode       Field
	HorizStride, Width, VertStride Field
}

var dstLayout = destFields{
	File:           Field{"dest reg file", 1, 0, 2},
	Type:           Field{"dest reg encoding", 1, 2, 3},
	SubReg:         Field{"dest subreg", 1, 16, 5},
	RegNr:          Field{"dest reg", 1, 21, 8},
	IndirectOffset: Field{"dest indirect offset", 1, 16, 10},
	AddrSubReg:     Field{"dest address subreg", 1, 26, 3},
	HorizStride:    Field{"dest horiz stride", 1, 29, 2},
	AddressMode:    Field{"dest address mode", 1, 31, 1},
}

func srcLayoutOf(lane uint8, file, typ uint8) srcFields {
	return srcFields{
		File:           Field{"src reg file", 1, file, 2},
		Type:           Field{"src reg encoding", 1, typ, 3},
		SubReg:         Field{"src subreg", lane, 0, 5},
		RegNr:          Field{"src reg", lane, 5, 8},
		IndirectOffset: Field{"src indirect offset", lane, 0, 10},
		AddrSubReg:     Field{"src address subreg", lane, 10, 3},
		Abs:            Field{"src abs", lane, 13, 1},
		Negate:         Field{"src negate", lane, 14, 1},
		AddressMode:    Field{"src address mode", lane, 15, 1},
		HorizStride:    Field{"horiz stride", lane, 16, 2},
		Width:          Field{"width", lane, 18, 3},
		VertStride:     Field{"vert stride", lane, 21, 4},
	}
}

var srcLayout = [2]srcFields{
	srcLayoutOf(2, 5, 7),
	srcLayoutOf(3, 10, 12),
}

// Get returns the unsigned value of a field.
func (w Word) Get(fd Field) uint32 {
	return (w[fd.Lane] >> fd.Shift) & fd.Mask()
}

// GetSigned returns the sign-extended value of a field.
func (w Word) GetSigned(fd Field) int32 {
	shift := 32 - fd.Width
	return int32(w.Get(fd)<<shift) >> shift
}

// Set stores the low bits of value into a field, discarding the rest.
func (w *Word) Set(fd Field, value uint32) {
	mask := fd.Mask() << fd.Shift
	w[fd.Lane] = (w[fd.Lane] &^ mask) | ((value << fd.Shift) & mask)
}

// Put stores value into a field, failing if it does not fit.
func (w *Word) Put(fd Field, value uint32) error {
	if value&^fd.Mask() != 0 {
		return ErrFieldRange{Field: fd.Name, Value: int64(value)}
	}
	w.Set(fd, value)
	return nil
}

// PutSigned stores a two's complement value into a field, failing if it
// does not fit.
func (w *Word) PutSigned(fd Field, value int32) error {
	limit := int64(1) << (fd.Width - 1)
	if int64(value) < -limit || int64(value) >= limit {
		return ErrFieldRange{Field: fd.Name, Value: int64(value)}
	}
	w.Set(fd, uint32(value))
	return nil
}

// Opcode returns the opcode of the instruction.
func (w Word) Opcode() Opcode {
	return Opcode(w.Get(FieldOpcode))
}

// SetJump patches the branch distance of a flow control instruction.
//
// An else keeps the whole distance in lane 3 and then takes a pop count
// of one over bits 16..19, so its distance must fit the 16-bit jump count.
func (w *Word) SetJump(distance int32) (err error) {
	if w.Opcode() == OP_ELSE {
		var jump Word
		if err = jump.PutSigned(FieldJumpCount, distance); err != nil {
			return
		}
		w[FieldJumpCount.Lane] = uint32(distance)
		w.Set(FieldPopCount, 1)
		return
	}
	w[FieldImmediate.Lane] = uint32(distance)
	return
}
