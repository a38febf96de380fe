package eu

import (
	"fmt"
	"strings"
)

// RegFile is a register file code.
type RegFile uint32

//go:generate go tool stringer -linecomment -type=RegFile
const (
	FILE_ARF = RegFile(0) // arf
	FILE_GRF = RegFile(1) // grf
	FILE_MRF = RegFile(2) // mrf
	FILE_IMM = RegFile(3) // imm
)

// Architecture register classes, in the high nibble of an ARF number.
const (
	ARF_NULL               = 0x00
	ARF_ADDRESS            = 0x10
	ARF_ACCUMULATOR        = 0x20
	ARF_FLAG               = 0x30
	ARF_MASK               = 0x40
	ARF_MASK_STACK         = 0x50
	ARF_MASK_STACK_DEPTH   = 0x60
	ARF_STATE              = 0x70
	ARF_CONTROL            = 0x80
	ARF_NOTIFICATION_COUNT = 0x90
	ARF_IP                 = 0xa0
)

// RegType is an operand data type code.
//
// Register operands and immediates share the field but not the meaning
// of codes 5 and 6.
type RegType uint32

const (
	TYPE_UD = RegType(0)
	TYPE_D  = RegType(1)
	TYPE_UW = RegType(2)
	TYPE_W  = RegType(3)
	TYPE_UB = RegType(4)
	TYPE_B  = RegType(5) // Register only.
	TYPE_VF = RegType(5) // Immediate only.
	TYPE_V  = RegType(6) // Immediate only.
	TYPE_F  = RegType(7)
)

// String returns the register type suffix, such as "UD".
func (typ RegType) String() string {
	text, ok := ctrlRegType.lookup(uint32(typ))
	if !ok {
		return fmt.Sprintf("RegType(%d)", uint32(typ))
	}
	return text
}

// MsgTarget is the shared function a send message is routed to.
type MsgTarget uint32

//go:generate go tool stringer -linecomment -type=MsgTarget
const (
	MSG_TARGET_NULL           = MsgTarget(0) // null
	MSG_TARGET_MATH           = MsgTarget(1) // math
	MSG_TARGET_SAMPLER        = MsgTarget(2) // sampler
	MSG_TARGET_GATEWAY        = MsgTarget(3) // gateway
	MSG_TARGET_DATAPORT_READ  = MsgTarget(4) // read
	MSG_TARGET_DATAPORT_WRITE = MsgTarget(5) // write
	MSG_TARGET_URB            = MsgTarget(6) // urb
	MSG_TARGET_THREAD_SPAWNER = MsgTarget(7) // thread_spawner
)

// CondMod is a conditional modifier code.
type CondMod uint32

const (
	COND_NONE = CondMod(0)
	COND_Z    = CondMod(1)
	COND_NZ   = CondMod(2)
	COND_G    = CondMod(3)
	COND_GE   = CondMod(4)
	COND_L    = CondMod(5)
	COND_LE   = CondMod(6)
	COND_C    = CondMod(7)
	COND_O    = CondMod(8)
	COND_U    = CondMod(9)
)

// AccessMode selects the operand addressing layout.
type AccessMode uint32

const (
	ALIGN_1  = AccessMode(0)
	ALIGN_16 = AccessMode(1)
)

// Predicate control codes. Codes above PRED_NORMAL depend on the access mode.
const (
	PRED_NONE          = 0
	PRED_NORMAL        = 1
	PRED_ALIGN1_ANYV   = 2
	PRED_ALIGN1_ALLV   = 3
	PRED_ALIGN1_ANY2H  = 4
	PRED_ALIGN1_ALL2H  = 5
	PRED_ALIGN1_ANY4H  = 6
	PRED_ALIGN1_ALL4H  = 7
	PRED_ALIGN1_ANY8H  = 8
	PRED_ALIGN1_ALL8H  = 9
	PRED_ALIGN1_ANY16H = 10
	PRED_ALIGN1_ALL16H = 11
	PRED_ALIGN16_X     = 2
	PRED_ALIGN16_Y     = 3
	PRED_ALIGN16_Z     = 4
	PRED_ALIGN16_W     = 5
	PRED_ALIGN16_ANY4H = 6
	PRED_ALIGN16_ALL4H = 7
)

// Dependency control flags.
const (
	DEP_NODDCLR = 1
	DEP_NODDCHK = 2
)

// Compression control codes.
const (
	COMPR_NONE    = 0
	COMPR_SECHALF = 1
	COMPR_COMPR   = 2
)

// Thread control codes.
const (
	THREAD_NONE   = 0
	THREAD_SWITCH = 2
)

// Sampler return formats.
const (
	RETURN_FORMAT_F  = 0
	RETURN_FORMAT_UD = 2
	RETURN_FORMAT_D  = 3
)

// control maps the codes of one sub-field to their text. Codes that are
// reserved have no entry.
type control struct {
	name string
	text map[uint32]string
}

// lookup returns the text of a code.
func (c control) lookup(code uint32) (text string, ok bool) {
	text, ok = c.text[code]
	return
}

// parse returns the code of a text, ignoring case.
func (c control) parse(text string) (code uint32, ok bool) {
	for code, name := range c.text {
		if len(name) > 0 && strings.EqualFold(name, text) {
			return code, true
		}
	}
	return
}

var (
	ctrlCondMod = control{"conditional modifier", map[uint32]string{
		uint32(COND_NONE): "",
		uint32(COND_Z):    ".z",
		uint32(COND_NZ):   ".nz",
		uint32(COND_G):    ".g",
		uint32(COND_GE):   ".ge",
		uint32(COND_L):    ".l",
		uint32(COND_LE):   ".le",
		uint32(COND_C):    ".c",
		uint32(COND_O):    ".o",
		uint32(COND_U):    ".u",
	}}
	ctrlSaturate = control{"saturate", map[uint32]string{
		0: "",
		1: ".sat",
	}}
	ctrlDebug = control{"debug control", map[uint32]string{
		0: "",
		1: ".breakpoint",
	}}
	ctrlExecSize = control{"execution size", map[uint32]string{
		0: "1",
		1: "2",
		2: "4",
		3: "8",
		4: "16",
		5: "32",
	}}
	ctrlPredInverse = control{"predicate inverse", map[uint32]string{
		0: "+",
		1: "-",
	}}
	ctrlPredAlign1 = control{"predicate control align1", map[uint32]string{
		PRED_NONE:          "",
		PRED_NORMAL:        "f0",
		PRED_ALIGN1_ANYV:   "f0.anyv",
		PRED_ALIGN1_ALLV:   "f0.allv",
		PRED_ALIGN1_ANY2H:  "f0.any2h",
		PRED_ALIGN1_ALL2H:  "f0.all2h",
		PRED_ALIGN1_ANY4H:  "f0.any4h",
		PRED_ALIGN1_ALL4H:  "f0.all4h",
		PRED_ALIGN1_ANY8H:  "f0.any8h",
		PRED_ALIGN1_ALL8H:  "f0.all8h",
		PRED_ALIGN1_ANY16H: "f0.any16h",
		PRED_ALIGN1_ALL16H: "f0.all16h",
	}}
	ctrlPredAlign16 = control{"predicate control align16", map[uint32]string{
		PRED_NONE:          "",
		PRED_NORMAL:        "f0",
		PRED_ALIGN16_X:     "f0.x",
		PRED_ALIGN16_Y:     "f0.y",
		PRED_ALIGN16_Z:     "f0.z",
		PRED_ALIGN16_W:     "f0.w",
		PRED_ALIGN16_ANY4H: "f0.any4h",
		PRED_ALIGN16_ALL4H: "f0.all4h",
	}}
	ctrlThread = control{"thread control", map[uint32]string{
		THREAD_NONE:   "",
		THREAD_SWITCH: "switch",
	}}
	ctrlCompression = control{"compression control", map[uint32]string{
		COMPR_NONE:    "",
		COMPR_SECHALF: "sechalf",
		COMPR_COMPR:   "compr",
	}}
	ctrlDependency = control{"dependency control", map[uint32]string{
		0:                         "",
		DEP_NODDCLR:               "NoDDClr",
		DEP_NODDCHK:               "NoDDChk",
		DEP_NODDCLR | DEP_NODDCHK: "NoDDClr,NoDDChk",
	}}
	ctrlMask = control{"mask control", map[uint32]string{
		0: "",
		1: "nomask",
	}}
	ctrlAccessMode = control{"access mode", map[uint32]string{
		uint32(ALIGN_1):  "align1",
		uint32(ALIGN_16): "align16",
	}}
	ctrlAccWr = control{"accumulator write control", map[uint32]string{
		0: "",
		1: "AccWrEnable",
	}}
	ctrlRegFile = control{"reg file", map[uint32]string{
		uint32(FILE_ARF): "A",
		uint32(FILE_GRF): "g",
		uint32(FILE_MRF): "m",
		uint32(FILE_IMM): "imm",
	}}
	ctrlRegType = control{"reg encoding", map[uint32]string{
		uint32(TYPE_UD): "UD",
		uint32(TYPE_D):  "D",
		uint32(TYPE_UW): "UW",
		uint32(TYPE_W):  "W",
		uint32(TYPE_UB): "UB",
		uint32(TYPE_B):  "B",
		uint32(TYPE_F):  "F",
	}}
	ctrlImmType = control{"imm encoding", map[uint32]string{
		uint32(TYPE_UD): "UD",
		uint32(TYPE_D):  "D",
		uint32(TYPE_UW): "UW",
		uint32(TYPE_W):  "W",
		uint32(TYPE_UB): "UB",
		uint32(TYPE_VF): "VF",
		uint32(TYPE_V):  "V",
		uint32(TYPE_F):  "F",
	}}
	ctrlVertStride = control{"vert stride", map[uint32]string{
		0:  "0",
		1:  "1",
		2:  "2",
		3:  "4",
		4:  "8",
		5:  "16",
		6:  "32",
		15: "VxH",
	}}
	ctrlWidth = control{"width", map[uint32]string{
		0: "1",
		1: "2",
		2: "4",
		3: "8",
		4: "16",
	}}
	ctrlHorizStride = control{"horiz stride", map[uint32]string{
		0: "0",
		1: "1",
		2: "2",
		3: "4",
	}}
	ctrlEndOfThread = control{"end of thread", map[uint32]string{
		0: "",
		1: "EOT",
	}}
	ctrlMsgTarget = control{"target function", map[uint32]string{
		uint32(MSG_TARGET_NULL):           MSG_TARGET_NULL.String(),
		uint32(MSG_TARGET_MATH):           MSG_TARGET_MATH.String(),
		uint32(MSG_TARGET_SAMPLER):        MSG_TARGET_SAMPLER.String(),
		uint32(MSG_TARGET_GATEWAY):        MSG_TARGET_GATEWAY.String(),
		uint32(MSG_TARGET_DATAPORT_READ):  MSG_TARGET_DATAPORT_READ.String(),
		uint32(MSG_TARGET_DATAPORT_WRITE): MSG_TARGET_DATAPORT_WRITE.String(),
		uint32(MSG_TARGET_URB):            MSG_TARGET_URB.String(),
		uint32(MSG_TARGET_THREAD_SPAWNER): MSG_TARGET_THREAD_SPAWNER.String(),
	}}
	ctrlReturnFormat = control{"sampler target format", map[uint32]string{
		RETURN_FORMAT_F:  "F",
		RETURN_FORMAT_UD: "UD",
		RETURN_FORMAT_D:  "D",
	}}
)

// ParseRegType returns the register type named by a suffix such as "UD".
func ParseRegType(name string) (RegType, bool) {
	code, ok := ctrlRegType.parse(name)
	return RegType(code), ok
}

// ParseImmType returns the immediate type named by a suffix such as "VF".
func ParseImmType(name string) (RegType, bool) {
	code, ok := ctrlImmType.parse(name)
	return RegType(code), ok
}

// ParseCondMod returns the conditional modifier of a mnemonic suffix,
// with or without its leading dot. "e" and "ne" style aliases are accepted.
func ParseCondMod(name string) (CondMod, bool) {
	name = strings.TrimPrefix(strings.ToLower(name), ".")
	switch name {
	case "e", "eq":
		return COND_Z, true
	case "ne", "neq":
		return COND_NZ, true
	case "r":
		return COND_C, true
	}
	code, ok := ctrlCondMod.parse("." + name)
	return CondMod(code), ok
}

// ParsePredicate returns the predicate control code of a predicate name
// such as "f0.any4h", using the table of the access mode.
func ParsePredicate(mode AccessMode, name string) (uint32, bool) {
	if mode == ALIGN_16 {
		return ctrlPredAlign16.parse(name)
	}
	return ctrlPredAlign1.parse(name)
}

// ParseMsgTarget returns the message target of a send target name.
func ParseMsgTarget(name string) (MsgTarget, bool) {
	code, ok := ctrlMsgTarget.parse(name)
	return MsgTarget(code), ok
}

// ParseReturnFormat returns the sampler return format code of a type name.
func ParseReturnFormat(name string) (uint32, bool) {
	return ctrlReturnFormat.parse(name)
}
