package eu

import (
	"fmt"
	"strings"
)

// Opcode is the 7-bit operation code of an instruction.
type Opcode uint32

const (
	OP_ILLEGAL  = Opcode(0)
	OP_MOV      = Opcode(1)
	OP_SEL      = Opcode(2)
	OP_NOT      = Opcode(4)
	OP_AND      = Opcode(5)
	OP_OR       = Opcode(6)
	OP_XOR      = Opcode(7)
	OP_SHR      = Opcode(8)
	OP_SHL      = Opcode(9)
	OP_ASR      = Opcode(12)
	OP_CMP      = Opcode(16)
	OP_CMPN     = Opcode(17)
	OP_JMPI     = Opcode(32)
	OP_IF       = Opcode(34)
	OP_IFF      = Opcode(35)
	OP_ELSE     = Opcode(36)
	OP_ENDIF    = Opcode(37)
	OP_DO       = Opcode(38)
	OP_WHILE    = Opcode(39)
	OP_BREAK    = Opcode(40)
	OP_CONTINUE = Opcode(41)
	OP_HALT     = Opcode(42)
	OP_MSAVE    = Opcode(44)
	OP_MRESTORE = Opcode(45)
	OP_PUSH     = Opcode(46)
	OP_POP      = Opcode(47)
	OP_WAIT     = Opcode(48)
	OP_SEND     = Opcode(49)
	OP_ADD      = Opcode(64)
	OP_MUL      = Opcode(65)
	OP_AVG      = Opcode(66)
	OP_FRC      = Opcode(67)
	OP_RNDU     = Opcode(68)
	OP_RNDD     = Opcode(69)
	OP_RNDE     = Opcode(70)
	OP_RNDZ     = Opcode(71)
	OP_MAC      = Opcode(72)
	OP_MACH     = Opcode(73)
	OP_LZD      = Opcode(74)
	OP_SAD2     = Opcode(80)
	OP_SADA2    = Opcode(81)
	OP_DP4      = Opcode(84)
	OP_DPH      = Opcode(85)
	OP_DP3      = Opcode(86)
	OP_DP2      = Opcode(87)
	OP_LINE     = Opcode(89)
	OP_NOP      = Opcode(126)
)

// OpInfo is the mnemonic and operand arity of an opcode.
type OpInfo struct {
	Name    string
	Sources int // 0, 1 or 2
	Dests   int // 0 or 1
}

var opcodeTable = map[Opcode]OpInfo{
	OP_MOV:  {"mov", 1, 1},
	OP_FRC:  {"frc", 1, 1},
	OP_RNDU: {"rndu", 1, 1},
	OP_RNDD: {"rndd", 1, 1},
	OP_RNDE: {"rnde", 1, 1},
	OP_RNDZ: {"rndz", 1, 1},
	OP_NOT:  {"not", 1, 1},
	OP_LZD:  {"lzd", 1, 1},

	OP_MUL:   {"mul", 2, 1},
	OP_MAC:   {"mac", 2, 1},
	OP_MACH:  {"mach", 2, 1},
	OP_LINE:  {"line", 2, 1},
	OP_SAD2:  {"sad2", 2, 1},
	OP_SADA2: {"sada2", 2, 1},
	OP_DP4:   {"dp4", 2, 1},
	OP_DPH:   {"dph", 2, 1},
	OP_DP3:   {"dp3", 2, 1},
	OP_DP2:   {"dp2", 2, 1},

	OP_AVG:  {"avg", 2, 1},
	OP_ADD:  {"add", 2, 1},
	OP_SEL:  {"sel", 2, 1},
	OP_AND:  {"and", 2, 1},
	OP_OR:   {"or", 2, 1},
	OP_XOR:  {"xor", 2, 1},
	OP_SHR:  {"shr", 2, 1},
	OP_SHL:  {"shl", 2, 1},
	OP_ASR:  {"asr", 2, 1},
	OP_CMP:  {"cmp", 2, 1},
	OP_CMPN: {"cmpn", 2, 1},

	OP_SEND:     {"send", 1, 1},
	OP_NOP:      {"nop", 0, 0},
	OP_JMPI:     {"jmpi", 1, 0},
	OP_IF:       {"if", 2, 0},
	OP_IFF:      {"iff", 1, 1},
	OP_WHILE:    {"while", 1, 0},
	OP_ELSE:     {"else", 1, 0},
	OP_BREAK:    {"break", 1, 0},
	OP_CONTINUE: {"cont", 1, 0},
	OP_HALT:     {"halt", 1, 0},
	OP_MSAVE:    {"msave", 1, 1},
	OP_PUSH:     {"push", 1, 1},
	OP_MRESTORE: {"mrest", 1, 1},
	OP_POP:      {"pop", 2, 0},
	OP_WAIT:     {"wait", 1, 0},
	OP_DO:       {"do", 0, 0},
	OP_ENDIF:    {"endif", 0, 0},
}

var mnemonicTable = func() map[string]Opcode {
	table := make(map[string]Opcode, len(opcodeTable))
	for op, info := range opcodeTable {
		table[info.Name] = op
	}
	return table
}()

// Info returns the table entry of the opcode.
func (op Opcode) Info() (info OpInfo, ok bool) {
	info, ok = opcodeTable[op]
	return
}

// String returns the mnemonic, or a placeholder for unknown opcodes.
func (op Opcode) String() string {
	info, ok := opcodeTable[op]
	if !ok {
		return fmt.Sprintf("Opcode(%d)", uint32(op))
	}
	return info.Name
}

// LookupOpcode finds an opcode by mnemonic, ignoring case.
func LookupOpcode(name string) (op Opcode, ok bool) {
	op, ok = mnemonicTable[strings.ToLower(name)]
	return
}
