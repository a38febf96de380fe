package eu

import (
	"errors"
	"strings"

	"github.com/ezrec/gen4asm/translate"
)

var f = translate.From

var (
	ErrDestImmediate     = errors.New(f("destination cannot be an immediate"))
	ErrImmediatePosition = errors.New(f("only the last source can be an immediate"))
	ErrSendMissing       = errors.New(f("send without message descriptor"))
	ErrSendImmediate     = errors.New(f("send source cannot be an immediate"))
	ErrVectorFloat       = errors.New(f("value not representable as a vector float element"))
)

// ErrOpcode is returned when an opcode has no entry in the opcode table.
type ErrOpcode Opcode

func (eo ErrOpcode) Error() string {
	return f("unknown opcode %d", uint32(eo))
}

// ErrArity reports an operand count that does not match the opcode table.
type ErrArity struct {
	Opcode   Opcode
	Sources  int
	Expected int
}

func (err ErrArity) Error() string {
	return f("%v takes %d source(s), got %d", err.Opcode, err.Expected, err.Sources)
}

// ErrFieldRange reports a value that cannot be encoded into a field.
type ErrFieldRange struct {
	Field string
	Value int64
}

func (err ErrFieldRange) Error() string {
	return f("%v value %d out of range", err.Field, err.Value)
}

// ErrDisasm lists the fields that did not decode.
type ErrDisasm []string

func (err ErrDisasm) Error() string {
	return f("invalid %v", strings.Join(err, ", "))
}
