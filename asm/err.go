package asm

import (
	"errors"

	"github.com/ezrec/gen4asm/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrCommentLonely     = errors.New(f("/* without */"))
	ErrDeclareSyntax     = errors.New(f(".declare syntax"))
	ErrEquateSyntax      = errors.New(f(".equ syntax"))
	ErrEquateDuplicate   = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate    = errors.New(f("label duplicated"))
	ErrSemicolonMissing  = errors.New(f("';' missing"))
	ErrOpcodeMissing     = errors.New(f("opcode missing"))
	ErrExecSizeMissing   = errors.New(f("execution size missing"))
	ErrPredicateInvalid  = errors.New(f("predicate invalid"))
	ErrRegionInvalid     = errors.New(f("region invalid"))
	ErrOperandMissing    = errors.New(f("operand missing"))
	ErrIndirectInvalid   = errors.New(f("indirect address invalid"))
	ErrSendSyntax        = errors.New(f("send syntax"))
	ErrTargetPosition    = errors.New(f("label only allowed as the last source"))
	ErrTargetModifier    = errors.New(f("label cannot be negated"))
	ErrVectorFloatSyntax = errors.New(f("vector float syntax"))
	ErrImmediateType     = errors.New(f("immediate type invalid"))
)

// ErrLabelMissing reports a branch to a label that is not in the program.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrRegisterDuplicate reports a second .declare of a register name.
type ErrRegisterDuplicate string

func (er ErrRegisterDuplicate) Error() string {
	return f("register %v already declared", string(er))
}

type ErrRegisterInvalid string

func (er ErrRegisterInvalid) Error() string {
	return f("'%v' is not a register", string(er))
}

type ErrOpcodeInvalid string

func (eo ErrOpcodeInvalid) Error() string {
	return f("'%v' is not an opcode", string(eo))
}

type ErrModifierInvalid string

func (em ErrModifierInvalid) Error() string {
	return f("'%v' is not a modifier", string(em))
}

type ErrToken string

func (et ErrToken) Error() string {
	return f("unexpected '%v'", string(et))
}

// ErrGeneration reports an unsupported hardware generation.
type ErrGeneration int

func (eg ErrGeneration) Error() string {
	return f("generation %d not supported", int(eg))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
