package asm

import (
	"iter"
	"strings"

	"github.com/ezrec/gen4asm/eu"
)

// Register is a named register declared with .declare.
type Register struct {
	Name  string
	File  eu.RegFile
	Nr    uint32
	SubNr uint32
	Type  eu.RegType
	Typed bool // Type was given, and overrides the default operand type.

	next *Register
}

// Operand returns a direct operand for the register.
func (reg *Register) Operand(defaultType eu.RegType) (op eu.Operand) {
	op = eu.Operand{
		File:  reg.File,
		Nr:    reg.Nr,
		SubNr: reg.SubNr,
		Type:  defaultType,
	}
	if reg.Typed {
		op.Type = reg.Type
	}
	return
}

const symbolBuckets = 37

// SymbolTable maps register names to declarations, ignoring case.
//
// Declarations are never removed individually; Clear drops them all.
type SymbolTable struct {
	bucket [symbolBuckets]*Register
}

func symbolHash(name string) int {
	var h uint32
	for _, c := range []byte(strings.ToLower(name)) {
		h = (h << 1) + uint32(c)
	}
	return int(h % symbolBuckets)
}

// Declare binds a register name. The first binding of a name wins.
func (st *SymbolTable) Declare(reg Register) error {
	if _, ok := st.Lookup(reg.Name); ok {
		return ErrRegisterDuplicate(reg.Name)
	}

	h := symbolHash(reg.Name)
	entry := &Register{}
	*entry = reg
	entry.next = st.bucket[h]
	st.bucket[h] = entry

	return nil
}

// Lookup finds a declared register by name, ignoring case.
func (st *SymbolTable) Lookup(name string) (reg *Register, ok bool) {
	for reg = st.bucket[symbolHash(name)]; reg != nil; reg = reg.next {
		if strings.EqualFold(reg.Name, name) {
			return reg, true
		}
	}
	return nil, false
}

// Clear drops every declaration.
func (st *SymbolTable) Clear() {
	for h := range st.bucket {
		for reg := st.bucket[h]; reg != nil; {
			next := reg.next
			reg.next = nil
			reg = next
		}
		st.bucket[h] = nil
	}
}

// All iterates over the declarations, in no particular order.
func (st *SymbolTable) All() iter.Seq[*Register] {
	return func(yield func(*Register) bool) {
		for _, head := range st.bucket {
			for reg := head; reg != nil; reg = reg.next {
				if !yield(reg) {
					return
				}
			}
		}
	}
}
