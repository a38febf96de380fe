package asm

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ezrec/gen4asm/eu"
)

// registerPattern matches direct register names such as g4.8, acc0, or null.
var registerPattern = regexp.MustCompile(`^(g|m|acc|a|f|mask|msd|ms|sr|cr|n|null|ip|ARF)(\d+)?(?:\.(\d+))?$`)

// arfClass maps architecture register prefixes to their class nibble.
var arfClass = map[string]uint32{
	"null": eu.ARF_NULL,
	"a":    eu.ARF_ADDRESS,
	"acc":  eu.ARF_ACCUMULATOR,
	"f":    eu.ARF_FLAG,
	"mask": eu.ARF_MASK,
	"ms":   eu.ARF_MASK_STACK,
	"msd":  eu.ARF_MASK_STACK_DEPTH,
	"sr":   eu.ARF_STATE,
	"cr":   eu.ARF_CONTROL,
	"n":    eu.ARF_NOTIFICATION_COUNT,
	"ip":   eu.ARF_IP,
}

// indirectFile maps the register file prefixes of indirect operands.
var indirectFile = map[string]eu.RegFile{
	"A": eu.FILE_ARF,
	"g": eu.FILE_GRF,
	"m": eu.FILE_MRF,
}

var addressPattern = regexp.MustCompile(`^a0(?:\.(\d+))?$`)

// parseRegister decodes a direct register name.
func parseRegister(name string) (op eu.Operand, ok bool) {
	m := registerPattern.FindStringSubmatch(name)
	if m == nil {
		return
	}

	prefix, nr, sub := m[1], m[2], m[3]

	var nr32, sub32 uint32
	if len(nr) > 0 {
		v, err := strconv.ParseUint(nr, 10, 32)
		if err != nil {
			return
		}
		nr32 = uint32(v)
	}
	if len(sub) > 0 {
		v, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return
		}
		sub32 = uint32(v)
	}

	op.SubNr = sub32

	switch prefix {
	case "g", "m":
		if len(nr) == 0 {
			return
		}
		op.File = eu.FILE_GRF
		if prefix == "m" {
			op.File = eu.FILE_MRF
		}
		op.Nr = nr32
	case "ARF":
		if len(nr) == 0 {
			return
		}
		op.File = eu.FILE_ARF
		op.Nr = nr32
	case "null", "ip":
		if len(nr) > 0 {
			return
		}
		op.File = eu.FILE_ARF
		op.Nr = arfClass[prefix]
	default:
		if len(nr) == 0 || nr32 > 0xf {
			return
		}
		op.File = eu.FILE_ARF
		op.Nr = arfClass[prefix] | nr32
	}

	ok = true
	return
}

// integerLimits are the accepted ranges of integer immediates. Unsigned
// types take negative values as two's complement, signed types take bit
// patterns up to the unsigned maximum.
var integerLimits = map[eu.RegType][2]int64{
	eu.TYPE_UD: {math.MinInt32, math.MaxUint32},
	eu.TYPE_D:  {math.MinInt32, math.MaxUint32},
	eu.TYPE_UW: {math.MinInt16, math.MaxUint16},
	eu.TYPE_W:  {math.MinInt16, math.MaxUint16},
	eu.TYPE_UB: {math.MinInt8, math.MaxUint8},
	eu.TYPE_V:  {math.MinInt32, math.MaxUint32},
}

// parseImmediate builds an immediate from a number token.
func parseImmediate(tok token, negate bool) (op eu.Operand, err error) {
	text := tok.text
	isHex := strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X")
	isFloat := !isHex && strings.ContainsAny(text, ".eE")

	typ := eu.TYPE_D
	if isFloat {
		typ = eu.TYPE_F
	}
	if len(tok.suffix) > 0 {
		var ok bool
		typ, ok = eu.ParseImmType(tok.suffix)
		if !ok || typ == eu.TYPE_VF {
			err = ErrImmediateType
			return
		}
	}

	if typ == eu.TYPE_F {
		var v float64
		v, err = strconv.ParseFloat(text, 32)
		if err != nil {
			err = ErrParseNumber(text)
			return
		}
		if negate {
			v = -v
		}
		op = eu.ImmF(float32(v))
		return
	}

	if isFloat {
		err = ErrParseNumber(text + tok.suffix)
		return
	}

	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		err = ErrParseNumber(text)
		return
	}
	if negate {
		v = -v
	}
	limit := integerLimits[typ]
	if v < limit[0] || v > limit[1] {
		err = ErrParseNumber(text + tok.suffix)
		return
	}

	switch typ {
	case eu.TYPE_UD:
		op = eu.ImmUD(uint32(v))
	case eu.TYPE_D:
		op = eu.ImmD(int32(uint32(v)))
	case eu.TYPE_UW:
		op = eu.ImmUW(uint16(v))
	case eu.TYPE_W:
		op = eu.ImmW(int16(uint16(v)))
	case eu.TYPE_UB:
		op = eu.ImmUB(uint8(v))
	case eu.TYPE_V:
		op = eu.ImmV(uint32(v))
	}
	return
}

// parseVectorFloat parses "[a, b, c, d]VF", with the '[' already consumed.
func (st *statement) parseVectorFloat() (op eu.Operand, err error) {
	var elems [4]float32
	for n := range elems {
		if n > 0 && !st.ts.accept(",") {
			err = ErrVectorFloatSyntax
			return
		}
		negate := st.ts.accept("-")
		tok := st.ts.next()
		if tok.kind != tokenNumber || len(tok.suffix) > 0 {
			err = ErrVectorFloatSyntax
			return
		}
		var v float64
		v, err = strconv.ParseFloat(tok.text, 32)
		if err != nil {
			err = ErrParseNumber(tok.text)
			return
		}
		if negate {
			v = -v
		}
		elems[n] = float32(v)
	}
	if !st.ts.accept("]") || !st.ts.acceptWord("VF") {
		err = ErrVectorFloatSyntax
		return
	}
	return eu.ImmVF(elems)
}

// parseIndirect parses "[a0.N,offset]" after an indirect file prefix.
func (st *statement) parseIndirect(file eu.RegFile) (op eu.Operand, err error) {
	ts := &st.ts
	if err = ts.expect("["); err != nil {
		return
	}
	tok := ts.next()
	m := addressPattern.FindStringSubmatch(tok.text)
	if tok.kind != tokenWord || m == nil {
		err = ErrIndirectInvalid
		return
	}
	var sub uint64
	if len(m[1]) > 0 {
		sub, err = strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			err = ErrIndirectInvalid
			return
		}
	}

	var offset int64
	if ts.accept(",") {
		negate := ts.accept("-")
		tok = ts.next()
		if tok.kind != tokenNumber || len(tok.suffix) > 0 {
			err = ErrIndirectInvalid
			return
		}
		offset, err = strconv.ParseInt(tok.text, 0, 32)
		if err != nil {
			err = ErrParseNumber(tok.text)
			return
		}
		if negate {
			offset = -offset
		}
	}
	if err = ts.expect("]"); err != nil {
		return
	}

	op = eu.Operand{
		File:      file,
		Mode:      eu.ADDR_INDIRECT,
		AddrSubNr: uint32(sub),
		Offset:    int32(offset),
	}
	return
}

// parseStride reads one region element, which is a count or VxH.
func (st *statement) parseStride(allowVxH bool) (value int, err error) {
	tok := st.ts.next()
	switch {
	case allowVxH && tok.kind == tokenWord && strings.EqualFold(tok.text, "VxH"):
		value = eu.VXH
	case tok.kind == tokenNumber && len(tok.suffix) == 0:
		var v int64
		v, err = strconv.ParseInt(tok.text, 0, 32)
		if err != nil {
			err = ErrParseNumber(tok.text)
			return
		}
		value = int(v)
	default:
		err = ErrRegionInvalid
	}
	return
}

// parseRegisterBase parses the register part of an operand: a named
// register, a declared alias, or an indirect address. A word that is
// none of these is returned as a label.
func (st *statement) parseRegisterBase() (op eu.Operand, label string, err error) {
	tok := st.ts.next()
	if tok.kind != tokenWord {
		err = ErrToken(tok.text)
		if tok.kind == tokenEOF {
			err = ErrOperandMissing
		}
		return
	}

	if file, ok := indirectFile[tok.text]; ok && st.ts.is("[") {
		op, err = st.parseIndirect(file)
		op.Type = eu.TYPE_F
		return
	}

	if reg, ok := parseRegister(tok.text); ok {
		op = reg
		op.Type = eu.TYPE_F
		return
	}

	if reg, ok := st.asm.Symbols.Lookup(tok.text); ok {
		op = reg.Operand(eu.TYPE_F)
		return
	}

	label = tok.text
	return
}

// parseType reads an optional register type suffix.
func (st *statement) parseType(op *eu.Operand) (err error) {
	tok := st.ts.peek()
	if tok.kind != tokenWord {
		return
	}
	typ, ok := eu.ParseRegType(tok.text)
	if !ok {
		return
	}
	st.ts.next()
	op.Type = typ
	return
}

// parseDest parses a destination: REG ["<" hstride ">"] [TYPE].
func (st *statement) parseDest() (op eu.Operand, err error) {
	op, label, err := st.parseRegisterBase()
	if err != nil {
		return
	}
	if len(label) > 0 {
		err = ErrRegisterInvalid(label)
		return
	}

	op.Region = eu.Region{HorizStride: 1}
	if st.ts.accept("<") {
		op.Region.HorizStride, err = st.parseStride(false)
		if err != nil {
			return
		}
		if err = st.ts.expect(">"); err != nil {
			err = ErrRegionInvalid
			return
		}
	}

	err = st.parseType(&op)
	return
}

// parseSource parses a source operand. A bare label is returned by name
// with a zero dword immediate in its place.
func (st *statement) parseSource(execSize int) (op eu.Operand, label string, err error) {
	ts := &st.ts

	negate := ts.accept("-")

	if ts.peek().kind == tokenNumber {
		op, err = parseImmediate(ts.next(), negate)
		return
	}

	if ts.accept("[") {
		if negate {
			err = ErrVectorFloatSyntax
			return
		}
		op, err = st.parseVectorFloat()
		return
	}

	abs := false
	if ts.is("(") && ts.peekAt(1).kind == tokenWord && strings.EqualFold(ts.peekAt(1).text, "abs") {
		ts.next()
		ts.next()
		if err = ts.expect(")"); err != nil {
			return
		}
		abs = true
	}

	op, label, err = st.parseRegisterBase()
	if err != nil {
		return
	}
	if len(label) > 0 {
		if negate || abs {
			err = ErrTargetModifier
			return
		}
		op = eu.ImmD(0)
		return
	}

	op.Negate = negate
	op.Abs = abs

	if execSize == 1 {
		op.Region = eu.Region{VertStride: 0, Width: 1, HorizStride: 0}
	} else {
		op.Region = eu.Region{VertStride: 8, Width: 8, HorizStride: 1}
	}

	if ts.accept("<") {
		op.Region.VertStride, err = st.parseStride(true)
		if err != nil {
			return
		}
		if !ts.accept(",") && !ts.accept(";") {
			err = ErrRegionInvalid
			return
		}
		op.Region.Width, err = st.parseStride(false)
		if err != nil {
			return
		}
		if !ts.accept(",") {
			err = ErrRegionInvalid
			return
		}
		op.Region.HorizStride, err = st.parseStride(false)
		if err != nil {
			return
		}
		if !ts.accept(">") {
			err = ErrRegionInvalid
			return
		}
	}

	err = st.parseType(&op)
	return
}
