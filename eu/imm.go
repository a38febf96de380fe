package eu

import (
	"fmt"
	"math"
	"strconv"
)

func imm(typ RegType, bits uint32) Operand {
	return Operand{File: FILE_IMM, Type: typ, Imm: bits}
}

// ImmUD returns an unsigned dword immediate.
func ImmUD(v uint32) Operand { return imm(TYPE_UD, v) }

// ImmD returns a signed dword immediate.
func ImmD(v int32) Operand { return imm(TYPE_D, uint32(v)) }

// ImmUW returns an unsigned word immediate, replicated in both halves.
func ImmUW(v uint16) Operand { return imm(TYPE_UW, uint32(v)|uint32(v)<<16) }

// ImmW returns a signed word immediate, replicated in both halves.
func ImmW(v int16) Operand { return imm(TYPE_W, uint32(uint16(v))|uint32(uint16(v))<<16) }

// ImmUB returns an unsigned byte immediate.
func ImmUB(v uint8) Operand { return imm(TYPE_UB, uint32(v)) }

// ImmF returns a float immediate.
func ImmF(v float32) Operand { return imm(TYPE_F, math.Float32bits(v)) }

// ImmV returns a packed vector of eight signed 4-bit integers.
func ImmV(v uint32) Operand { return imm(TYPE_V, v) }

// ImmVF returns a packed vector of four restricted 8-bit floats.
func ImmVF(v [4]float32) (op Operand, err error) {
	var bits uint32
	for n, elem := range v {
		var code uint8
		code, err = vfEncode(elem)
		if err != nil {
			return
		}
		bits |= uint32(code) << (8 * n)
	}
	op = imm(TYPE_VF, bits)
	return
}

// vfEncode packs a float as sign, 3-bit exponent biased by 3, and 4-bit
// mantissa. Code 0 is zero.
func vfEncode(v float32) (code uint8, err error) {
	if v == 0 {
		if math.Signbit(float64(v)) {
			code = 0x80
		}
		return
	}
	if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
		err = ErrVectorFloat
		return
	}
	frac, exp := math.Frexp(math.Abs(float64(v)))
	// |v| = (2*frac) * 2^(exp-1), with 2*frac in [1, 2).
	biased := exp - 1 + 3
	mant := (2*frac - 1) * 16
	if biased < 0 || biased > 7 || mant != math.Trunc(mant) || (biased == 0 && mant == 0) {
		err = ErrVectorFloat
		return
	}
	code = uint8(biased)<<4 | uint8(mant)
	if v < 0 {
		code |= 0x80
	}
	return
}

func vfDecode(code uint8) float32 {
	exp := int(code>>4) & 0x7
	mant := float64(code & 0xf)
	var v float64
	if exp != 0 || mant != 0 {
		v = math.Ldexp(1+mant/16, exp-3)
	}
	if code&0x80 != 0 {
		v = -v
	}
	return float32(v)
}

// VFElements unpacks the four elements of a VF immediate.
func VFElements(bits uint32) (v [4]float32) {
	for n := range v {
		v[n] = vfDecode(uint8(bits >> (8 * n)))
	}
	return
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// FormatImm renders an immediate with its type suffix.
func FormatImm(typ RegType, bits uint32) string {
	switch typ {
	case TYPE_UD:
		return fmt.Sprintf("0x%08xUD", bits)
	case TYPE_D:
		return fmt.Sprintf("%dD", int32(bits))
	case TYPE_UW:
		return fmt.Sprintf("0x%04xUW", uint16(bits))
	case TYPE_W:
		return fmt.Sprintf("%dW", int16(bits))
	case TYPE_UB:
		return fmt.Sprintf("0x%02xUB", uint8(bits))
	case TYPE_VF:
		v := VFElements(bits)
		return fmt.Sprintf("[%v, %v, %v, %v]VF",
			formatFloat(v[0]), formatFloat(v[1]), formatFloat(v[2]), formatFloat(v[3]))
	case TYPE_V:
		return fmt.Sprintf("0x%08xV", bits)
	case TYPE_F:
		return formatFloat(math.Float32frombits(bits)) + "F"
	}
	return fmt.Sprintf("0x%08x", bits)
}
