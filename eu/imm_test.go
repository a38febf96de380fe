package eu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImm(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op   Operand
		bits uint32
		text string
	}){
		{ImmUD(0xdeadbeef), 0xdeadbeef, "0xdeadbeefUD"},
		{ImmD(-5), 0xfffffffb, "-5D"},
		{ImmUW(0x1234), 0x12341234, "0x1234UW"},
		{ImmW(-1), 0xffffffff, "-1W"},
		{ImmW(7), 0x00070007, "7W"},
		{ImmUB(0xa5), 0xa5, "0xa5UB"},
		{ImmV(0x76543210), 0x76543210, "0x76543210V"},
		{ImmF(1.5), math.Float32bits(1.5), "1.5F"},
		{ImmF(-0.25), math.Float32bits(-0.25), "-0.25F"},
	}

	for _, entry := range table {
		assert.Equal(FILE_IMM, entry.op.File, entry.text)
		assert.Equal(entry.bits, entry.op.Imm, entry.text)
		assert.Equal(entry.text, FormatImm(entry.op.Type, entry.op.Imm))
	}
}

func TestImmVF(t *testing.T) {
	assert := assert.New(t)

	op, err := ImmVF([4]float32{1, 0.5, 1.5, -2})
	assert.NoError(err)
	assert.Equal(TYPE_VF, op.Type)
	assert.Equal(uint32(0xc0382030), op.Imm)
	assert.Equal("[1, 0.5, 1.5, -2]VF", FormatImm(op.Type, op.Imm))
	assert.Equal([4]float32{1, 0.5, 1.5, -2}, VFElements(op.Imm))

	op, err = ImmVF([4]float32{0, 31, 0.1328125, -0.25})
	assert.NoError(err)
	assert.Equal([4]float32{0, 31, 0.1328125, -0.25}, VFElements(op.Imm))

	for _, bad := range []float32{0.1, 32, 0.125, float32(math.Inf(1))} {
		_, err = ImmVF([4]float32{bad, 0, 0, 0})
		assert.ErrorIs(err, ErrVectorFloat, "%v", bad)
	}
}

func TestVFRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for code := 1; code < 0x100; code++ {
		if code == 0x80 {
			continue
		}
		v := vfDecode(uint8(code))
		back, err := vfEncode(v)
		assert.NoError(err, "0x%02x", code)
		assert.Equal(uint8(code), back, "0x%02x", code)
	}
}
