package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/gen4asm/eu"
)

func parse(t *testing.T, asm *Assembler, program ...string) *Program {
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	return prog
}

func words(prog *Program) (ws []eu.Word) {
	for node := range prog.Instructions() {
		ws = append(ws, node.Word)
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Nodes))
	assert.Equal("0", asm.Equate["LINENO"])
}

func TestAssemblerMov(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t, &Assembler{},
		"// copy a register",
		"mov(8) g1<1>F, g2<8,8,1>F;",
	)

	assert.Equal([]eu.Word{{0x00600001, 0x202003bd, 0x008d0040, 0}}, words(prog))
	assert.Equal(2, prog.Nodes[0].LineNo)
	assert.Empty(prog.Diagnostics)
}

func TestAssemblerDefaults(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t, &Assembler{},
		"mov(8) g1, g2;",
		"mov(1) g1, g2;",
	)

	ws := words(prog)
	assert.Equal(2, len(ws))

	w := ws[0]
	assert.Equal(uint32(eu.TYPE_F), w.Get(eu.Field{Lane: 1, Shift: 2, Width: 3}))
	assert.Equal(uint32(0x008d0040), w[2])

	// <0,1,0> for scalar instructions
	w = ws[1]
	assert.Equal(uint32(0x00000040), w[2])
}

func TestAssemblerImmediates(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text string
		typ  eu.RegType
		bits uint32
	}){
		{"0xdeadbeefUD", eu.TYPE_UD, 0xdeadbeef},
		{"1.5F", eu.TYPE_F, 0x3fc00000},
		{"-1.5F", eu.TYPE_F, 0xbfc00000},
		{"2.0", eu.TYPE_F, 0x40000000},
		{"-5D", eu.TYPE_D, 0xfffffffb},
		{"12", eu.TYPE_D, 12},
		{"0x1234UW", eu.TYPE_UW, 0x12341234},
		{"-1W", eu.TYPE_W, 0xffffffff},
		{"255UB", eu.TYPE_UB, 0xff},
		{"0x76543210V", eu.TYPE_V, 0x76543210},
		{"[1, 0.5, 1.5, -2]VF", eu.TYPE_VF, 0xc0382030},
	}

	for _, entry := range table {
		prog := parse(t, &Assembler{}, "add(8) g1<1>F, g2<8,8,1>F, "+entry.text+";")
		ws := words(prog)
		if !assert.Equal(1, len(ws), entry.text) {
			continue
		}
		w := ws[0]
		assert.Equal(uint32(eu.FILE_IMM), w.Get(eu.Field{Lane: 1, Shift: 10, Width: 2}), entry.text)
		assert.Equal(uint32(entry.typ), w.Get(eu.Field{Lane: 1, Shift: 12, Width: 3}), entry.text)
		assert.Equal(entry.bits, w[3], entry.text)
	}

	for _, bad := range []string{"256UB", "0x10000UW", "1.5UD", "1XX", "0.1VF", "[1, 2]VF", "0x3f800000F"} {
		_, err := (&Assembler{}).Parse(strings.NewReader("add(8) g1<1>F, g2<8,8,1>F, " + bad + ";"))
		assert.Error(err, bad)
	}
}

func TestAssemblerRegisters(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text  string
		file  eu.RegFile
		nr    uint32
		subnr uint32
	}){
		{"g127.4", eu.FILE_GRF, 127, 4},
		{"m3", eu.FILE_MRF, 3, 0},
		{"null", eu.FILE_ARF, eu.ARF_NULL, 0},
		{"a0.2", eu.FILE_ARF, eu.ARF_ADDRESS, 2},
		{"acc1", eu.FILE_ARF, eu.ARF_ACCUMULATOR | 1, 0},
		{"f0.1", eu.FILE_ARF, eu.ARF_FLAG, 1},
		{"mask0", eu.FILE_ARF, eu.ARF_MASK, 0},
		{"ms0", eu.FILE_ARF, eu.ARF_MASK_STACK, 0},
		{"msd0", eu.FILE_ARF, eu.ARF_MASK_STACK_DEPTH, 0},
		{"sr0", eu.FILE_ARF, eu.ARF_STATE, 0},
		{"cr0", eu.FILE_ARF, eu.ARF_CONTROL, 0},
		{"n1", eu.FILE_ARF, eu.ARF_NOTIFICATION_COUNT | 1, 0},
		{"ip", eu.FILE_ARF, eu.ARF_IP, 0},
		{"ARF176", eu.FILE_ARF, 176, 0},
	}

	for _, entry := range table {
		op, ok := parseRegister(entry.text)
		assert.True(ok, entry.text)
		assert.Equal(entry.file, op.File, entry.text)
		assert.Equal(entry.nr, op.Nr, entry.text)
		assert.Equal(entry.subnr, op.SubNr, entry.text)
	}

	for _, bad := range []string{"g", "acc", "f16", "null1", "ip0", "x1", "G1"} {
		_, ok := parseRegister(bad)
		assert.False(ok, bad)
	}
}

func TestAssemblerIndirect(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t, &Assembler{}, "mov(8) g[a0.2,-32]<2>F, -(abs)g[a0.1,64]<VxH,1,0>F;")
	ws := words(prog)
	assert.Equal(1, len(ws))

	text, err := eu.DisasmString(ws[0])
	assert.NoError(err)
	assert.Contains(text, " g[a0.2,-32]<2>F,")
	assert.Contains(text, " -(abs)g[a0.1,64]<VxH,1,0>F")
}

func TestAssemblerHeader(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t, &Assembler{},
		"(-f0.any4h) add.sat(16).ge g1<1>F, g2<8,8,1>F, g3<8,8,1>F { nomask, NoDDClr, NoDDChk, compr, switch, AccWrEnable };",
		"(f0.x) cmp.l(8) null<1>F, g2<8,8,1>F, 0.0F { align16 };",
		"mov.breakpoint(1) g1<1>UD, 1UD { sechalf };",
	)

	ws := words(prog)
	assert.Equal(3, len(ws))

	w := ws[0]
	assert.Equal(eu.OP_ADD, w.Opcode())
	assert.Equal(uint32(eu.PRED_ALIGN1_ANY4H), w.Get(eu.FieldPredicateControl))
	assert.Equal(uint32(1), w.Get(eu.FieldPredicateInverse))
	assert.Equal(uint32(1), w.Get(eu.FieldSaturate))
	assert.Equal(uint32(4), w.Get(eu.FieldExecutionSize))
	assert.Equal(uint32(eu.COND_GE), w.Get(eu.FieldDestRegCondMod))
	assert.Equal(uint32(1), w.Get(eu.FieldMaskControl))
	assert.Equal(uint32(3), w.Get(eu.FieldDependencyControl))
	assert.Equal(uint32(eu.COMPR_COMPR), w.Get(eu.FieldCompressionControl))
	assert.Equal(uint32(eu.THREAD_SWITCH), w.Get(eu.FieldThreadControl))
	assert.Equal(uint32(1), w.Get(eu.FieldAccWrControl))

	w = ws[1]
	assert.Equal(eu.OP_CMP, w.Opcode())
	assert.Equal(uint32(eu.ALIGN_16), w.Get(eu.FieldAccessMode))
	assert.Equal(uint32(eu.PRED_ALIGN16_X), w.Get(eu.FieldPredicateControl))
	assert.Equal(uint32(0), w.Get(eu.FieldPredicateInverse))
	assert.Equal(uint32(eu.COND_L), w.Get(eu.FieldDestRegCondMod))

	w = ws[2]
	assert.Equal(uint32(1), w.Get(eu.FieldDebugControl))
	assert.Equal(uint32(eu.COMPR_SECHALF), w.Get(eu.FieldCompressionControl))
}

func TestAssemblerSend(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t, &Assembler{},
		"send(8) 1 mlen 2 rlen 4 sampler(1, 0, F) g10<1>UW, m1<8,8,1>UD;",
		"send(8) 0 mlen 3 rlen 0 EOT write(255, 9, 6, 1) null<1>UW, m0<8,8,1>UD;",
		"send(8) 0 mlen 1 rlen 1 read(2, 10, 3, 2) g4<1>UD, m1<8,8,1>UD;",
		"send(8) 0 mlen 1 rlen 0 thread_spawner null<1>UD, m1<8,8,1>UD;",
	)

	ws := words(prog)
	assert.Equal(4, len(ws))

	assert.Equal(uint32(0x01600031), ws[0][0])
	assert.Equal(uint32(0x02240001), ws[0][3])

	assert.Equal(uint32(1), ws[1].Get(eu.FieldEndOfThread))
	assert.Equal(uint32(1), ws[1].Get(eu.FieldScoreboardClear))
	assert.Equal(uint32(1), ws[1].Get(eu.FieldWriteMsgControl))
	assert.Equal(uint32(1), ws[1].Get(eu.FieldSendCommit))

	assert.Equal(uint32(eu.MSG_TARGET_DATAPORT_READ), ws[2].Get(eu.FieldMsgTarget))
	assert.Equal(uint32(2), ws[2].Get(eu.FieldReadTargetCache))

	assert.Equal(uint32(eu.MSG_TARGET_THREAD_SPAWNER), ws[3].Get(eu.FieldMsgTarget))

	for _, bad := range []string{
		"send(8) 1 rlen 4 sampler g10<1>UW, m1<8,8,1>UD;",
		"send(8) 1 mlen 2 rlen 4 bogus g10<1>UW, m1<8,8,1>UD;",
		"send(8) 1 mlen 2 rlen 4 urb(1) g10<1>UW, m1<8,8,1>UD;",
		"send(8) 1 mlen 2 rlen 4 sampler(1, 0) g10<1>UW, m1<8,8,1>UD;",
	} {
		_, err := (&Assembler{}).Parse(strings.NewReader(bad))
		assert.Error(err, bad)
	}

	// The descriptor owns lane 3, so an immediate source is refused.
	prog = parse(t, &Assembler{},
		"send(8) 0 mlen 1 rlen 0 write(1, 0, 0, 0) null<1>UD, 5D;",
	)
	assert.Equal(1, len(prog.Diagnostics))
	assert.ErrorIs(prog.Diagnostics[0], eu.ErrSendImmediate)
	assert.Equal([]eu.Word{{}}, words(prog))
}

func TestAssemblerEquate(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("SCALE", "4")

	prog := parse(t, asm,
		".equ BASE 10",
		".equ SRC g4",
		"add(1) g1<1>D, g1<0,1,0>D, $(LINENO)D;",
		"mov(8) g$(BASE+1)<1>F, SRC;",
		"add(1) g1<1>UD, g1<0,1,0>UD, $((SCALE+1)*2)UD;",
	)

	ws := words(prog)
	assert.Equal(3, len(ws))
	assert.Equal(uint32(3), ws[0][3])
	assert.Equal(uint32(11), ws[1].Get(eu.Field{Lane: 1, Shift: 21, Width: 8}))
	assert.Equal(uint32(4), ws[1].Get(eu.Field{Lane: 2, Shift: 5, Width: 8}))
	assert.Equal(uint32(10), ws[2][3])
	assert.Equal("10", asm.Equate["BASE"])

	_, err := asm.Parse(strings.NewReader(".equ A 1\n.equ A 2"))
	assert.ErrorIs(err, ErrEquateDuplicate)

	_, err = asm.Parse(strings.NewReader(".equ A"))
	assert.ErrorIs(err, ErrEquateSyntax)

	_, err = asm.Parse(strings.NewReader("mov(8) g$(NOPE)<1>F, g1;"))
	assert.Equal(ErrSyntax{LineNo: 1, Line: "mov(8) g$(NOPE)<1>F, g1;", Err: ErrParseExpression("NOPE")}, err)
}

func TestAssemblerDeclare(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog := parse(t, asm,
		".declare color Base=g10.4 Type=UW",
		".declare msg Base=m2",
		".declare COLOR Base=g20",
		"mov(8) Color<1>, msg<8,8,1>;",
	)

	assert.Equal(1, len(prog.Diagnostics))
	var dup ErrRegisterDuplicate
	assert.True(errors.As(prog.Diagnostics[0], &dup))
	assert.Equal(ErrRegisterDuplicate("COLOR"), dup)

	ws := words(prog)
	assert.Equal(1, len(ws))
	text, err := eu.DisasmString(ws[0])
	assert.NoError(err)
	assert.Contains(text, " g10.4<1>UW,")
	assert.Contains(text, " m2<8,8,1>F")

	reg, ok := asm.Symbols.Lookup("COLOR")
	assert.True(ok)
	assert.Equal(uint32(10), reg.Nr)

	for _, bad := range []string{
		".declare x",
		".declare x Type=F",
		".declare x Base=q1",
		".declare x Base=g1 Type=Q",
		".declare x Base=g1 Size=4",
	} {
		_, err := (&Assembler{}).Parse(strings.NewReader(bad))
		assert.Error(err, bad)
	}
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t, &Assembler{},
		"start: loop: mov(8) g1<1>F, g2<8,8,1>F;",
		"jmpi(1) loop;",
		"done:",
	)

	assert.Equal(5, len(prog.Nodes))
	assert.Equal("start", prog.Nodes[0].Label)
	assert.Equal("loop", prog.Nodes[1].Label)
	assert.False(prog.Nodes[2].IsLabel())
	assert.Equal("loop", prog.Nodes[3].Target)
	assert.Equal("done", prog.Nodes[4].Label)

	_, err := (&Assembler{}).Parse(strings.NewReader("a:\nb:\na:"))
	var syntax ErrSyntax
	assert.True(errors.As(err, &syntax))
	assert.Equal(3, syntax.LineNo)
	assert.ErrorIs(err, ErrLabelDuplicate)

	// Labels are case sensitive.
	_, err = (&Assembler{}).Parse(strings.NewReader("a:\nA:"))
	assert.NoError(err)
}

func TestAssemblerMultiple(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t, &Assembler{},
		"mov(8) g1<1>F, g2<8,8,1>F; mov(8) g3<1>F, g4<8,8,1>F; /* block",
		"comment */ nop(1);",
	)

	assert.Equal(3, len(words(prog)))
	assert.Equal(2, prog.Nodes[2].LineNo)
}

func TestAssemblerDiagnostics(t *testing.T) {
	assert := assert.New(t)

	prog := parse(t, &Assembler{},
		"mov(8) g1<1>F, g2<8,8,1>F, g3<8,8,1>F;",
		"mov(3) g1<1>F, g2<8,8,1>F;",
		"mov(8) g300<1>F, g2<8,8,1>F;",
		"mov(8) g1<1>F, g2<8,8,1>F;",
	)

	ws := words(prog)
	assert.Equal(4, len(ws))
	assert.Equal(3, len(prog.Diagnostics))
	for n, node := range prog.Nodes[:3] {
		assert.Error(node.Err, n)
		assert.Equal(eu.Word{}, ws[n])
	}
	assert.NoError(prog.Nodes[3].Err)
	assert.Equal(eu.OP_MOV, ws[3].Opcode())

	var arity eu.ErrArity
	assert.True(errors.As(prog.Diagnostics[0], &arity))
	assert.Equal(2, arity.Sources)

	var field eu.ErrFieldRange
	assert.True(errors.As(prog.Diagnostics[1], &field))
	assert.Equal("execution size", field.Field)

	assert.True(errors.As(prog.Diagnostics[2], &field))
	assert.Equal("dest reg", field.Field)

	var syntax ErrSyntax
	assert.True(errors.As(prog.Diagnostics[2], &syntax))
	assert.Equal(3, syntax.LineNo)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		text string
		err  error
	}){
		{"mov(8) g1<1>F, g2<8,8,1>F", ErrSemicolonMissing},
		{"frob(8) g1<1>F, g2;", ErrOpcodeInvalid("frob")},
		{"mov g1<1>F, g2;", ErrExecSizeMissing},
		{"mov.zz(8) g1<1>F, g2;", ErrModifierInvalid("zz")},
		{"mov(8) g1<1>F, g2 { fast };", ErrModifierInvalid("fast")},
		{"(f0.q) mov(8) g1<1>F, g2;", ErrPredicateInvalid},
		{"(f0.x) mov(8) g1<1>F, g2;", ErrPredicateInvalid},
		{"mov(8) g1<1>F, g2<8,8>F;", ErrRegionInvalid},
		{"jmpi(1) -target;", ErrTargetModifier},
		{"add(8) g1<1>F, here, g2;", ErrTargetPosition},
		{"mov(8) label<1>F, g2;", ErrRegisterInvalid("label")},
		{"mov(8) g[a1.0,0]<1>F, g2;", ErrIndirectInvalid},
		{"mov(8) g1<1>F g2;", ErrToken("g2")},
		{"/* lonely", ErrCommentLonely},
	}

	for _, entry := range table {
		_, err := (&Assembler{}).Parse(strings.NewReader(entry.text))
		var syntax ErrSyntax
		if !assert.True(errors.As(err, &syntax), entry.text) {
			continue
		}
		assert.Equal(entry.err, syntax.Err, entry.text)
	}
}

// Disassembled text assembles back into the same instruction.
func TestAssemblerRoundTrip(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"mov(8) g1<1>F, g2<8,8,1>F;",
		"mov(1) g1.4<1>UD, g2.8<0,1,0>UD;",
		"(-f0.any16h) add.sat(16).ge g1<2>F, -g2<16,8,2>F, -(abs)m3<4,4,1>F { nomask, compr, AccWrEnable };",
		"(+f0.w) mul(8).nz acc0<1>D, g2<8,8,1>D, 12D { align16, NoDDClr };",
		"(-) and(8) g1<1>UW, g2<8,8,1>UW, 0x00ffUW;",
		"or(8) g1<1>W, g2<8,8,1>W, -2W;",
		"xor(8) g1<1>UB, g2<8,8,1>UB, 0x7fUB;",
		"mov(8) g1<1>F, [1, 0.5, 1.5, -2]VF;",
		"mov(8) g1<1>W, 0x76543210V;",
		"mov(8) g1<1>F, -0.25F;",
		"mov(8) g1<1>B, g2<8,8,1>B;",
		"mov(8) g[a0.2,-32]<2>F, A[a0.0,0]<VxH,1,0>F;",
		"mov(8) null<1>F, ARF176<8,8,1>F;",
		"mov(8) f0.1<1>UW, sr0<0,1,0>UW { switch, sechalf, NoDDChk };",
		"send(8) 1 mlen 2 rlen 4 sampler(1, 0, F) g10<1>UW, m1<8,8,1>UD;",
		"send(16) 0 mlen 3 rlen 0 EOT write(255, 9, 6, 1) null<1>UW, m0<8,8,1>UD;",
		"send(8) 0 mlen 1 rlen 1 read(2, 10, 3, 2) g4<1>UD, m1<8,8,1>UD;",
		"send(8) 2 mlen 1 rlen 0 urb null<1>UD, m1<8,8,1>UD;",
		"jmpi(1) -4D;",
		"if(8) g1<8,8,1>UD, 65538D;",
		"else(8) 65538D;",
		"endif(8);",
		"do(8);",
		"while(8) -3D;",
		"nop(1);",
	}

	for _, line := range program {
		prog := parse(t, &Assembler{}, line)
		ws := words(prog)
		if !assert.Equal(1, len(ws), line) {
			continue
		}

		text, err := eu.DisasmString(ws[0])
		assert.NoError(err, line)

		again, err := (&Assembler{}).Parse(strings.NewReader(text))
		if !assert.NoError(err, text) {
			continue
		}
		assert.Equal(ws, words(again), text)

		text2, err := eu.DisasmString(words(again)[0])
		assert.NoError(err)
		assert.Equal(text, text2)
	}
}
