// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package eu

import (
	"fmt"
	"io"
	"strings"
)

// Text columns of the operands and the control block.
const (
	columnDest    = 16
	columnSrc0    = 32
	columnSrc1    = 48
	columnControl = 64
)

// disasm renders one instruction, tracking the output column.
type disasm struct {
	buf     strings.Builder
	column  int
	invalid []string
}

func (d *disasm) string(s string) {
	d.buf.WriteString(s)
	d.column += len(s)
}

func (d *disasm) format(format string, args ...any) {
	d.string(fmt.Sprintf(format, args...))
}

// pad moves to a column, always leaving at least one space.
func (d *disasm) pad(column int) {
	if d.column >= column {
		d.string(" ")
		return
	}
	d.string(strings.Repeat(" ", column-d.column))
}

// control renders a table entry, or an inline marker for a reserved code.
//
// With a non-nil space, non-empty entries are separated by a blank.
func (d *disasm) control(ctrl control, code uint32, space *bool) {
	text, ok := ctrl.lookup(code)
	if !ok {
		d.string(f("*** invalid %v value %d ", ctrl.name, code))
		d.invalid = append(d.invalid, ctrl.name)
		return
	}
	if len(text) == 0 {
		return
	}
	if space != nil && *space {
		d.string(" ")
	}
	d.string(text)
	if space != nil {
		*space = true
	}
}

// reg renders a register name without region or type.
func (d *disasm) reg(file, nr uint32) {
	if RegFile(file) != FILE_ARF {
		d.control(ctrlRegFile, file, nil)
		d.format("%d", nr)
		return
	}

	sub := nr & 0x0f
	switch nr & 0xf0 {
	case ARF_NULL:
		d.string("null")
	case ARF_ADDRESS:
		d.format("a%d", sub)
	case ARF_ACCUMULATOR:
		d.format("acc%d", sub)
	case ARF_FLAG:
		d.format("f%d", sub)
	case ARF_MASK:
		d.format("mask%d", sub)
	case ARF_MASK_STACK:
		d.format("ms%d", sub)
	case ARF_MASK_STACK_DEPTH:
		d.format("msd%d", sub)
	case ARF_STATE:
		d.format("sr%d", sub)
	case ARF_CONTROL:
		d.format("cr%d", sub)
	case ARF_NOTIFICATION_COUNT:
		d.format("n%d", sub)
	case ARF_IP:
		d.string("ip")
	default:
		d.format("ARF%d", nr)
	}
}

// indirect renders a register-indirect base: file[a0.sub,offset].
func (d *disasm) indirect(file uint32, addrSub uint32, offset int32) {
	if RegFile(file) == FILE_ARF {
		d.string("A")
	} else {
		d.control(ctrlRegFile, file, nil)
	}
	d.format("[a0.%d,%d]", addrSub, offset)
}

func (d *disasm) dest(w Word) {
	lay := &dstLayout
	file := w.Get(lay.File)
	if w.Get(lay.AddressMode) == uint32(ADDR_INDIRECT) {
		d.indirect(file, w.Get(lay.AddrSubReg), w.GetSigned(lay.IndirectOffset))
	} else {
		d.reg(file, w.Get(lay.RegNr))
		if sub := w.Get(lay.SubReg); sub != 0 {
			d.format(".%d", sub)
		}
	}
	d.string("<")
	d.control(named(ctrlHorizStride, "dest horiz stride"), w.Get(lay.HorizStride), nil)
	d.string(">")
	d.control(named(ctrlRegType, "dest reg encoding"), w.Get(lay.Type), nil)
}

func (d *disasm) src(w Word, n int) {
	lay := &srcLayout[n]
	file := w.Get(lay.File)
	typ := w.Get(lay.Type)

	if RegFile(file) == FILE_IMM {
		d.string(FormatImm(RegType(typ), w.Get(FieldImmediate)))
		return
	}

	if w.Get(lay.Negate) != 0 {
		d.string("-")
	}
	if w.Get(lay.Abs) != 0 {
		d.string("(abs)")
	}
	if w.Get(lay.AddressMode) == uint32(ADDR_INDIRECT) {
		d.indirect(file, w.Get(lay.AddrSubReg), w.GetSigned(lay.IndirectOffset))
	} else {
		d.reg(file, w.Get(lay.RegNr))
		if sub := w.Get(lay.SubReg); sub != 0 {
			d.format(".%d", sub)
		}
	}
	d.string("<")
	d.control(ctrlVertStride, w.Get(lay.VertStride), nil)
	d.string(",")
	d.control(ctrlWidth, w.Get(lay.Width), nil)
	d.string(",")
	d.control(ctrlHorizStride, w.Get(lay.HorizStride), nil)
	d.string(">")
	d.control(named(ctrlRegType, "src reg encoding"), typ, nil)
}

// send renders the message register, lengths, and routing of a send.
func (d *disasm) send(w Word) {
	space := true
	d.format(" %d", w.Get(FieldDestRegCondMod))
	d.format(" mlen %d", w.Get(FieldMsgLength))
	d.format(" rlen %d", w.Get(FieldResponseLength))
	d.control(ctrlEndOfThread, w.Get(FieldEndOfThread), &space)
	d.control(ctrlMsgTarget, w.Get(FieldMsgTarget), &space)

	switch MsgTarget(w.Get(FieldMsgTarget)) {
	case MSG_TARGET_SAMPLER:
		d.format("( %d, %d, ", w.Get(FieldBindingTable), w.Get(FieldSampler))
		d.control(ctrlReturnFormat, w.Get(FieldReturnFormat), nil)
		d.string(" )")
	case MSG_TARGET_DATAPORT_WRITE:
		d.format("( %d, %d, %d, %d )",
			w.Get(FieldBindingTable),
			w.Get(FieldScoreboardClear)<<3|w.Get(FieldWriteMsgControl),
			w.Get(FieldWriteMsgType),
			w.Get(FieldSendCommit))
	case MSG_TARGET_DATAPORT_READ:
		d.format("( %d, %d, %d, %d )",
			w.Get(FieldBindingTable),
			w.Get(FieldReadMsgControl),
			w.Get(FieldReadMsgType),
			w.Get(FieldReadTargetCache))
	}
}

func named(ctrl control, name string) control {
	ctrl.name = name
	return ctrl
}

// line renders the whole instruction, without the trailing newline.
func (d *disasm) line(w Word) {
	space := false

	if w.Get(FieldPredicateControl) != 0 || w.Get(FieldPredicateInverse) != 0 {
		d.string("(")
		d.control(ctrlPredInverse, w.Get(FieldPredicateInverse), &space)
		pred := ctrlPredAlign1
		if AccessMode(w.Get(FieldAccessMode)) == ALIGN_16 {
			pred = ctrlPredAlign16
		}
		space = false
		d.control(pred, w.Get(FieldPredicateControl), &space)
		d.string(") ")
	}

	op := w.Opcode()
	info, known := op.Info()
	if known {
		d.string(info.Name)
	} else {
		d.string(f("*** invalid opcode value %d ", uint32(op)))
		d.invalid = append(d.invalid, "opcode")
	}

	d.control(ctrlSaturate, w.Get(FieldSaturate), nil)
	d.control(ctrlDebug, w.Get(FieldDebugControl), nil)

	d.string("(")
	d.control(ctrlExecSize, w.Get(FieldExecutionSize), nil)
	d.string(")")

	if op == OP_SEND {
		d.send(w)
	} else {
		d.control(ctrlCondMod, w.Get(FieldDestRegCondMod), nil)
	}

	if info.Dests > 0 {
		d.pad(columnDest)
		d.dest(w)
		if info.Sources > 0 {
			d.string(",")
		}
	}
	if info.Sources > 0 {
		d.pad(columnSrc0)
		d.src(w, 0)
	}
	if info.Sources > 1 {
		d.string(",")
		d.pad(columnSrc1)
		d.src(w, 1)
	}

	d.pad(columnControl)
	d.string("{")
	space = true
	d.control(ctrlAccessMode, w.Get(FieldAccessMode), &space)
	d.control(ctrlMask, w.Get(FieldMaskControl), &space)
	d.control(ctrlDependency, w.Get(FieldDependencyControl), &space)
	d.control(ctrlCompression, w.Get(FieldCompressionControl), &space)
	d.control(ctrlThread, w.Get(FieldThreadControl), &space)
	d.control(ctrlAccWr, w.Get(FieldAccWrControl), &space)
	if space {
		d.string(" ")
	}
	d.string("};")
}

// DisasmString renders one instruction as text, without a newline.
//
// The text is complete even when err is an ErrDisasm.
func DisasmString(w Word) (text string, err error) {
	d := &disasm{}
	d.line(w)
	text = d.buf.String()
	if len(d.invalid) > 0 {
		err = ErrDisasm(d.invalid)
	}
	return
}

// Disasm writes one instruction as a line of text.
//
// Reserved codes are rendered inline and reported as an ErrDisasm once
// the line has been written.
func Disasm(out io.Writer, w Word) (err error) {
	text, err := DisasmString(w)
	_, werr := io.WriteString(out, text+"\n")
	if werr != nil {
		err = werr
	}
	return
}
