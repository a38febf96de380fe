package eu

// encoder packs fields into a Word, keeping the first error.
type encoder struct {
	w   Word
	err error
}

func (enc *encoder) put(fd Field, value uint32) {
	if enc.err != nil {
		return
	}
	enc.err = enc.w.Put(fd, value)
}

func (enc *encoder) putSigned(fd Field, value int32) {
	if enc.err != nil {
		return
	}
	enc.err = enc.w.PutSigned(fd, value)
}

func (enc *encoder) putBool(fd Field, value bool) {
	if value {
		enc.put(fd, 1)
	}
}

// putCode stores the code a table maps value to.
func (enc *encoder) putCode(fd Field, table map[int]uint32, value int) {
	if enc.err != nil {
		return
	}
	code, ok := table[value]
	if !ok {
		enc.err = ErrFieldRange{Field: fd.Name, Value: int64(value)}
		return
	}
	enc.put(fd, code)
}

// Encode packs an instruction into its binary form.
//
// The opcode table decides which operand lanes are written: the
// destination only when the opcode has one, and exactly as many sources
// as the opcode takes.
func Encode(inst *Instruction) (w Word, err error) {
	info, ok := inst.Opcode.Info()
	if !ok {
		err = ErrOpcode(inst.Opcode)
		return
	}
	if len(inst.Src) != info.Sources {
		err = ErrArity{Opcode: inst.Opcode, Sources: len(inst.Src), Expected: info.Sources}
		return
	}

	enc := &encoder{}

	enc.put(FieldOpcode, uint32(inst.Opcode))
	enc.put(FieldPredicateControl, inst.PredControl)
	enc.putBool(FieldPredicateInverse, inst.PredInverse)
	enc.putBool(FieldSaturate, inst.Saturate)
	enc.putBool(FieldDebugControl, inst.Debug)
	enc.putCode(FieldExecutionSize, execSizeCode, inst.ExecSize)
	enc.put(FieldAccessMode, uint32(inst.AccessMode))
	enc.putBool(FieldMaskControl, inst.NoMask)
	enc.put(FieldDependencyControl, inst.DepControl)
	enc.put(FieldCompressionControl, inst.CompControl)
	enc.put(FieldThreadControl, inst.ThreadControl)
	enc.putBool(FieldAccWrControl, inst.AccWrEnable)

	if info.Dests > 0 {
		enc.dest(&inst.Dest)
	}

	for n := range inst.Src {
		src := &inst.Src[n]
		if src.File == FILE_IMM {
			switch {
			case inst.Opcode == OP_SEND:
				// Lane 3 holds the message descriptor.
				err = ErrSendImmediate
				return
			case n != len(inst.Src)-1:
				err = ErrImmediatePosition
				return
			}
		}
		enc.src(n, src)
	}

	if inst.Opcode == OP_SEND {
		if inst.Send == nil {
			err = ErrSendMissing
			return
		}
		enc.send(inst.Send)
	} else {
		enc.put(FieldDestRegCondMod, uint32(inst.CondMod))
	}

	if enc.err != nil {
		err = enc.err
		return
	}

	w = enc.w
	return
}

func (enc *encoder) dest(dst *Operand) {
	if dst.File == FILE_IMM {
		if enc.err == nil {
			enc.err = ErrDestImmediate
		}
		return
	}

	lay := &dstLayout
	enc.put(lay.File, uint32(dst.File))
	enc.put(lay.Type, uint32(dst.Type))
	enc.put(lay.AddressMode, uint32(dst.Mode))
	if dst.Mode == ADDR_INDIRECT {
		enc.put(lay.AddrSubReg, dst.AddrSubNr)
		enc.putSigned(lay.IndirectOffset, dst.Offset)
	} else {
		enc.put(lay.RegNr, dst.Nr)
		enc.put(lay.SubReg, dst.SubNr)
	}
	enc.putCode(lay.HorizStride, horizStrideCode, dst.Region.HorizStride)
}

func (enc *encoder) src(n int, src *Operand) {
	lay := &srcLayout[n]
	enc.put(lay.File, uint32(src.File))
	enc.put(lay.Type, uint32(src.Type))

	if src.File == FILE_IMM {
		enc.put(FieldImmediate, src.Imm)
		return
	}

	enc.put(lay.AddressMode, uint32(src.Mode))
	if src.Mode == ADDR_INDIRECT {
		enc.put(lay.AddrSubReg, src.AddrSubNr)
		enc.putSigned(lay.IndirectOffset, src.Offset)
	} else {
		enc.put(lay.RegNr, src.Nr)
		enc.put(lay.SubReg, src.SubNr)
	}
	enc.putBool(lay.Abs, src.Abs)
	enc.putBool(lay.Negate, src.Negate)
	enc.putCode(lay.VertStride, vertStrideCode, src.Region.VertStride)
	enc.putCode(lay.Width, widthCode, src.Region.Width)
	enc.putCode(lay.HorizStride, horizStrideCode, src.Region.HorizStride)
}

// send writes the message descriptor. The descriptor takes the place of
// src1, which is marked as an immediate dword.
func (enc *encoder) send(msg *Send) {
	enc.put(FieldDestRegCondMod, msg.MsgReg)
	enc.put(srcLayout[1].File, uint32(FILE_IMM))
	enc.put(srcLayout[1].Type, uint32(TYPE_UD))

	enc.put(FieldMsgLength, msg.MsgLength)
	enc.put(FieldResponseLength, msg.ResponseLength)
	enc.put(FieldMsgTarget, uint32(msg.Target))
	enc.putBool(FieldEndOfThread, msg.EndOfThread)

	switch msg.Target {
	case MSG_TARGET_SAMPLER:
		enc.put(FieldBindingTable, msg.BindingTable)
		enc.put(FieldSampler, msg.Sampler)
		enc.put(FieldReturnFormat, msg.ReturnFormat)
	case MSG_TARGET_DATAPORT_WRITE:
		if msg.MsgControl > 0xf {
			if enc.err == nil {
				enc.err = ErrFieldRange{Field: FieldWriteMsgControl.Name, Value: int64(msg.MsgControl)}
			}
			return
		}
		enc.put(FieldBindingTable, msg.BindingTable)
		enc.put(FieldWriteMsgControl, msg.MsgControl&0x7)
		enc.put(FieldScoreboardClear, msg.MsgControl>>3)
		enc.put(FieldWriteMsgType, msg.MsgType)
		enc.putBool(FieldSendCommit, msg.SendCommit)
	case MSG_TARGET_DATAPORT_READ:
		enc.put(FieldBindingTable, msg.BindingTable)
		enc.put(FieldReadMsgControl, msg.MsgControl)
		enc.put(FieldReadMsgType, msg.MsgType)
		enc.put(FieldReadTargetCache, msg.TargetCache)
	}
}
