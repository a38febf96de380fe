// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package asm

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/gen4asm/eu"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for GEN4 EU instructions.
type Assembler struct {
	Verbose bool // If set, verbosely logs the assembler actions.

	Symbols SymbolTable       // Registers declared with .declare.
	Equate  map[string]string // Map of equates.

	predefine map[string]string // Predefines
	labels    map[string]int    // Line of each label, for duplicate checks.
	program   *Program
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the integer value of an equate.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
	}
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v, err := asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parenPattern matches $(...) with at most one level of nested parentheses.
var parenPattern = regexp.MustCompile(`\$\((?:[^$()]|\([^$()]*\))*\)`)

// expandLine substitutes $() expressions into a line.
func (asm *Assembler) expandLine(line string, lineno int) (expanded string, err error) {
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	expanded = parenPattern.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	return
}

// directive handles the .equ and .declare lines.
func (asm *Assembler) directive(words []string) (handled bool, err error) {
	switch words[0] {
	case ".equ":
		handled = true
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
	case ".declare":
		handled = true
		err = asm.declare(words[1:])
	}
	return
}

// declare parses "NAME Base=REG [Type=TYPE]".
func (asm *Assembler) declare(words []string) (err error) {
	if len(words) < 2 {
		return ErrDeclareSyntax
	}

	reg := Register{Name: words[0]}
	hasBase := false
	for _, word := range words[1:] {
		key, value, ok := strings.Cut(word, "=")
		if !ok {
			return ErrDeclareSyntax
		}
		switch strings.ToLower(key) {
		case "base":
			op, ok := parseRegister(value)
			if !ok {
				return ErrRegisterInvalid(value)
			}
			reg.File = op.File
			reg.Nr = op.Nr
			reg.SubNr = op.SubNr
			hasBase = true
		case "type":
			typ, ok := eu.ParseRegType(value)
			if !ok {
				return ErrDeclareSyntax
			}
			reg.Type = typ
			reg.Typed = true
		default:
			return ErrDeclareSyntax
		}
	}
	if !hasBase {
		return ErrDeclareSyntax
	}

	return asm.Symbols.Declare(reg)
}

// substitute replaces word tokens that name equates by the tokens of
// their values.
func (asm *Assembler) substitute(tokens []token) (out []token, err error) {
	for _, tok := range tokens {
		value, ok := asm.Equate[tok.text]
		if tok.kind != tokenWord || !ok {
			out = append(out, tok)
			continue
		}
		var sub []token
		sub, err = lex(value)
		if err != nil {
			return
		}
		out = append(out, sub...)
	}
	return
}

// parseLine parses a single line of statements.
func (asm *Assembler) parseLine(line string, lineno int) (err error) {
	line, err = asm.expandLine(line, lineno)
	if err != nil {
		return
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	handled, err := asm.directive(words)
	if err != nil {
		if _, ok := err.(ErrRegisterDuplicate); ok {
			asm.diagnostic(lineno, line, err)
			err = nil
		}
		return
	}
	if handled {
		return
	}

	tokens, err := lex(line)
	if err != nil {
		return
	}
	tokens, err = asm.substitute(tokens)
	if err != nil {
		return
	}

	st := &statement{asm: asm, ts: tokenStream{tokens: tokens}}
	for !st.ts.done() {
		err = st.parseLabels(lineno)
		if err != nil {
			return
		}
		if st.ts.done() {
			break
		}

		var inst *eu.Instruction
		var target string
		inst, target, err = st.parseInstruction()
		if err != nil {
			return
		}

		if asm.Verbose {
			log.Printf("%v: %v", lineno, spew.Sdump(inst))
		}

		node := Node{
			LineNo: lineno,
			Text:   strings.TrimSpace(line),
			Target: target,
		}
		node.Word, node.Err = eu.Encode(inst)
		if node.Err != nil {
			asm.diagnostic(lineno, line, node.Err)
			node.Word = eu.Word{}
			node.Target = ""
		}

		asm.program.Nodes = append(asm.program.Nodes, node)
	}

	return
}

// diagnostic records a recoverable error.
func (asm *Assembler) diagnostic(lineno int, line string, err error) {
	err = ErrSyntax{LineNo: lineno, Line: strings.TrimSpace(line), Err: err}
	if asm.Verbose {
		log.Printf("%v", err)
	}
	asm.program.Diagnostics = append(asm.program.Diagnostics, err)
}

// Parse parses an input stream into a Program of labels and instructions.
//
// Grammar errors stop the parse and are returned as an ErrSyntax.
// Recoverable problems, such as an instruction that does not encode,
// leave the statement out and are listed in Program.Diagnostics.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var inComment bool

	defer func() {
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: strings.TrimSpace(line), Err: err}
			prog = nil
		}
	}()

	asm.program = &Program{}
	asm.labels = make(map[string]int)
	asm.Symbols.Clear()
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = stripComments(text, &inComment)
		err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}
	}
	if err = scanner.Err(); err != nil {
		return
	}

	if inComment {
		err = ErrCommentLonely
		return
	}

	prog = asm.program
	asm.program = nil
	return
}

// statement parses the tokens of one line.
type statement struct {
	asm *Assembler
	ts  tokenStream
}

// parseLabels consumes any "name:" labels at the start of a statement.
func (st *statement) parseLabels(lineno int) (err error) {
	asm := st.asm
	for st.ts.peek().kind == tokenWord && st.ts.peekAt(1).kind == tokenPunct && st.ts.peekAt(1).text == ":" {
		label := st.ts.next().text
		st.ts.next()

		if _, ok := asm.labels[label]; ok {
			err = ErrLabelDuplicate
			return
		}
		asm.labels[label] = lineno
		asm.program.Nodes = append(asm.program.Nodes, Node{LineNo: lineno, Label: label})
	}
	return
}

// applySuffix handles a '.' separated mnemonic suffix.
func applySuffix(inst *eu.Instruction, suffix string) error {
	switch strings.ToLower(suffix) {
	case "sat":
		inst.Saturate = true
	case "breakpoint":
		inst.Debug = true
	default:
		cond, ok := eu.ParseCondMod(suffix)
		if !ok || cond == eu.COND_NONE {
			return ErrModifierInvalid(suffix)
		}
		inst.CondMod = cond
	}
	return nil
}

// applyModifier handles one word of the "{ ... }" control block.
func applyModifier(inst *eu.Instruction, word string) error {
	switch strings.ToLower(word) {
	case "align1":
		inst.AccessMode = eu.ALIGN_1
	case "align16":
		inst.AccessMode = eu.ALIGN_16
	case "nomask":
		inst.NoMask = true
	case "noddclr":
		inst.DepControl |= eu.DEP_NODDCLR
	case "noddchk":
		inst.DepControl |= eu.DEP_NODDCHK
	case "sechalf":
		inst.CompControl = eu.COMPR_SECHALF
	case "compr":
		inst.CompControl = eu.COMPR_COMPR
	case "switch":
		inst.ThreadControl = eu.THREAD_SWITCH
	case "accwrenable":
		inst.AccWrEnable = true
	default:
		return ErrModifierInvalid(word)
	}
	return nil
}

// parseNumber reads an unsuffixed integer token.
func (st *statement) parseNumber() (value uint32, err error) {
	tok := st.ts.next()
	if tok.kind != tokenNumber || len(tok.suffix) > 0 {
		err = st.unexpectedToken(tok)
		return
	}
	v, err := strconv.ParseUint(tok.text, 0, 32)
	if err != nil {
		err = ErrParseNumber(tok.text)
		return
	}
	value = uint32(v)
	return
}

func (st *statement) unexpectedToken(tok token) error {
	if tok.kind == tokenEOF {
		return ErrSemicolonMissing
	}
	return ErrToken(tok.text + tok.suffix)
}

// parseSend parses "MSGREG mlen N rlen N [EOT] target[( args )]".
func (st *statement) parseSend() (msg *eu.Send, err error) {
	ts := &st.ts
	msg = &eu.Send{}

	if msg.MsgReg, err = st.parseNumber(); err != nil {
		return
	}
	if !ts.acceptWord("mlen") {
		err = ErrSendSyntax
		return
	}
	if msg.MsgLength, err = st.parseNumber(); err != nil {
		return
	}
	if !ts.acceptWord("rlen") {
		err = ErrSendSyntax
		return
	}
	if msg.ResponseLength, err = st.parseNumber(); err != nil {
		return
	}
	msg.EndOfThread = ts.acceptWord("EOT")

	tok := ts.next()
	target, ok := eu.ParseMsgTarget(tok.text)
	if tok.kind != tokenWord || !ok {
		err = ErrSendSyntax
		return
	}
	msg.Target = target

	if !ts.accept("(") {
		return
	}

	var args [4]uint32
	var count int
	switch target {
	case eu.MSG_TARGET_SAMPLER:
		count = 2
	case eu.MSG_TARGET_DATAPORT_READ, eu.MSG_TARGET_DATAPORT_WRITE:
		count = 4
	default:
		err = ErrSendSyntax
		return
	}
	for n := range count {
		if n > 0 && !ts.accept(",") {
			err = ErrSendSyntax
			return
		}
		if args[n], err = st.parseNumber(); err != nil {
			return
		}
	}

	switch target {
	case eu.MSG_TARGET_SAMPLER:
		if !ts.accept(",") {
			err = ErrSendSyntax
			return
		}
		tok = ts.next()
		format, ok := eu.ParseReturnFormat(tok.text)
		if tok.kind != tokenWord || !ok {
			err = ErrSendSyntax
			return
		}
		msg.BindingTable = args[0]
		msg.Sampler = args[1]
		msg.ReturnFormat = format
	case eu.MSG_TARGET_DATAPORT_WRITE:
		msg.BindingTable = args[0]
		msg.MsgControl = args[1]
		msg.MsgType = args[2]
		msg.SendCommit = args[3] != 0
	case eu.MSG_TARGET_DATAPORT_READ:
		msg.BindingTable = args[0]
		msg.MsgControl = args[1]
		msg.MsgType = args[2]
		msg.TargetCache = args[3]
	}

	if !ts.accept(")") {
		err = ErrSendSyntax
	}
	return
}

// parseInstruction parses one instruction up to and including its ';'.
func (st *statement) parseInstruction() (inst *eu.Instruction, target string, err error) {
	ts := &st.ts
	inst = &eu.Instruction{}

	// (+f0.any4h)
	var predicate string
	if ts.accept("(") {
		switch {
		case ts.accept("+"):
		case ts.accept("-"):
			inst.PredInverse = true
		}
		if tok := ts.peek(); tok.kind == tokenWord {
			predicate = ts.next().text
		}
		if !ts.accept(")") {
			err = ErrPredicateInvalid
			return
		}
	}

	tok := ts.next()
	if tok.kind != tokenWord {
		err = ErrOpcodeMissing
		return
	}
	parts := strings.Split(tok.text, ".")
	op, ok := eu.LookupOpcode(parts[0])
	if !ok {
		err = ErrOpcodeInvalid(parts[0])
		return
	}
	inst.Opcode = op
	for _, suffix := range parts[1:] {
		if err = applySuffix(inst, suffix); err != nil {
			return
		}
	}

	if !ts.accept("(") {
		err = ErrExecSizeMissing
		return
	}
	size, err := st.parseNumber()
	if err != nil {
		return
	}
	inst.ExecSize = int(size)
	if !ts.accept(")") {
		err = ErrExecSizeMissing
		return
	}

	for tok := ts.peek(); tok.kind == tokenWord && strings.HasPrefix(tok.text, "."); tok = ts.peek() {
		ts.next()
		for _, suffix := range strings.Split(tok.text[1:], ".") {
			if err = applySuffix(inst, suffix); err != nil {
				return
			}
		}
	}

	if op == eu.OP_SEND {
		inst.Send, err = st.parseSend()
		if err != nil {
			return
		}
	}

	info, _ := op.Info()
	if info.Dests > 0 {
		inst.Dest, err = st.parseDest()
		if err != nil {
			return
		}
		if !ts.is(";") && !ts.is("{") {
			if err = ts.expect(","); err != nil {
				return
			}
		}
	}

	targetIndex := -1
	for !ts.is("{") && !ts.is(";") {
		if ts.done() {
			err = ErrSemicolonMissing
			return
		}
		if len(inst.Src) > 0 && !ts.accept(",") {
			err = ts.unexpected()
			return
		}
		var src eu.Operand
		var label string
		src, label, err = st.parseSource(inst.ExecSize)
		if err != nil {
			return
		}
		if len(label) > 0 {
			if targetIndex >= 0 {
				err = ErrTargetPosition
				return
			}
			targetIndex = len(inst.Src)
			target = label
		}
		inst.Src = append(inst.Src, src)
	}
	if targetIndex >= 0 && targetIndex != len(inst.Src)-1 {
		err = ErrTargetPosition
		return
	}

	if ts.accept("{") {
		for !ts.accept("}") {
			tok := ts.next()
			switch {
			case tok.kind == tokenPunct && tok.text == ",":
			case tok.kind == tokenWord:
				if err = applyModifier(inst, tok.text); err != nil {
					return
				}
			default:
				err = st.unexpectedToken(tok)
				return
			}
		}
	}

	if !ts.accept(";") {
		err = ts.unexpected()
		if ts.done() {
			err = ErrSemicolonMissing
		}
		return
	}

	if len(predicate) > 0 {
		inst.PredControl, ok = eu.ParsePredicate(inst.AccessMode, predicate)
		if !ok {
			err = ErrPredicateInvalid
			return
		}
	}

	return
}
