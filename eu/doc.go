// Package eu implements the instruction word of the GEN4 execution unit.
//
// An instruction is a fixed 128-bit Word made of four 32-bit lanes: a
// header lane, a destination lane that also carries the operand file and
// type fields, and one lane per source. When the last source is an
// immediate, or the instruction is a send, the final lane carries the
// immediate payload or the message descriptor instead.
//
// Every sub-field is described once, as a Field, and that single layout is
// shared by Encode (Instruction to Word) and Disasm (Word to text). Decoding
// is permissive: unknown codes are rendered inline as
// "*** invalid <field> value <n>" and reported via ErrDisasm, while the
// rest of the instruction is still rendered.
package eu
