// Package asm assembles GEN4 EU assembly text into a linked program.
//
// The Assembler reads the text line by line. Each statement is an
// optional run of labels followed by either a directive (.declare, .equ)
// or an instruction terminated by ';'. Instructions are packed with
// eu.Encode as they are parsed, so the resulting Program is a list of
// label and instruction nodes with the branch targets still pending.
//
// Program.Link assigns offsets, pads the requested entry points, and
// patches every branch to its label, producing an Image that can be
// written as C initializer text, as raw bytes, or as a label listing.
package asm
