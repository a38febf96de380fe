package asm

import (
	"fmt"
	"io"
	"iter"

	"github.com/ezrec/gen4asm/eu"
)

// Node is one label or one instruction of a Program.
type Node struct {
	LineNo int
	Text   string // Source line of an instruction.

	Label string // Non-empty for a label node.

	Word   eu.Word
	Target string // Label the branch distance is patched from, if any.

	// Err is set when the instruction could not be encoded. Word is then
	// all zeros, which decodes as an invalid opcode, and keeps the offsets
	// of the following nodes in step with the source.
	Err error
}

// IsLabel reports whether the node is a label.
func (node *Node) IsLabel() bool {
	return len(node.Label) > 0
}

// Program is the parsed, not yet linked, instruction sequence.
type Program struct {
	Nodes       []Node
	Diagnostics []error // Recoverable errors found while parsing.
}

// Instructions iterates over the instruction nodes.
func (prog *Program) Instructions() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for n := range prog.Nodes {
			node := &prog.Nodes[n]
			if node.IsLabel() {
				continue
			}
			if !yield(node) {
				return
			}
		}
	}
}

// Generations supported by Link.
const (
	GEN_MIN = 4
	GEN_MAX = 7
)

// LinkOptions selects the hardware generation and the labels that must
// start on an aligned offset.
type LinkOptions struct {
	Gen   int
	Entry EntrySet
}

// Label is a label of a linked Image.
type Label struct {
	Name   string
	Offset int // In instructions from the start of the image.
	Entry  bool
	LineNo int
}

// Image is a linked program.
type Image struct {
	Gen         int
	Words       []eu.Word
	Labels      []Label
	Diagnostics []error // Recoverable errors found while linking.
}

// Link lays out the program, pads the entry points, and patches every
// branch with its distance to the target label.
//
// An entry point label is preceded by zero words until its offset plus
// one is a multiple of four. Branches to unknown labels, or too far for
// their jump count, are reported in Image.Diagnostics and left unpatched.
// The Program is not modified.
func (prog *Program) Link(opts LinkOptions) (img *Image, err error) {
	if opts.Gen < GEN_MIN || opts.Gen > GEN_MAX {
		err = ErrGeneration(opts.Gen)
		return
	}

	img = &Image{Gen: opts.Gen}

	type pending struct {
		index int
		node  *Node
	}
	var relocs []pending
	offsets := make(map[string]int)

	for n := range prog.Nodes {
		node := &prog.Nodes[n]
		if node.IsLabel() {
			entry := opts.Entry.Has(node.Label)
			if entry {
				for (len(img.Words)+1)%4 != 0 {
					img.Words = append(img.Words, eu.Word{})
				}
			}
			offsets[node.Label] = len(img.Words)
			img.Labels = append(img.Labels, Label{
				Name:   node.Label,
				Offset: len(img.Words),
				Entry:  entry,
				LineNo: node.LineNo,
			})
			continue
		}

		if len(node.Target) > 0 {
			relocs = append(relocs, pending{index: len(img.Words), node: node})
		}
		img.Words = append(img.Words, node.Word)
	}

	for _, reloc := range relocs {
		target, ok := offsets[reloc.node.Target]
		if !ok {
			img.Diagnostics = append(img.Diagnostics, ErrSyntax{
				LineNo: reloc.node.LineNo,
				Line:   reloc.node.Text,
				Err:    ErrLabelMissing(reloc.node.Target),
			})
			continue
		}

		w := &img.Words[reloc.index]
		delta := target - reloc.index
		if w.Opcode() == eu.OP_JMPI {
			delta--
		}
		if opts.Gen >= 5 {
			delta *= 2
		}
		err := w.SetJump(int32(delta))
		if err != nil {
			img.Diagnostics = append(img.Diagnostics, ErrSyntax{
				LineNo: reloc.node.LineNo,
				Line:   reloc.node.Text,
				Err:    err,
			})
		}
	}

	return
}

// Export writes a C preprocessor define with the offset of every label.
//
// Offsets are doubled on generation 5, which counts in half instructions.
func (img *Image) Export(out io.Writer) (err error) {
	scale := 1
	if img.Gen == 5 {
		scale = 2
	}
	for _, label := range img.Labels {
		_, err = fmt.Fprintf(out, "#define %s_IP %d\n", label.Name, label.Offset*scale)
		if err != nil {
			return
		}
	}
	return
}
