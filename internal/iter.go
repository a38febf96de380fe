package internal

import (
	"iter"
)

// Concat chains several sequences into one, in argument order.
//
// The disassembler uses it to treat a list of input files as a single
// instruction stream.
func Concat[T any](seqs ...iter.Seq[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, seq := range seqs {
			for val := range seq {
				if !yield(val) {
					return
				}
			}
		}
	}
}
