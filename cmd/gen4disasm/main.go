// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"errors"
	"flag"
	"io"
	"iter"
	"log"
	"os"
	"slices"

	"github.com/tebeka/atexit"

	"github.com/ezrec/gen4asm/asm"
	"github.com/ezrec/gen4asm/eu"
	"github.com/ezrec/gen4asm/internal"
)

// load reads the instruction words of one input file.
func load(path string, binary bool) iter.Seq[eu.Word] {
	var inf io.Reader = os.Stdin
	if path != "-" {
		file, err := os.Open(path)
		if err != nil {
			atexit.Fatalf("%v: %v", path, err)
		}
		defer file.Close()
		inf = file
	}

	read := asm.ReadHex
	if binary {
		read = asm.ReadBytes
	}

	words, err := read(inf)
	if err != nil {
		atexit.Fatalf("%v: %v", path, err)
	}

	return slices.Values(words)
}

func main() {
	var output string
	var binary bool
	var gen int
	var verbose bool

	flag.StringVar(&output, "o", "-", "Output file")
	flag.BoolVar(&binary, "b", false, "Input is bytes instead of dwords")
	flag.IntVar(&gen, "g", asm.GEN_MIN, "Hardware generation (4..7); all share one word layout, so this is only validated")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if gen < asm.GEN_MIN || gen > asm.GEN_MAX {
		atexit.Fatalf("%v: %v", os.Args[0], asm.ErrGeneration(gen))
	}

	inputs := flag.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	var seqs []iter.Seq[eu.Word]
	for _, input := range inputs {
		seqs = append(seqs, load(input, binary))
	}

	ouf := os.Stdout
	if output != "-" {
		var err error
		ouf, err = os.Create(output)
		if err != nil {
			atexit.Fatalf("%v: %v", output, err)
		}
		atexit.Register(func() {
			ouf.Close()
			os.Remove(output)
		})
	}

	bw := bufio.NewWriter(ouf)

	failed := false
	ip := 0
	for w := range internal.Concat(seqs...) {
		err := eu.Disasm(bw, w)
		var invalid eu.ErrDisasm
		switch {
		case errors.As(err, &invalid):
			failed = true
			if verbose {
				log.Printf("%v: %v", ip, err)
			}
		case err != nil:
			atexit.Fatalf("%v: %v", output, err)
		}
		ip++
	}

	if err := bw.Flush(); err != nil {
		atexit.Fatalf("%v: %v", output, err)
	}
	if err := ouf.Close(); err != nil {
		atexit.Fatalf("%v: %v", output, err)
	}

	if failed {
		os.Exit(1)
	}
}
