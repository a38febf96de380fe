// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/tebeka/atexit"

	"github.com/ezrec/gen4asm/asm"
)

type defines []string

func (d *defines) String() string {
	return strings.Join(*d, ",")
}

func (d *defines) Set(value string) error {
	*d = append(*d, value)
	return nil
}

var outputs []*os.File

// create opens an output file, removing it again if we exit on an error.
func create(path string) (ouf *os.File) {
	if path == "-" {
		return os.Stdout
	}

	ouf, err := os.Create(path)
	if err != nil {
		atexit.Fatalf("%v: %v", path, err)
	}
	outputs = append(outputs, ouf)

	atexit.Register(func() {
		ouf.Close()
		os.Remove(path)
	})

	return
}

func main() {
	var output string
	var binary bool
	var gen int
	var entry string
	var export string
	var listing bool
	var predefine defines
	var strict bool
	var verbose bool

	flag.StringVar(&output, "o", "-", "Output file")
	flag.BoolVar(&binary, "b", false, "Emit bytes instead of dwords")
	flag.IntVar(&gen, "g", asm.GEN_MIN, "Hardware generation (4..7)")
	flag.StringVar(&entry, "l", "", "File of entry point labels, one per line")
	flag.StringVar(&export, "e", "", "Export label offsets as C defines")
	flag.BoolVar(&listing, "t", false, "Print label and register tables")
	flag.Var(&predefine, "D", "Predefine an equate, as NAME=VALUE")
	flag.BoolVar(&strict, "strict", false, "Treat diagnostics as errors")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 1 {
		atexit.Fatalf("%v: Expected one input file, got: %v", os.Args[0], flag.Args())
	}
	input := flag.Arg(0)

	var inf io.Reader = os.Stdin
	if input != "-" {
		file, err := os.Open(input)
		if err != nil {
			atexit.Fatalf("%v: %v", input, err)
		}
		defer file.Close()
		inf = file
	}

	opts := asm.LinkOptions{Gen: gen}
	if len(entry) != 0 {
		file, err := os.Open(entry)
		if err != nil {
			atexit.Fatalf("%v: %v", entry, err)
		}
		opts.Entry, err = asm.ReadEntryPoints(file)
		file.Close()
		if err != nil {
			atexit.Fatalf("%v: %v", entry, err)
		}
	}

	as := &asm.Assembler{Verbose: verbose}
	for _, def := range predefine {
		name, value, ok := strings.Cut(def, "=")
		if !ok {
			value = "1"
		}
		as.Predefine(name, value)
	}

	prog, err := as.Parse(inf)
	if err != nil {
		atexit.Fatalf("%v: %v", input, err)
	}

	img, err := prog.Link(opts)
	if err != nil {
		atexit.Fatalf("%v: %v", input, err)
	}

	diagnostics := append(prog.Diagnostics, img.Diagnostics...)
	for _, diag := range diagnostics {
		log.Printf("%v: %v", input, diag)
	}
	if strict && len(diagnostics) != 0 {
		atexit.Fatalf("%v: %d diagnostics", input, len(diagnostics))
	}

	ouf := create(output)
	if binary {
		err = img.WriteBytes(ouf)
	} else {
		err = img.WriteHex(ouf)
	}
	if err != nil {
		atexit.Fatalf("%v: %v", output, err)
	}

	if len(export) != 0 {
		exf := create(export)
		err = img.Export(exf)
		if err != nil {
			atexit.Fatalf("%v: %v", export, err)
		}
	}

	if listing {
		if err = img.Listing(os.Stderr); err == nil {
			err = as.Symbols.Listing(os.Stderr)
		}
		if err != nil {
			log.Print(err)
		}
	}

	if verbose {
		log.Printf("%v: %d instructions, %d labels", input, len(img.Words), len(img.Labels))
	}

	for _, ouf := range outputs {
		err = ouf.Close()
		if err != nil {
			atexit.Fatalf("%v: %v", ouf.Name(), err)
		}
	}
}
