package asm

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"github.com/ezrec/gen4asm/eu"
)

// WriteHex writes each word as a C initializer row of four dwords.
func (img *Image) WriteHex(out io.Writer) (err error) {
	return WriteHex(out, img.Words)
}

// WriteBytes writes each word as sixteen little-endian bytes.
func (img *Image) WriteBytes(out io.Writer) (err error) {
	return WriteBytes(out, img.Words)
}

// WriteHex writes words as C initializer rows, one row of four dwords per
// word. ReadHex reads them back.
func WriteHex(out io.Writer, words []eu.Word) (err error) {
	bw := bufio.NewWriter(out)
	for _, w := range words {
		_, err = fmt.Fprintf(bw, "   { 0x%08x, 0x%08x, 0x%08x, 0x%08x },\n", w[0], w[1], w[2], w[3])
		if err != nil {
			return
		}
	}
	return bw.Flush()
}

// WriteBytes writes words as sixteen little-endian bytes per line.
// ReadBytes reads them back.
func WriteBytes(out io.Writer, words []eu.Word) (err error) {
	bw := bufio.NewWriter(out)
	for _, w := range words {
		for n, lane := range w {
			for b := range 4 {
				sep := ", "
				if n == 3 && b == 3 {
					sep = ",\n"
				}
				_, err = fmt.Fprintf(bw, "0x%02x%s", uint8(lane>>(8*b)), sep)
				if err != nil {
					return
				}
			}
		}
	}
	return bw.Flush()
}

var hexPattern = regexp.MustCompile(`0[xX][0-9a-fA-F]+`)

// scanHex collects every 0x number of the input, checking each fits in bits.
func scanHex(input io.Reader, bits int) (values []uint32, err error) {
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		for _, text := range hexPattern.FindAllString(scanner.Text(), -1) {
			var v uint64
			v, err = strconv.ParseUint(text, 0, bits)
			if err != nil {
				err = ErrParseNumber(text)
				return
			}
			values = append(values, uint32(v))
		}
	}
	err = scanner.Err()
	return
}

// ReadHex reads the words written by WriteHex. A trailing partial word
// is dropped.
func ReadHex(input io.Reader) (words []eu.Word, err error) {
	values, err := scanHex(input, 32)
	if err != nil {
		return
	}
	for n := 0; n+4 <= len(values); n += 4 {
		words = append(words, eu.Word([4]uint32(values[n : n+4])))
	}
	return
}

// ReadBytes reads the words written by WriteBytes. A trailing partial
// word is dropped.
func ReadBytes(input io.Reader) (words []eu.Word, err error) {
	values, err := scanHex(input, 8)
	if err != nil {
		return
	}
	for n := 0; n+16 <= len(values); n += 16 {
		var w eu.Word
		for b, v := range values[n : n+16] {
			w[b/4] |= v << (8 * (b % 4))
		}
		words = append(words, w)
	}
	return
}
