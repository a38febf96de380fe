package asm

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Listing writes a table of the labels of the image.
func (img *Image) Listing(out io.Writer) (err error) {
	tw := table.NewWriter()
	tw.SetTitle(f("Labels (gen %d)", img.Gen))
	tw.AppendHeader(table.Row{f("Label"), f("Offset"), f("Entry"), f("Line")})
	for _, label := range img.Labels {
		entry := ""
		if label.Entry {
			entry = "*"
		}
		tw.AppendRow(table.Row{label.Name, label.Offset, entry, label.LineNo})
	}
	tw.AppendFooter(table.Row{f("Instructions"), len(img.Words), "", ""})

	_, err = fmt.Fprintln(out, tw.Render())
	return
}

// Listing writes a table of the declared registers, sorted by name.
func (st *SymbolTable) Listing(out io.Writer) (err error) {
	regs := slices.SortedFunc(st.All(), func(a, b *Register) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	tw := table.NewWriter()
	tw.SetTitle(f("Registers"))
	tw.AppendHeader(table.Row{f("Name"), f("File"), f("Nr"), f("SubNr"), f("Type")})
	for _, reg := range regs {
		typ := ""
		if reg.Typed {
			typ = reg.Type.String()
		}
		tw.AppendRow(table.Row{reg.Name, reg.File.String(), reg.Nr, reg.SubNr, typ})
	}

	_, err = fmt.Fprintln(out, tw.Render())
	return
}
