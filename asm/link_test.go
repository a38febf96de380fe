package asm_test

import (
	"bytes"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ezrec/gen4asm/asm"
	"github.com/ezrec/gen4asm/eu"
)

const kernel = `
.declare color Base=g10 Type=F
.equ COUNT 4

/* Count down, then signal completion. */
setup:
	mov(8) color<1>, 0.5F;
	mov(8) g2<1>UD, $(COUNT*2)UD;
main:
	add(8) g2<1>D, g2<8,8,1>D, -1D;
	cmp(8).nz null<1>D, g2<8,8,1>D, 0D;
	(+f0) while(8) main;
	send(8) 0 mlen 2 rlen 0 EOT write(1, 0, 0, 1) null<1>UW, m1<8,8,1>UD;
`

var _ = Describe("Link", func() {
	var (
		prog *asm.Program
		img  *asm.Image
	)

	BeforeEach(func() {
		var err error
		prog, err = (&asm.Assembler{}).Parse(strings.NewReader(kernel))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Diagnostics).To(BeEmpty())
	})

	Context("with an entry point", func() {
		BeforeEach(func() {
			var err error
			img, err = prog.Link(asm.LinkOptions{Gen: 4, Entry: asm.NewEntrySet("main")})
			Expect(err).NotTo(HaveOccurred())
		})

		It("aligns the entry label", func() {
			Expect(img.Labels).To(HaveLen(2))
			Expect(img.Labels[1].Name).To(Equal("main"))
			Expect(img.Labels[1].Offset).To(Equal(3))
			Expect(img.Words[2]).To(Equal(eu.Word{}))
		})

		It("patches the loop branch", func() {
			Expect(img.Words[5][3]).To(Equal(uint32(0xfffffffe)))
		})

		It("exports the label offsets", func() {
			var buf bytes.Buffer
			Expect(img.Export(&buf)).To(Succeed())
			Expect(buf.String()).To(Equal("#define setup_IP 0\n#define main_IP 3\n"))
		})

		It("survives a hex round trip", func() {
			var buf bytes.Buffer
			Expect(img.WriteHex(&buf)).To(Succeed())
			words, err := asm.ReadHex(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(words).To(Equal(img.Words))
		})

		It("survives a byte round trip", func() {
			var buf bytes.Buffer
			Expect(img.WriteBytes(&buf)).To(Succeed())
			words, err := asm.ReadBytes(&buf)
			Expect(err).NotTo(HaveOccurred())
			Expect(words).To(Equal(img.Words))
		})
	})

	Context("on generation 5", func() {
		It("doubles distances and exported offsets", func() {
			img, err := prog.Link(asm.LinkOptions{Gen: 5})
			Expect(err).NotTo(HaveOccurred())
			Expect(img.Words[4][3]).To(Equal(uint32(0xfffffffc)))

			var buf bytes.Buffer
			Expect(img.Export(&buf)).To(Succeed())
			Expect(buf.String()).To(Equal("#define setup_IP 0\n#define main_IP 4\n"))
		})
	})

	It("rejects unknown generations", func() {
		_, err := prog.Link(asm.LinkOptions{Gen: 9})
		Expect(err).To(Equal(asm.ErrGeneration(9)))
	})

	It("reassembles its own disassembly", func() {
		for node := range prog.Instructions() {
			if len(node.Target) > 0 {
				continue
			}
			text, err := eu.DisasmString(node.Word)
			Expect(err).NotTo(HaveOccurred())

			again, err := (&asm.Assembler{}).Parse(strings.NewReader(text))
			Expect(err).NotTo(HaveOccurred(), text)
			Expect(again.Diagnostics).To(BeEmpty(), text)
			Expect(again.Nodes).To(HaveLen(1))
			Expect(again.Nodes[0].Word).To(Equal(node.Word), text)
		}
	})
})

var _ = Describe("Parse", func() {
	It("reports the failing line", func() {
		_, err := (&asm.Assembler{}).Parse(strings.NewReader("nop(1);\nfrob(8) g1<1>F;\n"))
		var syntax asm.ErrSyntax
		Expect(errors.As(err, &syntax)).To(BeTrue())
		Expect(syntax.LineNo).To(Equal(2))
		Expect(errors.Is(err, asm.ErrOpcodeInvalid("frob"))).To(BeTrue())
	})

	It("keeps going past encoding errors", func() {
		prog, err := (&asm.Assembler{}).Parse(strings.NewReader("mov(8) g300<1>F, g1<8,8,1>F;\nnop(1);\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Diagnostics).To(HaveLen(1))
		Expect(prog.Nodes).To(HaveLen(2))
		Expect(prog.Nodes[0].Err).To(HaveOccurred())
		Expect(prog.Nodes[0].Word).To(Equal(eu.Word{}))
	})
})
