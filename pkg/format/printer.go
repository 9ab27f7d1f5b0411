// Package format renders parsed type trees as text.
package format

import (
	"bytes"
	"strings"
)

const indentSize = 2

// Printer handles tree output with proper indentation.
type Printer struct {
	output      *bytes.Buffer
	depth       int
	indentSize  int
	atLineStart bool
}

func newPrinter(indent int) *Printer {
	if indent <= 0 {
		indent = indentSize
	}
	return &Printer{
		output:      &bytes.Buffer{},
		indentSize:  indent,
		atLineStart: true,
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

func (p *Printer) writeln() {
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) line(s string) {
	p.write(s)
	p.writeln()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*p.indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}
