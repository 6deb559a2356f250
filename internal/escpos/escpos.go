// Package escpos builds ESC/POS command streams for thermal receipt printers.
package escpos

import "bytes"

// Control bytes.
const (
	LF  = 0x0A
	ESC = 0x1B
	GS  = 0x1D
)

// Alignment is the ESC a justification argument.
type Alignment byte

const (
	AlignLeft   Alignment = 0
	AlignCenter Alignment = 1
	AlignRight  Alignment = 2
)

// cutFeed is the GS V selector for feed-then-partial-cut.
const cutFeed = 'A'

// Command accumulates an ESC/POS byte stream.
type Command struct {
	buf bytes.Buffer
}

// New returns an empty command stream.
func New() *Command {
	return &Command{}
}

// Init resets the printer to power-on defaults (ESC @).
func (c *Command) Init() *Command {
	c.buf.Write([]byte{ESC, '@'})
	return c
}

// Align sets justification for following lines (ESC a n).
func (c *Command) Align(a Alignment) *Command {
	c.buf.Write([]byte{ESC, 'a', byte(a)})
	return c
}

// Text appends s verbatim as UTF-8, embedded newlines included.
func (c *Command) Text(s string) *Command {
	c.buf.WriteString(s)
	return c
}

// Feed appends n line feeds.
func (c *Command) Feed(n int) *Command {
	for i := 0; i < n; i++ {
		c.buf.WriteByte(LF)
	}
	return c
}

// PartialCut feeds n dot lines and cuts leaving a hinge (GS V A n), so
// sequential receipts stay attached until torn off.
func (c *Command) PartialCut(n byte) *Command {
	c.buf.Write([]byte{GS, 'V', cutFeed, n})
	return c
}

// Bytes returns a copy of the accumulated stream. An empty stream yields
// an empty, non-nil slice.
func (c *Command) Bytes() []byte {
	return append([]byte{}, c.buf.Bytes()...)
}

// Receipt frames text as one print job: initialize, center, the text,
// three line feeds, then a partial cut.
func Receipt(text string) []byte {
	return New().
		Init().
		Align(AlignCenter).
		Text(text).
		Feed(3).
		PartialCut(3).
		Bytes()
}
