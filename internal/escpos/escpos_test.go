package escpos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReceiptHello(t *testing.T) {
	want := []byte{
		0x1B, 0x40,
		0x1B, 0x61, 0x01,
		0x48, 0x45, 0x4C, 0x4C, 0x4F,
		0x0A, 0x0A, 0x0A,
		0x1D, 0x56, 0x41, 0x03,
	}
	assert.Equal(t, want, Receipt("HELLO"))
}

func TestReceiptKeepsNewlinesAndUTF8(t *testing.T) {
	text := "MOI ₹500\nநன்றி"
	got := Receipt(text)

	header := []byte{0x1B, 0x40, 0x1B, 0x61, 0x01}
	trailer := []byte{0x0A, 0x0A, 0x0A, 0x1D, 0x56, 0x41, 0x03}

	assert.Equal(t, header, got[:len(header)])
	assert.Equal(t, []byte(text), got[len(header):len(got)-len(trailer)])
	assert.Equal(t, trailer, got[len(got)-len(trailer):])
}

func TestReceiptEmptyText(t *testing.T) {
	got := Receipt("")
	assert.Len(t, got, 12)
}

func TestCommandBuilder(t *testing.T) {
	tests := []struct {
		name string
		cmd  *Command
		want []byte
	}{
		{"init", New().Init(), []byte{0x1B, 0x40}},
		{"align left", New().Align(AlignLeft), []byte{0x1B, 0x61, 0x00}},
		{"align right", New().Align(AlignRight), []byte{0x1B, 0x61, 0x02}},
		{"feed zero", New().Feed(0), []byte{}},
		{"feed two", New().Feed(2), []byte{0x0A, 0x0A}},
		{"text", New().Text("A\n"), []byte{'A', 0x0A}},
		{"partial cut with feed", New().PartialCut(5), []byte{0x1D, 0x56, 0x41, 0x05}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cmd.Bytes())
		})
	}
}

func TestBytesReturnsCopy(t *testing.T) {
	cmd := New().Init()
	b := cmd.Bytes()
	b[0] = 0xFF
	assert.Equal(t, []byte{0x1B, 0x40}, cmd.Bytes())
}

func TestEmptyCommandBytesNotNil(t *testing.T) {
	got := New().Bytes()
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got = New().Feed(0).Bytes()
	assert.NotNil(t, got)
	assert.Equal(t, []byte{}, got)
}
