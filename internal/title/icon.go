package title

import (
	"bytes"
	"image"
	"image/color"
	"sync"
)

// Icon geometry. Pixels are stored row-major as R, G, B, A bytes.
const (
	IconSize  = 48
	IconBytes = IconSize * IconSize * 4
)

// Icon is an immutable 48x48 thumbnail. Records share icons by pointer, so an
// icon handed to a renderer is never copied and never changes underneath it.
type Icon struct {
	pix [IconBytes]byte
}

// NewIcon copies up to IconBytes of RGBA pixel data; missing bytes stay zero.
func NewIcon(pix []byte) *Icon {
	icon := &Icon{}
	copy(icon.pix[:], pix)
	return icon
}

// Pixels returns a copy of the RGBA buffer.
func (i *Icon) Pixels() []byte {
	pix := make([]byte, IconBytes)
	copy(pix, i.pix[:])
	return pix
}

// CopyPixels copies the RGBA buffer into dst and returns the number of bytes
// copied.
func (i *Icon) CopyPixels(dst []byte) int { return copy(dst, i.pix[:]) }

// HasPixels reports whether pix holds exactly this icon's RGBA buffer.
func (i *Icon) HasPixels(pix []byte) bool { return bytes.Equal(pix, i.pix[:]) }

func (i *Icon) ColorModel() color.Model { return color.NRGBAModel }

func (i *Icon) Bounds() image.Rectangle { return image.Rect(0, 0, IconSize, IconSize) }

func (i *Icon) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= IconSize || y >= IconSize {
		return color.NRGBA{}
	}
	off := (y*IconSize + x) * 4
	return color.NRGBA{R: i.pix[off], G: i.pix[off+1], B: i.pix[off+2], A: i.pix[off+3]}
}

func (i *Icon) set(x, y int, c color.NRGBA) {
	off := (y*IconSize + x) * 4
	i.pix[off] = c.R
	i.pix[off+1] = c.G
	i.pix[off+2] = c.B
	i.pix[off+3] = c.A
}

// PlaceholderIcon returns the shared icon used when metadata is unavailable.
var PlaceholderIcon = sync.OnceValue(func() *Icon {
	icon := &Icon{}
	fill := color.NRGBA{R: 0x40, G: 0x40, B: 0x48, A: 0xFF}
	border := color.NRGBA{R: 0x90, G: 0x90, B: 0x98, A: 0xFF}
	for y := 0; y < IconSize; y++ {
		for x := 0; x < IconSize; x++ {
			if x < 2 || y < 2 || x >= IconSize-2 || y >= IconSize-2 {
				icon.set(x, y, border)
			} else {
				icon.set(x, y, fill)
			}
		}
	}
	return icon
})

func rgb565(v uint16) color.NRGBA {
	r := uint8(v>>11) & 0x1F
	g := uint8(v>>5) & 0x3F
	b := uint8(v) & 0x1F
	return color.NRGBA{
		R: r<<3 | r>>2,
		G: g<<2 | g>>4,
		B: b<<3 | b>>2,
		A: 0xFF,
	}
}
