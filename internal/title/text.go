package title

import (
	"bytes"
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
)

// Capacities of the bounded text fields.
const (
	ProductCodeCapacity = 0x20
	WideTextCapacity    = 0x40
)

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// ProductCode is an opaque NUL-padded byte buffer. It is not guaranteed to be
// NUL-terminated when all ProductCodeCapacity bytes are used.
type ProductCode [ProductCodeCapacity]byte

// NewProductCode truncates s to ProductCodeCapacity bytes and NUL-pads the rest.
func NewProductCode(s string) ProductCode {
	var pc ProductCode
	copy(pc[:], s)
	return pc
}

func (pc ProductCode) String() string {
	if i := bytes.IndexByte(pc[:], 0); i >= 0 {
		return string(pc[:i])
	}
	return string(pc[:])
}

// WideText is a NUL-padded buffer of UTF-16 code units. Equality is defined
// over the stored units, never over the untruncated input.
type WideText [WideTextCapacity]uint16

// NewWideText encodes s as UTF-16 and truncates it to WideTextCapacity units.
// A surrogate pair is never split: if only its first half fits, it is dropped.
func NewWideText(s string) WideText {
	var wt WideText
	copy(wt[:], encodeUnits(s, WideTextCapacity))
	return wt
}

// encodeUnits returns at most limit UTF-16 units for s.
func encodeUnits(s string, limit int) []uint16 {
	encoded, err := utf16LE.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil
	}
	n := len(encoded) / 2
	if n > limit {
		n = limit
		if isHighSurrogate(binary.LittleEndian.Uint16(encoded[(n-1)*2:])) {
			n--
		}
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(encoded[i*2:])
	}
	return units
}

// Len returns the number of units before the first NUL.
func (wt WideText) Len() int {
	for i, u := range wt {
		if u == 0 {
			return i
		}
	}
	return WideTextCapacity
}

// Units returns the significant code units (up to the first NUL).
func (wt WideText) Units() []uint16 {
	n := wt.Len()
	out := make([]uint16, n)
	copy(out, wt[:n])
	return out
}

// IsEmpty reports whether the text has no significant units.
func (wt WideText) IsEmpty() bool { return wt[0] == 0 }

func (wt WideText) String() string {
	n := wt.Len()
	if n == 0 {
		return ""
	}
	raw := make([]byte, n*2)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint16(raw[i*2:], wt[i])
	}
	decoded, err := utf16LE.NewDecoder().Bytes(raw)
	if err != nil {
		return ""
	}
	return string(decoded)
}

func isHighSurrogate(u uint16) bool { return u >= 0xD800 && u <= 0xDBFF }
