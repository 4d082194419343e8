package cachefile

import (
	"encoding/binary"

	"savekeeper/internal/title"
)

// File header.
const (
	Magic      uint32 = 0x4D534B4A
	Revision   byte   = 0x09
	HeaderSize        = 7
)

// Record layout offsets.
const (
	offID          = 0
	offMedia       = 8
	offSaveBits    = 12
	offProductCode = 20
	offTitle       = offProductCode + title.ProductCodeCapacity
	offPublisher   = offTitle + title.WideTextCapacity*2
	offIcon        = offPublisher + title.WideTextCapacity*2

	// RecordSize is the fixed on-disk width of one record.
	RecordSize = offIcon + title.IconBytes
)

// EncodeRecord writes r into dst, which must hold at least RecordSize bytes.
// Padding bytes are zeroed.
func EncodeRecord(dst []byte, r *title.Record) {
	dst = dst[:RecordSize]
	clear(dst)
	p := r.Persisted()
	binary.LittleEndian.PutUint64(dst[offID:], uint64(p.ID))
	binary.LittleEndian.PutUint32(dst[offMedia:], uint32(p.Media))
	binary.LittleEndian.PutUint32(dst[offSaveBits:], p.Saves.Bits())
	copy(dst[offProductCode:offTitle], p.ProductCode[:])
	putWide(dst[offTitle:offPublisher], p.Title)
	putWide(dst[offPublisher:offIcon], p.Publisher)
	p.Icon.CopyPixels(dst[offIcon:RecordSize])
}

// DecodeRecord rebuilds a record from src, which must hold at least
// RecordSize bytes. Content is never rejected; unknown save bits are dropped.
func DecodeRecord(src []byte) *title.Record {
	src = src[:RecordSize]
	p := title.Persisted{
		ID:    title.ID(binary.LittleEndian.Uint64(src[offID:])),
		Media: title.MediaKind(binary.LittleEndian.Uint32(src[offMedia:])),
		Saves: title.SaveTypesFromBits(binary.LittleEndian.Uint32(src[offSaveBits:])),
		Icon:  decodeIcon(src[offIcon:RecordSize]),
	}
	copy(p.ProductCode[:], src[offProductCode:offTitle])
	p.Title = readWide(src[offTitle:offPublisher])
	p.Publisher = readWide(src[offPublisher:offIcon])
	return title.FromPersisted(p)
}

// decodeIcon maps placeholder pixels back onto the shared placeholder icon.
func decodeIcon(pix []byte) *title.Icon {
	if placeholder := title.PlaceholderIcon(); placeholder.HasPixels(pix) {
		return placeholder
	}
	return title.NewIcon(pix)
}

func putWide(dst []byte, wt title.WideText) {
	for i, u := range wt {
		binary.LittleEndian.PutUint16(dst[i*2:], u)
	}
}

func readWide(src []byte) title.WideText {
	var wt title.WideText
	for i := range wt {
		wt[i] = binary.LittleEndian.Uint16(src[i*2:])
	}
	return wt
}

func encodeHeader(dst []byte, count uint16) {
	binary.LittleEndian.PutUint32(dst[0:], Magic)
	binary.LittleEndian.PutUint16(dst[4:], count)
	dst[6] = Revision
}

type header struct {
	magic    uint32
	count    uint16
	revision byte
}

func decodeHeader(src []byte) header {
	return header{
		magic:    binary.LittleEndian.Uint32(src[0:]),
		count:    binary.LittleEndian.Uint16(src[4:]),
		revision: src[6],
	}
}
