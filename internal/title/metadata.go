package title

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/text/language"
)

// Metadata blob layout.
const (
	MetadataSize        = 0x36C0
	metadataMagic       = "SMDH"
	metadataTitlesStart = 0x8
	metadataTitleStride = 0x200
	metadataShortLen    = 0x80
	metadataLongLen     = 0x100
	metadataPublisher   = metadataShortLen + metadataLongLen
	metadataSlots       = 16
	metadataLargeIcon   = 0x24C0
	iconTile            = 8
)

var (
	// ErrMetadataShort reports a blob smaller than MetadataSize.
	ErrMetadataShort = errors.New("metadata blob too short")
	// ErrMetadataMagic reports a blob without the expected magic.
	ErrMetadataMagic = errors.New("metadata magic mismatch")
)

// MetadataLanguage indexes the per-language title slots.
type MetadataLanguage int

const (
	LangJapanese MetadataLanguage = iota
	LangEnglish
	LangFrench
	LangGerman
	LangItalian
	LangSpanish
	LangChineseSimplified
	LangKorean
	LangDutch
	LangPortuguese
	LangRussian
	LangChineseTraditional
)

// English comes first so an unmatched tag falls back to it.
var (
	supportedTags = []language.Tag{
		language.English,
		language.Japanese,
		language.French,
		language.German,
		language.Italian,
		language.Spanish,
		language.SimplifiedChinese,
		language.Korean,
		language.Dutch,
		language.Portuguese,
		language.Russian,
		language.TraditionalChinese,
	}
	supportedSlots = []MetadataLanguage{
		LangEnglish,
		LangJapanese,
		LangFrench,
		LangGerman,
		LangItalian,
		LangSpanish,
		LangChineseSimplified,
		LangKorean,
		LangDutch,
		LangPortuguese,
		LangRussian,
		LangChineseTraditional,
	}
	languageMatcher = language.NewMatcher(supportedTags)
)

// MatchLanguage maps a BCP 47 tag to the closest metadata slot. Unparseable
// or unsupported tags resolve to English.
func MatchLanguage(tag string) MetadataLanguage {
	parsed, err := language.Parse(tag)
	if err != nil {
		return LangEnglish
	}
	_, index, confidence := languageMatcher.Match(parsed)
	if confidence == language.No || index < 0 || index >= len(supportedSlots) {
		return LangEnglish
	}
	return supportedSlots[index]
}

// Metadata is the decoded subset of a title's metadata blob.
type Metadata struct {
	Title     WideText
	LongTitle string
	Publisher WideText
	Icon      *Icon
}

// DecodeMetadata extracts titles and the large icon. The requested language
// slot is preferred, then English, then the first slot with a title.
func DecodeMetadata(blob []byte, lang MetadataLanguage) (Metadata, error) {
	if len(blob) < MetadataSize {
		return Metadata{}, fmt.Errorf("%w: %d bytes", ErrMetadataShort, len(blob))
	}
	if string(blob[:4]) != metadataMagic {
		return Metadata{}, ErrMetadataMagic
	}

	slot := pickSlot(blob, lang)
	base := metadataTitlesStart + slot*metadataTitleStride
	return Metadata{
		Title:     wideFromBytes(blob[base : base+metadataShortLen]),
		LongTitle: unitsString(blob[base+metadataShortLen : base+metadataPublisher]),
		Publisher: wideFromBytes(blob[base+metadataPublisher : base+metadataTitleStride]),
		Icon:      decodeLargeIcon(blob[metadataLargeIcon:MetadataSize]),
	}, nil
}

func pickSlot(blob []byte, lang MetadataLanguage) int {
	hasTitle := func(slot int) bool {
		off := metadataTitlesStart + slot*metadataTitleStride
		return binary.LittleEndian.Uint16(blob[off:]) != 0
	}
	if lang >= 0 && int(lang) < metadataSlots && hasTitle(int(lang)) {
		return int(lang)
	}
	if hasTitle(int(LangEnglish)) {
		return int(LangEnglish)
	}
	for slot := 0; slot < metadataSlots; slot++ {
		if hasTitle(slot) {
			return slot
		}
	}
	return int(LangEnglish)
}

// wideFromBytes reads up to WideTextCapacity little-endian units, stopping
// at the first NUL.
func wideFromBytes(raw []byte) WideText {
	var wt WideText
	for i := 0; i < WideTextCapacity && (i+1)*2 <= len(raw); i++ {
		u := binary.LittleEndian.Uint16(raw[i*2:])
		if u == 0 {
			break
		}
		wt[i] = u
	}
	return wt
}

// unitsString decodes little-endian UTF-16 bytes up to the first NUL.
func unitsString(raw []byte) string {
	end := len(raw) &^ 1
	for i := 0; i+1 < len(raw); i += 2 {
		if raw[i] == 0 && raw[i+1] == 0 {
			end = i
			break
		}
	}
	decoded, err := utf16LE.NewDecoder().Bytes(raw[:end])
	if err != nil {
		return ""
	}
	return string(decoded)
}

// decodeLargeIcon untiles a 48x48 RGB565 image stored as 8x8 tiles, each
// tile in Morton order.
func decodeLargeIcon(raw []byte) *Icon {
	icon := &Icon{}
	tilesPerRow := IconSize / iconTile
	for i := 0; i < IconSize*IconSize && (i+1)*2 <= len(raw); i++ {
		tile, within := i/(iconTile*iconTile), i%(iconTile*iconTile)
		x := (tile%tilesPerRow)*iconTile + mortonX(within)
		y := (tile/tilesPerRow)*iconTile + mortonY(within)
		icon.set(x, y, rgb565(binary.LittleEndian.Uint16(raw[i*2:])))
	}
	return icon
}

func mortonX(i int) int { return (i & 1) | ((i >> 1) & 2) | ((i >> 2) & 4) }

func mortonY(i int) int { return ((i >> 1) & 1) | ((i >> 2) & 2) | ((i >> 3) & 4) }

// EncodeMetadata renders m as a metadata blob. The titles are written to the
// given language slots, or to every slot when none are given. The icon is
// stored as RGB565, so round trips are lossy in the low color bits.
func EncodeMetadata(m Metadata, langs ...MetadataLanguage) []byte {
	blob := make([]byte, MetadataSize)
	copy(blob, metadataMagic)
	if len(langs) == 0 {
		for slot := 0; slot < metadataSlots; slot++ {
			langs = append(langs, MetadataLanguage(slot))
		}
	}
	for _, lang := range langs {
		if lang < 0 || int(lang) >= metadataSlots {
			continue
		}
		base := metadataTitlesStart + int(lang)*metadataTitleStride
		putUnits(blob[base:base+metadataShortLen], m.Title.Units())
		putUnits(blob[base+metadataShortLen:base+metadataPublisher], encodeUnits(m.LongTitle, metadataLongLen/2))
		putUnits(blob[base+metadataPublisher:base+metadataTitleStride], m.Publisher.Units())
	}
	icon := m.Icon
	if icon == nil {
		icon = PlaceholderIcon()
	}
	encodeLargeIcon(blob[metadataLargeIcon:MetadataSize], icon)
	return blob
}

func putUnits(dst []byte, units []uint16) {
	for i, u := range units {
		if (i+1)*2 > len(dst) {
			return
		}
		binary.LittleEndian.PutUint16(dst[i*2:], u)
	}
}

func encodeLargeIcon(dst []byte, icon *Icon) {
	tilesPerRow := IconSize / iconTile
	for i := 0; i < IconSize*IconSize && (i+1)*2 <= len(dst); i++ {
		tile, within := i/(iconTile*iconTile), i%(iconTile*iconTile)
		x := (tile%tilesPerRow)*iconTile + mortonX(within)
		y := (tile/tilesPerRow)*iconTile + mortonY(within)
		off := (y*IconSize + x) * 4
		r, g, b := icon.pix[off], icon.pix[off+1], icon.pix[off+2]
		packed := uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
		binary.LittleEndian.PutUint16(dst[i*2:], packed)
	}
}
