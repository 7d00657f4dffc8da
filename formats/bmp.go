package formats

import "encoding/binary"

const (
	bmpFileHeaderSize = 14
	bmpCoreHeaderSize = 12 // OS/2 BITMAPCOREHEADER
)

var bmpSignature = []byte{'B', 'M'}

// detectBMP reads the dimensions from the DIB header that follows the 14-byte
// file header. BITMAPINFOHEADER and later store signed 32-bit values, the OS/2
// core header stores unsigned 16-bit values.
func detectBMP(buf []byte) Outcome {
	if st := matchSignature(buf, bmpSignature); st != Resolved {
		return Outcome{Status: st}
	}

	// DIB header size (4 bytes, little-endian)
	if len(buf) < bmpFileHeaderSize+4 {
		return needMore
	}
	dibSize := binary.LittleEndian.Uint32(buf[bmpFileHeaderSize:])

	switch {
	case dibSize == bmpCoreHeaderSize:
		if len(buf) < 22 {
			return needMore
		}
		width := binary.LittleEndian.Uint16(buf[18:20])
		height := binary.LittleEndian.Uint16(buf[20:22])
		return resolved(BMP, uint32(width), uint32(height))

	case dibSize >= 40:
		if len(buf) < 26 {
			return needMore
		}
		width := int32(binary.LittleEndian.Uint32(buf[18:22]))
		height := int32(binary.LittleEndian.Uint32(buf[22:26]))
		// Negative height marks a top-down bitmap.
		return resolved(BMP, abs32(width), abs32(height))

	default:
		return noMatch
	}
}

func abs32(v int32) uint32 {
	if v < 0 {
		return uint32(-int64(v))
	}
	return uint32(v)
}
