package formats

import "encoding/binary"

// TIFF tag IDs
const (
	tiffTagImageWidth  = 0x0100
	tiffTagImageLength = 0x0101
)

// TIFF data types
const (
	tiffTypeShort = 3
	tiffTypeLong  = 4
)

const tiffMagic = 42

var (
	tiffLittleEndian = []byte{'I', 'I'}
	tiffBigEndian    = []byte{'M', 'M'}
)

// detectTIFF follows the offset in the header to the first Image File
// Directory and scans its entries for ImageWidth and ImageLength. The byte
// order mark governs every multi-byte read.
func detectTIFF(buf []byte) Outcome {
	var byteOrder binary.ByteOrder
	switch {
	case matchSignature(buf, tiffLittleEndian) == Resolved:
		byteOrder = binary.LittleEndian
	case matchSignature(buf, tiffBigEndian) == Resolved:
		byteOrder = binary.BigEndian
	case len(buf) < 2 && (matchSignature(buf, tiffLittleEndian) == NeedMoreData ||
		matchSignature(buf, tiffBigEndian) == NeedMoreData):
		return needMore
	default:
		return noMatch
	}

	if len(buf) < 8 {
		// Check the magic number as soon as it is available
		if len(buf) >= 4 && byteOrder.Uint16(buf[2:4]) != tiffMagic {
			return noMatch
		}
		return needMore
	}
	if byteOrder.Uint16(buf[2:4]) != tiffMagic {
		return noMatch
	}

	// Get offset to first IFD
	ifdOffset := int(byteOrder.Uint32(buf[4:8]))
	if ifdOffset < 8 {
		return noMatch
	}
	return parseIFD(buf, ifdOffset, byteOrder)
}

// parseIFD scans the directory at offset. Entries are 12 bytes: tag, type,
// count and a 4-byte value field that holds SHORT and LONG values inline.
func parseIFD(buf []byte, offset int, byteOrder binary.ByteOrder) Outcome {
	if offset+2 > len(buf) {
		return needMore
	}
	numEntries := int(byteOrder.Uint16(buf[offset : offset+2]))
	offset += 2

	var width, height uint32
	for i := 0; i < numEntries; i++ {
		if offset+12 > len(buf) {
			return needMore
		}
		tag := byteOrder.Uint16(buf[offset : offset+2])
		dataType := byteOrder.Uint16(buf[offset+2 : offset+4])

		if tag == tiffTagImageWidth || tag == tiffTagImageLength {
			value, ok := readDimension(buf[offset+8:offset+12], dataType, byteOrder)
			if !ok {
				return noMatch
			}
			if tag == tiffTagImageWidth {
				width = value
			} else {
				height = value
			}
			if width != 0 && height != 0 {
				return resolved(TIFF, width, height)
			}
		}

		offset += 12
	}

	return noMatch
}

func readDimension(field []byte, dataType uint16, byteOrder binary.ByteOrder) (uint32, bool) {
	switch dataType {
	case tiffTypeShort:
		return uint32(byteOrder.Uint16(field[0:2])), true
	case tiffTypeLong:
		return byteOrder.Uint32(field[0:4]), true
	default:
		return 0, false
	}
}
