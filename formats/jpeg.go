package formats

import "encoding/binary"

var jpegSignature = []byte{0xFF, 0xD8}

// JPEG markers with special handling during the segment walk.
const (
	jpegMarkerTEM = 0x01
	jpegMarkerSOI = 0xD8
	jpegMarkerEOI = 0xD9
	jpegMarkerSOS = 0xDA
)

// isSOF reports whether marker starts a frame. C4 (DHT), C8 (JPG) and CC (DAC)
// share the range but are not frame headers.
func isSOF(marker byte) bool {
	switch marker {
	case 0xC0, 0xC1, 0xC2, 0xC3, 0xC5, 0xC6, 0xC7, 0xC9, 0xCA, 0xCB, 0xCD, 0xCE, 0xCF:
		return true
	}
	return false
}

// isStandalone reports whether marker carries no length field.
func isStandalone(marker byte) bool {
	return marker == jpegMarkerTEM || marker == jpegMarkerSOI || (marker >= 0xD0 && marker <= 0xD7)
}

// detectJPEG walks the marker segments after SOI, skipping each one by its
// length field, until it reaches a Start-Of-Frame segment and reads its
// height and width.
func detectJPEG(buf []byte) Outcome {
	if st := matchSignature(buf, jpegSignature); st != Resolved {
		return Outcome{Status: st}
	}

	offset := 2
	for {
		if offset+2 > len(buf) {
			return needMore
		}
		if buf[offset] != 0xFF {
			return noMatch
		}

		markerType := buf[offset+1]
		// Fill bytes (0xFF) may precede a marker
		if markerType == 0xFF {
			offset++
			continue
		}

		if isStandalone(markerType) {
			offset += 2
			continue
		}
		if markerType == jpegMarkerEOI || markerType == jpegMarkerSOS {
			// Image data or end of image before any frame header
			return noMatch
		}

		// Read segment length
		if offset+4 > len(buf) {
			return needMore
		}
		length := int(binary.BigEndian.Uint16(buf[offset+2 : offset+4]))
		if length < 2 {
			return noMatch
		}

		if isSOF(markerType) {
			// Precision (1 byte), then height and width (big-endian)
			if offset+9 > len(buf) {
				return needMore
			}
			height := binary.BigEndian.Uint16(buf[offset+5 : offset+7])
			width := binary.BigEndian.Uint16(buf[offset+7 : offset+9])
			return resolved(JPEG, uint32(width), uint32(height))
		}

		offset += 2 + length
	}
}
