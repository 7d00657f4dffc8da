package formats

import (
	"bytes"
	"encoding/binary"
)

var (
	riffSignature = []byte("RIFF")
	webpSignature = []byte("WEBP")
	vp8KeyFrame   = []byte{0x9D, 0x01, 0x2A}
)

const (
	vp8LSignature = 0x2F
	// Offset of the first chunk payload: RIFF header (12) + chunk tag and size (8).
	webpPayload = 20
)

// detectWebP reads the RIFF container header and dispatches on the first
// chunk tag: VP8 (lossy), VP8L (lossless) or VP8X (extended).
func detectWebP(buf []byte) Outcome {
	if st := matchSignature(buf, riffSignature); st != Resolved {
		return Outcome{Status: st}
	}
	if len(buf) < 12 {
		// Check the form type as soon as any of it is visible
		if len(buf) > 8 && matchSignature(buf[8:], webpSignature) == NoMatch {
			return noMatch
		}
		return needMore
	}
	if !bytes.Equal(buf[8:12], webpSignature) {
		return noMatch
	}

	if len(buf) < 16 {
		return needMore
	}
	switch string(buf[12:16]) {
	case "VP8 ":
		return parseVP8(buf)
	case "VP8L":
		return parseVP8L(buf)
	case "VP8X":
		return parseVP8X(buf)
	default:
		return noMatch
	}
}

// parseVP8 reads the lossy key frame header: 3 bytes of frame tag, the start
// code 9D 01 2A, then two little-endian 16-bit fields whose low 14 bits are
// width and height.
func parseVP8(buf []byte) Outcome {
	if len(buf) < webpPayload+10 {
		return needMore
	}
	frame := buf[webpPayload:]
	if !bytes.Equal(frame[3:6], vp8KeyFrame) {
		return noMatch
	}

	width := binary.LittleEndian.Uint16(frame[6:8]) & 0x3FFF
	height := binary.LittleEndian.Uint16(frame[8:10]) & 0x3FFF
	return resolved(WEBP, uint32(width), uint32(height))
}

// parseVP8L reads the lossless header: a 0x2F signature byte followed by a
// little-endian bit stream holding width-1 and height-1 in 14 bits each.
func parseVP8L(buf []byte) Outcome {
	if len(buf) < webpPayload+5 {
		return needMore
	}
	header := buf[webpPayload:]
	if header[0] != vp8LSignature {
		return noMatch
	}

	bits := binary.LittleEndian.Uint32(header[1:5])
	width := bits&0x3FFF + 1
	height := (bits>>14)&0x3FFF + 1
	return resolved(WEBP, width, height)
}

// parseVP8X reads the extended header: a flags byte, 3 reserved bytes, then
// canvas width-1 and height-1 as little-endian 24-bit values.
func parseVP8X(buf []byte) Outcome {
	if len(buf) < webpPayload+10 {
		return needMore
	}
	header := buf[webpPayload:]

	width := uint24(header[4:7]) + 1
	height := uint24(header[7:10]) + 1
	return resolved(WEBP, width, height)
}

func uint24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}
