package formats

import (
	"bytes"
	"encoding/binary"
)

var (
	pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	pngIHDR      = []byte("IHDR")
)

// pngHeaderSize covers the signature, the IHDR length and type, and the two
// dimension fields.
const pngHeaderSize = 8 + 4 + 4 + 8

// detectPNG extracts the dimensions from the IHDR chunk, which must be the
// first chunk of the stream.
func detectPNG(buf []byte) Outcome {
	if st := matchSignature(buf, pngSignature); st != Resolved {
		return Outcome{Status: st}
	}

	if len(buf) < 16 {
		return needMore
	}
	// Chunk type (4 bytes) after the chunk length
	if !bytes.Equal(buf[12:16], pngIHDR) {
		return noMatch
	}

	if len(buf) < pngHeaderSize {
		return needMore
	}
	width := binary.BigEndian.Uint32(buf[16:20])
	height := binary.BigEndian.Uint32(buf[20:24])
	return resolved(PNG, width, height)
}
