package formats

import "encoding/binary"

var (
	gif87aSignature = []byte("GIF87a")
	gif89aSignature = []byte("GIF89a")
)

// detectGIF reads the logical screen width and height that directly follow
// the 6-byte signature.
func detectGIF(buf []byte) Outcome {
	st := matchSignature(buf, gif89aSignature)
	if st == NoMatch {
		st = matchSignature(buf, gif87aSignature)
	}
	if st != Resolved {
		return Outcome{Status: st}
	}

	if len(buf) < 10 {
		return needMore
	}
	width := binary.LittleEndian.Uint16(buf[6:8])
	height := binary.LittleEndian.Uint16(buf[8:10])
	return resolved(GIF, uint32(width), uint32(height))
}
