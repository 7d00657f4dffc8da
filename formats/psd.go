package formats

import "encoding/binary"

var psdSignature = []byte("8BPS")

// detectPSD handles Photoshop documents (version 1) and large documents
// (version 2). Layout: signature, version, 6 reserved bytes, channel count,
// then height and width as big-endian 32-bit values.
func detectPSD(buf []byte) Outcome {
	if st := matchSignature(buf, psdSignature); st != Resolved {
		return Outcome{Status: st}
	}

	if len(buf) < 6 {
		return needMore
	}
	if version := binary.BigEndian.Uint16(buf[4:6]); version != 1 && version != 2 {
		return noMatch
	}

	if len(buf) < 22 {
		return needMore
	}
	height := binary.BigEndian.Uint32(buf[14:18])
	width := binary.BigEndian.Uint32(buf[18:22])
	return resolved(PSD, width, height)
}
