// Package fixtures builds minimal image headers for tests.
package fixtures

import (
	"encoding/binary"
	"fmt"
)

// PNG returns a signature, an IHDR chunk and an IEND chunk.
func PNG(width, height uint32) []byte {
	buf := []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, // PNG signature
		0x00, 0x00, 0x00, 0x0D, // IHDR chunk length (13)
		0x49, 0x48, 0x44, 0x52, // "IHDR"
	}
	buf = binary.BigEndian.AppendUint32(buf, width)
	buf = binary.BigEndian.AppendUint32(buf, height)
	buf = append(buf,
		0x08,                   // Bit depth
		0x02,                   // Color type (RGB)
		0x00,                   // Compression
		0x00,                   // Filter
		0x00,                   // Interlace
		0x00, 0x00, 0x00, 0x00, // CRC (dummy)
		0x00, 0x00, 0x00, 0x00, // IEND chunk length
		0x49, 0x45, 0x4E, 0x44, // "IEND"
		0xAE, 0x42, 0x60, 0x82, // CRC
	)
	return buf
}

// GIF returns a GIF89a header, logical screen descriptor and trailer.
func GIF(width, height uint16) []byte {
	buf := []byte("GIF89a")
	buf = binary.LittleEndian.AppendUint16(buf, width)
	buf = binary.LittleEndian.AppendUint16(buf, height)
	buf = append(buf,
		0x00, // Packed fields
		0x00, // Background color
		0x00, // Aspect ratio
		0x3B, // Trailer
	)
	return buf
}

// BMP returns a file header and a 40-byte BITMAPINFOHEADER. A negative height
// describes a top-down bitmap.
func BMP(width, height int32) []byte {
	buf := []byte{
		0x42, 0x4D, // "BM"
		0x00, 0x00, 0x00, 0x00, // File size (dummy)
		0x00, 0x00, // Reserved
		0x00, 0x00, // Reserved
		0x36, 0x00, 0x00, 0x00, // Offset to pixel data
		0x28, 0x00, 0x00, 0x00, // DIB header size (40)
	}
	buf = binary.LittleEndian.AppendUint32(buf, uint32(width))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(height))
	buf = append(buf,
		0x01, 0x00, // Planes
		0x18, 0x00, // Bits per pixel (24)
		0x00, 0x00, 0x00, 0x00, // Compression
		0x00, 0x00, 0x00, 0x00, // Image size
		0x00, 0x00, 0x00, 0x00, // X pixels per meter
		0x00, 0x00, 0x00, 0x00, // Y pixels per meter
		0x00, 0x00, 0x00, 0x00, // Colors used
		0x00, 0x00, 0x00, 0x00, // Important colors
	)
	return buf
}

// BMPCore returns a file header and a 12-byte OS/2 core header.
func BMPCore(width, height uint16) []byte {
	buf := []byte{
		0x42, 0x4D, // "BM"
		0x00, 0x00, 0x00, 0x00, // File size (dummy)
		0x00, 0x00, 0x00, 0x00, // Reserved
		0x1A, 0x00, 0x00, 0x00, // Offset to pixel data
		0x0C, 0x00, 0x00, 0x00, // DIB header size (12)
	}
	buf = binary.LittleEndian.AppendUint16(buf, width)
	buf = binary.LittleEndian.AppendUint16(buf, height)
	buf = append(buf,
		0x01, 0x00, // Planes
		0x18, 0x00, // Bits per pixel (24)
	)
	return buf
}

// PSD returns a version 1 Photoshop header.
func PSD(width, height uint32) []byte {
	buf := []byte{
		0x38, 0x42, 0x50, 0x53, // "8BPS"
		0x00, 0x01, // Version
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Reserved
		0x00, 0x03, // Channels
	}
	buf = binary.BigEndian.AppendUint32(buf, height)
	buf = binary.BigEndian.AppendUint32(buf, width)
	buf = append(buf,
		0x00, 0x08, // Depth
		0x00, 0x03, // Color mode (RGB)
	)
	return buf
}

// ByteOrder is satisfied by binary.LittleEndian and binary.BigEndian.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// TIFF returns a header whose first IFD sits after gap padding bytes and
// holds ImageWidth (LONG) and ImageLength (SHORT) behind an unrelated tag.
func TIFF(order ByteOrder, width uint32, height uint16, gap int) []byte {
	var buf []byte
	if order.String() == binary.LittleEndian.String() {
		buf = []byte{'I', 'I'}
	} else {
		buf = []byte{'M', 'M'}
	}
	buf = order.AppendUint16(buf, 42)
	buf = order.AppendUint32(buf, uint32(8+gap))
	buf = append(buf, make([]byte, gap)...)

	buf = order.AppendUint16(buf, 3) // Number of entries

	// NewSubfileType (LONG)
	buf = order.AppendUint16(buf, 0x00FE)
	buf = order.AppendUint16(buf, 4)
	buf = order.AppendUint32(buf, 1)
	buf = order.AppendUint32(buf, 0)

	// ImageWidth (LONG)
	buf = order.AppendUint16(buf, 0x0100)
	buf = order.AppendUint16(buf, 4)
	buf = order.AppendUint32(buf, 1)
	buf = order.AppendUint32(buf, width)

	// ImageLength (SHORT, left-justified in the value field)
	buf = order.AppendUint16(buf, 0x0101)
	buf = order.AppendUint16(buf, 3)
	buf = order.AppendUint32(buf, 1)
	buf = order.AppendUint16(buf, height)
	buf = order.AppendUint16(buf, 0)

	buf = order.AppendUint32(buf, 0) // Next IFD offset
	return buf
}

// WebPVP8 returns a RIFF container with a lossy key frame header.
func WebPVP8(width, height uint16) []byte {
	frame := []byte{
		0x10, 0x02, 0x00, // Frame tag: key frame, shown
		0x9D, 0x01, 0x2A, // Start code
	}
	frame = binary.LittleEndian.AppendUint16(frame, width&0x3FFF)
	frame = binary.LittleEndian.AppendUint16(frame, height&0x3FFF)
	return riff("VP8 ", frame)
}

// WebPVP8L returns a RIFF container with a lossless header.
func WebPVP8L(width, height uint32) []byte {
	bits := (width - 1) & 0x3FFF
	bits |= ((height - 1) & 0x3FFF) << 14
	payload := []byte{0x2F}
	payload = binary.LittleEndian.AppendUint32(payload, bits)
	return riff("VP8L", payload)
}

// WebPVP8X returns a RIFF container with an extended header and no flags set.
func WebPVP8X(width, height uint32) []byte {
	payload := []byte{
		0x00,             // Flags
		0x00, 0x00, 0x00, // Reserved
	}
	payload = appendUint24(payload, width-1)
	payload = appendUint24(payload, height-1)
	return riff("VP8X", payload)
}

func riff(tag string, payload []byte) []byte {
	padded := len(payload) + len(payload)%2

	buf := []byte("RIFF")
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+8+padded))
	buf = append(buf, "WEBP"...)
	buf = append(buf, tag...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(payload)))
	buf = append(buf, payload...)
	if padded != len(payload) {
		buf = append(buf, 0x00)
	}
	return buf
}

func appendUint24(b []byte, v uint32) []byte {
	return append(b, byte(v), byte(v>>8), byte(v>>16))
}

// Segment is a JPEG marker segment placed between SOI and the frame header.
type Segment struct {
	Marker  byte
	Payload []byte
}

// APP returns an APPn segment with payload bytes of filler.
func APP(n byte, size int) Segment {
	return Segment{Marker: 0xE0 + n, Payload: make([]byte, size)}
}

// COM returns a comment segment.
func COM(text string) Segment {
	return Segment{Marker: 0xFE, Payload: []byte(text)}
}

// JPEG returns SOI, the given segments, a baseline SOF0 frame header
// (sofMarker 0xC0) or any other frame marker, and EOI.
func JPEG(width, height uint16, sofMarker byte, segments ...Segment) []byte {
	buf := []byte{0xFF, 0xD8} // SOI
	for _, s := range segments {
		buf = append(buf, 0xFF, s.Marker)
		buf = binary.BigEndian.AppendUint16(buf, uint16(len(s.Payload)+2))
		buf = append(buf, s.Payload...)
	}
	buf = append(buf, 0xFF, sofMarker)
	buf = binary.BigEndian.AppendUint16(buf, 11) // Segment length
	buf = append(buf, 0x08)                      // Precision
	buf = binary.BigEndian.AppendUint16(buf, height)
	buf = binary.BigEndian.AppendUint16(buf, width)
	buf = append(buf,
		0x01,             // Components
		0x01, 0x11, 0x00, // Component 1
		0xFF, 0xD9, // EOI
	)
	return buf
}

// SVG returns a small document whose root element carries attrs verbatim.
func SVG(attrs string) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<!-- generated -->
<svg xmlns="http://www.w3.org/2000/svg" %s>
  <rect x="0" y="0" width="1" height="1"/>
</svg>
`, attrs))
}

// Pad appends n filler bytes to buf, as if the resource continued with image
// data.
func Pad(buf []byte, n int) []byte {
	out := make([]byte, len(buf), len(buf)+n)
	copy(out, buf)
	return append(out, make([]byte, n)...)
}
